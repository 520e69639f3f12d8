package sensors

import (
	"math"

	"github.com/markusressel/fan2pwm/internal/configuration"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	SensorMap = cmap.New[Sensor]()
)

type Sensor interface {
	GetId() string

	GetConfig() configuration.SensorConfig

	// GetValue reads the current temperature in degrees Celsius,
	// averaged over the configured rolling window
	GetValue() (float64, error)

	// GetMovingAvg returns the value of the last successful read
	GetMovingAvg() float64
}

func NewSensor(config configuration.SensorConfig) (Sensor, error) {
	return NewThermalSensor(config)
}

// ToIndex converts a temperature in degrees Celsius to a duty table index.
// The value is rounded half away from zero and clamped to [0..255],
// clamped is true if the rounded value was out of range.
func ToIndex(celsius float64) (index uint8, clamped bool) {
	if math.IsNaN(celsius) {
		return 0, true
	}
	rounded := math.Round(celsius)
	switch {
	case rounded < configuration.MinTemperature:
		return configuration.MinTemperature, true
	case rounded > configuration.MaxTemperature:
		return configuration.MaxTemperature, true
	default:
		return uint8(rounded), false
	}
}
