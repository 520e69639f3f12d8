package sensors

import (
	"fmt"
	"sync"

	"github.com/asecurityteam/rolling"
	"github.com/markusressel/fan2pwm/internal/configuration"
	"github.com/markusressel/fan2pwm/internal/util"
)

// milliDegreesPerDegree is the scale of thermal zone values
const milliDegreesPerDegree = 1000.0

// ThermalSensor reads a temperature from a sysfs thermal zone
type ThermalSensor struct {
	Config configuration.SensorConfig `json:"configuration"`

	path string

	mu        sync.RWMutex
	window    *rolling.PointPolicy
	filled    bool
	movingAvg float64
}

func NewThermalSensor(config configuration.SensorConfig) (*ThermalSensor, error) {
	path, err := util.ExpandPath(config.Path)
	if err != nil {
		return nil, fmt.Errorf("sensor %s: %w", config.ID, err)
	}
	windowSize := config.RollingWindowSize
	if windowSize < 1 {
		windowSize = 1
	}
	config.RollingWindowSize = windowSize

	return &ThermalSensor{
		Config: config,
		path:   path,
		window: util.CreateRollingWindow(windowSize),
	}, nil
}

func (sensor *ThermalSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor *ThermalSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor *ThermalSensor) GetValue() (float64, error) {
	value, err := util.ReadIntFromFile(sensor.path)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
	}
	celsius := ParseCelsius(value)

	sensor.mu.Lock()
	defer sensor.mu.Unlock()

	// new windows are filled with zeros
	if !sensor.filled {
		util.FillWindow(sensor.window, sensor.Config.RollingWindowSize, celsius)
		sensor.filled = true
	} else {
		sensor.window.Append(celsius)
	}
	sensor.movingAvg = util.GetWindowAvg(sensor.window)
	return sensor.movingAvg, nil
}

func (sensor *ThermalSensor) GetMovingAvg() float64 {
	sensor.mu.RLock()
	defer sensor.mu.RUnlock()
	return sensor.movingAvg
}

// ParseCelsius converts a raw thermal zone value in milli-degrees to degrees Celsius
func ParseCelsius(value int) float64 {
	return float64(value) / milliDegreesPerDegree
}
