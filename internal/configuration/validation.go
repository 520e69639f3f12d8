package configuration

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

// ErrInvalid is wrapped by every error caused by an invalid configuration
var ErrInvalid = errors.New("invalid configuration")

// SupportedHardwarePwmChannels lists the hardware PWM channels that can drive a fan
var SupportedHardwarePwmChannels = []int{0, 1}

const (
	MinTemperature = 0
	MaxTemperature = 255
	MinPercentage  = 0
	MaxPercentage  = 100
)

func invalidf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, a...))
}

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	err := ValidateFan(config.Fan)
	if err != nil {
		return err
	}
	err = validateSensor(config.Sensor)
	if err != nil {
		return err
	}
	if config.Statistics.Enabled {
		if err = validatePort("statistics", config.Statistics.Port); err != nil {
			return err
		}
	}
	if config.Api.Enabled {
		if err = validatePort("api", config.Api.Port); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFan checks the actuation selector, update rate and curve of a fan.
func ValidateFan(fanConfig FanConfig) error {
	if len(fanConfig.ID) <= 0 {
		return invalidf("fan: missing id")
	}

	if fanConfig.Pin != nil && fanConfig.HardwarePwmChannel != nil {
		return invalidf("fan %s: only one of pin | hardwarePwmChannel can be used", fanConfig.ID)
	}
	if fanConfig.Pin == nil && fanConfig.HardwarePwmChannel == nil {
		return invalidf("fan %s: either pin or hardwarePwmChannel needs to be present", fanConfig.ID)
	}

	if fanConfig.Pin != nil {
		if *fanConfig.Pin < 0 {
			return invalidf("fan %s: invalid pin %d, must be >= 0", fanConfig.ID, *fanConfig.Pin)
		}
		if len(fanConfig.GpioChip) <= 0 {
			return invalidf("fan %s: missing gpioChip", fanConfig.ID)
		}
	}

	if fanConfig.HardwarePwmChannel != nil {
		if err := ValidateHardwarePwmChannel(*fanConfig.HardwarePwmChannel); err != nil {
			return fmt.Errorf("fan %s: %w", fanConfig.ID, err)
		}
		if len(fanConfig.PwmChip) <= 0 {
			return invalidf("fan %s: missing pwmChip", fanConfig.ID)
		}
	}

	if fanConfig.UpdateRate <= 0 {
		return invalidf("fan %s: updateRate must be > 0", fanConfig.ID)
	}

	return ValidateCurve(fanConfig.ID, fanConfig.Curve)
}

// ValidateHardwarePwmChannel fails for channels other than SupportedHardwarePwmChannels
func ValidateHardwarePwmChannel(channel int) error {
	if !slices.Contains(SupportedHardwarePwmChannels, channel) {
		return invalidf("unsupported hardwarePwmChannel %d, use one of: %v", channel, SupportedHardwarePwmChannels)
	}
	return nil
}

// ValidateCurve requires at least one control point, values within range and
// strictly increasing temperatures.
func ValidateCurve(fanId string, curve []CurvePointConfig) error {
	if len(curve) <= 0 {
		return invalidf("fan %s: curve requires at least one control point", fanId)
	}

	for idx, point := range curve {
		if point.Temperature < MinTemperature || point.Temperature > MaxTemperature {
			return invalidf("fan %s: curve point %d: temperature %d out of range [%d..%d]", fanId, idx, point.Temperature, MinTemperature, MaxTemperature)
		}
		if point.Percentage < MinPercentage || point.Percentage > MaxPercentage {
			return invalidf("fan %s: curve point %d: percentage %d out of range [%d..%d]", fanId, idx, point.Percentage, MinPercentage, MaxPercentage)
		}
		if idx > 0 && point.Temperature <= curve[idx-1].Temperature {
			return invalidf("fan %s: curve point %d: temperatures must be strictly increasing (%d after %d)", fanId, idx, point.Temperature, curve[idx-1].Temperature)
		}
	}

	return nil
}

func validateSensor(sensorConfig SensorConfig) error {
	if len(sensorConfig.ID) <= 0 {
		return invalidf("sensor: missing id")
	}
	if len(sensorConfig.Path) <= 0 {
		return invalidf("sensor: missing path")
	}
	if sensorConfig.RollingWindowSize < 1 {
		return invalidf("sensor: rollingWindowSize must be >= 1")
	}
	return nil
}

func validatePort(name string, port int) error {
	if port <= 0 || port > 65535 {
		return invalidf("%s: invalid port %d", name, port)
	}
	return nil
}
