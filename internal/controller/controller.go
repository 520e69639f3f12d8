package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/markusressel/fan2pwm/internal/sensors"
	"github.com/markusressel/fan2pwm/internal/ui"
)

// ErrSensorRead is wrapped by errors caused by the temperature sensor
var ErrSensorRead = errors.New("unable to get temperature")

// Actuator is the part of a fans.Fan driven by a FanController
type Actuator interface {
	GetId() string
	Update(temperature uint8) error
	SetDutyFraction(duty float64) error
}

type FanController interface {
	// Run updates the fan speed every updateRate until ctx is done or an update fails
	Run(ctx context.Context) error
	UpdateFanSpeed() error
}

type fanController struct {
	fan        Actuator
	sensor     sensors.Sensor
	updateRate time.Duration
	failSafe   bool

	// lastTemperature is only valid if updated is true
	lastTemperature uint8
	updated         bool
}

func NewFanController(fan Actuator, sensor sensors.Sensor, updateRate time.Duration, failSafe bool) FanController {
	return &fanController{
		fan:        fan,
		sensor:     sensor,
		updateRate: updateRate,
		failSafe:   failSafe,
	}
}

func (f *fanController) Run(ctx context.Context) error {
	ui.Info("Starting controller loop for fan '%s' (update rate: %v)", f.fan.GetId(), f.updateRate)

	if err := f.UpdateFanSpeed(); err != nil {
		return f.handleError(err)
	}

	tick := time.NewTicker(f.updateRate)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			ui.Info("Stopping controller loop for fan '%s'", f.fan.GetId())
			return nil
		case <-tick.C:
			if err := f.UpdateFanSpeed(); err != nil {
				return f.handleError(err)
			}
		}
	}
}

// UpdateFanSpeed reads the sensor and updates the fan, if the temperature
// changed since the last successful update.
func (f *fanController) UpdateFanSpeed() error {
	value, err := f.sensor.GetValue()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSensorRead, err)
	}

	temperature, clamped := sensors.ToIndex(value)
	if clamped {
		ui.Warning("Temperature %.1f°C of sensor '%s' is out of range, using %d°C", value, f.sensor.GetId(), temperature)
	}

	if f.updated && f.lastTemperature == temperature {
		return nil
	}

	if err = f.fan.Update(temperature); err != nil {
		return err
	}
	f.lastTemperature = temperature
	f.updated = true

	ui.Debug("Updated fan '%s' for %d°C", f.fan.GetId(), temperature)
	return nil
}

func (f *fanController) handleError(err error) error {
	fanId := f.fan.GetId()
	ui.Error("Error in FanController for fan %s: %v", fanId, err)

	if f.failSafe {
		ui.Info("Trying to run fan %s at full speed...", fanId)
		if err1 := f.fan.SetDutyFraction(1); err1 != nil {
			ui.Warning("Unable to set fan %s to full speed, make sure it is running!", fanId)
		}
	}

	return err
}
