package fans

import (
	"fmt"
	"sync"

	"github.com/markusressel/fan2pwm/internal/configuration"
	"github.com/markusressel/fan2pwm/internal/curves"
	"github.com/markusressel/fan2pwm/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// CarrierFrequency is the PWM frequency used for both target kinds, in Hz
const CarrierFrequency = 20000

var (
	FanMap = cmap.New[*Fan]()
)

// Target is the hardware a Fan drives its duty cycle on.
// It is implemented by *SoftwarePin and *HardwareChannel only.
type Target interface {
	// String describes the target for log and error messages
	String() string
	Close() error

	target()
}

// Options selects the devices the pin or channel of a fan belongs to
type Options struct {
	GpioChip string
	PwmChip  string
}

// Fan applies the duty table compiled from its curve to its target
type Fan struct {
	id     string
	table  curves.DutyTable
	target Target

	mu              sync.RWMutex
	updates         int
	lastTemperature uint8
	lastDuty        float64
}

// NewFan creates the fan described by the given (validated) configuration
func NewFan(config configuration.FanConfig) (*Fan, error) {
	curve := curves.FromConfig(config.Curve)
	opts := Options{
		GpioChip: config.GpioChip,
		PwmChip:  config.PwmChip,
	}

	switch {
	case config.Pin != nil && config.HardwarePwmChannel != nil:
		return nil, fmt.Errorf("%w: fan %s: only one of pin | hardwarePwmChannel can be used", configuration.ErrInvalid, config.ID)
	case config.Pin != nil:
		return NewSoftwarePinFan(config.ID, *config.Pin, curve, opts)
	case config.HardwarePwmChannel != nil:
		return NewHardwareChannelFan(config.ID, *config.HardwarePwmChannel, curve, opts)
	default:
		return nil, fmt.Errorf("%w: fan %s: either pin or hardwarePwmChannel needs to be present", configuration.ErrInvalid, config.ID)
	}
}

// NewSoftwarePinFan claims the given GPIO line as an output and drives it
// with a software generated PWM signal.
func NewSoftwarePinFan(id string, pin int, curve []curves.ControlPoint, opts Options) (*Fan, error) {
	table, err := compile(id, curve)
	if err != nil {
		return nil, err
	}

	target, err := openSoftwarePin(opts.GpioChip, pin)
	if err != nil {
		return nil, fmt.Errorf("%w: fan %s: %w", ErrHardwareAcquisition, id, err)
	}

	return newFan(id, table, target), nil
}

// NewHardwareChannelFan initializes the given hardware PWM channel
// with the carrier frequency and a duty cycle of 0.
func NewHardwareChannelFan(id string, channel int, curve []curves.ControlPoint, opts Options) (*Fan, error) {
	if err := configuration.ValidateHardwarePwmChannel(channel); err != nil {
		return nil, fmt.Errorf("fan %s: %w", id, err)
	}

	table, err := compile(id, curve)
	if err != nil {
		return nil, err
	}

	target, err := openHardwareChannel(opts.PwmChip, channel, CarrierFrequency)
	if err != nil {
		return nil, fmt.Errorf("%w: fan %s: %w", ErrHardwareAcquisition, id, err)
	}

	return newFan(id, table, target), nil
}

func compile(id string, curve []curves.ControlPoint) (curves.DutyTable, error) {
	table, err := curves.Compile(curve)
	if err != nil {
		return table, fmt.Errorf("%w: fan %s: %w", configuration.ErrInvalid, id, err)
	}
	return table, nil
}

func newFan(id string, table curves.DutyTable, target Target) *Fan {
	return &Fan{
		id:     id,
		table:  table,
		target: target,
	}
}

func (fan *Fan) GetId() string {
	return fan.id
}

// GetTable returns a copy of the duty table of this fan
func (fan *Fan) GetTable() curves.DutyTable {
	return fan.table
}

func (fan *Fan) GetTarget() Target {
	return fan.target
}

// GetLastDuty returns the duty cycle in [0..1] that was last applied successfully
func (fan *Fan) GetLastDuty() float64 {
	fan.mu.RLock()
	defer fan.mu.RUnlock()
	return fan.lastDuty
}

// GetLastTemperature returns the temperature of the last successful Update,
// ok is false if there was none yet.
func (fan *Fan) GetLastTemperature() (temperature uint8, ok bool) {
	fan.mu.RLock()
	defer fan.mu.RUnlock()
	return fan.lastTemperature, fan.updates > 0
}

// Update applies the duty cycle the table holds for the given temperature
func (fan *Fan) Update(temperature uint8) error {
	duty, err := fan.apply(fan.table.DutyFraction(temperature))
	if err != nil {
		return err
	}

	fan.mu.Lock()
	defer fan.mu.Unlock()
	fan.updates++
	fan.lastTemperature = temperature
	fan.lastDuty = duty
	return nil
}

// SetDutyFraction applies the given duty cycle in [0..1], regardless of the table
func (fan *Fan) SetDutyFraction(duty float64) error {
	duty, err := fan.apply(duty)
	if err != nil {
		return err
	}

	fan.mu.Lock()
	defer fan.mu.Unlock()
	fan.lastDuty = duty
	return nil
}

// apply writes duty coerced to [0..1] to the target and returns the written value
func (fan *Fan) apply(duty float64) (applied float64, err error) {
	duty = util.Coerce(duty, 0, 1)
	switch target := fan.target.(type) {
	case *SoftwarePin:
		err = target.SetPwmFrequency(CarrierFrequency, duty)
	case *HardwareChannel:
		err = target.SetDutyCycle(duty)
	default:
		err = fmt.Errorf("unsupported target type %T", target)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: fan %s (%s): %w", ErrHardwareWrite, fan.id, fan.target, err)
	}
	return duty, nil
}

// Close releases the hardware target of this fan
func (fan *Fan) Close() error {
	return fan.target.Close()
}
