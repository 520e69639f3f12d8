package configuration

import "time"

type FanConfig struct {
	ID string `json:"id"`

	// Pin is the GPIO line offset of a fan driven by software PWM
	Pin *int `json:"pin,omitempty"`
	// GpioChip is the GPIO character device the pin belongs to
	GpioChip string `json:"gpioChip"`

	// HardwarePwmChannel is the index of a hardware PWM channel
	HardwarePwmChannel *int `json:"hardwarePwmChannel,omitempty"`
	// PwmChip is the sysfs pwmchip the hardware channel belongs to
	PwmChip string `json:"pwmChip"`

	// UpdateRate is the interval between two fan speed updates,
	// plain integers are interpreted as milliseconds
	UpdateRate time.Duration `json:"updateRate"`

	// FailSafe drives the fan at full speed before giving up on a failed update
	FailSafe bool `json:"failSafe"`

	Curve []CurvePointConfig `json:"curve"`
}

type CurvePointConfig struct {
	Temperature int `json:"temperature"`
	Percentage  int `json:"percentage"`
}
