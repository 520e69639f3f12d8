package fans

import "errors"

var (
	// ErrHardwareAcquisition is wrapped by errors that occur while claiming a pin or channel
	ErrHardwareAcquisition = errors.New("unable to acquire fan hardware")
	// ErrHardwareWrite is wrapped by errors that occur while applying a duty cycle
	ErrHardwareWrite = errors.New("unable to set fan duty cycle")
	// ErrClosed is returned when writing to a target that has already been released
	ErrClosed = errors.New("fan target is closed")
)
