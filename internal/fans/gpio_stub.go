//go:build !linux

package fans

import "errors"

func openGpioLine(chip string, offset int) (gpioLine, error) {
	return nil, errors.New("gpio character devices are unsupported on this platform")
}

var openGpioLineFn = openGpioLine
