//go:build linux

package fans

import (
	"github.com/warthog618/go-gpiocdev"
)

const gpioConsumer = "fan2pwm"

func openGpioLine(chip string, offset int) (gpioLine, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(gpioConsumer))
	if err != nil {
		return nil, err
	}
	return line, nil
}

var openGpioLineFn = openGpioLine
