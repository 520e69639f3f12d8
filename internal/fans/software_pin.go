package fans

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/markusressel/fan2pwm/internal/util"
)

// gpioLine is the part of a requested GPIO line a SoftwarePin needs
type gpioLine interface {
	SetValue(value int) error
	Close() error
}

// SoftwarePin drives a GPIO output line with a PWM signal generated by a goroutine.
// Timing is best effort and depends on the scheduler.
type SoftwarePin struct {
	chip string
	pin  int

	mu   sync.Mutex
	line gpioLine
	stop chan struct{}
	done chan struct{}

	errMu    sync.Mutex
	asyncErr error
}

func openSoftwarePin(chip string, pin int) (*SoftwarePin, error) {
	line, err := openGpioLineFn(chip, pin)
	if err != nil {
		return nil, fmt.Errorf("gpio %s line %d: %w", chip, pin, err)
	}
	return &SoftwarePin{
		chip: chip,
		pin:  pin,
		line: line,
	}, nil
}

func (p *SoftwarePin) target() {}

func (p *SoftwarePin) String() string {
	return fmt.Sprintf("gpio %s line %d", p.chip, p.pin)
}

func (p *SoftwarePin) GetPin() int {
	return p.pin
}

// SetPwmFrequency (re)starts the signal on the line with the given frequency in Hz
// and duty cycle in [0..1]. A duty cycle of 0 or 1 drives a constant level.
// Errors of the running signal are returned by the next call.
func (p *SoftwarePin) SetPwmFrequency(frequency float64, dutyCycle float64) error {
	if frequency <= 0 {
		return fmt.Errorf("invalid frequency %.1f Hz", frequency)
	}
	dutyCycle = util.Coerce(dutyCycle, 0, 1)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.line == nil {
		return ErrClosed
	}

	p.stopSignal()
	if err := p.takeAsyncError(); err != nil {
		return err
	}

	switch dutyCycle {
	case 0:
		return p.line.SetValue(0)
	case 1:
		return p.line.SetValue(1)
	}

	period := time.Duration(float64(time.Second) / frequency)
	high := time.Duration(float64(period) * dutyCycle)
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.signal(p.line, high, period-high, p.stop, p.done)
	return nil
}

func (p *SoftwarePin) signal(line gpioLine, high time.Duration, low time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}

		if err := line.SetValue(1); err != nil {
			p.setAsyncError(err)
			return
		}
		time.Sleep(high)
		if err := line.SetValue(0); err != nil {
			p.setAsyncError(err)
			return
		}
		time.Sleep(low)
	}
}

// stopSignal waits for a running signal goroutine to exit, p.mu must be held
func (p *SoftwarePin) stopSignal() {
	if p.stop == nil {
		return
	}
	close(p.stop)
	<-p.done
	p.stop = nil
	p.done = nil
}

func (p *SoftwarePin) setAsyncError(err error) {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	p.asyncErr = err
}

func (p *SoftwarePin) takeAsyncError() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	err := p.asyncErr
	p.asyncErr = nil
	return err
}

// Close stops the signal, drives the line low and releases it
func (p *SoftwarePin) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.line == nil {
		return nil
	}
	p.stopSignal()

	err := errors.Join(
		p.takeAsyncError(),
		p.line.SetValue(0),
		p.line.Close(),
	)
	p.line = nil
	return err
}
