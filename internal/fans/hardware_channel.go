package fans

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/markusressel/fan2pwm/internal/util"
)

const (
	polarityNormal = "normal"
)

var (
	pwmSysfsBase = "/sys/class/pwm"
	// exportTimeout limits the wait for the channel directory to appear after an export
	exportTimeout = 500 * time.Millisecond
)

// HardwareChannel drives a PWM channel of a pwmchip using the sysfs interface
// at /sys/class/pwm/pwmchipN/pwmC
type HardwareChannel struct {
	chipPath string
	pwmPath  string
	channel  int

	mu       sync.Mutex
	periodNs uint64
	closed   bool
}

// openHardwareChannel initializes the channel of the given pwmchip,
// chip is either the name of a chip in /sys/class/pwm or the absolute path of its directory.
func openHardwareChannel(chip string, channel int, frequency float64) (*HardwareChannel, error) {
	if frequency <= 0 {
		return nil, fmt.Errorf("invalid frequency %.1f Hz", frequency)
	}

	chipPath := chip
	if !filepath.IsAbs(chipPath) {
		chipPath = filepath.Join(pwmSysfsBase, chip)
	}
	npwm, err := util.ReadIntFromFile(filepath.Join(chipPath, "npwm"))
	if err != nil {
		return nil, fmt.Errorf("pwm chip %s: %w", chip, err)
	}
	if channel < 0 || channel >= npwm {
		return nil, fmt.Errorf("pwm chip %s provides %d channel(s), cannot use channel %d", chip, npwm, channel)
	}

	c := &HardwareChannel{
		chipPath: chipPath,
		pwmPath:  filepath.Join(chipPath, fmt.Sprintf("pwm%d", channel)),
		channel:  channel,
		periodNs: uint64(math.Round(float64(time.Second) / frequency)),
	}

	exported, err := c.ensureExported()
	if err != nil {
		return nil, err
	}

	// the period can only be changed while disabled and may never be smaller than the duty cycle
	_ = c.writeAttribute("enable", "0")
	steps := []struct {
		name  string
		value string
	}{
		{"duty_cycle", "0"},
		{"period", strconv.FormatUint(c.periodNs, 10)},
		{"polarity", polarityNormal},
		{"enable", "1"},
	}
	for _, step := range steps {
		if err = c.writeAttribute(step.name, step.value); err != nil {
			if exported {
				err = errors.Join(err, c.unexport())
			}
			return nil, err
		}
	}

	return c, nil
}

func (c *HardwareChannel) target() {}

func (c *HardwareChannel) String() string {
	return fmt.Sprintf("pwm %s channel %d", filepath.Base(c.chipPath), c.channel)
}

func (c *HardwareChannel) GetChannel() int {
	return c.channel
}

// ensureExported exports the channel unless its directory exists already,
// exported reports whether this call did the export.
func (c *HardwareChannel) ensureExported() (exported bool, err error) {
	if _, err = os.Stat(c.pwmPath); err == nil {
		return false, nil
	}

	err = util.WriteIntToFile(c.channel, filepath.Join(c.chipPath, "export"))
	if err != nil {
		// exported by someone else in the meantime
		if _, statErr := os.Stat(c.pwmPath); statErr == nil {
			return false, nil
		}
		return false, fmt.Errorf("export %s: %w", c, err)
	}

	deadline := time.Now().Add(exportTimeout)
	for time.Now().Before(deadline) {
		if _, err = os.Stat(c.pwmPath); err == nil {
			return true, nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, err = os.Stat(c.pwmPath); err != nil {
		return true, errors.Join(
			fmt.Errorf("%s not available after export: %w", c, err),
			c.unexport(),
		)
	}
	return true, nil
}

func (c *HardwareChannel) unexport() error {
	return util.WriteIntToFile(c.channel, filepath.Join(c.chipPath, "unexport"))
}

// SetDutyCycle sets the active part of the period, dutyCycle is coerced to [0..1]
func (c *HardwareChannel) SetDutyCycle(dutyCycle float64) error {
	dutyCycle = util.Coerce(dutyCycle, 0, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	dutyNs := uint64(math.Round(float64(c.periodNs) * dutyCycle))
	return c.writeAttribute("duty_cycle", strconv.FormatUint(dutyNs, 10))
}

// Close disables and unexports the channel
func (c *HardwareChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	return errors.Join(
		c.writeAttribute("enable", "0"),
		c.unexport(),
	)
}

func (c *HardwareChannel) writeAttribute(name string, value string) error {
	if err := util.WriteStringToFile(value, filepath.Join(c.pwmPath, name)); err != nil {
		return fmt.Errorf("%s: write %s: %w", c, name, err)
	}
	return nil
}
