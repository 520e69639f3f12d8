package fans

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/markusressel/fan2pwm/internal/configuration"
	"github.com/markusressel/fan2pwm/internal/curves"
	"github.com/stretchr/testify/assert"
)

type fakeGpioLine struct {
	mu     sync.Mutex
	chip   string
	offset int
	value  int
	writes int
	closed bool
	err    error
}

func (l *fakeGpioLine) SetValue(value int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.value = value
	l.writes++
	return nil
}

func (l *fakeGpioLine) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

func (l *fakeGpioLine) setError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

func (l *fakeGpioLine) state() (value int, writes int, closed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.writes, l.closed
}

func withFakeGpioLine(t *testing.T, line *fakeGpioLine) *int {
	requests := 0
	old := openGpioLineFn
	openGpioLineFn = func(chip string, offset int) (gpioLine, error) {
		requests++
		line.chip = chip
		line.offset = offset
		return line, nil
	}
	t.Cleanup(func() { openGpioLineFn = old })
	return &requests
}

var testCurve = []curves.ControlPoint{
	{Temperature: 30, Percentage: 0},
	{Temperature: 70, Percentage: 100},
}

func TestNewSoftwarePinFan(t *testing.T) {
	// GIVEN
	line := &fakeGpioLine{}
	withFakeGpioLine(t, line)

	// WHEN
	fan, err := NewSoftwarePinFan("cpu", 18, testCurve, Options{GpioChip: "gpiochip0"})

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "cpu", fan.GetId())
	assert.Equal(t, "gpiochip0", line.chip)
	assert.Equal(t, 18, line.offset)
	assert.Equal(t, "gpio gpiochip0 line 18", fan.GetTarget().String())
	assert.Equal(t, 18, fan.GetTarget().(*SoftwarePin).GetPin())
	_, ok := fan.GetLastTemperature()
	assert.False(t, ok)
}

func TestNewSoftwarePinFan_AcquisitionFails(t *testing.T) {
	// GIVEN
	old := openGpioLineFn
	openGpioLineFn = func(chip string, offset int) (gpioLine, error) {
		return nil, errors.New("device or resource busy")
	}
	t.Cleanup(func() { openGpioLineFn = old })

	// WHEN
	fan, err := NewSoftwarePinFan("cpu", 18, testCurve, Options{GpioChip: "gpiochip0"})

	// THEN
	assert.Nil(t, fan)
	assert.ErrorIs(t, err, ErrHardwareAcquisition)
	assert.ErrorContains(t, err, "device or resource busy")
}

func TestNewSoftwarePinFan_InvalidCurve(t *testing.T) {
	// GIVEN
	line := &fakeGpioLine{}
	requests := withFakeGpioLine(t, line)

	// WHEN
	fan, err := NewSoftwarePinFan("cpu", 18, nil, Options{GpioChip: "gpiochip0"})

	// THEN
	assert.Nil(t, fan)
	assert.ErrorIs(t, err, configuration.ErrInvalid)
	assert.ErrorIs(t, err, curves.ErrEmptyCurve)
	assert.Equal(t, 0, *requests)
}

func TestSoftwarePinFan_UpdateWithSteadyLevels(t *testing.T) {
	// GIVEN
	line := &fakeGpioLine{}
	withFakeGpioLine(t, line)
	fan, _ := NewSoftwarePinFan("cpu", 18, testCurve, Options{GpioChip: "gpiochip0"})

	// WHEN
	err := fan.Update(90)

	// THEN
	assert.NoError(t, err)
	value, writes, _ := line.state()
	assert.Equal(t, 1, value)
	assert.Equal(t, 1, writes)
	assert.Equal(t, 1.0, fan.GetLastDuty())

	// WHEN
	err = fan.Update(10)

	// THEN
	assert.NoError(t, err)
	value, writes, _ = line.state()
	assert.Equal(t, 0, value)
	assert.Equal(t, 2, writes)
	assert.Equal(t, 0.0, fan.GetLastDuty())
	temperature, ok := fan.GetLastTemperature()
	assert.True(t, ok)
	assert.Equal(t, uint8(10), temperature)
}

func TestSoftwarePinFan_UpdateStartsSignal(t *testing.T) {
	// GIVEN
	line := &fakeGpioLine{}
	withFakeGpioLine(t, line)
	fan, _ := NewSoftwarePinFan("cpu", 18, testCurve, Options{GpioChip: "gpiochip0"})

	// WHEN
	err := fan.Update(50)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 0.5, fan.GetLastDuty())
	assert.Eventually(t, func() bool {
		_, writes, _ := line.state()
		return writes > 10
	}, time.Second, time.Millisecond)

	// WHEN
	err = fan.Close()

	// THEN
	assert.NoError(t, err)
	value, writes, closed := line.state()
	assert.Equal(t, 0, value)
	assert.True(t, closed)
	time.Sleep(5 * time.Millisecond)
	_, writesAfterClose, _ := line.state()
	assert.Equal(t, writes, writesAfterClose)
}

func TestSoftwarePinFan_WriteFails(t *testing.T) {
	// GIVEN
	line := &fakeGpioLine{}
	withFakeGpioLine(t, line)
	fan, _ := NewSoftwarePinFan("cpu", 18, testCurve, Options{GpioChip: "gpiochip0"})
	table := fan.GetTable()
	line.setError(errors.New("input/output error"))

	// WHEN
	err := fan.Update(90)

	// THEN
	assert.ErrorIs(t, err, ErrHardwareWrite)
	assert.ErrorContains(t, err, "fan cpu (gpio gpiochip0 line 18)")
	assert.Equal(t, table, fan.GetTable())
	_, ok := fan.GetLastTemperature()
	assert.False(t, ok)
}

func TestSoftwarePinFan_SignalErrorIsReportedByNextWrite(t *testing.T) {
	// GIVEN
	line := &fakeGpioLine{}
	withFakeGpioLine(t, line)
	fan, _ := NewSoftwarePinFan("cpu", 18, testCurve, Options{GpioChip: "gpiochip0"})
	pin := fan.GetTarget().(*SoftwarePin)
	line.setError(errors.New("input/output error"))

	// WHEN
	err := fan.Update(50)
	done := pin.done
	<-done
	line.setError(nil)
	err2 := fan.Update(90)

	// THEN
	assert.NoError(t, err)
	assert.ErrorIs(t, err2, ErrHardwareWrite)
	assert.ErrorContains(t, err2, "input/output error")
}

func TestSoftwarePinFan_UpdateAfterClose(t *testing.T) {
	// GIVEN
	line := &fakeGpioLine{}
	withFakeGpioLine(t, line)
	fan, _ := NewSoftwarePinFan("cpu", 18, testCurve, Options{GpioChip: "gpiochip0"})

	// WHEN
	assert.NoError(t, fan.Close())
	assert.NoError(t, fan.Close())
	err := fan.Update(90)

	// THEN
	assert.ErrorIs(t, err, ErrHardwareWrite)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSoftwarePin_SetPwmFrequencyCoercesDuty(t *testing.T) {
	// GIVEN
	line := &fakeGpioLine{}
	withFakeGpioLine(t, line)
	pin, err := openSoftwarePin("gpiochip0", 12)
	assert.NoError(t, err)

	// WHEN
	err = pin.SetPwmFrequency(CarrierFrequency, 1.3)

	// THEN
	assert.NoError(t, err)
	value, _, _ := line.state()
	assert.Equal(t, 1, value)
	assert.Error(t, pin.SetPwmFrequency(0, 0.5))
}
