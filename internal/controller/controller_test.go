package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/markusressel/fan2pwm/internal/configuration"
	"github.com/markusressel/fan2pwm/internal/fans"
	"github.com/stretchr/testify/assert"
)

type MockSensor struct {
	ID     string
	Values []float64
	Err    error

	reads int
}

func (sensor *MockSensor) GetId() string {
	return sensor.ID
}

func (sensor *MockSensor) GetConfig() configuration.SensorConfig {
	return configuration.SensorConfig{ID: sensor.ID}
}

// GetValue returns the configured values in order, repeating the last one
func (sensor *MockSensor) GetValue() (float64, error) {
	if sensor.Err != nil {
		return 0, sensor.Err
	}
	idx := sensor.reads
	if idx >= len(sensor.Values) {
		idx = len(sensor.Values) - 1
	}
	sensor.reads++
	return sensor.Values[idx], nil
}

func (sensor *MockSensor) GetMovingAvg() float64 {
	return 0
}

type MockFan struct {
	ID  string
	Err error

	mu      sync.Mutex
	updates []uint8
	duties  []float64
}

func (fan *MockFan) GetId() string {
	return fan.ID
}

func (fan *MockFan) Update(temperature uint8) error {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	if fan.Err != nil {
		return fan.Err
	}
	fan.updates = append(fan.updates, temperature)
	return nil
}

func (fan *MockFan) SetDutyFraction(duty float64) error {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	fan.duties = append(fan.duties, duty)
	return nil
}

func (fan *MockFan) Updates() []uint8 {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	return append([]uint8{}, fan.updates...)
}

func TestUpdateFanSpeed_OnlyOnChange(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	sensor := &MockSensor{ID: "cpu", Values: []float64{50.2, 50.4, 51.6, 51.5, 49.9}}
	controller := NewFanController(fan, sensor, time.Second, false)

	// WHEN
	for i := 0; i < len(sensor.Values); i++ {
		assert.NoError(t, controller.UpdateFanSpeed())
	}

	// THEN
	assert.Equal(t, []uint8{50, 52, 50}, fan.Updates())
}

func TestUpdateFanSpeed_FirstUpdateIsAlwaysApplied(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	sensor := &MockSensor{ID: "cpu", Values: []float64{0.2}}
	controller := NewFanController(fan, sensor, time.Second, false)

	// WHEN
	err := controller.UpdateFanSpeed()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []uint8{0}, fan.Updates())
}

func TestUpdateFanSpeed_ClampsTemperature(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	sensor := &MockSensor{ID: "cpu", Values: []float64{300, -20}}
	controller := NewFanController(fan, sensor, time.Second, false)

	// WHEN
	assert.NoError(t, controller.UpdateFanSpeed())
	assert.NoError(t, controller.UpdateFanSpeed())

	// THEN
	assert.Equal(t, []uint8{255, 0}, fan.Updates())
}

func TestUpdateFanSpeed_SensorError(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	sensor := &MockSensor{ID: "cpu", Err: errors.New("no such file or directory")}
	controller := NewFanController(fan, sensor, time.Second, false)

	// WHEN
	err := controller.UpdateFanSpeed()

	// THEN
	assert.ErrorIs(t, err, ErrSensorRead)
	assert.Empty(t, fan.Updates())
}

func TestUpdateFanSpeed_FailedUpdateIsRetried(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan", Err: fmt.Errorf("%w: input/output error", fans.ErrHardwareWrite)}
	sensor := &MockSensor{ID: "cpu", Values: []float64{60}}
	controller := NewFanController(fan, sensor, time.Second, false)

	// WHEN
	err := controller.UpdateFanSpeed()
	fan.Err = nil
	err2 := controller.UpdateFanSpeed()

	// THEN
	assert.ErrorIs(t, err, fans.ErrHardwareWrite)
	assert.NoError(t, err2)
	assert.Equal(t, []uint8{60}, fan.Updates())
}

func TestRun_StopsOnContextDone(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	sensor := &MockSensor{ID: "cpu", Values: []float64{40}}
	controller := NewFanController(fan, sensor, time.Hour, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// WHEN
	err := controller.Run(ctx)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []uint8{40}, fan.Updates())
}

func TestRun_UpdatesOnEveryTick(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	sensor := &MockSensor{ID: "cpu", Values: []float64{40, 41, 42}}
	controller := NewFanController(fan, sensor, time.Millisecond, false)
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)

	// WHEN
	go func() {
		result <- controller.Run(ctx)
	}()

	// THEN
	assert.Eventually(t, func() bool {
		return len(fan.Updates()) == 3
	}, time.Second, time.Millisecond)
	cancel()
	assert.NoError(t, <-result)
	assert.Equal(t, []uint8{40, 41, 42}, fan.Updates())
}

func TestRun_ReturnsUpdateError(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan", Err: fmt.Errorf("%w: input/output error", fans.ErrHardwareWrite)}
	sensor := &MockSensor{ID: "cpu", Values: []float64{40}}
	controller := NewFanController(fan, sensor, time.Millisecond, false)

	// WHEN
	err := controller.Run(context.Background())

	// THEN
	assert.ErrorIs(t, err, fans.ErrHardwareWrite)
	assert.Empty(t, fan.duties)
}

func TestRun_FailSafe(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan", Err: fmt.Errorf("%w: input/output error", fans.ErrHardwareWrite)}
	sensor := &MockSensor{ID: "cpu", Values: []float64{40}}
	controller := NewFanController(fan, sensor, time.Millisecond, true)

	// WHEN
	err := controller.Run(context.Background())

	// THEN
	assert.ErrorIs(t, err, fans.ErrHardwareWrite)
	assert.Equal(t, []float64{1}, fan.duties)
}

func TestRun_FailSafeOnSensorError(t *testing.T) {
	// GIVEN
	fan := &MockFan{ID: "fan"}
	sensor := &MockSensor{ID: "cpu", Err: errors.New("no such file or directory")}
	controller := NewFanController(fan, sensor, time.Millisecond, true)

	// WHEN
	err := controller.Run(context.Background())

	// THEN
	assert.ErrorIs(t, err, ErrSensorRead)
	assert.Equal(t, []float64{1}, fan.duties)
}
