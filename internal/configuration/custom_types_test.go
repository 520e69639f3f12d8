package configuration

import (
	"reflect"
	"testing"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
)

func decodeFanConfig(t *testing.T, input map[string]interface{}) FanConfig {
	var cfg FanConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: decodeHooks(),
		Result:     &cfg,
	})
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}
	err = decoder.Decode(input)
	if err != nil {
		t.Fatalf("decoding failed: %v", err)
	}
	return cfg
}

func TestMillisecondsDurationHookFunc(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected time.Duration
	}{
		{name: "Integer is milliseconds", input: 1500, expected: 1500 * time.Millisecond},
		{name: "Int64 is milliseconds", input: int64(250), expected: 250 * time.Millisecond},
		{name: "Float is milliseconds", input: 2.5, expected: 2500 * time.Microsecond},
		{name: "Duration string", input: "2s", expected: 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := decodeFanConfig(t, map[string]interface{}{"updateRate": tt.input})
			assert.Equal(t, tt.expected, cfg.UpdateRate)
		})
	}
}

func TestDecodeFanConfig(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"id":         "cpu",
		"pin":        18,
		"updateRate": 1000,
		"curve": []interface{}{
			map[string]interface{}{"temperature": 30, "percentage": 20},
			map[string]interface{}{"temperature": 70, "percentage": 100},
		},
	}

	// WHEN
	cfg := decodeFanConfig(t, input)

	// THEN
	assert.Equal(t, "cpu", cfg.ID)
	if assert.NotNil(t, cfg.Pin) {
		assert.Equal(t, 18, *cfg.Pin)
	}
	assert.Nil(t, cfg.HardwarePwmChannel)
	assert.Equal(t, time.Second, cfg.UpdateRate)
	assert.Equal(t, []CurvePointConfig{
		{Temperature: 30, Percentage: 20},
		{Temperature: 70, Percentage: 100},
	}, cfg.Curve)
}

func TestHookSkipsUnrelatedTypes(t *testing.T) {
	hook := MillisecondsDurationHookFunc()

	f := reflect.TypeOf(1)
	tTarget := reflect.TypeOf(1)
	data := 5

	res, err := hook(f, tTarget, data)

	assert.NoError(t, err)
	assert.Equal(t, data, res)
}
