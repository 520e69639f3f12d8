package testingutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/markusressel/fan2pwm/internal/curves"
	"github.com/markusressel/fan2pwm/internal/fans"
)

var (
	LinearCurve = []curves.ControlPoint{
		{Temperature: 30, Percentage: 20},
		{Temperature: 70, Percentage: 100},
	}

	ConstantCurve = []curves.ControlPoint{
		{Temperature: 50, Percentage: 60},
	}
)

// CreatePwmChip creates a directory that mimics a sysfs pwmchip with an exported channel 0
// and returns its path.
func CreatePwmChip(t testing.TB) string {
	chip := filepath.Join(t.TempDir(), "pwmchip0")
	channel := filepath.Join(chip, "pwm0")
	mustDo(t, os.MkdirAll(channel, 0o755))
	mustDo(t, os.WriteFile(filepath.Join(chip, "npwm"), []byte("2\n"), 0o644))
	for _, name := range []string{"export", "unexport"} {
		mustDo(t, os.WriteFile(filepath.Join(chip, name), nil, 0o644))
	}
	for _, name := range []string{"period", "duty_cycle", "polarity", "enable"} {
		mustDo(t, os.WriteFile(filepath.Join(channel, name), nil, 0o644))
	}
	return chip
}

// CreateFan creates a fan driving channel 0 of a fake pwmchip and registers it in fans.FanMap
func CreateFan(t testing.TB, id string, curve []curves.ControlPoint) *fans.Fan {
	chip := CreatePwmChip(t)
	fan, err := fans.NewHardwareChannelFan(id, 0, curve, fans.Options{PwmChip: chip})
	mustDo(t, err)
	fans.FanMap.Set(id, fan)
	t.Cleanup(func() {
		fans.FanMap.Remove(id)
		_ = fan.Close()
	})
	return fan
}

// CreateThermalZone creates a file holding the given raw thermal zone value and returns its path
func CreateThermalZone(t testing.TB, content string) string {
	path := filepath.Join(t.TempDir(), "temp")
	mustDo(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func mustDo(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
