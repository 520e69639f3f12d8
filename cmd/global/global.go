package global

import (
	"github.com/markusressel/fan2pwm/internal/configuration"
	"github.com/markusressel/fan2pwm/internal/ui"
)

var (
	CfgFile string
	Verbose bool
	NoColor bool
	NoStyle bool
	Syslog  bool
)

// ReadConfig reads, decodes and validates the configuration file
func ReadConfig() error {
	configPath, err := configuration.DetectConfigFile()
	if err != nil {
		return err
	}
	ui.Info("Using configuration file at: %s", configPath)

	if err = configuration.LoadConfig(); err != nil {
		return err
	}
	return configuration.Validate()
}
