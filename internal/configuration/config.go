package configuration

import (
	"time"

	"github.com/markusressel/fan2pwm/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Configuration struct {
	Fan        FanConfig        `json:"fan"`
	Sensor     SensorConfig     `json:"sensor"`
	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("fan2pwm")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Warning("Couldn't detect home directory: %v", err)
		} else {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath("/etc/fan2pwm/")
	}

	viper.SetEnvPrefix("fan2pwm")
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("fan.id", "fan")
	viper.SetDefault("fan.gpioChip", "gpiochip0")
	viper.SetDefault("fan.pwmChip", "pwmchip0")
	viper.SetDefault("fan.updateRate", 1*time.Second)
	viper.SetDefault("fan.failSafe", false)

	viper.SetDefault("sensor.id", "cpu")
	viper.SetDefault("sensor.path", "/sys/class/thermal/thermal_zone0/temp")
	viper.SetDefault("sensor.rollingWindowSize", 1)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)
}

// DetectConfigFile reads the config file found by viper and returns its path.
func DetectConfigFile() (string, error) {
	if err := viper.ReadInConfig(); err != nil {
		return "", err
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed(), nil
}

// LoadConfig decodes the config read by viper into CurrentConfig.
func LoadConfig() error {
	return viper.Unmarshal(&CurrentConfig, viper.DecodeHook(decodeHooks()))
}

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		MillisecondsDurationHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}
