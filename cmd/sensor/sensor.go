package sensor

import (
	"fmt"

	"github.com/markusressel/fan2pwm/cmd/global"
	"github.com/markusressel/fan2pwm/internal/configuration"
	"github.com/markusressel/fan2pwm/internal/sensors"
	"github.com/markusressel/fan2pwm/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "sensor",
	Short: "Print the current temperature of the configured sensor",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		if err := global.ReadConfig(); err != nil {
			return err
		}

		sensor, err := sensors.NewSensor(configuration.CurrentConfig.Sensor)
		if err != nil {
			return err
		}

		value, err := sensor.GetValue()
		if err != nil {
			return err
		}
		index, clamped := sensors.ToIndex(value)
		if clamped {
			ui.Warning("Temperature %.1f°C is out of range, the fan uses %d°C", value, index)
		}
		fmt.Printf("%.1f", value)
		return nil
	},
}
