package config

import (
	"fmt"

	"github.com/markusressel/fan2pwm/cmd/global"
	"github.com/markusressel/fan2pwm/internal/ui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates the current configuration",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// note: config file path parameter comes from the root command (-c)
		if err := global.ReadConfig(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		ui.Success("Config looks good! :)")
		return nil
	},
}

func init() {
	Command.AddCommand(validateCmd)
}
