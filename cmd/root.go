package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/markusressel/fan2pwm/cmd/config"
	"github.com/markusressel/fan2pwm/cmd/curve"
	"github.com/markusressel/fan2pwm/cmd/fan"
	"github.com/markusressel/fan2pwm/cmd/global"
	"github.com/markusressel/fan2pwm/cmd/sensor"
	"github.com/markusressel/fan2pwm/internal"
	"github.com/markusressel/fan2pwm/internal/configuration"
	"github.com/markusressel/fan2pwm/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fan2pwm",
	Short: "A daemon to control a PWM fan of a single-board computer.",
	Long: `fan2pwm is a simple daemon that controls the speed of a fan
attached to a GPIO pin or hardware PWM channel, based on a temperature curve.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// this is the default command to run when no subcommand is specified
	RunE: func(cmd *cobra.Command, args []string) error {
		if !global.Syslog {
			printHeader()
		}

		if err := global.ReadConfig(); err != nil {
			return err
		}

		return internal.RunDaemon(context.Background())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&global.CfgFile, "config", "c", "", "config file (default is fan2pwm.yaml in ., $HOME or /etc/fan2pwm/)")
	rootCmd.PersistentFlags().BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	rootCmd.PersistentFlags().BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "More verbose output")
	rootCmd.PersistentFlags().BoolVarP(&global.Syslog, "syslog", "", false, "Write all output to the system log")

	rootCmd.AddCommand(config.Command)
	rootCmd.AddCommand(fan.Command)
	rootCmd.AddCommand(curve.Command)
	rootCmd.AddCommand(sensor.Command)
}

func setupUi() error {
	ui.SetDebugEnabled(global.Verbose)

	if global.NoColor {
		pterm.DisableColor()
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
	if global.Syslog {
		return ui.EnableSyslog()
	}
	return nil
}

// Print a large text with the LetterStyle from the standard theme.
func printHeader() {
	err := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("fan", pterm.NewStyle(pterm.FgLightBlue)),
		pterm.NewLettersFromStringWithStyle("2", pterm.NewStyle(pterm.FgWhite)),
		pterm.NewLettersFromStringWithStyle("pwm", pterm.NewStyle(pterm.FgLightBlue)),
	).Render()
	if err != nil {
		fmt.Println("fan2pwm")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// It is the only place that terminates the process with a non-zero exit code.
func Execute() {
	cobra.OnInitialize(func() {
		if err := setupUi(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		configuration.InitConfig(global.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		// some commands disable output to print plain values only
		pterm.EnableOutput()
		ui.Error("%v", err)
		os.Exit(1)
	}
}
