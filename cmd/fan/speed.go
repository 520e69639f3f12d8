package fan

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/markusressel/fan2pwm/internal/configuration"
	"github.com/markusressel/fan2pwm/internal/fans"
	"github.com/markusressel/fan2pwm/internal/ui"
	"github.com/spf13/cobra"
)

var speedCmd = &cobra.Command{
	Use:   "speed <percent>",
	Short: "Set the duty cycle of the fan to the given percentage ([0..100])",
	Long: `Set the duty cycle of the fan to the given percentage ([0..100]).
A hardware PWM channel keeps the duty cycle after the command exits,
a software PWM pin is driven until the command is interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		percentage, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		if percentage < configuration.MinPercentage || percentage > configuration.MaxPercentage {
			return fmt.Errorf("percentage %d out of range [%d..%d]", percentage, configuration.MinPercentage, configuration.MaxPercentage)
		}

		fan, err := getFan()
		if err != nil {
			return err
		}

		if err = fan.SetDutyFraction(float64(percentage) / 100.0); err != nil {
			_ = fan.Close()
			return err
		}
		ui.Success("Set duty cycle of fan %s to %d%%", fan.GetId(), percentage)

		if _, ok := fan.GetTarget().(*fans.SoftwarePin); ok {
			ui.Info("Driving %s, press Ctrl+C to stop...", fan.GetTarget())
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			return fan.Close()
		}
		return nil
	},
}

func init() {
	Command.AddCommand(speedCmd)
}
