package fan

import (
	"github.com/markusressel/fan2pwm/cmd/global"
	"github.com/markusressel/fan2pwm/internal/configuration"
	"github.com/markusressel/fan2pwm/internal/fans"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "fan",
	Short:            "Fan related commands",
	Long:             ``,
	TraverseChildren: true,
}

func getFan() (*fans.Fan, error) {
	if err := global.ReadConfig(); err != nil {
		return nil, err
	}
	return fans.NewFan(configuration.CurrentConfig.Fan)
}
