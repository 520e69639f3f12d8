package curve

import (
	"bytes"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/fan2pwm/cmd/global"
	"github.com/markusressel/fan2pwm/internal/configuration"
	"github.com/markusressel/fan2pwm/internal/curves"
	"github.com/markusressel/fan2pwm/internal/ui"
	"github.com/markusressel/fan2pwm/internal/util"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

// tableColumns is the number of temperatures printed per row
const tableColumns = 16

var Command = &cobra.Command{
	Use:   "curve",
	Short: "Print the duty cycle table compiled from the configured curve",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := global.ReadConfig(); err != nil {
			return err
		}

		curve := curves.FromConfig(configuration.CurrentConfig.Fan.Curve)
		dutyTable, err := curves.Compile(curve)
		if err != nil {
			return err
		}

		if err = printTable(controlPointRows(curve)); err != nil {
			return err
		}
		ui.Printfln("")
		if err = printTable(dutyTableRows(dutyTable)); err != nil {
			return err
		}

		values := dutyTable.Values()
		ui.Printfln("Duty cycle range: %.0f%% .. %.0f%%", util.Min(values), util.Max(values))
		caption := "Duty cycle (%) / Temperature (°C)"
		graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(128), asciigraph.Caption(caption))
		ui.Printfln("%s", graph)

		return nil
	},
}

func controlPointRows(curve []curves.ControlPoint) table.Table {
	rows := make([][]string, 0, len(curve))
	for _, point := range curve {
		rows = append(rows, []string{
			strconv.Itoa(int(point.Temperature)),
			strconv.Itoa(int(point.Percentage)),
		})
	}
	return table.Table{
		Headers: []string{"Temperature (°C)", "Duty (%)"},
		Rows:    rows,
	}
}

func dutyTableRows(dutyTable curves.DutyTable) table.Table {
	headers := []string{"°C"}
	for column := 0; column < tableColumns; column++ {
		headers = append(headers, "+"+strconv.Itoa(column))
	}

	var rows [][]string
	for start := 0; start < curves.TableSize; start += tableColumns {
		row := []string{strconv.Itoa(start)}
		for column := 0; column < tableColumns; column++ {
			row = append(row, strconv.Itoa(int(dutyTable[start+column])))
		}
		rows = append(rows, row)
	}

	return table.Table{
		Headers: headers,
		Rows:    rows,
	}
}

func printTable(tab table.Table) error {
	var buf bytes.Buffer
	err := tab.WriteTable(&buf, &table.Config{
		ShowIndex:       false,
		Color:           !global.NoColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	})
	if err != nil {
		return err
	}
	ui.Printfln("%s", buf.String())
	return nil
}
