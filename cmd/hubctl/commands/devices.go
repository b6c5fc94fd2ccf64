package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcadefleet/hub/internal/cli/output"
)

var devicesCmd = &cobra.Command{
	Use:     "devices",
	Aliases: []string{"ls", "list"},
	Short:   "List every device currently connected to the hub",
	RunE:    runDevices,
}

func runDevices(cmd *cobra.Command, args []string) error {
	devices, err := client().ListDevices()
	if err != nil {
		return fmt.Errorf("list devices: %w", err)
	}

	table := output.NewTableData("ID", "SERIAL", "MODEL", "CUSTOM NAME", "RUNNING APP", "BATTERY", "VOLUME", "LAST SEEN")
	for _, d := range devices {
		battery := "-"
		if d.BatteryPct != nil {
			battery = fmt.Sprintf("%d%%", *d.BatteryPct)
		}
		volume := "-"
		if d.VolumePct != nil {
			volume = fmt.Sprintf("%d%%", *d.VolumePct)
		}
		table.AddRow(d.ID, d.Serial, d.Model, d.CustomName, d.RunningApp, battery, volume, d.LastSeen)
	}
	return output.PrintTable(os.Stdout, table)
}
