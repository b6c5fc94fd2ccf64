package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcadefleet/hub/internal/cli/output"
	"github.com/arcadefleet/hub/pkg/config"
	"github.com/arcadefleet/hub/pkg/distributor"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show installed game versions against what the hub has assigned",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadAgent(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := InitLogger(cfg.Logging); err != nil {
		return err
	}

	hub := distributor.NewHubClient(cfg.HubURL, cfg.MACAddress, cfg.MachineID)
	dist := distributor.NewDistributor(hub, cfg.GamesRoot)

	statuses, err := dist.Status(context.Background())
	if err != nil {
		return fmt.Errorf("fetch game status: %w", err)
	}

	table := output.NewTableData("GAME", "ASSIGNED", "INSTALLED", "UPDATE AVAILABLE")
	for _, st := range statuses {
		installed := st.InstalledVersion
		if installed == "" {
			installed = "(not installed)"
		}
		table.AddRow(st.GameName, st.AssignedVersion.Version, installed, fmt.Sprintf("%t", st.UpdateAvailable))
	}
	return output.PrintTable(os.Stdout, table)
}
