package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcadefleet/hub/internal/cli/prompt"
)

var (
	shutdownDeviceIDs []string
	shutdownForce     bool
)

var shutdownCmd = &cobra.Command{
	Use:   "shutdown-all",
	Short: "Shut down or restart one or more device hosts",
	Long: `Sends SHUTDOWN_RESTART to the targeted devices. This is destructive enough
(it takes the headset off the network until someone power-cycles it) that it
asks for interactive confirmation unless --force is given.`,
	RunE: runShutdown,
}

func init() {
	shutdownCmd.Flags().StringArrayVar(&shutdownDeviceIDs, "device", nil, "Target device id (repeatable); defaults to every connected device")
	shutdownCmd.Flags().BoolVarP(&shutdownForce, "force", "f", false, "Skip the interactive confirmation prompt")
}

func runShutdown(cmd *cobra.Command, args []string) error {
	label := "Shut down every connected device"
	if len(shutdownDeviceIDs) > 0 {
		label = fmt.Sprintf("Shut down %d device(s)", len(shutdownDeviceIDs))
	}

	confirmed, err := prompt.ConfirmWithForce(label, shutdownForce)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("aborted")
		return nil
	}

	result, err := client().Shutdown(shutdownDeviceIDs)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return printBatchResult(result)
}
