package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var launchDeviceIDs []string

var launchCmd = &cobra.Command{
	Use:   "launch <package>",
	Short: "Launch an app on one or more devices",
	Long: `Launch an app on every currently connected device, or only on the devices
named with --device (repeatable).`,
	Args: cobra.ExactArgs(1),
	RunE: runLaunch,
}

func init() {
	launchCmd.Flags().StringArrayVar(&launchDeviceIDs, "device", nil, "Target device id (repeatable); defaults to every connected device")
}

func runLaunch(cmd *cobra.Command, args []string) error {
	result, err := client().Launch(args[0], launchDeviceIDs)
	if err != nil {
		return fmt.Errorf("launch: %w", err)
	}
	return printBatchResult(result)
}
