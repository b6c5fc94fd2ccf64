package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var closeAllDeviceIDs []string

var closeAllCmd = &cobra.Command{
	Use:   "close-all",
	Short: "Close every foreground app on one or more devices",
	RunE:  runCloseAll,
}

func init() {
	closeAllCmd.Flags().StringArrayVar(&closeAllDeviceIDs, "device", nil, "Target device id (repeatable); defaults to every connected device")
}

func runCloseAll(cmd *cobra.Command, args []string) error {
	result, err := client().CloseAll(closeAllDeviceIDs)
	if err != nil {
		return fmt.Errorf("close-all: %w", err)
	}
	return printBatchResult(result)
}
