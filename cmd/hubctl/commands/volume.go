package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var volumeDeviceIDs []string

var volumeCmd = &cobra.Command{
	Use:   "volume <level 0-100>",
	Short: "Set device output volume",
	Args:  cobra.ExactArgs(1),
	RunE:  runVolume,
}

func init() {
	volumeCmd.Flags().StringArrayVar(&volumeDeviceIDs, "device", nil, "Target device id (repeatable); defaults to every connected device")
}

func runVolume(cmd *cobra.Command, args []string) error {
	level, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil || level > 100 {
		return fmt.Errorf("volume level must be an integer 0-100")
	}

	result, err := client().SetVolume(uint8(level), volumeDeviceIDs)
	if err != nil {
		return fmt.Errorf("set volume: %w", err)
	}
	return printBatchResult(result)
}
