package commands

import (
	"fmt"
	"os"

	"github.com/arcadefleet/hub/internal/cli/output"
	"github.com/arcadefleet/hub/pkg/apiclient"
)

// printBatchResult renders a command fan-out result as a short summary plus
// a table of failures, if any.
func printBatchResult(result *apiclient.BatchResult) error {
	fmt.Printf("%d succeeded, %d failed\n", len(result.Succeeded), len(result.Failed))
	if len(result.Failed) == 0 {
		return nil
	}
	table := output.NewTableData("DEVICE ID", "ERROR")
	for _, f := range result.Failed {
		table.AddRow(f.DeviceID, f.Error)
	}
	return output.PrintTable(os.Stdout, table)
}
