// Package commands implements the cmd/agent CLI: the Windows client host
// process that runs the delta-sync distributor (game sync and client
// self-update) against the hub's HTTP surface. Grounded on the same
// cobra root-command shape as cmd/hub/commands, trimmed to a single
// long-running "sync" loop instead of a device-protocol server.
package commands

import (
	"github.com/spf13/cobra"
)

// Version information injected at build time by cmd/agent/main.go.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "agent",
	Short: "Arcade fleet client-side sync agent",
	Long: `agent runs on the VR-arcade Windows host. It polls the hub for game
assignments and a published client release, installs/updates games via
delta sync, and keeps itself up to date.

Use "agent [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetConfigFile returns the --config flag value, empty if unset.
func GetConfigFile() string {
	return configFile
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: ./config.yaml)")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
