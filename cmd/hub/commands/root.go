// Package commands implements the cmd/hub CLI: a root command carrying
// persistent flags plus one subcommand tree. The hub is a single
// control-plane service meant to run foreground under a supervisor, not a
// user-managed background daemon, so there are no daemon/stop commands here.
package commands

import (
	"github.com/spf13/cobra"
)

// Version information injected at build time by cmd/hub/main.go.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "hub",
	Short: "Arcade fleet control-plane server",
	Long: `hub is the control-plane process for the VR arcade fleet.

It runs the TCP device-protocol listener that headsets connect to and the
HTTP surface the game-sync agent depends on.

Use "hub [command] --help" for more information about a command.`,
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

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
