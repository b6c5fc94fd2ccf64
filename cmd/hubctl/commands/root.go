// Package commands implements the hubctl CLI: an operator tool against the
// hub's command executor for manual fan-out and fleet inspection.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/arcadefleet/hub/pkg/apiclient"
)

// Version information injected at build time by cmd/hubctl/main.go.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	hubAddr string
	token   string
)

var rootCmd = &cobra.Command{
	Use:   "hubctl",
	Short: "Operator CLI for the arcade fleet hub",
	Long: `hubctl talks to the hub's operator admin API to list connected devices and
fan commands out to them: launching apps, setting volume, closing apps, and
shutting down hosts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&hubAddr, "hub", "http://localhost:43573", "Hub admin API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for the hub admin API")

	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(closeAllCmd)
	rootCmd.AddCommand(shutdownCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// client builds an apiclient.Client against the configured --hub/--token flags.
func client() *apiclient.Client {
	c := apiclient.New(hubAddr)
	if token != "" {
		c.SetToken(token)
	}
	return c
}
