// Command fleetcrm runs the fleet CRM API and its maintenance jobs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "fleetcrm",
	Short: "Fleet CRM for delivery riders and their vehicles",
	Long: `fleetcrm manages riders, vehicles, vehicle assignments, faults,
maintenance records, monthly checks and follow-up tasks.

Settings come from an optional YAML file, a .env file and the environment.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the overdue sweeper",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep-overdue",
	Short: "Mark pending monthly checks past their grace period as overdue",
	Args:  cobra.NoArgs,
	RunE:  runSweep,
}

var ensureIndexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Create the MongoDB indexes the service relies on",
	Args:  cobra.NoArgs,
	RunE:  runEnsureIndexes,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (or set CONFIG_FILE)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(ensureIndexesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
