package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lightning-jet/jet/pkg/cli"
)

const defaultConfigFile = "jet.yaml"

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "jet",
	Short: "Jet - event log for Lightning node rebalancing",
	Long: `Jet keeps a durable log of failed HTLC forwards and rebalance attempts
for a Lightning node. The log backs rebalancing heuristics and lets operators
inspect, export and archive what happened on their channels.

Events are stored in a local SQLite database. "jet serve" exposes Prometheus
metrics and health endpoints and writes scheduled archive snapshots.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a code derived from the error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
