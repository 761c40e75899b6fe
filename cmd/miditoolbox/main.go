// Package main is the entry point for the miditoolbox CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	logLevel  string
	logFormat string
	noColor   bool

	configFile string
	httpAddr   string
	flags      routeFlags
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "miditoolbox",
	Short: "Route, filter and monitor MIDI from the terminal",
	Long: `miditoolbox forwards MIDI between ports with channel filtering and
remapping, and prints a live, decoded view of the traffic.

Examples:
  miditoolbox list
  miditoolbox run -i 0 -o 1 -c 10 -n 2 -m
  miditoolbox run --no-forward -m -t
  miditoolbox run --config routes.yaml --http :8080
  miditoolbox tui -i 0 -o 1`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available MIDI ports",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Forward and monitor MIDI until interrupted",
	Long: `Starts one route from the flags, or every route in --config.
Stop with Ctrl+C or by pressing enter.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Forward MIDI with a live terminal monitor",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Diagnostic log format (console, json)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored monitor output")

	for _, cmd := range []*cobra.Command{runCmd, tuiCmd} {
		flags.register(cmd)
		cmd.Flags().StringVar(&configFile, "config", "", "Routes file (.yaml or .csv); overrides the single-route flags")
		cmd.Flags().StringVar(&httpAddr, "http", "", "Serve the status API on this address, e.g. :8080")
	}

	// Add commands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(tuiCmd)
}
