package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "boardctl",
	Short: "Departure board from the command line",
	Long: `boardctl fetches live departures for one stop place, groups and
orders them exactly like the HTTP service and prints the result.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newShowCmd(), newEventsCmd())
}
