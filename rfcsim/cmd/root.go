// Package cmd provides the command-line interface of rfcsim.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rfcsim",
	Short: "rfcsim simulates register file caches.",
	Long: `rfcsim replays traces of register reads and writes on per-stream ` +
		`FIFO register file caches and reports how often they hit.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
