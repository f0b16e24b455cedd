// Package cmd provides CLI commands for fairshare.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/fairshare/pkg/logging"
)

var debug bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "fairshare",
	Short: "Work out who owes whom in a shared-expense group",
	Long: `fairshare computes net balances between the members of a group from
their shared expenses, and a simplified plan for settling up.

Example:
  fairshare settle trip.yaml
  fairshare settle --raw --json trip.json`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if debug {
			level = slog.LevelDebug
		}
		logging.SetupWithLevel(level)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(settleCmd)
}
