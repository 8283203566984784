package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "paperbroker",
	Short: "A simulated automated trading agent with a shared portfolio ledger",
	Long: `Paperbroker simulates an automated trading agent. It generates a
stream of price ticks, classifies each one as a buy, sell or refusal
with a fixed rule set, and applies accepted trades to a single shared
portfolio ledger that tracks cash, holdings, cost basis, fees and
performance.

There is no real market connectivity; everything runs in-process.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}
