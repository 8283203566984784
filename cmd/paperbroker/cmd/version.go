package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// set via -ldflags "-X .../cmd.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the paperbroker version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("paperbroker %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
