package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the service name and version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", cfg.Matchflow.Name, cfg.Matchflow.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
