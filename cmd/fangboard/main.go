// Command fangboard runs the access-gated housing dashboard service.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/haowan-apps/fangboard/internal/ui"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "fangboard",
	Short: "Access-gated housing price/rent dashboard",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
