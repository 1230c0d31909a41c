// Package cmd provides the pos-print-server commands.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	envFile string
	debug   bool
)

// rootCmd serves HTTP when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "pos-print-server",
	Short: "Print POS documents on network thermal printers",
	Long: `pos-print-server accepts pre-bills, kitchen tickets, closings, voided order
reports and electronic invoices as JSON and prints them on ESC/POS printers
reachable over TCP.

Example:
  pos-print-server serve
  pos-print-server probe 192.168.1.50`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "config", ".env", "env file with configuration overrides")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(probeCmd)
}
