package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe <printer-ip>",
	Short: "Check that a printer answers, using the configured retry policy",
	Long: `probe connects to a printer the same way a print job does, then reports
whether it is online. The exit status is non-zero when it is not.

Example:
  pos-print-server probe 192.168.1.50
  pos-print-server probe 192.168.1.50:9100`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	res := a.service.Status(cmd.Context(), args[0])
	out := cmd.OutOrStdout()
	switch {
	case !res.Success:
		fmt.Fprintf(out, "%s: error: %s\n", args[0], res.Message)
		return fmt.Errorf("printer %s unavailable", args[0])
	case !res.Connected:
		fmt.Fprintf(out, "%s: offline\n", args[0])
		return fmt.Errorf("printer %s offline", args[0])
	default:
		fmt.Fprintf(out, "%s: online\n", args[0])
		return nil
	}
}
