// Command pos-print-server accepts POS documents over HTTP and prints them on
// networked ESC/POS thermal printers.
package main

import (
	"os"

	// embedded zone database for hosts without one
	_ "time/tzdata"

	"github.com/sangkips/pos-print-server/cmd/api/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
