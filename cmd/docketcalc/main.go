// Command-line entry point for docketcalc.
package main

import (
	"os"

	"github.com/bginsber/docketcalc/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
