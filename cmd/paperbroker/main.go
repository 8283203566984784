// Command paperbroker runs a simulated automated trading agent: a
// random-walk tick feed, a rule-based decision engine and a shared
// in-memory portfolio ledger owned by a single desk goroutine.
//
// Usage:
//
//	paperbroker run --config config.yaml
//	paperbroker setup
package main

import (
	"os"

	"github.com/vadiminshakov/paperbroker/cmd/paperbroker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
