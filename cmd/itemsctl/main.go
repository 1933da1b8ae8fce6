// Command itemsctl is the admin CLI for the items store: seeding, listing,
// editing and raw queries against either backend.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	runner := NewRunner(RunnerOpts{})
	if err := runner.App().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "itemsctl: %v\n", err)
		os.Exit(1)
	}
}
