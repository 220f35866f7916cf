// Command nodesync replays tree mutation scenarios and reports the
// lifecycle reactions they produce.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/nodesync/cmd/nodesync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
