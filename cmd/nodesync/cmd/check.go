package cmd

import (
	"fmt"

	"github.com/go-drift/nodesync/cmd/nodesync/internal/scenario"
)

func init() {
	RegisterCommand(&Command{
		Name:  "check",
		Short: "Validate scenario files without running them",
		Long: `Parse and validate scenario files.

Checks the format version, node ids, step targets and item references.
Nothing is executed.`,
		Usage: "nodesync check <file>...",
		Run:   runCheck,
	})
}

func runCheck(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("at least one scenario file is required\n\nUsage: nodesync check <file>...")
	}

	var invalid int
	for _, path := range args {
		f, err := scenario.Load(path)
		if err != nil {
			fmt.Fprintf(stdout, "FAIL %v\n", err)
			invalid++
			continue
		}
		fmt.Fprintf(stdout, "ok   %s (%d steps)\n", f.Path, len(f.Steps))
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d scenario files are invalid", invalid, len(args))
	}
	return nil
}
