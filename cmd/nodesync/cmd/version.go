package cmd

import "fmt"

func init() {
	RegisterCommand(&Command{
		Name:  "version",
		Short: "Show version information",
		Long:  "Print the nodesync version and build time.",
		Usage: "nodesync version",
		Run: func(args []string) error {
			fmt.Fprintf(stdout, "nodesync version %s (built %s)\n", Version, BuildTime)
			return nil
		},
	})
}
