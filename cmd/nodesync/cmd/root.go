// Package cmd implements the nodesync CLI commands.
//
// The root command dispatches to subcommands (run, check, version) that
// register themselves from init.
package cmd

import (
	"fmt"
	"io"
	"os"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name  string
	Short string
	Long  string
	Usage string
	Run   func(args []string) error
}

var rootCmd = struct {
	Long        string
	Usage       string
	SubCommands []*Command
}{
	Long: `nodesync replays tree mutation scenarios against a reference document
and reports the connected and disconnected reactions they produce.

Use "nodesync <command> --help" for more information about a command.`,
	Usage: "nodesync <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// stdout receives command output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	return execute(os.Args[1:])
}

func execute(args []string) error {
	if len(args) == 0 {
		printHelp()
		return nil
	}

	switch args[0] {
	case "-h", "--help", "help":
		printHelp()
		return nil
	case "-v", "--version":
		args = []string{"version"}
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp()
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

func printHelp() {
	fmt.Fprintln(stdout, rootCmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", rootCmd.Usage)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Commands:")
	for _, sub := range rootCmd.SubCommands {
		fmt.Fprintf(stdout, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Flags:")
	fmt.Fprintln(stdout, "  -h, --help           Show help for a command")
	fmt.Fprintln(stdout, "  -v, --version        Show version information")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Examples:")
	fmt.Fprintln(stdout, "  nodesync run testdata/*.yaml          Replay scenarios")
	fmt.Fprintln(stdout, "  nodesync run --metrics a.yaml         Replay and print call counters")
	fmt.Fprintln(stdout, "  nodesync check a.yaml b.yaml          Validate scenario files")
}

func printCommandHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
}
