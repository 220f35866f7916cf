package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/go-drift/nodesync/cmd/nodesync/internal/config"
	"github.com/go-drift/nodesync/cmd/nodesync/internal/scenario"
	"github.com/go-drift/nodesync/pkg/dom"
	"github.com/go-drift/nodesync/pkg/errors"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Replay scenario files and compare reactions",
		Long: `Replay scenario files against a fresh reference document each.

Every scenario builds its tree, connects it, applies its steps in order
and records the connected and disconnected reactions. Scenarios with an
expect list fail when the recorded reactions differ.

Settings are read from nodesync.yaml in the working directory if present.

Flags:
  --metrics          Print subtree connect and disconnect call counts
  --verbose          Log every subtree call and include stack traces
  --parallel N       Run at most N scenarios at once (default: run.parallel or GOMAXPROCS)`,
		Usage: "nodesync run [--metrics] [--verbose] [--parallel N] <file>...",
		Run:   runRun,
	})
}

type runOptions struct {
	metrics  bool
	verbose  bool
	parallel int
}

func parseRunArgs(args []string) ([]string, runOptions, error) {
	var opts runOptions
	var files []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--metrics":
			opts.metrics = true
		case arg == "--verbose":
			opts.verbose = true
		case arg == "--parallel":
			if i+1 >= len(args) {
				return nil, opts, fmt.Errorf("--parallel requires a number")
			}
			n, err := parseParallel(args[i+1])
			if err != nil {
				return nil, opts, err
			}
			opts.parallel = n
			i++
		case strings.HasPrefix(arg, "--parallel="):
			n, err := parseParallel(strings.TrimPrefix(arg, "--parallel="))
			if err != nil {
				return nil, opts, err
			}
			opts.parallel = n
		case strings.HasPrefix(arg, "--"):
			return nil, opts, fmt.Errorf("unknown flag %s", arg)
		default:
			files = append(files, arg)
		}
	}
	return files, opts, nil
}

func parseParallel(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("--parallel must be a positive number (got %q)", value)
	}
	return n, nil
}

func runRun(args []string) error {
	files, opts, err := parseRunArgs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("at least one scenario file is required\n\nUsage: nodesync run [--metrics] [--verbose] <file>...")
	}

	root, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Resolve(root)
	if err != nil {
		return err
	}
	if opts.verbose {
		cfg.Verbose = true
		cfg.LogLevel = zapcore.DebugLevel
	}
	if opts.parallel > 0 {
		cfg.Parallel = opts.parallel
	}

	logger, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	errors.SetHandler(&errors.LogHandler{Verbose: cfg.Verbose, Logger: logger})
	defer errors.SetHandler(nil)

	registry := prometheus.NewRegistry()
	hostOpts := []dom.HostOption{dom.WithRegisterer(registry)}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		hostOpts = append(hostOpts, dom.WithLogger(logger))
	}

	results, err := runScenarios(files, cfg.Parallel, logger, hostOpts)
	if err != nil {
		return err
	}

	var failed int
	for _, result := range results {
		if result.Failed() {
			failed++
			fmt.Fprintf(stdout, "FAIL %s (%s)\n", result.Name, result.Path)
			fmt.Fprintf(stdout, "     reactions mismatch (-want +got):\n%s\n", result.Diff)
			continue
		}
		fmt.Fprintf(stdout, "ok   %s (%s)\n", result.Name, result.Path)
		for _, reaction := range result.Reactions {
			fmt.Fprintf(stdout, "       %s\n", reaction)
		}
	}

	if opts.metrics {
		if err := printMetrics(registry); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(results))
	}
	return nil
}

// runScenarios loads and runs every file with at most parallel scenarios in
// flight. Results keep the order of files.
func runScenarios(files []string, parallel int, logger *zap.Logger, opts []dom.HostOption) ([]*scenario.Result, error) {
	results := make([]*scenario.Result, len(files))

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, path := range files {
		i, path := i, path
		g.Go(func() (err error) {
			defer errors.RecoverAs("scenario "+path, func(p *errors.PanicError) {
				err = p
			})

			f, err := scenario.Load(path)
			if err != nil {
				return err
			}
			logger.Debug("running scenario", zap.String("name", f.Name), zap.String("path", path))
			result, err := scenario.Run(f, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printMetrics(gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var lines []string
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			var labels []string
			for _, pair := range metric.GetLabel() {
				labels = append(labels, pair.GetName()+"="+strconv.Quote(pair.GetValue()))
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g",
				family.GetName(), strings.Join(labels, ","), metric.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Metrics:")
	for _, line := range lines {
		fmt.Fprintf(stdout, "  %s\n", line)
	}
	return nil
}
