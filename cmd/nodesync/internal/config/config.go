package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// FileName is the optional configuration file looked up in the working
// directory.
const FileName = "nodesync.yaml"

// Config represents the optional nodesync.yaml configuration.
type Config struct {
	Log LogConfig `yaml:"log"`
	Run RunConfig `yaml:"run"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string `yaml:"level,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// RunConfig contains scenario runner settings.
type RunConfig struct {
	Parallel int `yaml:"parallel,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root     string
	LogLevel zapcore.Level
	Verbose  bool
	Parallel int
}

// LoadOptional reads nodesync.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads nodesync.yaml (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	level := zapcore.WarnLevel
	if name := strings.TrimSpace(cfg.Log.Level); name != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
	}

	parallel := cfg.Run.Parallel
	if parallel < 0 {
		return nil, fmt.Errorf("run.parallel must not be negative (got %d)", parallel)
	}
	if parallel == 0 {
		parallel = runtime.GOMAXPROCS(0)
	}

	return &Resolved{
		Root:     dir,
		LogLevel: level,
		Verbose:  cfg.Log.Verbose,
		Parallel: parallel,
	}, nil
}

// Logger builds a console logger on stderr at the resolved level.
func (r *Resolved) Logger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(r.LogLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = !r.Verbose
	cfg.EncoderConfig.TimeKey = ""
	return cfg.Build()
}
