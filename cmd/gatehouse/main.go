// Package main implements the gatehouse CLI: a local hook gate and a
// variant-matrix workflow runner driven by a single declarative config.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/gatehouse/internal/config"
	"github.com/fyrsmithlabs/gatehouse/internal/logging"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	// version information
	version = "dev"
)

// errRunFailed marks a completed run whose verdict is failing. It maps to
// exit code 1; every other error is a tool or configuration problem and
// maps to exit code 2.
var errRunFailed = errors.New("run failed")

func main() {
	err := rootCmd.Execute()
	switch {
	case err == nil:
	case errors.Is(err, errRunFailed):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "gatehouse: %v\n", err)
		os.Exit(2)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gatehouse",
	Short: "Hook gate and variant-matrix workflow runner",
	Long: `gatehouse runs two kinds of pipelines from one YAML config:

  gate      run the configured hooks against a set of changed files
  workflow  expand the job template across all variant axes and run it

Exit codes: 0 the run passed, 1 the run failed, 2 configuration or tool
error.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the gatehouse config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override the configured log format (console, json)")
	rootCmd.AddCommand(gateCmd)
	rootCmd.AddCommand(workflowCmd)
}

// setup loads the config and builds the logger, applying flag overrides
// on top of the file's logging section.
func setup() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logCfg := logging.NewDefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	if logLevel != "" {
		logCfg.Level = logLevel
	}
	if logFormat != "" {
		logCfg.Format = logFormat
	}

	log, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	return cfg, log, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM so an
// interrupted run still produces a complete report.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
