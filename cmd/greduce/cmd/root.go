// Package cmd implements the greduce Cobra CLI, adapted from teacher
// cmd/cli/cmd/root.go: persistent flags wired in PersistentPreRunE,
// Execute() translating any command error into a non-zero exit code.
package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hkreduce/greduce/pkg/config"
	"github.com/hkreduce/greduce/pkg/telemetry"
	"github.com/hkreduce/greduce/pkg/utils"
)

var (
	cfgFile  string
	logLevel string

	cfg               *config.Config
	logger            utils.Logger
	shutdownTelemetry telemetry.ShutdownFunc
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "greduce",
	Short: "A chemical-kinetics mechanism reduction engine",
	Long: `greduce reduces a chemical reaction mechanism's species graph to the
subset reachable from a set of source species under a coupling-strength
threshold, using the DRG, DRGEP, or PFA graph-reduction algorithms.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		lg, err := buildLogger(cfg)
		if err != nil {
			return err
		}
		logger = lg

		shutdown, err := telemetry.Init(context.Background())
		if err != nil {
			logger.Warn("telemetry init failed: %v", err)
			shutdown = func(context.Context) error { return nil }
		}
		shutdownTelemetry = shutdown
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if shutdownTelemetry != nil {
			return shutdownTelemetry(context.Background())
		}
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, or error")
}

// buildLogger picks a Logger implementation from cfg.Log: a file logger
// when OutputPath is set, otherwise stdout in either the structured
// DefaultLogger or the stdlib-backed StdLogger depending on Format. The
// --log-level flag always wins over cfg.Log.Level.
func buildLogger(cfg *config.Config) (utils.Logger, error) {
	level := utils.ParseLogLevel(logLevel)
	if cfg == nil {
		return utils.NewDefaultLogger(level, os.Stdout), nil
	}

	if cfg.Log.OutputPath != "" {
		return utils.NewFileLogger(level, cfg.Log.OutputPath)
	}
	if cfg.Log.Format == "text" {
		return utils.NewStdLogger(level, os.Stdout), nil
	}
	return utils.NewDefaultLogger(level, os.Stdout), nil
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	return logger
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return cfg
}
