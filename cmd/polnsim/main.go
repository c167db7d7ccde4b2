package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"PolnSim/internal/config"
)

var version = "0.1.0-dev"

// app carries the state shared by every subcommand.
type app struct {
	out    io.Writer
	logger *zap.Logger
	level  zap.AtomicLevel
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, logger: zap.NewNop(), level: zap.NewAtomicLevel()}

	rootCmd := &cobra.Command{
		Use:   "polnsim",
		Short: "Monthly token economy simulator for $POLN",
		Long: `polnsim simulates the $POLN token economy month by month: vesting
releases, market sentiment, mission activity, fees and burning, initiator
reward halving and price formation.

Each configured horizon runs independently and is written as CSV.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, _ := cmd.Flags().GetString("log-level")
			return a.initLogger(lvl)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().String("config", defaultConfig, "Path to YAML or JSON config")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (overrides log_level)")

	rootCmd.AddCommand(
		newRunCmd(a),
		newWatchCmd(a),
		newValidateCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

func (a *app) initLogger(level string) error {
	if level != "" {
		if err := a.setLevel(level); err != nil {
			return err
		}
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = a.level
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

func (a *app) setLevel(level string) error {
	l, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	a.level.SetLevel(l)
	return nil
}

// loadConfig reads and validates the config. The config's log_level applies
// unless --log-level was given.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if !cmd.Flags().Changed("log-level") {
		if err := a.setLevel(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
