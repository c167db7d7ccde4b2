package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"PolnSim/internal/batch"
	"PolnSim/internal/config"
	"PolnSim/internal/export"
	"PolnSim/internal/model"
	"PolnSim/internal/recorder"
	"PolnSim/internal/report"
)

// runOptions are the run-time overrides shared by run and watch.
type runOptions struct {
	seed     uint64
	outDir   string
	compress bool
	dbPath   string
	jsonOut  bool
	years    []int
}

func (o *runOptions) bind(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&o.seed, "seed", 0, "Random seed (overrides config)")
	cmd.Flags().StringVar(&o.outDir, "out", "", "Output directory for CSV files (overrides output_dir)")
	cmd.Flags().BoolVar(&o.compress, "compress", false, "Write zstd-compressed CSV")
	cmd.Flags().StringVar(&o.dbPath, "db", "", "SQLite database for run history (overrides sqlite_path)")
	cmd.Flags().BoolVar(&o.jsonOut, "json", false, "Print monthly records as JSON instead of a summary")
	cmd.Flags().IntSliceVar(&o.years, "years", nil, "Horizons in years (overrides simulation_years)")
}

func (o *runOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("seed") {
		cfg.Seed = o.seed
	}
	if o.outDir != "" {
		cfg.OutputDir = o.outDir
	}
	if o.compress {
		cfg.CompressOutput = true
	}
	if o.dbPath != "" {
		cfg.SQLitePath = o.dbPath
	}
	if len(o.years) > 0 {
		cfg.SimulationYears = o.years
	}
	return cfg.Validate()
}

func newRunCmd(a *app) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every configured horizon once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}

			rec, err := openRecorder(cfg, a.logger)
			if err != nil {
				return err
			}
			defer rec.Close()

			_, err = runBatch(cmd.Context(), cfg, rec, a.logger, a.out, opts.jsonOut)
			return err
		},
	}
	opts.bind(cmd)
	return cmd
}

// openRecorder returns a SQLite recorder when a path is configured. A broken
// database degrades to the no-op recorder so simulations still run.
func openRecorder(cfg *config.Config, logger *zap.Logger) (recorder.Recorder, error) {
	if cfg.SQLitePath == "" {
		return recorder.NewNoopRecorder(), nil
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.SQLitePath, logger)
	if err != nil {
		logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		return recorder.NewNoopRecorder(), nil
	}
	return sr, nil
}

type horizonJSON struct {
	Years   int                   `json:"years"`
	Variant string                `json:"variant"`
	Seed    uint64                `json:"seed"`
	Records []model.MonthlyRecord `json:"records"`
}

// runBatch simulates every horizon, writes one CSV per horizon and prints
// either the summaries or the records as JSON.
func runBatch(ctx context.Context, cfg *config.Config, rec recorder.Recorder, logger *zap.Logger, out io.Writer, jsonOut bool) ([]*model.Result, error) {
	runner := &batch.Runner{Config: cfg, Recorder: rec, Logger: logger}
	results, err := runner.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}

	var docs []horizonJSON
	for i, res := range results {
		years := cfg.SimulationYears[i]
		path, err := export.WriteFile(cfg.OutputDir, years, res.Records, cfg.CompressOutput)
		if err != nil {
			return nil, fmt.Errorf("export %d years: %w", years, err)
		}
		logger.Info("results written", zap.Int("years", years), zap.String("path", path))

		if jsonOut {
			docs = append(docs, horizonJSON{Years: years, Variant: res.Variant, Seed: res.Seed, Records: res.Records})
			continue
		}
		fmt.Fprint(out, report.FormatSummary(years, res))
	}

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(docs); err != nil {
			return nil, err
		}
	}
	return results, nil
}
