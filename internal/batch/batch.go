// Package batch runs every configured horizon concurrently and records the results.
package batch

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"PolnSim/internal/config"
	"PolnSim/internal/engine"
	"PolnSim/internal/model"
	"PolnSim/internal/recorder"
)

// Runner executes one simulation per entry of Config.SimulationYears.
type Runner struct {
	Config   *config.Config
	Recorder recorder.Recorder
	Logger   *zap.Logger

	// Limit caps concurrent runs; zero means one goroutine per horizon.
	Limit int
}

// Run simulates every horizon and returns the results in horizon order. Each
// run gets its own config copy and generator, so runs share no state.
func (r *Runner) Run(ctx context.Context) ([]*model.Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rec := r.Recorder
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}

	years := r.Config.SimulationYears
	results := make([]*model.Result, len(years))

	g, ctx := errgroup.WithContext(ctx)
	if r.Limit > 0 {
		g.SetLimit(r.Limit)
	}
	for i, y := range years {
		months := y * r.Config.MonthsPerYear
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log := logger.With(zap.Int("years", y))
			res, err := engine.Simulate(r.Config.Clone(), months, r.Config.Seed, log)
			if err != nil {
				return fmt.Errorf("simulate %d years: %w", y, err)
			}

			run := recorder.NewRunSummary(y, res)
			if err := rec.RecordRun(run); err != nil {
				return fmt.Errorf("record run %d years: %w", y, err)
			}
			if err := rec.RecordMonths(run.ID, res.Records); err != nil {
				return fmt.Errorf("record months %d years: %w", y, err)
			}
			log.Info("run recorded", zap.String("run_id", run.ID))
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
