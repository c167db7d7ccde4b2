// Package scheduler reruns the simulation batch on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled unit of work, typically a full batch plus export.
type Job func(ctx context.Context) error

// Scheduler manages the cron entry for the batch job.
type Scheduler struct {
	Cron   *cron.Cron
	Job    Job
	Logger *zap.Logger
	Ctx    context.Context

	runs     atomic.Int64
	failures atomic.Int64
}

// NewScheduler creates a scheduler with the seconds field enabled. Overlapping
// triggers are skipped while a run is still in progress.
func NewScheduler(ctx context.Context, job Job, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Job:    job,
		Logger: logger,
		Ctx:    ctx,
	}
}

// Register schedules the job at spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.run); err != nil {
		return fmt.Errorf("register batch task %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped", zap.Int64("runs", s.runs.Load()), zap.Int64("failures", s.failures.Load()))
}

// RunNow executes the job immediately (for manual trigger or run on start).
func (s *Scheduler) RunNow() error {
	return s.execute()
}

// Runs reports how many times the job has executed.
func (s *Scheduler) Runs() int64 { return s.runs.Load() }

func (s *Scheduler) run() {
	_ = s.execute()
}

func (s *Scheduler) execute() error {
	n := s.runs.Add(1)
	start := time.Now()
	s.Logger.Info("running batch task", zap.Int64("run", n))
	if err := s.Job(s.Ctx); err != nil {
		s.failures.Add(1)
		s.Logger.Error("batch task failed", zap.Int64("run", n), zap.Error(err))
		return err
	}
	s.Logger.Info("batch task finished", zap.Int64("run", n), zap.Duration("elapsed", time.Since(start)))
	return nil
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
