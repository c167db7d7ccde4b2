package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"PolnSim/internal/config"
	"PolnSim/internal/model"
	"PolnSim/internal/notifier"
	"PolnSim/internal/recorder"
	"PolnSim/internal/scheduler"
)

// watcher is the long-running batch loop behind the watch command.
type watcher struct {
	cfg      *config.Config
	rec      recorder.Recorder
	app      *app
	jsonOut  bool
	notifier *notifier.TelegramNotifier

	mu   sync.Mutex
	last string
}

func (w *watcher) job(ctx context.Context) error {
	results, err := runBatch(ctx, w.cfg, w.rec, w.app.logger, w.app.out, w.jsonOut)
	if err != nil {
		w.trySend(ctx, "PolnSim batch failed: "+err.Error())
		return err
	}
	w.publish(ctx, results)
	return nil
}

func (w *watcher) publish(ctx context.Context, results []*model.Result) {
	msg := notifier.FormatBatch(w.cfg.SimulationYears, results)
	w.mu.Lock()
	w.last = msg
	w.mu.Unlock()
	w.trySend(ctx, msg)
}

func (w *watcher) trySend(ctx context.Context, text string) {
	if w.notifier == nil {
		return
	}
	if err := w.notifier.SendWithRetry(ctx, text, 3); err != nil {
		w.app.logger.Error("send notification", zap.Error(err))
	}
}

// handleCommand answers chat commands. /run replies through the batch itself.
func (w *watcher) handleCommand(sched *scheduler.Scheduler) notifier.CommandHandler {
	return func(_ context.Context, command string) string {
		switch command {
		case "/run":
			_ = sched.RunNow()
			return ""
		case "/status":
			w.mu.Lock()
			defer w.mu.Unlock()
			if w.last == "" {
				return "No batch has finished yet."
			}
			return w.last
		default:
			return notifier.HelpText
		}
	}
}

func newWatchCmd(a *app) *cobra.Command {
	opts := &runOptions{}
	var spec string
	var now bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rerun the batch on a cron schedule",
		Long: `watch reruns every horizon on a six-field cron schedule (seconds first)
and records each run. When telegram credentials are configured, each batch
summary is sent to the chat, which also accepts /run and /status.
It stops on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}
			if spec == "" {
				spec = cfg.WatchCron
			}

			rec, err := openRecorder(cfg, a.logger)
			if err != nil {
				return err
			}
			defer rec.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := &watcher{cfg: cfg, rec: rec, app: a, jsonOut: opts.jsonOut}
			if cfg.Telegram.Enabled() {
				w.notifier = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.Proxy, a.logger)
			}

			sched := scheduler.NewScheduler(ctx, w.job, a.logger)
			if err := sched.Register(spec); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if w.notifier != nil {
				go w.notifier.StartPolling(ctx, w.handleCommand(sched))
				a.logger.Info("telegram polling started")
			}
			if now || os.Getenv("RUN_ON_START") == "true" {
				go func() { _ = sched.RunNow() }()
			}

			a.logger.Info("polnsim is watching", zap.String("cron", spec))
			<-ctx.Done()
			a.logger.Info("shutdown signal received, stopping")
			return nil
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&spec, "cron", "", "Cron spec with seconds field (overrides watch_cron)")
	cmd.Flags().BoolVar(&now, "now", false, "Run once immediately on start")
	return cmd
}
