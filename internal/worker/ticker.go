// Package worker runs periodic background jobs until their context is cancelled.
package worker

import (
	"context"
	"log/slog"
	"time"
)

type Job func(ctx context.Context) error

type Ticker struct {
	name     string
	interval time.Duration
	job      Job
	logger   *slog.Logger
}

func NewTicker(name string, interval time.Duration, job Job, logger *slog.Logger) *Ticker {
	return &Ticker{
		name:     name,
		interval: interval,
		job:      job,
		logger:   logger.With("worker", name),
	}
}

// Start runs the job once immediately, then on every tick. It blocks until ctx
// is done. A failing run is logged and the next tick proceeds as usual.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info("worker started", "interval", t.interval)

	t.run(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("worker stopped")
			return
		case <-ticker.C:
			t.run(ctx)
		}
	}
}

func (t *Ticker) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := t.job(ctx); err != nil {
		t.logger.Error("worker run failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	t.logger.Debug("worker run completed", "duration_ms", time.Since(start).Milliseconds())
}
