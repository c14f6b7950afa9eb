// Package scheduler warms the response cache on a cron schedule so the
// first request after a session close is served from memory.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"nextbar/internal/pipeline"
)

// Warmer runs the pipeline for a fixed symbol list on a cron spec.
type Warmer struct {
	cron    *cron.Cron
	runner  pipeline.Runner
	symbols []string
	log     *slog.Logger
}

// NewWarmer creates a Warmer over the given runner.
func NewWarmer(runner pipeline.Runner, symbols []string, log *slog.Logger) *Warmer {
	if log == nil {
		log = slog.Default()
	}
	return &Warmer{
		cron:    cron.New(cron.WithSeconds()),
		runner:  runner,
		symbols: symbols,
		log:     log.With("component", "warmer"),
	}
}

// Register adds the warm job under the given cron spec (with seconds field,
// e.g. "0 5 16 * * 1-5" for 16:05:00 on weekdays).
func (w *Warmer) Register(spec string) error {
	if _, err := w.cron.AddFunc(spec, w.warm); err != nil {
		return fmt.Errorf("register warm job: %w", err)
	}
	return nil
}

// Start launches the cron loop. Stop with Stop.
func (w *Warmer) Start() { w.cron.Start() }

// Stop halts the cron loop and waits for a running job to finish.
func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
}

func (w *Warmer) warm() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for _, sym := range w.symbols {
		if _, err := w.runner.Run(ctx, sym); err != nil {
			w.log.Warn("warm fetch failed", "symbol", sym, "error", err)
			continue
		}
		w.log.Debug("warmed", "symbol", sym)
	}
}
