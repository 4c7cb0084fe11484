// Package ticker drives the engine in-process when no external scheduler
// is available. The HTTP trigger endpoints remain the authoritative
// surface; the ticker just invokes the same services periodically.
package ticker

import (
	"context"
	"log/slog"
	"time"

	"github.com/sumire/receiptly/internal/schedule"
	"github.com/sumire/receiptly/internal/service"
)

// Ticker processes due drafts every interval and fires the daily check
// once per calendar day.
type Ticker struct {
	engine    *service.Engine
	processor *service.Processor
	interval  time.Duration
	notifyCh  chan struct{}
	lastDaily time.Time
}

// New creates a Ticker.
func New(engine *service.Engine, processor *service.Processor, interval time.Duration) *Ticker {
	return &Ticker{
		engine:    engine,
		processor: processor,
		interval:  interval,
		notifyCh:  make(chan struct{}, 1),
	}
}

// Notify triggers an immediate pass. Non-blocking if one is already
// pending.
func (t *Ticker) Notify() {
	select {
	case t.notifyCh <- struct{}{}:
	default:
	}
}

// Start runs until ctx is cancelled.
func (t *Ticker) Start(ctx context.Context) {
	slog.Info("ticker started", "interval", t.interval)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.pass(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("ticker stopped")
			return
		case <-ticker.C:
			t.pass(ctx)
		case <-t.notifyCh:
			t.pass(ctx)
		}
	}
}

func (t *Ticker) pass(ctx context.Context) {
	now := time.Now().UTC()

	if t.lastDaily.IsZero() || !schedule.SameDay(t.lastDaily, now) {
		if _, err := t.engine.Run(ctx, false); err != nil {
			slog.Error("daily notification run failed", "error", err)
		} else {
			t.lastDaily = now
		}
	}

	if _, err := t.processor.ProcessDue(ctx); err != nil {
		slog.Error("processing due notifications failed", "error", err)
	}
}
