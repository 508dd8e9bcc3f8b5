// Package scheduler drives the two check regimes: the recurring background
// sweep over every cached key and the foreground cycle over a configured
// date range.
package scheduler

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/mkealoha/ticketwatch/internal/cache"
	"github.com/mkealoha/ticketwatch/internal/domain/availability"
)

// Runner re-checks every key in the store on a fixed period equal to the
// freshness window, and always evaluates the notification transition.
type Runner struct {
	Log    *zap.Logger
	Store  *cache.Store
	Window time.Duration

	mSweeps   prometheus.Counter
	mChecks   prometheus.Counter
	mErrors   prometheus.Counter
	mSweepDur prometheus.Histogram
}

func NewRunner(log *zap.Logger, store *cache.Store, window time.Duration) *Runner {
	return &Runner{
		Log:    log,
		Store:  store,
		Window: window,
		mSweeps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ticketwatch_sweeps_total", Help: "Background sweeps completed",
		}),
		mChecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ticketwatch_sweep_checks_total", Help: "Keys re-checked by the sweep",
		}),
		mErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ticketwatch_sweep_errors_total", Help: "Sweep checks that ended in ERROR status",
		}),
		mSweepDur: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "ticketwatch_sweep_duration_seconds", Help: "Sweep duration",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Run blocks until ctx is canceled, sweeping once per window.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// sweep re-fetches every cached key unconditionally. One key's failure never
// stops the rest: an ERROR result is stored like any other outcome.
func (r *Runner) sweep(ctx context.Context) {
	start := time.Now()
	keys := r.Store.Keys()

	for _, key := range keys {
		if ctx.Err() != nil {
			return
		}
		res := r.Store.Refresh(ctx, key, true)
		r.mChecks.Inc()
		if res.Status == availability.StatusError {
			r.mErrors.Inc()
		}
		r.Log.Debug("swept key",
			zap.String("key", key.String()),
			zap.String("status", string(res.Status)))
	}

	r.mSweeps.Inc()
	r.mSweepDur.Observe(time.Since(start).Seconds())
	if len(keys) > 0 {
		r.Log.Info("sweep complete",
			zap.Int("keys", len(keys)),
			zap.Duration("elapsed", time.Since(start)))
	}
}
