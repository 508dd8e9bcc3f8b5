package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mkealoha/ticketwatch/internal/cache"
	"github.com/mkealoha/ticketwatch/internal/domain/availability"
)

// CycleConfig describes one foreground pass over a date range.
type CycleConfig struct {
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
	Party     availability.Party
	Pause     time.Duration // inter-request pause, upstream politeness
}

// RunCycle checks every date in the range sequentially, storing each result
// as it lands so readers see progress mid-cycle. The pause between requests
// keeps the upstream site from rate-limiting us. When notify is false the
// pass is a silent data refresh.
func RunCycle(ctx context.Context, log *zap.Logger, store *cache.Store, cfg CycleConfig, notify bool) error {
	dates, err := availability.DatesBetween(cfg.StartDate, cfg.EndDate)
	if err != nil {
		return err
	}

	pause := cfg.Pause
	if pause <= 0 {
		pause = 300 * time.Millisecond
	}
	limiter := rate.NewLimiter(rate.Every(pause), 1)

	for _, date := range dates {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		key := availability.Key{Date: date, Party: cfg.Party}
		res := store.Refresh(ctx, key, notify)
		log.Debug("cycle check",
			zap.String("key", key.String()),
			zap.String("status", string(res.Status)))
	}
	return nil
}

// Warmup seeds the store for the default range in the background so the
// first page load hits warm data. Never blocks readiness.
func Warmup(ctx context.Context, log *zap.Logger, store *cache.Store, cfg CycleConfig) {
	go func() {
		log.Info("warm-up started",
			zap.String("start", cfg.StartDate),
			zap.String("end", cfg.EndDate))
		if err := RunCycle(ctx, log, store, cfg, false); err != nil && ctx.Err() == nil {
			log.Warn("warm-up incomplete", zap.Error(err))
			return
		}
		log.Info("warm-up complete", zap.Int("entries", store.Len()))
	}()
}
