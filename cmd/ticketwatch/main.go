package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mkealoha/ticketwatch/internal/cache"
	"github.com/mkealoha/ticketwatch/internal/classify"
	"github.com/mkealoha/ticketwatch/internal/config"
	"github.com/mkealoha/ticketwatch/internal/domain/availability"
	"github.com/mkealoha/ticketwatch/internal/fetch"
	"github.com/mkealoha/ticketwatch/internal/httpserver"
	"github.com/mkealoha/ticketwatch/internal/notifier"
	"github.com/mkealoha/ticketwatch/internal/obs"
	"github.com/mkealoha/ticketwatch/internal/scheduler"
)

func wire(cfg *config.Config, l *zap.Logger) (*cache.Store, *notifier.Mailer, error) {
	classifier, err := classify.New(cfg.Upstream.Variant)
	if err != nil {
		return nil, nil, err
	}

	var fetcher availability.Fetcher
	if cfg.Upstream.UseRelay {
		fetcher = fetch.NewRelay(cfg.Fetch.AsFetchConfig(), cfg.Upstream.RelayURL, l)
	} else {
		fetcher = fetch.NewDirect(cfg.Fetch.AsFetchConfig(), l)
	}

	checker := &fetch.Checker{
		Fetcher:    fetcher,
		Classifier: classifier,
		BaseURL:    cfg.Upstream.BaseURL,
		Clock:      availability.SystemClock{},
		Log:        l,
	}

	channels := []notifier.Channel{notifier.LogChannel{Log: l}}
	var mailer *notifier.Mailer
	if cfg.SMTP.AsSMTPConfig().Configured() {
		mailer = notifier.NewMailer(cfg.SMTP.AsSMTPConfig(), l)
		channels = append(channels, mailer)
	} else {
		l.Warn("smtp not configured, email alerts disabled")
	}

	store := cache.New(checker.Check, cache.Options{
		Notifier:           notifier.NewDispatcher(l, channels...),
		Clock:              availability.SystemClock{},
		RearmOnSendFailure: cfg.Notify.RearmOnSendFailure,
	}, l)

	return store, mailer, nil
}

func main() {
	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("TICKETWATCH_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	l, err := obs.NewLogger(obs.LogConfig{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		App:    cfg.App.Name,
		Env:    cfg.App.Env,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	otelCloser, err := obs.SetupOTel(root, cfg.OTEL.AsOTELConfig())
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	store, mailer, err := wire(cfg, l)
	if err != nil {
		l.Fatal("wiring", zap.Error(err))
	}

	if cfg.Monitor.Warmup.Enabled {
		scheduler.Warmup(root, l, store, scheduler.CycleConfig{
			StartDate: cfg.Monitor.Warmup.StartDate,
			EndDate:   cfg.Monitor.Warmup.EndDate,
			Party: availability.Party{
				Adults:   cfg.Monitor.Warmup.Adults,
				Children: cfg.Monitor.Warmup.Children,
			},
			Pause: cfg.Monitor.CyclePause,
		})
	}

	sweep := scheduler.NewRunner(l, store, cfg.Monitor.FreshnessWindow)
	srv := httpserver.New(cfg, l, &httpserver.Handlers{
		Store:  store,
		Mailer: mailer,
		Window: cfg.Monitor.FreshnessWindow,
		Log:    l,
	})

	errCh := make(chan error, 2)
	go func() { errCh <- sweep.Run(root) }()
	go func() { errCh <- srv.Start() }()

	select {
	case <-root.Done():
	case err = <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("runtime error", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	_ = srv.Stop(shCtx)
	l.Info("bye")
}
