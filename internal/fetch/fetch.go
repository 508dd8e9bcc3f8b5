// Package fetch retrieves upstream booking pages. Two interchangeable
// implementations exist behind the availability.Fetcher port: Direct speaks
// to the ticketing site itself, Relay goes through a public CORS-bypass
// proxy for environments that cannot reach the site cross-origin.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/mkealoha/ticketwatch/internal/obs/retry"
)

// DefaultUserAgent is a realistic browser identity; the ticketing site
// rejects default Go client identifiers.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// maxBodyBytes bounds how much page we ever read; availability markers sit
// well inside the first megabytes.
const maxBodyBytes = 4 << 20

var (
	mFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketwatch_fetches_total",
		Help: "Upstream page fetches by mode and outcome.",
	}, []string{"mode", "outcome"})
	mFetchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ticketwatch_fetch_duration_seconds",
		Help:    "Upstream page fetch latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
)

type Config struct {
	Timeout   time.Duration
	UserAgent string
	Attempts  int
	RetryBase time.Duration
}

func (c Config) userAgent() string {
	if c.UserAgent == "" {
		return DefaultUserAgent
	}
	return c.UserAgent
}

func (c Config) policy(log *zap.Logger, name string) retry.Policy {
	base := c.RetryBase
	if base == 0 {
		base = 500 * time.Millisecond
	}
	return retry.Policy{
		Name:     name,
		Attempts: c.Attempts,
		Backoff:  retry.ExpoJitter{Base: base, Max: 5 * time.Second, Jitter: 0.2},
		OnAttempt: func(attempt int, err error) {
			log.Debug("fetch attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		},
	}
}

func newClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// Direct fetches the booking page straight from the upstream site.
type Direct struct {
	client *http.Client
	ua     string
	policy retry.Policy
	log    *zap.Logger
}

func NewDirect(cfg Config, log *zap.Logger) *Direct {
	return &Direct{
		client: newClient(cfg.Timeout),
		ua:     cfg.userAgent(),
		policy: cfg.policy(log, "upstream_fetch"),
		log:    log,
	}
}

func (d *Direct) Fetch(ctx context.Context, url string) (string, error) {
	var body string
	err := retry.Do(ctx, func() error {
		start := time.Now()
		b, err := get(ctx, d.client, url, d.ua)
		mFetchLatency.WithLabelValues("direct").Observe(time.Since(start).Seconds())
		if err != nil {
			mFetches.WithLabelValues("direct", "error").Inc()
			return err
		}
		mFetches.WithLabelValues("direct", "ok").Inc()
		body = b
		return nil
	}, d.policy)
	return body, err
}

func get(ctx context.Context, client *http.Client, url, ua string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(b), nil
}
