package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mkealoha/ticketwatch/internal/obs/retry"
)

// DefaultRelayURL is a public CORS-bypass proxy that takes the target URL
// as a query suffix.
const DefaultRelayURL = "https://corsproxy.io/?"

// Relay fetches through a CORS-bypass proxy. Depending on the proxy the
// response is either the raw page body or a JSON envelope carrying it in a
// "contents" field; both shapes are handled.
type Relay struct {
	client   *http.Client
	ua       string
	relayURL string
	policy   retry.Policy
	log      *zap.Logger
}

func NewRelay(cfg Config, relayURL string, log *zap.Logger) *Relay {
	if relayURL == "" {
		relayURL = DefaultRelayURL
	}
	return &Relay{
		client:   newClient(cfg.Timeout),
		ua:       cfg.userAgent(),
		relayURL: relayURL,
		policy:   cfg.policy(log, "relay_fetch"),
		log:      log,
	}
}

func (r *Relay) Fetch(ctx context.Context, url string) (string, error) {
	target := r.relayURL + neturl.QueryEscape(url)
	var body string
	err := retry.Do(ctx, func() error {
		start := time.Now()
		b, err := get(ctx, r.client, target, r.ua)
		mFetchLatency.WithLabelValues("relay").Observe(time.Since(start).Seconds())
		if err != nil {
			mFetches.WithLabelValues("relay", "error").Inc()
			return err
		}
		unwrapped, err := unwrapEnvelope(b)
		if err != nil {
			mFetches.WithLabelValues("relay", "error").Inc()
			return err
		}
		mFetches.WithLabelValues("relay", "ok").Inc()
		body = unwrapped
		return nil
	}, r.policy)
	return body, err
}

type proxyEnvelope struct {
	Contents *string `json:"contents"`
}

// unwrapEnvelope extracts the original page from a proxy response. A valid
// JSON object is treated as an envelope and must carry contents; anything
// else is the raw page.
func unwrapEnvelope(body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "{") {
		return body, nil
	}
	var env proxyEnvelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		// Not an envelope after all; some pages legitimately start with "{".
		return body, nil
	}
	if env.Contents == nil || *env.Contents == "" {
		return "", errors.New("malformed proxy envelope: no contents")
	}
	return *env.Contents, nil
}
