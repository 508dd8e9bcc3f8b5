package availability

import (
	"context"
	"time"
)

// Fetcher retrieves the raw page content for a booking URL. Transport
// failures are returned as errors, never surfaced as a classification.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Classifier maps raw page content to a Result. Implementations are pure:
// no network access, no clock beyond the timestamp they are handed.
type Classifier interface {
	Variant() string
	Classify(content string, key Key, pageURL string, now time.Time) Result
}

// Notifier delivers an alert for an actionable result.
type Notifier interface {
	Notify(ctx context.Context, res Result) error
}

type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
