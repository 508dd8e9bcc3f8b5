package fetch

import (
	"context"
	neturl "net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/mkealoha/ticketwatch/internal/classify"
	"github.com/mkealoha/ticketwatch/internal/domain/availability"
	"github.com/mkealoha/ticketwatch/internal/obs"
)

// PageURL builds the booking deep link for a key. The legacy page takes the
// date as a query suffix on a base that already ends in its parameter; the
// direct ticketing system takes date and party as separate parameters.
func PageURL(variant, base string, key availability.Key) string {
	switch variant {
	case classify.VariantDirect:
		return base +
			"&EventDate=" + neturl.QueryEscape(key.Date) +
			"&Adults=" + strconv.Itoa(key.Party.Adults) +
			"&Children=" + strconv.Itoa(key.Party.Children)
	default:
		return base + neturl.QueryEscape(key.Date)
	}
}

// Checker composes fetch and classify into one availability check. Transport
// failures become ERROR results carrying the underlying message; they are
// never raised past this boundary.
type Checker struct {
	Fetcher    availability.Fetcher
	Classifier availability.Classifier
	BaseURL    string
	Clock      availability.Clock
	Log        *zap.Logger
}

func (c *Checker) Check(ctx context.Context, key availability.Key) availability.Result {
	url := PageURL(c.Classifier.Variant(), c.BaseURL, key)

	content, err := c.Fetcher.Fetch(ctx, url)
	now := c.Clock.Now()
	if err != nil {
		obs.WithTrace(ctx, c.Log).Debug("check fetch failed",
			zap.String("key", key.String()), zap.Error(err))
		return availability.Result{
			Date:      key.Date,
			Status:    availability.StatusError,
			Message:   err.Error(),
			CheckedAt: now.UnixMilli(),
			URL:       url,
			Party:     key.Party,
		}
	}

	return c.Classifier.Classify(content, key, url, now)
}
