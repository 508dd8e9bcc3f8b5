// Package client consumes the ticketwatch API. When the server is
// unreachable or the endpoint is absent, the client runs the same
// fetch+classify sequence itself through the public relay, so a check
// always yields a result in the shared taxonomy.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"go.uber.org/zap"

	"github.com/mkealoha/ticketwatch/internal/domain/availability"
	"github.com/mkealoha/ticketwatch/internal/fetch"
)

type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Fallback *fetch.Checker // nil disables the fallback path
	Log      *zap.Logger
}

func New(baseURL string, fallback *fetch.Checker, log *zap.Logger) *Client {
	return &Client{
		BaseURL:  baseURL,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
		Fallback: fallback,
		Log:      log,
	}
}

// Check asks the server for one date. Connection failures and 404 fall back
// to a direct relay check; any other server failure is surfaced as an ERROR
// result.
func (c *Client) Check(ctx context.Context, date string, party availability.Party) availability.Result {
	key := availability.Key{Date: date, Party: party}

	url := fmt.Sprintf("%s/api/check?date=%s&adults=%d&children=%d",
		c.BaseURL, neturl.QueryEscape(date), party.Adults, party.Children)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return c.errorResult(key, err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Debug("server unreachable, using fallback", zap.Error(err))
		return c.fallback(ctx, key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.Log.Debug("check endpoint absent, using fallback")
		return c.fallback(ctx, key, fmt.Errorf("server status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return c.errorResult(key, fmt.Errorf("server status %d: %s", resp.StatusCode, body))
	}

	var res availability.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return c.errorResult(key, fmt.Errorf("decode response: %w", err))
	}
	return res
}

func (c *Client) fallback(ctx context.Context, key availability.Key, cause error) availability.Result {
	if c.Fallback == nil {
		return c.errorResult(key, cause)
	}
	return c.Fallback.Check(ctx, key)
}

func (c *Client) errorResult(key availability.Key, err error) availability.Result {
	return availability.Result{
		Date:      key.Date,
		Status:    availability.StatusError,
		Message:   err.Error(),
		CheckedAt: time.Now().UnixMilli(),
		Party:     key.Party,
	}
}
