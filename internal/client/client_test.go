package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mkealoha/ticketwatch/internal/classify"
	"github.com/mkealoha/ticketwatch/internal/domain/availability"
	"github.com/mkealoha/ticketwatch/internal/fetch"
)

var testParty = availability.Party{Adults: 2, Children: 1}

// fallbackChecker builds a Checker whose upstream is the given test server,
// standing in for the relayed booking page.
func fallbackChecker(t *testing.T, upstream *httptest.Server) *fetch.Checker {
	t.Helper()
	return &fetch.Checker{
		Fetcher:    fetch.NewDirect(fetch.Config{Timeout: 5 * time.Second}, zaptest.NewLogger(t)),
		Classifier: classify.Legacy{},
		BaseURL:    upstream.URL + "/book?_d=",
		Clock:      availability.SystemClock{},
		Log:        zaptest.NewLogger(t),
	}
}

func TestCheckUsesServerWhenHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/check", r.URL.Path)
		assert.Equal(t, "12/25/2025", r.URL.Query().Get("date"))
		assert.Equal(t, "2", r.URL.Query().Get("adults"))
		assert.Equal(t, "1", r.URL.Query().Get("children"))
		json.NewEncoder(w).Encode(availability.Result{
			Date:      "12/25/2025",
			Status:    availability.StatusAvailable,
			Message:   "Available! Book Now!",
			CheckedAt: time.Now().UnixMilli(),
			Party:     testParty,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil, zaptest.NewLogger(t))
	res := c.Check(context.Background(), "12/25/2025", testParty)

	assert.Equal(t, availability.StatusAvailable, res.Status)
	assert.Equal(t, "12/25/2025", res.Date)
}

func TestCheckFallsBackWhenUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><body>SOLDOUT! Please choose another date!</body></html>`))
	}))
	defer upstream.Close()

	// Grab an address nothing listens on.
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	c := New(deadURL, fallbackChecker(t, upstream), zaptest.NewLogger(t))
	res := c.Check(context.Background(), "12/25/2025", testParty)

	assert.Equal(t, availability.StatusSoldOut, res.Status)
	assert.Equal(t, "Sold Out", res.Message)
}

func TestCheckFallsBackOn404(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><body>Tickets available. Book Now!</body></html>`))
	}))
	defer upstream.Close()

	c := New(srv.URL, fallbackChecker(t, upstream), zaptest.NewLogger(t))
	res := c.Check(context.Background(), "12/25/2025", testParty)

	assert.Equal(t, availability.StatusAvailable, res.Status)
}

func TestCheckErrorResultWithoutFallback(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	c := New(deadURL, nil, zaptest.NewLogger(t))
	res := c.Check(context.Background(), "12/25/2025", testParty)

	assert.Equal(t, availability.StatusError, res.Status)
	assert.Equal(t, "12/25/2025", res.Date)
	assert.Equal(t, testParty, res.Party)
}

func TestCheckServerErrorDoesNotFallBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`Tickets available. Book Now!`))
	}))
	defer upstream.Close()

	c := New(srv.URL, fallbackChecker(t, upstream), zaptest.NewLogger(t))
	res := c.Check(context.Background(), "12/25/2025", testParty)

	assert.Equal(t, availability.StatusError, res.Status)
	assert.Contains(t, res.Message, "500")
}

func TestCheckBadResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil, zaptest.NewLogger(t))
	res := c.Check(context.Background(), "12/25/2025", testParty)

	assert.Equal(t, availability.StatusError, res.Status)
	assert.Contains(t, res.Message, "decode response")
}
