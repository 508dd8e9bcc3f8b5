package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mkealoha/ticketwatch/internal/cache"
	"github.com/mkealoha/ticketwatch/internal/domain/availability"
)

type stubChecker struct {
	mu   sync.Mutex
	keys []availability.Key
}

func (c *stubChecker) Check(_ context.Context, key availability.Key) availability.Result {
	c.mu.Lock()
	c.keys = append(c.keys, key)
	c.mu.Unlock()
	left := 2
	return availability.Result{
		Date:        key.Date,
		Status:      availability.StatusLimitedLow,
		Message:     "Only 2 ticket(s) left (Need 6)",
		TicketsLeft: &left,
		CheckedAt:   time.Now().UnixMilli(),
		URL:         "https://example.com/book",
		Party:       key.Party,
	}
}

func newTestHandlers(t *testing.T) (*Handlers, *stubChecker) {
	t.Helper()
	checker := &stubChecker{}
	store := cache.New(checker.Check, cache.Options{}, zaptest.NewLogger(t))
	return &Handlers{
		Store:  store,
		Window: 5 * time.Minute,
		Log:    zaptest.NewLogger(t),
	}, checker
}

func TestCheckReturnsResult(t *testing.T) {
	h, checker := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/check?date=12/25/2025&adults=4&children=2", nil)
	rec := httptest.NewRecorder()
	h.Check(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res availability.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "12/25/2025", res.Date)
	assert.Equal(t, availability.StatusLimitedLow, res.Status)
	require.NotNil(t, res.TicketsLeft)
	assert.Equal(t, 2, *res.TicketsLeft)

	key := checker.keys[0]
	assert.Equal(t, availability.Party{Adults: 4, Children: 2}, key.Party)
}

func TestCheckPartyDefaults(t *testing.T) {
	h, checker := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/check?date=12/25/2025", nil)
	rec := httptest.NewRecorder()
	h.Check(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, availability.Party{Adults: 1, Children: 0}, checker.keys[0].Party)
}

func TestCheckPartySizeMapsToAdults(t *testing.T) {
	h, checker := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/check?date=12/25/2025&partySize=5", nil)
	rec := httptest.NewRecorder()
	h.Check(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, availability.Party{Adults: 5, Children: 0}, checker.keys[0].Party)
}

func TestCheckRejectsMissingDate(t *testing.T) {
	h, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/check", nil)
	rec := httptest.NewRecorder()
	h.Check(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "date")
}

func TestCheckRejectsMalformedDate(t *testing.T) {
	h, _ := newTestHandlers(t)

	for _, bad := range []string{"2025-12-25", "13/40/2025", "tomorrow"} {
		req := httptest.NewRequest(http.MethodGet, "/api/check?date="+bad, nil)
		rec := httptest.NewRecorder()
		h.Check(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "date=%q", bad)
	}
}

func TestCheckIgnoresGarbageParams(t *testing.T) {
	h, checker := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/check?date=12/25/2025&adults=lots&children=-1", nil)
	rec := httptest.NewRecorder()
	h.Check(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, availability.Party{Adults: 1, Children: 0}, checker.keys[0].Party)
}

func TestCheckServesFreshFromCache(t *testing.T) {
	h, checker := newTestHandlers(t)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/check?date=12/25/2025", nil)
		rec := httptest.NewRecorder()
		h.Check(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Len(t, checker.keys, 1, "repeat queries inside the window must not refetch")
}

func TestResultsSnapshot(t *testing.T) {
	h, _ := newTestHandlers(t)

	for _, d := range []string{"12/27/2025", "12/25/2025"} {
		h.Store.Refresh(context.Background(), availability.Key{
			Date: d, Party: availability.Party{Adults: 1},
		}, false)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/results", nil)
	rec := httptest.NewRecorder()
	h.Results(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out []availability.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "12/25/2025", out[0].Date)
	assert.Equal(t, "12/27/2025", out[1].Date)
}

func TestResultsEmptyStore(t *testing.T) {
	h, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/results", nil)
	rec := httptest.NewRecorder()
	h.Results(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestTestEmailUnconfigured(t *testing.T) {
	h, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/test-email", nil)
	rec := httptest.NewRecorder()
	h.TestEmail(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestIntParam(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"", 0, false},
		{"0", 0, true},
		{"6", 6, true},
		{"-2", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, ok := intParam(tc.in)
		assert.Equal(t, tc.ok, ok, "intParam(%q)", tc.in)
		assert.Equal(t, tc.want, got, "intParam(%q)", tc.in)
	}
}
