package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mkealoha/ticketwatch/internal/cache"
	"github.com/mkealoha/ticketwatch/internal/domain/availability"
	"github.com/mkealoha/ticketwatch/internal/notifier"
)

type Handlers struct {
	Store  *cache.Store
	Mailer *notifier.Mailer // nil when no email channel is configured
	Window time.Duration
	Log    *zap.Logger
}

// Check handles GET /api/check?date=MM/DD/YYYY&adults=&children=.
// Party defaults to one adult; the legacy partySize parameter is accepted
// and mapped to adults. Missing params never fail the request; a missing or
// malformed date does.
func (h *Handlers) Check(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	date := q.Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required (MM/DD/YYYY)")
		return
	}
	if !availability.ValidDate(date) {
		writeError(w, http.StatusBadRequest, "invalid date, want MM/DD/YYYY")
		return
	}

	party := availability.Party{Adults: 1, Children: 0}
	if n, ok := intParam(q.Get("partySize")); ok {
		party.Adults = n
	}
	if n, ok := intParam(q.Get("adults")); ok {
		party.Adults = n
	}
	if n, ok := intParam(q.Get("children")); ok {
		party.Children = n
	}

	key := availability.Key{Date: date, Party: party}
	res := h.Store.GetOrRefresh(r.Context(), key, h.Window)
	writeJSON(w, http.StatusOK, res)
}

// Results handles GET /api/results: the full cached snapshot for the grid.
func (h *Handlers) Results(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Snapshot())
}

type testEmailResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// TestEmail handles GET /api/test-email: one diagnostic send through the
// email channel so the user can verify credentials before relying on alerts.
func (h *Handlers) TestEmail(w http.ResponseWriter, r *http.Request) {
	if h.Mailer == nil {
		writeError(w, http.StatusServiceUnavailable, "email channel not configured")
		return
	}

	err := h.Mailer.SendMail(r.Context(),
		"Test email",
		"This is a test message confirming your alert email settings work.")
	if err != nil {
		h.Log.Warn("test email failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, testEmailResponse{OK: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, testEmailResponse{OK: true, Message: "test email sent"})
}

func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func intParam(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
