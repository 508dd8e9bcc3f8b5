package notifier

import (
	"sync"

	"github.com/mkealoha/ticketwatch/internal/domain/availability"
)

// Tracker is the per-key notification state machine for consumers that run
// their own check loop without the server cache (the CLI watch command and
// the client fallback path). Observe reports whether the given result is a
// fresh transition into the actionable states and should be alerted.
type Tracker struct {
	mu       sync.Mutex
	notified map[availability.Key]bool
}

func NewTracker() *Tracker {
	return &Tracker{notified: make(map[availability.Key]bool)}
}

func (t *Tracker) Observe(res availability.Result) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := res.Key()
	if !res.Status.Actionable() {
		// Leaving the actionable set re-arms the key, silently.
		t.notified[key] = false
		return false
	}
	if t.notified[key] {
		return false
	}
	t.notified[key] = true
	return true
}
