// Package cache holds the in-memory availability store. Entries never
// expire on their own; the scheduler bounds their staleness. State is
// process-wide and rebuilt empty on restart.
package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/mkealoha/ticketwatch/internal/domain/availability"
)

var (
	mHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketwatch_cache_hits_total", Help: "Fresh cache hits.",
	})
	mMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketwatch_cache_misses_total", Help: "Stale or absent entries that triggered a check.",
	})
	mTransitions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketwatch_actionable_transitions_total", Help: "Transitions into the actionable states.",
	})
)

// CheckFunc performs one fetch+classify pass for a key.
type CheckFunc func(ctx context.Context, key availability.Key) availability.Result

type entry struct {
	res       availability.Result
	fetchedAt time.Time
	notified  bool
}

type call struct {
	done chan struct{}
	res  availability.Result
}

// Store maps check keys to their last known result and notification state.
// At most one check is in flight per key: the freshness test and the
// in-flight latch are taken under one lock, and concurrent callers of the
// same key join the winner's result.
type Store struct {
	mu       sync.Mutex
	entries  map[availability.Key]*entry
	inflight map[availability.Key]*call

	check    CheckFunc
	notifier availability.Notifier // nil disables dispatch entirely
	clock    availability.Clock
	log      *zap.Logger

	// rearmOnSendFailure leaves the notified flag unset when every channel
	// failed, so the next actionable sweep retries the alert.
	rearmOnSendFailure bool
}

type Options struct {
	Notifier           availability.Notifier
	Clock              availability.Clock
	RearmOnSendFailure bool
}

func New(check CheckFunc, opts Options, log *zap.Logger) *Store {
	clock := opts.Clock
	if clock == nil {
		clock = availability.SystemClock{}
	}
	return &Store{
		entries:            make(map[availability.Key]*entry),
		inflight:           make(map[availability.Key]*call),
		check:              check,
		notifier:           opts.Notifier,
		clock:              clock,
		log:                log,
		rearmOnSendFailure: opts.RearmOnSendFailure,
	}
}

// GetOrRefresh returns the stored result when it is younger than window,
// otherwise runs one check and stores the outcome. Reads through this path
// never dispatch notifications.
func (s *Store) GetOrRefresh(ctx context.Context, key availability.Key, window time.Duration) availability.Result {
	s.mu.Lock()
	if e, ok := s.entries[key]; ok && s.clock.Now().Sub(e.fetchedAt) < window {
		res := e.res
		s.mu.Unlock()
		mHits.Inc()
		return res
	}
	mMisses.Inc()
	return s.refreshLocked(ctx, key, false)
}

// Refresh runs one check for the key regardless of freshness. When notify is
// set the notification transition is evaluated against the stored flag.
func (s *Store) Refresh(ctx context.Context, key availability.Key, notify bool) availability.Result {
	s.mu.Lock()
	return s.refreshLocked(ctx, key, notify)
}

// refreshLocked is entered with s.mu held and returns with it released.
func (s *Store) refreshLocked(ctx context.Context, key availability.Key, notify bool) availability.Result {
	if c, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		select {
		case <-c.done:
			return c.res
		case <-ctx.Done():
			return errorResult(key, ctx.Err(), s.clock.Now())
		}
	}

	c := &call{done: make(chan struct{})}
	s.inflight[key] = c
	s.mu.Unlock()

	res := s.check(ctx, key)

	s.mu.Lock()
	prev := s.entries[key]
	prevNotified := prev != nil && prev.notified

	actionable := res.Status.Actionable()
	shouldDispatch := actionable && !prevNotified && notify && s.notifier != nil

	s.entries[key] = &entry{
		res:       res,
		fetchedAt: s.clock.Now(),
		// Carry the flag only while the key stays actionable; anything else
		// re-arms the alert.
		notified: actionable && prevNotified,
	}
	c.res = res
	delete(s.inflight, key)
	s.mu.Unlock()
	close(c.done)

	if shouldDispatch {
		mTransitions.Inc()
		err := s.notifier.Notify(ctx, res)
		if err == nil || !s.rearmOnSendFailure {
			s.markNotified(key)
		}
	}
	return res
}

// markNotified sets the flag unless a later write already left the
// actionable set (last write wins).
func (s *Store) markNotified(key availability.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok && e.res.Status.Actionable() {
		e.notified = true
	}
}

// Peek returns the stored result without triggering a check.
func (s *Store) Peek(key availability.Key) (availability.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return availability.Result{}, false
	}
	return e.res, true
}

// Keys lists every key currently in the store, for the background sweep.
func (s *Store) Keys() []availability.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]availability.Key, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Snapshot returns every stored result, date-ordered, for the results view.
func (s *Store) Snapshot() []availability.Result {
	s.mu.Lock()
	out := make([]availability.Result, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.res)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		di, erri := time.Parse(availability.DateLayout, out[i].Date)
		dj, errj := time.Parse(availability.DateLayout, out[j].Date)
		if erri != nil || errj != nil {
			return out[i].Date < out[j].Date
		}
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return out[i].Party.Size() < out[j].Party.Size()
	})
	return out
}

func errorResult(key availability.Key, err error, now time.Time) availability.Result {
	return availability.Result{
		Date:      key.Date,
		Status:    availability.StatusError,
		Message:   err.Error(),
		CheckedAt: now.UnixMilli(),
		Party:     key.Party,
	}
}
