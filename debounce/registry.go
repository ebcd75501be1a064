package debounce

import (
	"context"
	"sync"

	"github.com/ayoisaiah/proctor/internal/apperr"
	"github.com/ayoisaiah/proctor/internal/clock"
	"github.com/ayoisaiah/proctor/internal/models"
)

// ErrSessionClosed is returned for samples of a session whose tracker has
// been stopped.
var ErrSessionClosed = &apperr.Error{
	Message: "detection stopped for session %s",
	Kind:    apperr.KindSessionNotActive,
}

// Option configures a Registry.
type Option func(r *Registry)

// WithClock replaces the wall clock used for windows and timers.
func WithClock(c clock.Clock) Option {
	return func(r *Registry) {
		r.clock = c
	}
}

// WithContext sets the context used when deferred fires append events.
func WithContext(ctx context.Context) Option {
	return func(r *Registry) {
		r.ctx = ctx
	}
}

// Registry owns one Tracker per active session. A session whose tracker
// has been stopped is closed for good: no tracker is created for it again.
type Registry struct {
	ctx      context.Context
	clock    clock.Clock
	sink     Sink
	trackers map[string]*Tracker
	closed   map[string]struct{}
	rules    []rule
	mu       sync.Mutex
}

// NewRegistry returns an empty Registry that appends to sink.
func NewRegistry(sink Sink, cfg Config, opts ...Option) *Registry {
	r := &Registry{
		ctx:      context.Background(),
		clock:    clock.Real(),
		sink:     sink,
		trackers: make(map[string]*Tracker),
		closed:   make(map[string]struct{}),
		rules:    buildRules(cfg),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Tracker returns the tracker of a session, creating it if needed. It
// reports false for a closed session.
func (r *Registry) Tracker(sessionID string) (*Tracker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.trackers[sessionID]; ok {
		return t, true
	}

	if _, ok := r.closed[sessionID]; ok {
		return nil, false
	}

	t := newTracker(r.ctx, sessionID, r.rules, r.clock, r.sink)
	t.release = func() {
		r.remove(t)
	}

	r.trackers[sessionID] = t

	return t, true
}

// Observe feeds a sample to the tracker of a session. Samples of a closed
// session are rejected with ErrSessionClosed.
func (r *Registry) Observe(
	ctx context.Context,
	sessionID string,
	s models.Sample,
) error {
	t, ok := r.Tracker(sessionID)
	if !ok {
		return ErrSessionClosed.Fmt(sessionID)
	}

	return t.Observe(ctx, s)
}

// Stop cancels the pending fires of a session, forgets its tracker and
// closes the session.
func (r *Registry) Stop(sessionID string) {
	r.mu.Lock()
	t, ok := r.trackers[sessionID]
	delete(r.trackers, sessionID)
	r.closed[sessionID] = struct{}{}
	r.mu.Unlock()

	if ok {
		t.Stop()
	}
}

// StopAll stops every tracker.
func (r *Registry) StopAll() {
	r.mu.Lock()
	trackers := r.trackers
	r.trackers = make(map[string]*Tracker)

	for id := range trackers {
		r.closed[id] = struct{}{}
	}
	r.mu.Unlock()

	for _, t := range trackers {
		t.Stop()
	}
}

// Len returns the number of live trackers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.trackers)
}

func (r *Registry) remove(t *Tracker) {
	r.mu.Lock()
	if r.trackers[t.sessionID] == t {
		delete(r.trackers, t.sessionID)
	}

	r.closed[t.sessionID] = struct{}{}
	r.mu.Unlock()

	t.Stop()
}
