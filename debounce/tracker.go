// Package debounce turns a stream of noisy samples into discrete violation
// events using per-category sustain windows and cooldowns.
package debounce

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ayoisaiah/proctor/internal/apperr"
	"github.com/ayoisaiah/proctor/internal/clock"
	"github.com/ayoisaiah/proctor/internal/models"
)

// ErrInvalidSample is returned for samples that cannot be evaluated.
var ErrInvalidSample = &apperr.Error{
	Message: "invalid sample: %s",
	Kind:    apperr.KindValidation,
}

// Sink receives confirmed violations.
type Sink interface {
	Append(
		ctx context.Context,
		ev models.ViolationEvent,
	) (*models.ViolationEvent, error)
}

type pendingFire struct {
	timer   clock.Timer
	armedAt time.Time
	detail  string
	sample  models.Sample
	sustain time.Duration
	token   uint64
}

// categoryState is the debounce state of one category in one session. A nil
// pending means the category is idle.
type categoryState struct {
	pending   *pendingFire
	lastFired time.Time
	fired     bool
}

func (st *categoryState) cooling(now time.Time, cooldown time.Duration) bool {
	return cooldown > 0 && st.fired && now.Sub(st.lastFired) < cooldown
}

func (st *categoryState) cancel() {
	if st.pending == nil {
		return
	}

	st.pending.timer.Stop()
	st.pending = nil
}

// Tracker holds the debounce state of every category for a single session.
type Tracker struct {
	ctx       context.Context
	clock     clock.Clock
	sink      Sink
	release   func()
	states    map[models.Category]*categoryState
	sessionID string
	rules     []rule
	seq       uint64
	mu        sync.Mutex
	stopped   bool
}

func newTracker(
	ctx context.Context,
	sessionID string,
	rules []rule,
	clk clock.Clock,
	sink Sink,
) *Tracker {
	t := &Tracker{
		ctx:       ctx,
		sessionID: sessionID,
		rules:     rules,
		clock:     clk,
		sink:      sink,
		states:    make(map[models.Category]*categoryState, len(rules)),
	}

	for i := range rules {
		t.states[rules[i].category] = &categoryState{}
	}

	return t
}

// SessionID returns the session the tracker belongs to.
func (t *Tracker) SessionID() string {
	return t.sessionID
}

// Pending reports whether category c has an armed sustain window.
func (t *Tracker) Pending(c models.Category) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.states[c]

	return ok && st.pending != nil
}

func (t *Tracker) event(
	r *rule,
	s models.Sample,
	detail string,
	sustained time.Duration,
) models.ViolationEvent {
	confidence := s.Confidence
	if r.category == models.NoFace {
		confidence = 0
	}

	return models.ViolationEvent{
		SessionID:   t.sessionID,
		Category:    r.category,
		Description: r.describe(s, detail, sustained),
		Confidence:  confidence,
		Source:      models.SourceLiveSignal,
		Sustained:   sustained,
	}
}

// Observe evaluates one sample. Events for categories without a sustain
// window are appended before Observe returns; sustained categories arm a
// deferred fire instead.
func (t *Tracker) Observe(ctx context.Context, s models.Sample) error {
	if s.FaceCount < 0 {
		return ErrInvalidSample.Fmt("face count cannot be negative")
	}

	if math.IsNaN(s.Confidence) {
		return ErrInvalidSample.Fmt("confidence is not a number")
	}

	s.Confidence = math.Max(0, math.Min(1, s.Confidence))

	var fires []models.ViolationEvent

	t.mu.Lock()

	if t.stopped {
		t.mu.Unlock()

		slog.DebugContext(
			ctx,
			"sample dropped: tracker stopped",
			slog.String("session_id", t.sessionID),
		)

		return nil
	}

	now := t.clock.Now()

	for i := range t.rules {
		r := &t.rules[i]
		st := t.states[r.category]

		detail, hit := r.match(s)
		if !hit {
			st.cancel()
			continue
		}

		if st.cooling(now, r.cooldown) {
			continue
		}

		sustain := r.sustainFor(s)
		if sustain <= 0 {
			st.lastFired = now
			st.fired = true
			fires = append(fires, t.event(r, s, detail, 0))

			continue
		}

		if st.pending != nil {
			continue
		}

		t.arm(r.category, st, s, detail, sustain, now)
	}

	t.mu.Unlock()

	for i := range fires {
		t.emit(ctx, fires[i])
	}

	return nil
}

// arm must be called with t.mu held.
func (t *Tracker) arm(
	c models.Category,
	st *categoryState,
	s models.Sample,
	detail string,
	sustain time.Duration,
	now time.Time,
) {
	t.seq++
	token := t.seq

	p := &pendingFire{
		armedAt: now,
		detail:  detail,
		sample:  s,
		sustain: sustain,
		token:   token,
	}

	st.pending = p
	p.timer = t.clock.AfterFunc(sustain, func() {
		t.fire(c, token)
	})
}

func (t *Tracker) fire(c models.Category, token uint64) {
	t.mu.Lock()

	st := t.states[c]
	if t.stopped || st.pending == nil || st.pending.token != token {
		t.mu.Unlock()
		return
	}

	p := st.pending
	st.pending = nil

	now := t.clock.Now()
	st.lastFired = now
	st.fired = true

	var r *rule

	for i := range t.rules {
		if t.rules[i].category == c {
			r = &t.rules[i]
			break
		}
	}

	sustained := now.Sub(p.armedAt)
	if sustained < p.sustain {
		sustained = p.sustain
	}

	ev := t.event(r, p.sample, p.detail, sustained)

	t.mu.Unlock()

	t.emit(t.ctx, ev)
}

func (t *Tracker) emit(ctx context.Context, ev models.ViolationEvent) {
	_, err := t.sink.Append(ctx, ev)
	if err == nil {
		return
	}

	if apperr.KindOf(err) == apperr.KindSessionNotActive {
		slog.DebugContext(
			ctx,
			"violation dropped: session no longer active",
			slog.String("session_id", t.sessionID),
			slog.String("category", string(ev.Category)),
		)

		if t.release != nil {
			t.release()
		}

		return
	}

	slog.ErrorContext(
		ctx,
		"appending violation failed",
		slog.String("session_id", t.sessionID),
		slog.String("category", string(ev.Category)),
		slog.Any("error", err),
	)
}

// Stop cancels every pending fire. Samples observed after Stop are ignored.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true

	for _, st := range t.states {
		st.cancel()
	}
}
