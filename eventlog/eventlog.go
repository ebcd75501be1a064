// Package eventlog records violation events against active sessions.
package eventlog

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ayoisaiah/proctor/internal/clock"
	"github.com/ayoisaiah/proctor/internal/models"
)

// Store is the persistence used by the event log.
type Store interface {
	AppendEvent(
		ev *models.ViolationEvent,
		check func(sess *models.Session) error,
		now func() time.Time,
	) error
	ListEvents(sessionID string) ([]models.ViolationEvent, error)
}

// Publisher is notified of every appended event.
type Publisher interface {
	Publish(ctx context.Context, ev *models.ViolationEvent) error
}

// Option configures a Log.
type Option func(l *Log)

// WithClock replaces the wall clock used to stamp events.
func WithClock(c clock.Clock) Option {
	return func(l *Log) {
		l.clock = c
	}
}

// DefaultQueueSize is how many appended events may wait for the publisher.
const DefaultQueueSize = 256

// WithPublisher fans appended events out to p. Events are delivered in
// order by a background worker so that a slow publisher never holds up an
// append.
func WithPublisher(p Publisher) Option {
	return func(l *Log) {
		l.pub = p
	}
}

// WithQueueSize sets how many events may wait for the publisher. Events
// appended while the queue is full are not published.
func WithQueueSize(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.queueSize = n
		}
	}
}

type delivery struct {
	ctx context.Context
	ev  models.ViolationEvent
}

// Log is an append-only, per-session violation log.
type Log struct {
	store     Store
	clock     clock.Clock
	pub       Publisher
	queue     chan delivery
	done      chan struct{}
	queueSize int
	mu        sync.RWMutex
	closed    bool
}

// New returns a Log backed by st.
func New(st Store, opts ...Option) *Log {
	l := &Log{
		store:     st,
		clock:     clock.Real(),
		queueSize: DefaultQueueSize,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.pub != nil {
		l.queue = make(chan delivery, l.queueSize)
		l.done = make(chan struct{})

		go l.deliver()
	}

	return l
}

func (l *Log) deliver() {
	defer close(l.done)

	for d := range l.queue {
		err := l.pub.Publish(d.ctx, &d.ev)
		if err != nil {
			slog.ErrorContext(
				d.ctx,
				"publishing violation failed",
				slog.String("session_id", d.ev.SessionID),
				slog.Uint64("seq", d.ev.Seq),
				slog.Any("error", err),
			)
		}
	}
}

// enqueue hands ev to the publisher without waiting for it.
func (l *Log) enqueue(ctx context.Context, ev models.ViolationEvent) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return
	}

	select {
	case l.queue <- delivery{ctx: context.WithoutCancel(ctx), ev: ev}:
	default:
		slog.WarnContext(
			ctx,
			"violation not published: queue full",
			slog.String("session_id", ev.SessionID),
			slog.Uint64("seq", ev.Seq),
		)
	}
}

// Close stops accepting events for the publisher and waits until the queued
// ones are delivered. Appends keep working after Close.
func (l *Log) Close() {
	if l.queue == nil {
		return
	}

	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.queue)
	}
	l.mu.Unlock()

	<-l.done
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}

	return v
}

// Append validates ev and stores it. The session must be active and within
// its deadline when the write transaction runs.
func (l *Log) Append(
	ctx context.Context,
	ev models.ViolationEvent,
) (*models.ViolationEvent, error) {
	if ev.Category == "" {
		return nil, ErrCategoryRequired
	}

	if !ev.Category.Valid() {
		return nil, ErrUnknownCategory.Fmt(ev.Category)
	}

	if ev.Source == "" {
		ev.Source = models.SourceLiveSignal
	}

	if !ev.Source.Valid() {
		return nil, ErrUnknownSource.Fmt(ev.Source)
	}

	ev.Confidence = clamp(ev.Confidence)

	check := func(sess *models.Session) error {
		if sess.Status != models.StatusActive {
			return ErrSessionNotActive.Fmt(sess.ID, sess.Status)
		}

		if sess.Due(l.clock.Now()) {
			return ErrSessionNotActive.Fmt(sess.ID, models.StatusExpired)
		}

		return nil
	}

	err := l.store.AppendEvent(&ev, check, l.clock.Now)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(
		ctx,
		"violation logged",
		slog.String("session_id", ev.SessionID),
		slog.String("category", string(ev.Category)),
		slog.String("source", string(ev.Source)),
		slog.Uint64("seq", ev.Seq),
	)

	if l.queue != nil {
		l.enqueue(ctx, ev)
	}

	return &ev, nil
}

// ListBySession returns the events of a session in timestamp order.
func (l *Log) ListBySession(
	_ context.Context,
	sessionID string,
) ([]models.ViolationEvent, error) {
	return l.store.ListEvents(sessionID)
}

// Counts returns the number of events per category, with every category
// present.
func (l *Log) Counts(
	ctx context.Context,
	sessionID string,
) (map[models.Category]int, error) {
	events, err := l.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Category]int, len(models.Categories))
	for _, c := range models.Categories {
		counts[c] = 0
	}

	for i := range events {
		counts[events[i].Category]++
	}

	return counts, nil
}
