// Package lifecycle owns the status of monitored sessions: creation, start,
// completion and deadline expiry.
package lifecycle

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayoisaiah/proctor/internal/clock"
	"github.com/ayoisaiah/proctor/internal/models"
	"github.com/ayoisaiah/proctor/store"
)

// DefaultExpiry is how long a session may stay open after creation.
const DefaultExpiry = 7 * 24 * time.Hour

// Store is the persistence used by the lifecycle.
type Store interface {
	CreateSession(sess *models.Session) error
	GetSession(id string) (*models.Session, error)
	UpdateSession(
		id string,
		fn func(sess *models.Session) error,
	) (*models.Session, error)
	ListSessions(filter store.SessionFilter) ([]models.Session, error)
}

// CreateInput describes a new session.
type CreateInput struct {
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email"`
	Notes          string `json:"notes"`
}

// ListResult is a filtered page of sessions plus the status counts of every
// session in the time window.
type ListResult struct {
	Counts   map[models.Status]int `json:"counts"`
	Sessions []models.Session      `json:"sessions"`
}

// Option configures a Lifecycle.
type Option func(l *Lifecycle)

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(l *Lifecycle) {
		l.clock = c
	}
}

// WithExpiry sets how long a session stays open after creation.
func WithExpiry(d time.Duration) Option {
	return func(l *Lifecycle) {
		if d > 0 {
			l.expiry = d
		}
	}
}

// WithIDGenerator replaces the session id generator.
func WithIDGenerator(fn func() string) Option {
	return func(l *Lifecycle) {
		l.newID = fn
	}
}

// Lifecycle enforces the pending, active, completed and expired transitions.
type Lifecycle struct {
	store     Store
	clock     clock.Clock
	newID     func() string
	listeners []func(sessionID string)
	expiry    time.Duration
	mu        sync.RWMutex
}

// New returns a Lifecycle backed by st.
func New(st Store, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		store:  st,
		clock:  clock.Real(),
		expiry: DefaultExpiry,
		newID:  uuid.NewString,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// OnDeactivate registers fn to be called after a session leaves the active
// status. Listeners run synchronously after the change is committed.
func (l *Lifecycle) OnDeactivate(fn func(sessionID string)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.listeners = append(l.listeners, fn)
}

func (l *Lifecycle) deactivated(ctx context.Context, id string) {
	l.mu.RLock()
	listeners := l.listeners
	l.mu.RUnlock()

	slog.DebugContext(ctx, "session deactivated", slog.String("session_id", id))

	for _, fn := range listeners {
		fn(id)
	}
}

// Create validates in and persists a new pending session.
func (l *Lifecycle) Create(
	ctx context.Context,
	in CreateInput,
) (*models.Session, error) {
	name := strings.TrimSpace(in.CandidateName)
	if name == "" {
		return nil, ErrNameRequired
	}

	email := strings.TrimSpace(in.CandidateEmail)

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, ErrInvalidEmail.Fmt(in.CandidateEmail)
	}

	now := l.clock.Now()

	sess := &models.Session{
		ID:             l.newID(),
		CandidateName:  name,
		CandidateEmail: email,
		Notes:          strings.TrimSpace(in.Notes),
		Status:         models.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(l.expiry),
	}

	err = l.store.CreateSession(sess)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(
		ctx,
		"session created",
		slog.String("session_id", sess.ID),
		slog.Time("expires_at", sess.ExpiresAt),
	)

	return sess, nil
}

func expire(s *models.Session, now time.Time) {
	s.Status = models.StatusExpired
	s.UpdatedAt = now

	if s.EndTime == nil {
		end := s.ExpiresAt
		s.EndTime = &end
	}
}

// expireIfDue persists the expired status of sess if its deadline has
// passed. The returned session is the current persisted state.
func (l *Lifecycle) expireIfDue(
	ctx context.Context,
	sess *models.Session,
) (*models.Session, error) {
	now := l.clock.Now()

	if !sess.Due(now) {
		return sess, nil
	}

	var wasActive bool

	updated, err := l.store.UpdateSession(sess.ID, func(s *models.Session) error {
		if !s.Due(now) {
			return nil
		}

		wasActive = s.Status == models.StatusActive
		expire(s, now)

		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.Status == models.StatusExpired && sess.Status != models.StatusExpired {
		slog.InfoContext(
			ctx,
			"session expired",
			slog.String("session_id", sess.ID),
		)
	}

	if wasActive {
		l.deactivated(ctx, sess.ID)
	}

	return updated, nil
}

// Get returns a session, expiring it first if its deadline has passed.
func (l *Lifecycle) Get(ctx context.Context, id string) (*models.Session, error) {
	sess, err := l.store.GetSession(id)
	if err != nil {
		return nil, err
	}

	return l.expireIfDue(ctx, sess)
}

// CheckExpiry applies the deadline to a session and returns its status.
func (l *Lifecycle) CheckExpiry(
	ctx context.Context,
	id string,
) (models.Status, error) {
	sess, err := l.Get(ctx, id)
	if err != nil {
		return "", err
	}

	return sess.Status, nil
}

// Start moves a pending session to active and records how the candidate
// joined.
func (l *Lifecycle) Start(
	ctx context.Context,
	id string,
	join models.JoinInfo,
) (*models.Session, error) {
	now := l.clock.Now()

	var expired, wasActive bool

	sess, err := l.store.UpdateSession(id, func(s *models.Session) error {
		if s.Due(now) {
			expired = true
			wasActive = s.Status == models.StatusActive
			expire(s, now)

			return nil
		}

		if s.Status != models.StatusPending {
			return ErrInvalidTransition.Fmt("start", s.ID, s.Status)
		}

		started := now
		join.JoinedAt = now

		s.Status = models.StatusActive
		s.StartTime = &started
		s.Join = &join
		s.UpdatedAt = now

		return nil
	})
	if err != nil {
		return nil, err
	}

	if expired {
		if wasActive {
			l.deactivated(ctx, id)
		}

		return nil, ErrExpired.Fmt(id, sess.ExpiresAt.Format(time.RFC3339))
	}

	slog.InfoContext(ctx, "session started", slog.String("session_id", id))

	return sess, nil
}

// Complete moves an active session to completed.
func (l *Lifecycle) Complete(
	ctx context.Context,
	id string,
) (*models.Session, error) {
	now := l.clock.Now()

	var expired bool

	sess, err := l.store.UpdateSession(id, func(s *models.Session) error {
		if s.Due(now) {
			expired = s.Status == models.StatusActive
			expire(s, now)

			return nil
		}

		if s.Status != models.StatusActive {
			return ErrInvalidTransition.Fmt("complete", s.ID, s.Status)
		}

		ended := now

		s.Status = models.StatusCompleted
		s.EndTime = &ended
		s.UpdatedAt = now

		return nil
	})
	if err != nil {
		return nil, err
	}

	if sess.Status == models.StatusExpired {
		if expired {
			l.deactivated(ctx, id)
		}

		return nil, ErrInvalidTransition.Fmt("complete", id, sess.Status)
	}

	slog.InfoContext(ctx, "session completed", slog.String("session_id", id))

	l.deactivated(ctx, id)

	return sess, nil
}

// List returns the sessions matching filter after applying expiry to each.
func (l *Lifecycle) List(
	ctx context.Context,
	filter store.SessionFilter,
) (*ListResult, error) {
	status := filter.Status
	filter.Status = ""

	all, err := l.store.ListSessions(filter)
	if err != nil {
		return nil, err
	}

	res := &ListResult{
		Counts:   make(map[models.Status]int, len(models.Statuses)),
		Sessions: []models.Session{},
	}

	for _, st := range models.Statuses {
		res.Counts[st] = 0
	}

	for i := range all {
		sess, err := l.expireIfDue(ctx, &all[i])
		if err != nil {
			return nil, err
		}

		res.Counts[sess.Status]++

		if status == "" || sess.Status == status {
			res.Sessions = append(res.Sessions, *sess)
		}
	}

	return res, nil
}

// Sweep expires every open session whose deadline has passed and returns
// how many were expired.
func (l *Lifecycle) Sweep(ctx context.Context) (int, error) {
	all, err := l.store.ListSessions(store.SessionFilter{})
	if err != nil {
		return 0, err
	}

	var n int

	for i := range all {
		if all[i].Status.Terminal() {
			continue
		}

		sess, err := l.expireIfDue(ctx, &all[i])
		if err != nil {
			return n, err
		}

		if sess.Status == models.StatusExpired {
			n++
		}
	}

	return n, nil
}
