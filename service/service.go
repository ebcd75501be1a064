// Package service exposes the proctoring operations used by the HTTP server
// and the command line.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ayoisaiah/proctor/debounce"
	"github.com/ayoisaiah/proctor/eventlog"
	"github.com/ayoisaiah/proctor/internal/clock"
	"github.com/ayoisaiah/proctor/internal/models"
	"github.com/ayoisaiah/proctor/lifecycle"
	"github.com/ayoisaiah/proctor/report"
	"github.com/ayoisaiah/proctor/store"
)

// Locator resolves the country of a candidate's address.
type Locator interface {
	Country(ip string) (string, error)
}

type settings struct {
	ctx       context.Context
	clock     clock.Clock
	detClock  clock.Clock
	publisher eventlog.Publisher
	locator   Locator
	detection debounce.Config
	expiry    time.Duration
}

// Option configures a Service.
type Option func(s *settings)

// WithClock replaces the wall clock everywhere.
func WithClock(c clock.Clock) Option {
	return func(s *settings) {
		s.clock = c
	}
}

// WithDetectionClock drives the sustain windows and cooldowns of the
// debouncer from c instead of the service clock.
func WithDetectionClock(c clock.Clock) Option {
	return func(s *settings) {
		s.detClock = c
	}
}

// WithExpiry sets the session deadline measured from creation.
func WithExpiry(d time.Duration) Option {
	return func(s *settings) {
		s.expiry = d
	}
}

// WithDetection sets the debounce windows and the object table.
func WithDetection(cfg debounce.Config) Option {
	return func(s *settings) {
		s.detection = cfg
	}
}

// WithPublisher fans appended events out to p without waiting for it.
func WithPublisher(p eventlog.Publisher) Option {
	return func(s *settings) {
		s.publisher = p
	}
}

// WithLocator records the candidate's country when a session starts.
func WithLocator(l Locator) Option {
	return func(s *settings) {
		s.locator = l
	}
}

// WithContext sets the context of deferred event appends.
func WithContext(ctx context.Context) Option {
	return func(s *settings) {
		s.ctx = ctx
	}
}

// Service wires the lifecycle, the debouncer, the event log and the report
// builder together.
type Service struct {
	locator   Locator
	lifecycle *lifecycle.Lifecycle
	events    *eventlog.Log
	registry  *debounce.Registry
	reports   *report.Builder
}

// SessionDetails is a session with its per-category event counts.
type SessionDetails struct {
	*models.Session
	EventCounts   map[models.Category]int `json:"event_counts"`
	CandidateLink string                  `json:"candidate_link"`
	TotalEvents   int                     `json:"total_events"`
}

// New builds a Service on top of st.
func New(st *store.Client, opts ...Option) *Service {
	cfg := settings{
		ctx:       context.Background(),
		clock:     clock.Real(),
		detection: debounce.DefaultConfig(),
		expiry:    lifecycle.DefaultExpiry,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	logOpts := []eventlog.Option{eventlog.WithClock(cfg.clock)}
	if cfg.publisher != nil {
		logOpts = append(logOpts, eventlog.WithPublisher(cfg.publisher))
	}

	lc := lifecycle.New(
		st,
		lifecycle.WithClock(cfg.clock),
		lifecycle.WithExpiry(cfg.expiry),
	)

	events := eventlog.New(st, logOpts...)

	detClock := cfg.clock
	if cfg.detClock != nil {
		detClock = cfg.detClock
	}

	registry := debounce.NewRegistry(
		events,
		cfg.detection,
		debounce.WithClock(detClock),
		debounce.WithContext(cfg.ctx),
	)

	lc.OnDeactivate(registry.Stop)

	return &Service{
		locator:   cfg.locator,
		lifecycle: lc,
		events:    events,
		registry:  registry,
		reports:   report.NewBuilder(
			lc,
			st,
			report.WithClock(cfg.clock),
			report.WithEstimates(cfg.detection.Estimates()),
		),
	}
}

// CreateSession registers a new pending session.
func (s *Service) CreateSession(
	ctx context.Context,
	in lifecycle.CreateInput,
) (*models.Session, error) {
	return s.lifecycle.Create(ctx, in)
}

// ListSessions lists sessions with their status counts.
func (s *Service) ListSessions(
	ctx context.Context,
	filter store.SessionFilter,
) (*lifecycle.ListResult, error) {
	return s.lifecycle.List(ctx, filter)
}

// GetSession returns a session with its event counts.
func (s *Service) GetSession(
	ctx context.Context,
	id string,
) (*SessionDetails, error) {
	sess, err := s.lifecycle.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := s.events.Counts(ctx, id)
	if err != nil {
		return nil, err
	}

	var total int
	for _, n := range counts {
		total += n
	}

	return &SessionDetails{
		Session:       sess,
		EventCounts:   counts,
		CandidateLink: sess.CandidateLink(),
		TotalEvents:   total,
	}, nil
}

// StartSession activates a pending session.
func (s *Service) StartSession(
	ctx context.Context,
	id string,
	join models.JoinInfo,
) (*models.Session, error) {
	if s.locator != nil && join.IPAddress != "" {
		country, err := s.locator.Country(join.IPAddress)
		if err != nil {
			slog.WarnContext(
				ctx,
				"country lookup failed",
				slog.String("session_id", id),
				slog.Any("error", err),
			)
		}

		join.Country = country
	}

	return s.lifecycle.Start(ctx, id, join)
}

// CompleteSession ends an active session and cancels its pending detections.
func (s *Service) CompleteSession(
	ctx context.Context,
	id string,
) (*models.Session, error) {
	return s.lifecycle.Complete(ctx, id)
}

// IngestSignal feeds one sample to the debouncer of a session. Samples for
// sessions that are not active are dropped and accepted is false.
func (s *Service) IngestSignal(
	ctx context.Context,
	id string,
	sample models.Sample,
) (accepted bool, err error) {
	sess, err := s.lifecycle.Get(ctx, id)
	if err != nil {
		return false, err
	}

	if sess.Status != models.StatusActive {
		slog.DebugContext(
			ctx,
			"sample dropped: session not active",
			slog.String("session_id", id),
			slog.String("status", string(sess.Status)),
		)

		return false, nil
	}

	err = s.registry.Observe(ctx, id, sample)
	if errors.Is(err, debounce.ErrSessionClosed) {
		// completed or expired after the status check
		slog.DebugContext(
			ctx,
			"sample dropped: detection stopped",
			slog.String("session_id", id),
		)

		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

// LogEvent appends an event directly, bypassing the debouncer. Events
// without a source are recorded as manual tests.
func (s *Service) LogEvent(
	ctx context.Context,
	ev models.ViolationEvent,
) (*models.ViolationEvent, error) {
	if ev.Source == "" {
		ev.Source = models.SourceManualTest
	}

	// applies expiry so that the append sees the current status
	_, err := s.lifecycle.Get(ctx, ev.SessionID)
	if err != nil {
		return nil, err
	}

	return s.events.Append(ctx, ev)
}

// ListEvents returns the events of a session in timestamp order.
func (s *Service) ListEvents(
	ctx context.Context,
	id string,
) ([]models.ViolationEvent, error) {
	_, err := s.lifecycle.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.events.ListBySession(ctx, id)
}

// GenerateReport scores a session and stores its report.
func (s *Service) GenerateReport(
	ctx context.Context,
	id string,
) (*models.IntegrityReport, error) {
	return s.reports.Generate(ctx, id)
}

// GetReport returns the stored report of a session.
func (s *Service) GetReport(
	ctx context.Context,
	id string,
) (*models.IntegrityReport, error) {
	return s.reports.Get(ctx, id)
}

// ListReports returns a page of reports.
func (s *Service) ListReports(
	ctx context.Context,
	f report.Filter,
) (*report.Page, error) {
	return s.reports.List(ctx, f)
}

// Sweep expires every session past its deadline.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	return s.lifecycle.Sweep(ctx)
}

// Trackers returns the number of sessions with live detection state.
func (s *Service) Trackers() int {
	return s.registry.Len()
}

// Close cancels every pending detection and waits for appended violations
// to reach the publisher.
func (s *Service) Close() {
	s.registry.StopAll()
	s.events.Close()
}
