// Package report assembles, persists and renders session integrity reports.
package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/ayoisaiah/proctor/debounce"
	"github.com/ayoisaiah/proctor/internal/apperr"
	"github.com/ayoisaiah/proctor/internal/clock"
	"github.com/ayoisaiah/proctor/internal/models"
	"github.com/ayoisaiah/proctor/scoring"
	"github.com/ayoisaiah/proctor/store"
)

// Version identifies the report layout.
const Version = "1.0"

var ErrUnknownTier = &apperr.Error{
	Message: "unknown risk tier: %s",
	Kind:    apperr.KindValidation,
}

// Sessions resolves a session, applying its deadline.
type Sessions interface {
	Get(ctx context.Context, id string) (*models.Session, error)
}

// Store persists reports.
type Store interface {
	BuildReport(id string, build store.BuildFunc) (*models.IntegrityReport, error)
	GetReport(id string) (*models.IntegrityReport, error)
	ListReports() ([]models.IntegrityReport, error)
}

// Option configures a Builder.
type Option func(b *Builder)

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(b *Builder) {
		b.clock = c
	}
}

// WithEstimates sets the time in violation assumed for events that carry no
// measured sustain window.
func WithEstimates(m map[models.Category]time.Duration) Option {
	return func(b *Builder) {
		b.estimates = m
	}
}

// Builder produces one report per session.
type Builder struct {
	sessions  Sessions
	store     Store
	clock     clock.Clock
	estimates map[models.Category]time.Duration
}

// NewBuilder returns a Builder.
func NewBuilder(sessions Sessions, st Store, opts ...Option) *Builder {
	b := &Builder{
		sessions:  sessions,
		store:     st,
		clock:     clock.Real(),
		estimates: debounce.DefaultConfig().Estimates(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Assemble builds a report from a session and its ordered events.
func Assemble(
	sess *models.Session,
	events []models.ViolationEvent,
	now time.Time,
	estimates map[models.Category]time.Duration,
) *models.IntegrityReport {
	res := scoring.Score(events)

	return &models.IntegrityReport{
		SessionID:      sess.ID,
		CandidateName:  sess.CandidateName,
		CandidateEmail: sess.CandidateEmail,
		Status:         sess.Status,
		Score:          res.Score,
		RiskTier:       res.Tier,
		Breakdown:      res.Breakdown,
		TotalDeduction: res.TotalDeduction,
		TotalEvents:    len(events),
		Duration:       scoring.Duration(sess, events, now),
		StartTime:      sess.StartTime,
		EndTime:        sess.EndTime,
		TimeAnalysis:   Analyze(events, estimates),
		Events:         events,
		GeneratedAt:    now,
		Version:        Version,
	}
}

// Generate scores the current events of a session and replaces any report
// previously generated for it.
func (b *Builder) Generate(
	ctx context.Context,
	sessionID string,
) (*models.IntegrityReport, error) {
	// applies expiry before the snapshot
	_, err := b.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := b.clock.Now()

	r, err := b.store.BuildReport(
		sessionID,
		func(
			sess *models.Session,
			events []models.ViolationEvent,
		) (*models.IntegrityReport, error) {
			return Assemble(sess, events, now, b.estimates), nil
		},
	)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(
		ctx,
		"report generated",
		slog.String("session_id", sessionID),
		slog.Int("score", r.Score),
		slog.String("risk_tier", string(r.RiskTier)),
	)

	return r, nil
}

// Get returns the last report generated for a session.
func (b *Builder) Get(
	_ context.Context,
	sessionID string,
) (*models.IntegrityReport, error) {
	return b.store.GetReport(sessionID)
}

// Filter narrows List.
type Filter struct {
	Tier   models.RiskTier
	Limit  int
	Offset int
}

// Page is one page of reports.
type Page struct {
	Reports []models.IntegrityReport `json:"reports"`
	Total   int                      `json:"total"`
	Limit   int                      `json:"limit"`
	Offset  int                      `json:"offset"`
}

// List returns reports newest first, optionally restricted to one tier.
// A zero Limit returns every remaining report.
func (b *Builder) List(_ context.Context, f Filter) (*Page, error) {
	if f.Tier != "" && !f.Tier.Valid() {
		return nil, ErrUnknownTier.Fmt(f.Tier)
	}

	all, err := b.store.ListReports()
	if err != nil {
		return nil, err
	}

	matched := make([]models.IntegrityReport, 0, len(all))

	for i := range all {
		if f.Tier == "" || all[i].RiskTier == f.Tier {
			matched = append(matched, all[i])
		}
	}

	offset := min(max(f.Offset, 0), len(matched))

	end := len(matched)
	if f.Limit > 0 {
		end = min(offset+f.Limit, end)
	}

	return &Page{
		Reports: matched[offset:end],
		Total:   len(matched),
		Limit:   f.Limit,
		Offset:  offset,
	}, nil
}
