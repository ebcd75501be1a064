// Package monitor renders a live terminal dashboard of one proctoring
// session: its violations as they are recorded and the running score.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"github.com/ayoisaiah/proctor/internal/models"
	"github.com/ayoisaiah/proctor/scoring"
)

const (
	padding         = 2
	maxWidth        = 60
	defaultInterval = time.Second
	recentEvents    = 5
)

// Events lists the violations of a session.
type Events interface {
	ListEvents(ctx context.Context, id string) ([]models.ViolationEvent, error)
}

type (
	tickMsg time.Time

	eventsMsg struct {
		err    error
		events []models.ViolationEvent
	}

	// DoneMsg tells the dashboard that the signal source is exhausted.
	DoneMsg struct {
		Err      error
		Samples  int
		Accepted int
	}
)

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx       context.Context
	src       Events
	err       error
	done      *DoneMsg
	help      help.Model
	style     Style
	sessionID string
	events    []models.ViolationEvent
	result    scoring.Result
	progress  progress.Model
	interval  time.Duration
	quitting  bool
}

// New returns a dashboard for sessionID that refreshes from src.
func New(ctx context.Context, src Events, sessionID string, dark bool) *Model {
	return &Model{
		ctx:       ctx,
		src:       src,
		sessionID: sessionID,
		style:     NewStyle(dark),
		help:      help.New(),
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithoutPercentage(),
		),
		interval: defaultInterval,
		result:   scoring.Score(nil),
	}
}

// Quitting reports whether the operator asked to stop.
func (m *Model) Quitting() bool {
	return m.quitting
}

func (m *Model) fetch() tea.Msg {
	events, err := m.src.ListEvents(m.ctx, m.sessionID)

	return eventsMsg{events: events, err: err}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetch, m.tick())
}

func (m *Model) handleEvents(msg eventsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}

	m.err = nil
	m.events = msg.events
	m.result = scoring.Score(msg.events)

	cmd := m.progress.SetPercent(float64(m.result.Score) / scoring.MaxScore)

	if m.done != nil {
		return m, tea.Sequence(cmd, tea.Quit)
	}

	return m, cmd
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.done != nil {
			return m, nil
		}

		return m, tea.Batch(m.fetch, m.tick())

	case eventsMsg:
		return m.handleEvents(msg)

	case DoneMsg:
		m.done = &msg

		// one last refresh picks up the final events
		return m, m.fetch

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultKeymap.refresh):
			return m, m.fetch

		case key.Matches(msg, defaultKeymap.quit):
			m.quitting = true

			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-padding*2-4, maxWidth)

		return m, nil

	// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress, _ = progressModel.(progress.Model)

		return m, cmd

	default:
		slog.Debug("unhandled dashboard message", slog.String("msg", spew.Sdump(msg)))
	}

	return m, nil
}
