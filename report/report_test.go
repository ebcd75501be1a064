package report_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/proctor/debounce"
	"github.com/ayoisaiah/proctor/eventlog"
	"github.com/ayoisaiah/proctor/internal/clock"
	"github.com/ayoisaiah/proctor/internal/models"
	"github.com/ayoisaiah/proctor/internal/testutil"
	"github.com/ayoisaiah/proctor/lifecycle"
	"github.com/ayoisaiah/proctor/report"
	"github.com/ayoisaiah/proctor/store"
)

var epoch = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

type fixture struct {
	st      *store.Client
	lc      *lifecycle.Lifecycle
	log     *eventlog.Log
	builder *report.Builder
	clk     *clock.Fake
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := store.NewClient(filepath.Join(t.TempDir(), "proctor.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = st.Close()
	})

	clk := clock.NewFake(epoch)
	lc := lifecycle.New(st, lifecycle.WithClock(clk))

	return &fixture{
		st:      st,
		lc:      lc,
		log:     eventlog.New(st, eventlog.WithClock(clk)),
		builder: report.NewBuilder(lc, st, report.WithClock(clk)),
		clk:     clk,
	}
}

// session creates and starts a session, then logs one event per category,
// one second apart.
func (f *fixture) session(t *testing.T, categories ...models.Category) string {
	t.Helper()

	ctx := context.Background()

	sess, err := f.lc.Create(ctx, lifecycle.CreateInput{
		CandidateName:  "Grace Hopper",
		CandidateEmail: "grace@example.com",
	})
	require.NoError(t, err)

	_, err = f.lc.Start(ctx, sess.ID, models.JoinInfo{})
	require.NoError(t, err)

	for _, c := range categories {
		f.clk.Add(time.Second)

		_, err = f.log.Append(ctx, models.ViolationEvent{
			SessionID: sess.ID,
			Category:  c,
		})
		require.NoError(t, err)
	}

	return sess.ID
}

func TestGenerateScenarios(t *testing.T) {
	testCases := []struct {
		Name   string
		Tier   models.RiskTier
		Events []models.Category
		Score  int
	}{
		{
			Name:   "absences and a phone",
			Events: []models.Category{models.NoFace, models.NoFace, models.DeviceDetected},
			Score:  75,
			Tier:   models.RiskMedium,
		},
		{
			Name:  "clean session",
			Score: 100,
			Tier:  models.RiskLow,
		},
		{
			Name: "crowded room",
			Events: []models.Category{
				models.MultipleFaces,
				models.MultipleFaces,
				models.MultipleFaces,
				models.MultipleFaces,
			},
			Score: 68,
			Tier:  models.RiskMedium,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			f := newFixture(t)
			id := f.session(t, tc.Events...)

			r, err := f.builder.Generate(context.Background(), id)
			require.NoError(t, err)

			assert.Equal(t, tc.Score, r.Score)
			assert.Equal(t, tc.Tier, r.RiskTier)
			assert.Equal(t, len(tc.Events), r.TotalEvents)
			assert.Len(t, r.Breakdown, len(models.Categories))
			assert.Equal(t, report.Version, r.Version)
			assert.Equal(t, "Grace Hopper", r.CandidateName)
		})
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.session(t, models.FocusLost, models.MaterialsDetected)

	_, err := f.lc.Complete(ctx, id)
	require.NoError(t, err)

	first, err := f.builder.Generate(ctx, id)
	require.NoError(t, err)

	f.clk.Add(time.Hour)

	second, err := f.builder.Generate(ctx, id)
	require.NoError(t, err)

	opt := cmpopts.IgnoreFields(models.IntegrityReport{}, "GeneratedAt")
	if diff := cmp.Diff(first, second, opt); diff != "" {
		t.Errorf("regenerated report differs (-first +second):\n%s", diff)
	}

	stored, err := f.builder.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, stored.GeneratedAt.Equal(epoch.Add(2*time.Second+time.Hour)))
}

func TestGenerateReflectsNewEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.session(t, models.NoFace)

	r, err := f.builder.Generate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 95, r.Score)

	_, err = f.log.Append(ctx, models.ViolationEvent{
		SessionID: id,
		Category:  models.DeviceDetected,
	})
	require.NoError(t, err)

	r, err = f.builder.Generate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 80, r.Score)
	assert.Equal(t, models.RiskLow, r.RiskTier)
}

func TestGenerateErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.builder.Generate(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	id := f.session(t)

	_, err = f.builder.Get(ctx, id)
	assert.ErrorIs(t, err, store.ErrReportNotFound)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	clean := f.session(t)
	risky := f.session(t, models.DeviceDetected, models.DeviceDetected, models.DeviceDetected)
	mild := f.session(t, models.FocusLost)

	for _, id := range []string{clean, risky, mild} {
		f.clk.Add(time.Minute)

		_, err := f.builder.Generate(ctx, id)
		require.NoError(t, err)
	}

	page, err := f.builder.List(ctx, report.Filter{})
	require.NoError(t, err)
	require.Len(t, page.Reports, 3)
	assert.Equal(t, mild, page.Reports[0].SessionID)
	assert.Equal(t, clean, page.Reports[2].SessionID)

	page, err = f.builder.List(ctx, report.Filter{Tier: models.RiskLow})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = f.builder.List(ctx, report.Filter{Tier: models.RiskLow, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page.Reports, 1)
	assert.Equal(t, clean, page.Reports[0].SessionID)

	page, err = f.builder.List(ctx, report.Filter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Reports)
	assert.Equal(t, 3, page.Total)

	_, err = f.builder.List(ctx, report.Filter{Tier: "SEVERE"})
	assert.ErrorIs(t, err, report.ErrUnknownTier)
}

func TestAnalyze(t *testing.T) {
	events := []models.ViolationEvent{
		{Category: models.FocusLost, Timestamp: epoch},
		{Category: models.NoFace, Timestamp: epoch.Add(10 * time.Second), Sustained: 8 * time.Second},
		{Category: models.NoFace, Timestamp: epoch.Add(40 * time.Second)},
		{Category: models.DeviceDetected, Timestamp: epoch.Add(50 * time.Second)},
	}

	got := report.Analyze(events, debounce.DefaultConfig().Estimates())

	want := models.TimeAnalysis{
		PerCategory: map[models.Category]time.Duration{
			models.FocusLost:         5 * time.Second,
			models.NoFace:            18 * time.Second,
			models.MultipleFaces:     0,
			models.DeviceDetected:    0,
			models.MaterialsDetected: 0,
		},
		TotalViolationTime: 23 * time.Second,
		AverageGap:         50 * time.Second / 3,
		LongestGap:         30 * time.Second,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("analysis mismatch (-want +got):\n%s", diff)
	}

	single := report.Analyze(events[:1], debounce.DefaultConfig().Estimates())
	assert.Zero(t, single.AverageGap)
	assert.Zero(t, single.LongestGap)
}

func TestAnalyzeFollowsConfiguredSustain(t *testing.T) {
	cfg := debounce.DefaultConfig()
	cfg.NoFaceSustain = 30 * time.Second
	cfg.FocusLostSustain = 12 * time.Second

	got := report.Analyze([]models.ViolationEvent{
		{Category: models.NoFace, Timestamp: epoch},
		{Category: models.FocusLost, Timestamp: epoch.Add(time.Minute)},
		{Category: models.NoFace, Timestamp: epoch.Add(2 * time.Minute), Sustained: 9 * time.Second},
	}, cfg.Estimates())

	assert.Equal(t, 39*time.Second, got.PerCategory[models.NoFace])
	assert.Equal(t, 12*time.Second, got.PerCategory[models.FocusLost])
	assert.Equal(t, 51*time.Second, got.TotalViolationTime)

	none := report.Analyze([]models.ViolationEvent{
		{Category: models.NoFace, Timestamp: epoch},
	}, nil)
	assert.Zero(t, none.TotalViolationTime)
}

func TestBuilderUsesEstimates(t *testing.T) {
	f := newFixture(t)

	cfg := debounce.DefaultConfig()
	cfg.NoFaceSustain = 45 * time.Second

	builder := report.NewBuilder(
		f.lc,
		f.st,
		report.WithClock(f.clk),
		report.WithEstimates(cfg.Estimates()),
	)

	id := f.session(t, models.NoFace)

	r, err := builder.Generate(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, r.TimeAnalysis.PerCategory[models.NoFace])
}

func TestRender(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	start := epoch
	r := report.Assemble(&models.Session{
		ID:             "abc",
		CandidateName:  "Grace Hopper",
		CandidateEmail: "grace@example.com",
		Status:         models.StatusCompleted,
		CreatedAt:      epoch,
		StartTime:      &start,
	}, []models.ViolationEvent{
		{Category: models.NoFace, Timestamp: epoch, Seq: 1},
		{Category: models.MultipleFaces, Timestamp: epoch.Add(90 * time.Second), Seq: 2},
	}, epoch.Add(time.Hour), debounce.DefaultConfig().Estimates())

	var buf bytes.Buffer

	require.NoError(t, report.Render(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "Grace Hopper")
	assert.Contains(t, out, "87 / 100")
	assert.Contains(t, out, "LOW")
	assert.Contains(t, out, "no_face")
	assert.Contains(t, out, "1 minute 30 seconds")

	buf.Reset()
	require.NoError(t, report.RenderEvents(&buf, r.Events))
	assert.Contains(t, buf.String(), "multiple_faces")
}

func TestWriteJSON(t *testing.T) {
	start := epoch
	r := report.Assemble(&models.Session{
		ID:             "abc",
		CandidateName:  "Grace Hopper",
		CandidateEmail: "grace@example.com",
		Status:         models.StatusCompleted,
		CreatedAt:      epoch,
		StartTime:      &start,
	}, []models.ViolationEvent{
		{Category: models.NoFace, Timestamp: epoch, Seq: 1},
		{Category: models.MultipleFaces, Timestamp: epoch.Add(90 * time.Second), Seq: 2},
	}, epoch.Add(time.Hour), debounce.DefaultConfig().Estimates())

	var buf bytes.Buffer

	require.NoError(t, report.WriteJSON(&buf, r))

	testutil.CompareGoldenFile(t, testutil.GoldenOutput{
		Name: t.Name(),
		Data: buf.Bytes(),
	})
}
