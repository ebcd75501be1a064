package service_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/proctor/debounce"
	"github.com/ayoisaiah/proctor/eventlog"
	"github.com/ayoisaiah/proctor/internal/clock"
	"github.com/ayoisaiah/proctor/internal/models"
	"github.com/ayoisaiah/proctor/lifecycle"
	"github.com/ayoisaiah/proctor/service"
	"github.com/ayoisaiah/proctor/signal"
	"github.com/ayoisaiah/proctor/store"
)

var epoch = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*service.Service, *clock.Fake) {
	t.Helper()

	st, err := store.NewClient(filepath.Join(t.TempDir(), "proctor.db"))
	require.NoError(t, err)

	clk := clock.NewFake(epoch)
	svc := service.New(st, service.WithClock(clk), service.WithExpiry(2*time.Hour))

	t.Cleanup(func() {
		svc.Close()
		_ = st.Close()
	})

	return svc, clk
}

func startSession(t *testing.T, svc *service.Service) string {
	t.Helper()

	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, lifecycle.CreateInput{
		CandidateName:  "Alan Turing",
		CandidateEmail: "alan@example.com",
	})
	require.NoError(t, err)

	_, err = svc.StartSession(ctx, sess.ID, models.JoinInfo{UserAgent: "test"})
	require.NoError(t, err)

	return sess.ID
}

func ingest(t *testing.T, svc *service.Service, id string, s models.Sample) {
	t.Helper()

	accepted, err := svc.IngestSignal(context.Background(), id, s)
	require.NoError(t, err)
	require.True(t, accepted)
}

func TestSignalsToReport(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()

	id := startSession(t, svc)

	away := models.Sample{FaceCount: 0}
	back := models.Sample{FaceCount: 1, Confidence: 0.9}

	// two sustained absences
	for range 2 {
		ingest(t, svc, id, away)
		clk.Add(12 * time.Second)
		ingest(t, svc, id, back)
		clk.Add(time.Second)
	}

	ingest(t, svc, id, models.Sample{
		FaceCount:     1,
		Confidence:    0.9,
		ObjectClasses: []string{"cell phone"},
	})

	_, err := svc.CompleteSession(ctx, id)
	require.NoError(t, err)

	events, err := svc.ListEvents(ctx, id)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, models.NoFace, events[0].Category)
	assert.Equal(t, models.DeviceDetected, events[2].Category)

	r, err := svc.GenerateReport(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 75, r.Score)
	assert.Equal(t, models.RiskMedium, r.RiskTier)
	assert.Equal(t, 20*time.Second, r.TimeAnalysis.PerCategory[models.NoFace])

	details, err := svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, details.TotalEvents)
	assert.Equal(t, 2, details.EventCounts[models.NoFace])
	assert.Equal(t, "/candidate/"+id, details.CandidateLink)
}

func TestCompleteCancelsPendingDetection(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()

	id := startSession(t, svc)

	ingest(t, svc, id, models.Sample{FaceCount: 0})
	assert.Equal(t, 1, svc.Trackers())
	assert.Equal(t, 1, clk.Pending())

	clk.Add(5 * time.Second)

	_, err := svc.CompleteSession(ctx, id)
	require.NoError(t, err)

	assert.Zero(t, svc.Trackers())
	assert.Zero(t, clk.Pending())

	clk.Add(time.Minute)

	events, err := svc.ListEvents(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSamplesForInactiveSessionsAreDropped(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, lifecycle.CreateInput{
		CandidateName:  "Alan Turing",
		CandidateEmail: "alan@example.com",
	})
	require.NoError(t, err)

	accepted, err := svc.IngestSignal(ctx, sess.ID, models.Sample{FaceCount: 3})
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Zero(t, svc.Trackers())
	assert.Zero(t, clk.Pending())

	_, err = svc.IngestSignal(ctx, "missing", models.Sample{})
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestDeadlineStopsDetection(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()

	id := startSession(t, svc)

	clk.Add(2*time.Hour - 5*time.Second)
	ingest(t, svc, id, models.Sample{FaceCount: 0})

	clk.Add(11 * time.Second)

	// the deferred fire lands after the deadline and is rejected
	events, err := svc.ListEvents(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, events)

	n, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	details, err := svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, details.Status)
	assert.Zero(t, svc.Trackers())
}

func TestLogEvent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id := startSession(t, svc)

	ev, err := svc.LogEvent(ctx, models.ViolationEvent{
		SessionID:   id,
		Category:    models.MaterialsDetected,
		Description: "notes on desk",
		Confidence:  0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SourceManualTest, ev.Source)

	_, err = svc.LogEvent(ctx, models.ViolationEvent{SessionID: id, Category: "bogus"})
	assert.ErrorIs(t, err, eventlog.ErrUnknownCategory)

	_, err = svc.CompleteSession(ctx, id)
	require.NoError(t, err)

	_, err = svc.LogEvent(ctx, models.ViolationEvent{SessionID: id, Category: models.NoFace})
	assert.ErrorIs(t, err, eventlog.ErrSessionNotActive)
}

type locator map[string]string

func (l locator) Country(ip string) (string, error) {
	c, ok := l[ip]
	if !ok {
		return "", errors.New("no record")
	}

	return c, nil
}

func TestStartSessionRecordsCountry(t *testing.T) {
	st, err := store.NewClient(filepath.Join(t.TempDir(), "proctor.db"))
	require.NoError(t, err)

	svc := service.New(
		st,
		service.WithClock(clock.NewFake(epoch)),
		service.WithLocator(locator{"81.2.69.142": "GB"}),
	)

	t.Cleanup(func() {
		svc.Close()
		_ = st.Close()
	})

	ctx := context.Background()

	for ip, want := range map[string]string{"81.2.69.142": "GB", "10.0.0.1": ""} {
		sess, err := svc.CreateSession(ctx, lifecycle.CreateInput{
			CandidateName:  "Grace Hopper",
			CandidateEmail: "grace@example.com",
		})
		require.NoError(t, err)

		sess, err = svc.StartSession(ctx, sess.ID, models.JoinInfo{IPAddress: ip})
		require.NoError(t, err)
		assert.Equal(t, want, sess.Join.Country, ip)
		assert.Equal(t, ip, sess.Join.IPAddress)
	}
}

func TestUnpacedReplayFollowsRecordedTime(t *testing.T) {
	st, err := store.NewClient(filepath.Join(t.TempDir(), "proctor.db"))
	require.NoError(t, err)

	recorded := clock.NewFake(time.Time{})

	svc := service.New(
		st,
		service.WithClock(clock.NewFake(epoch)),
		service.WithDetectionClock(recorded),
	)

	t.Cleanup(func() {
		svc.Close()
		_ = st.Close()
	})

	ctx := context.Background()
	id := startSession(t, svc)

	var lines strings.Builder
	for i := range 30 {
		fmt.Fprintf(
			&lines,
			"{\"face_count\": 0, \"observed_at\": %q}\n",
			epoch.Add(time.Duration(i)*time.Second).Format(time.RFC3339),
		)
	}

	src := signal.NewClocked(
		signal.NewReplay(strings.NewReader(lines.String())),
		recorded,
		debounce.DefaultConfig().LongestSustain(),
	)

	stats, err := signal.Pump(ctx, src, svc, id)
	require.NoError(t, err)
	assert.Equal(t, signal.Stats{Samples: 30, Accepted: 30}, stats)

	_, err = svc.CompleteSession(ctx, id)
	require.NoError(t, err)

	events, err := svc.ListEvents(ctx, id)
	require.NoError(t, err)
	require.Len(t, events, 3)

	for _, ev := range events {
		assert.Equal(t, models.NoFace, ev.Category)
		assert.Equal(t, 10*time.Second, ev.Sustained)
	}

	assert.Zero(t, recorded.Pending())
}
