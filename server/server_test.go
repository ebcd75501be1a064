package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/proctor/internal/clock"
	"github.com/ayoisaiah/proctor/internal/models"
	"github.com/ayoisaiah/proctor/lifecycle"
	"github.com/ayoisaiah/proctor/report"
	"github.com/ayoisaiah/proctor/server"
	"github.com/ayoisaiah/proctor/service"
	"github.com/ayoisaiah/proctor/store"
)

var epoch = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	h   http.Handler
	clk *clock.Fake
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := store.NewClient(filepath.Join(t.TempDir(), "proctor.db"))
	require.NoError(t, err)

	clk := clock.NewFake(epoch)
	svc := service.New(st, service.WithClock(clk), service.WithExpiry(2*time.Hour))

	t.Cleanup(func() {
		svc.Close()
		_ = st.Close()
	})

	srv := server.New(svc, "127.0.0.1:0", server.WithClock(clk))

	return &harness{h: srv.Handler(), clk: clk}
}

func (h *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "proctor-test")

	rec := httptest.NewRecorder()
	h.h.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

func (h *harness) create(t *testing.T) string {
	t.Helper()

	rec := h.do(t, http.MethodPost, "/api/sessions", map[string]string{
		"candidate_name":  "Ada Lovelace",
		"candidate_email": "ada@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	res := decode[map[string]any](t, rec)

	id, _ := res["session_id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "/candidate/"+id, res["candidate_link"])

	return id
}

func (h *harness) start(t *testing.T, id string) {
	t.Helper()

	rec := h.do(t, http.MethodPost, "/api/sessions/"+id+"/start", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","trackers":0}`, rec.Body.String())
}

func TestSessionLifecycle(t *testing.T) {
	h := newHarness(t)
	id := h.create(t)

	rec := h.do(t, http.MethodPost, "/api/sessions/"+id+"/start", map[string]any{
		"metadata": map[string]string{"browser": "firefox"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	sess := decode[models.Session](t, rec)
	assert.Equal(t, models.StatusActive, sess.Status)
	require.NotNil(t, sess.Join)
	assert.Equal(t, "proctor-test", sess.Join.UserAgent)
	assert.Equal(t, "firefox", sess.Join.Metadata["browser"])

	rec = h.do(t, http.MethodPost, "/api/sessions/"+id+"/start", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	p := decode[server.Problem](t, rec)
	assert.Equal(t, "invalid_transition", p.Kind)
	assert.Equal(t, "/api/sessions/"+id+"/start", p.Instance)

	rec = h.do(t, http.MethodPost, "/api/sessions/"+id+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusCompleted, decode[models.Session](t, rec).Status)

	rec = h.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	details := decode[map[string]any](t, rec)
	assert.Equal(t, "completed", details["status"])
	assert.InDelta(t, 0, details["total_events"], 0)
}

func TestErrors(t *testing.T) {
	h := newHarness(t)

	testCases := []struct {
		Body   any
		Name   string
		Method string
		Path   string
		Status int
	}{
		{
			Name:   "missing session",
			Method: http.MethodGet,
			Path:   "/api/sessions/nope",
			Status: http.StatusNotFound,
		},
		{
			Name:   "invalid email",
			Method: http.MethodPost,
			Path:   "/api/sessions",
			Body:   map[string]string{"candidate_name": "A", "candidate_email": "nope"},
			Status: http.StatusBadRequest,
		},
		{
			Name:   "malformed body",
			Method: http.MethodPost,
			Path:   "/api/sessions",
			Body:   []int{1},
			Status: http.StatusBadRequest,
		},
		{
			Name:   "unknown status filter",
			Method: http.MethodGet,
			Path:   "/api/sessions?status=paused",
			Status: http.StatusBadRequest,
		},
		{
			Name:   "bad limit",
			Method: http.MethodGet,
			Path:   "/api/reports?limit=-1",
			Status: http.StatusBadRequest,
		},
		{
			Name:   "unknown tier",
			Method: http.MethodGet,
			Path:   "/api/reports?tier=SEVERE",
			Status: http.StatusBadRequest,
		},
		{
			Name:   "missing report",
			Method: http.MethodGet,
			Path:   "/api/reports/nope",
			Status: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			rec := h.do(t, tc.Method, tc.Path, tc.Body)
			assert.Equal(t, tc.Status, rec.Code, rec.Body.String())
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

			p := decode[server.Problem](t, rec)
			assert.Equal(t, tc.Status, p.Status)
			assert.NotEmpty(t, p.Detail)
		})
	}
}

func TestExpiredStart(t *testing.T) {
	h := newHarness(t)
	id := h.create(t)

	h.clk.Add(3 * time.Hour)

	rec := h.do(t, http.MethodPost, "/api/sessions/"+id+"/start", nil)
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, "expired", decode[server.Problem](t, rec).Kind)
}

func TestSignalsToReport(t *testing.T) {
	h := newHarness(t)
	id := h.create(t)
	h.start(t, id)

	rec := h.do(t, http.MethodPost, "/api/sessions/"+id+"/signals", models.Sample{
		FaceCount:  0,
		Confidence: 0,
	})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.True(t, decode[map[string]bool](t, rec)["accepted"])

	h.clk.Add(11 * time.Second)

	rec = h.do(t, http.MethodPost, "/api/sessions/"+id+"/signals", models.Sample{
		FaceCount:     1,
		Confidence:    0.9,
		ObjectClasses: []string{"cell phone"},
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/sessions/"+id+"/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	events := decode[[]models.ViolationEvent](t, rec)
	require.Len(t, events, 2)
	assert.Equal(t, models.NoFace, events[0].Category)
	assert.Equal(t, models.DeviceDetected, events[1].Category)

	rec = h.do(t, http.MethodPost, "/api/reports/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	r := decode[models.IntegrityReport](t, rec)
	assert.Equal(t, 80, r.Score)
	assert.Equal(t, models.RiskLow, r.RiskTier)

	rec = h.do(t, http.MethodGet, "/api/reports?tier=LOW&limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[report.Page](t, rec)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 5, page.Limit)
}

func TestLogEventAndInactiveSignals(t *testing.T) {
	h := newHarness(t)
	id := h.create(t)

	rec := h.do(t, http.MethodPost, "/api/sessions/"+id+"/signals", models.Sample{FaceCount: 0})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.False(t, decode[map[string]bool](t, rec)["accepted"])

	rec = h.do(t, http.MethodPost, "/api/sessions/"+id+"/events", map[string]any{
		"category": "multiple_faces",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "session_not_active", decode[server.Problem](t, rec).Kind)

	h.start(t, id)

	rec = h.do(t, http.MethodPost, "/api/sessions/"+id+"/events", map[string]any{
		"category":    "multiple_faces",
		"description": "two people at the desk",
		"confidence":  0.7,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	ev := decode[models.ViolationEvent](t, rec)
	assert.Equal(t, models.SourceManualTest, ev.Source)
	assert.Equal(t, uint64(1), ev.Seq)

	rec = h.do(t, http.MethodPost, "/api/sessions/"+id+"/events", map[string]any{
		"category": "talking",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSessions(t *testing.T) {
	h := newHarness(t)

	first := h.create(t)
	h.clk.Add(time.Hour)
	_ = h.create(t)
	h.start(t, first)

	rec := h.do(t, http.MethodGet, "/api/sessions?status=active", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[lifecycle.ListResult](t, rec)
	require.Len(t, res.Sessions, 1)
	assert.Equal(t, first, res.Sessions[0].ID)
	assert.Equal(t, 1, res.Counts[models.StatusPending])
	assert.Equal(t, 1, res.Counts[models.StatusActive])

	rec = h.do(t, http.MethodGet, "/api/sessions?since=30+minutes+ago", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[lifecycle.ListResult](t, rec).Sessions, 1)
}

func TestRunShutsDown(t *testing.T) {
	st, err := store.NewClient(filepath.Join(t.TempDir(), "run.db"))
	require.NoError(t, err)

	defer st.Close()

	svc := service.New(st)
	defer svc.Close()

	srv := server.New(svc, "127.0.0.1:0", server.WithSweepInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- srv.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestMalformedSample(t *testing.T) {
	h := newHarness(t)
	id := h.create(t)
	h.start(t, id)

	for _, body := range []any{
		map[string]any{"face_count": -1},
		map[string]any{"confidence": 0.5},
		map[string]any{"face_count": 1, "object_classes": "book"},
	} {
		rec := h.do(t, http.MethodPost, "/api/sessions/"+id+"/signals", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		assert.Equal(t, "validation", decode[server.Problem](t, rec).Kind)
	}
}
