// Package server exposes the proctoring service over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ayoisaiah/proctor/internal/clock"
	"github.com/ayoisaiah/proctor/internal/models"
	"github.com/ayoisaiah/proctor/lifecycle"
	"github.com/ayoisaiah/proctor/report"
	"github.com/ayoisaiah/proctor/service"
	"github.com/ayoisaiah/proctor/store"
)

const (
	defaultSweepInterval   = time.Minute
	defaultShutdownTimeout = 10 * time.Second
)

// Service is the set of operations served over HTTP.
type Service interface {
	CreateSession(ctx context.Context, in lifecycle.CreateInput) (*models.Session, error)
	ListSessions(ctx context.Context, filter store.SessionFilter) (*lifecycle.ListResult, error)
	GetSession(ctx context.Context, id string) (*service.SessionDetails, error)
	StartSession(ctx context.Context, id string, join models.JoinInfo) (*models.Session, error)
	CompleteSession(ctx context.Context, id string) (*models.Session, error)
	IngestSignal(ctx context.Context, id string, sample models.Sample) (bool, error)
	LogEvent(ctx context.Context, ev models.ViolationEvent) (*models.ViolationEvent, error)
	ListEvents(ctx context.Context, id string) ([]models.ViolationEvent, error)
	GenerateReport(ctx context.Context, id string) (*models.IntegrityReport, error)
	GetReport(ctx context.Context, id string) (*models.IntegrityReport, error)
	ListReports(ctx context.Context, f report.Filter) (*report.Page, error)
	Sweep(ctx context.Context) (int, error)
	Trackers() int
}

// Option configures a Server.
type Option func(s *Server)

// WithClock replaces the wall clock used for relative time queries.
func WithClock(c clock.Clock) Option {
	return func(s *Server) {
		s.clock = c
	}
}

// WithSweepInterval sets how often overdue sessions are expired.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Server) {
		s.sweepInterval = d
	}
}

// WithShutdownTimeout bounds the wait for in-flight requests on shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

// Server is the HTTP front end.
type Server struct {
	svc             Service
	clock           clock.Clock
	http            *http.Server
	sweepInterval   time.Duration
	shutdownTimeout time.Duration
}

// New creates a Server listening on addr.
func New(svc Service, addr string, opts ...Option) *Server {
	s := &Server{
		svc:             svc,
		clock:           clock.Real(),
		sweepInterval:   defaultSweepInterval,
		shutdownTimeout: defaultShutdownTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) now() time.Time {
	return s.clock.Now()
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", s.health)

	api := r.Group("/api")

	sessions := api.Group("/sessions")
	sessions.POST("", s.createSession)
	sessions.GET("", s.listSessions)
	sessions.GET("/:id", s.getSession)
	sessions.POST("/:id/start", s.startSession)
	sessions.POST("/:id/complete", s.completeSession)
	sessions.POST("/:id/signals", s.ingestSignal)
	sessions.POST("/:id/events", s.logEvent)
	sessions.GET("/:id/events", s.listEvents)

	reports := api.Group("/reports")
	reports.GET("", s.listReports)
	reports.POST("/:id", s.generateReport)
	reports.GET("/:id", s.getReport)

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		slog.DebugContext(
			c.Request.Context(),
			"request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// Run serves until ctx is cancelled or the listener fails, then shuts the
// server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	serverDone := make(chan error, 1)

	go func() {
		slog.InfoContext(ctx, "starting proctor server", slog.String("addr", s.http.Addr))

		err := s.http.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}

		serverDone <- err
	}()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()

	go s.sweepLoop(sweepCtx)

	select {
	case err := <-serverDone:
		if err != nil {
			slog.ErrorContext(ctx, "server stopped with an error", slog.Any("error", err))
		}

		return err
	case <-ctx.Done():
		slog.InfoContext(ctx, "shutting down proctor server")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.WithoutCancel(ctx),
		s.shutdownTimeout,
	)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(ctx, "error during HTTP server shutdown", slog.Any("error", err))
		return err
	}

	return <-serverDone
}

func (s *Server) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Server) sweep(ctx context.Context) {
	n, err := s.svc.Sweep(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "expiry sweep failed", slog.Any("error", err))
		return
	}

	if n > 0 {
		slog.InfoContext(ctx, "expired overdue sessions", slog.Int("count", n))
	}
}
