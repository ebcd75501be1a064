// Package signal provides sources of perceptual samples and drives them into
// a session.
package signal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/ayoisaiah/proctor/internal/models"
)

// Source produces samples until it returns io.EOF.
type Source interface {
	Next(ctx context.Context) (models.Sample, error)
}

// Ingester accepts samples for a session.
type Ingester interface {
	IngestSignal(
		ctx context.Context,
		sessionID string,
		s models.Sample,
	) (bool, error)
}

// Stats summarises a pump run.
type Stats struct {
	Samples  int
	Accepted int
}

// Pump reads src until it is exhausted and hands every sample to in. It
// stops early when ctx is cancelled or a sample is rejected with an error.
func Pump(
	ctx context.Context,
	src Source,
	in Ingester,
	sessionID string,
) (Stats, error) {
	var stats Stats

	for {
		s, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			slog.InfoContext(
				ctx,
				"signal source exhausted",
				slog.String("session_id", sessionID),
				slog.Int("samples", stats.Samples),
				slog.Int("accepted", stats.Accepted),
			)

			return stats, nil
		}

		if err != nil {
			return stats, err
		}

		stats.Samples++

		ok, err := in.IngestSignal(ctx, sessionID, s)
		if err != nil {
			return stats, err
		}

		if ok {
			stats.Accepted++
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
