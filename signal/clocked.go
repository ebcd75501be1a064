package signal

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/ayoisaiah/proctor/internal/clock"
	"github.com/ayoisaiah/proctor/internal/models"
)

// Clocked moves a manual clock to the observation time of every sample it
// passes on, so that detection windows elapse in recording time however
// fast the samples are read. When the source is exhausted the clock is
// advanced once more by tail to let windows armed by the last samples run
// out.
type Clocked struct {
	src     Source
	clock   *clock.Fake
	tail    time.Duration
	flushed bool
}

// NewClocked returns a source that reads from src and advances clk.
func NewClocked(src Source, clk *clock.Fake, tail time.Duration) *Clocked {
	return &Clocked{
		src:   src,
		clock: clk,
		tail:  tail,
	}
}

// Next returns the next sample of the underlying source. Samples without an
// observation time leave the clock where it is.
func (c *Clocked) Next(ctx context.Context) (models.Sample, error) {
	s, err := c.src.Next(ctx)
	if errors.Is(err, io.EOF) {
		if !c.flushed {
			c.flushed = true
			c.clock.Add(c.tail)
		}

		return s, err
	}

	if err != nil {
		return s, err
	}

	if !s.ObservedAt.IsZero() {
		c.clock.Set(s.ObservedAt)
	}

	return s, nil
}
