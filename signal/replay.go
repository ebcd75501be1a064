package signal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ayoisaiah/proctor/internal/models"
)

// Replay reads samples recorded as a stream of JSON objects, one per line.
type Replay struct {
	dec  *json.Decoder
	last time.Time
	line int
	// Paced makes Next wait for the gap between consecutive observation
	// times.
	Paced bool
}

// NewReplay returns a source reading from r.
func NewReplay(r io.Reader) *Replay {
	return &Replay{dec: json.NewDecoder(r)}
}

// Next decodes the next sample. It returns io.EOF at the end of the input.
func (r *Replay) Next(ctx context.Context) (models.Sample, error) {
	if err := ctx.Err(); err != nil {
		return models.Sample{}, err
	}

	var raw json.RawMessage

	err := r.dec.Decode(&raw)
	if errors.Is(err, io.EOF) {
		return models.Sample{}, io.EOF
	}

	r.line++

	if err != nil {
		return models.Sample{}, fmt.Errorf("sample %d: %w", r.line, err)
	}

	s, err := DecodeSample(raw)
	if err != nil {
		return models.Sample{}, fmt.Errorf("sample %d: %w", r.line, err)
	}

	if r.Paced && !r.last.IsZero() && !s.ObservedAt.IsZero() {
		err = sleep(ctx, s.ObservedAt.Sub(r.last))
		if err != nil {
			return models.Sample{}, err
		}
	}

	if !s.ObservedAt.IsZero() {
		r.last = s.ObservedAt
	}

	return s, nil
}
