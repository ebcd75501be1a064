package signal

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/ayoisaiah/proctor/internal/models"
)

type scenario int

const (
	scenarioNormal scenario = iota
	scenarioLookingAway
	scenarioNoFace
	scenarioMultipleFaces
)

// SimulatedConfig tunes the simulated source.
type SimulatedConfig struct {
	// Items are the object classes that may appear in a frame.
	Items []string
	Seed  int64
	// Interval is the pause between samples.
	Interval time.Duration
	// Limit stops the source after this many samples. Zero means no limit.
	Limit int
	// NormalRatio is the probability of a well-behaved scenario.
	NormalRatio float64
	// ItemChance is the probability, checked every ItemEvery samples, that
	// a prohibited item shows up.
	ItemChance float64
	ItemEvery  int
}

// DefaultSimulatedConfig mirrors a mostly attentive candidate.
func DefaultSimulatedConfig() SimulatedConfig {
	return SimulatedConfig{
		Items:       []string{"cell phone", "book", "laptop"},
		Seed:        time.Now().UnixNano(),
		Interval:    3 * time.Second,
		NormalRatio: 0.85,
		ItemChance:  0.02,
		ItemEvery:   5,
	}
}

// Simulated produces plausible samples from a seeded random generator.
// Anomalous scenarios persist for several samples so that sustain windows
// can elapse.
type Simulated struct {
	rng      *rand.Rand
	cfg      SimulatedConfig
	current  scenario
	hold     int
	produced int
}

// NewSimulated returns a simulated source.
func NewSimulated(cfg SimulatedConfig) *Simulated {
	if cfg.ItemEvery <= 0 {
		cfg.ItemEvery = 1
	}

	return &Simulated{
		rng: rand.New(rand.NewSource(cfg.Seed)),
		cfg: cfg,
	}
}

func (s *Simulated) pick() {
	if s.rng.Float64() < s.cfg.NormalRatio {
		s.current = scenarioNormal
		s.hold = 1 + s.rng.Intn(5)

		return
	}

	switch r := s.rng.Float64(); {
	case r < 1.0/3:
		s.current = scenarioLookingAway
	case r < 2.0/3:
		s.current = scenarioNoFace
	default:
		s.current = scenarioMultipleFaces
	}

	s.hold = 2 + s.rng.Intn(5)
}

func (s *Simulated) sample() models.Sample {
	switch s.current {
	case scenarioLookingAway:
		return models.Sample{FaceCount: 1, Confidence: 0.1 + s.rng.Float64()*0.2}
	case scenarioNoFace:
		return models.Sample{FaceCount: 0}
	case scenarioMultipleFaces:
		return models.Sample{
			FaceCount:  2 + s.rng.Intn(2),
			Confidence: 0.7 + s.rng.Float64()*0.2,
		}
	default:
		return models.Sample{FaceCount: 1, Confidence: 0.8 + s.rng.Float64()*0.2}
	}
}

// Next waits for the configured interval and returns the next sample.
func (s *Simulated) Next(ctx context.Context) (models.Sample, error) {
	if s.cfg.Limit > 0 && s.produced >= s.cfg.Limit {
		return models.Sample{}, io.EOF
	}

	if s.produced > 0 {
		err := sleep(ctx, s.cfg.Interval)
		if err != nil {
			return models.Sample{}, err
		}
	} else if err := ctx.Err(); err != nil {
		return models.Sample{}, err
	}

	if s.hold <= 0 {
		s.pick()
	}

	s.hold--
	s.produced++

	smp := s.sample()
	smp.ObservedAt = time.Now()

	if len(s.cfg.Items) > 0 &&
		s.produced%s.cfg.ItemEvery == 0 &&
		s.rng.Float64() < s.cfg.ItemChance {
		smp.ObjectClasses = []string{s.cfg.Items[s.rng.Intn(len(s.cfg.Items))]}
	}

	return smp, nil
}
