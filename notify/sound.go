package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/ayoisaiah/proctor/internal/models"
)

const (
	sampleRate   = beep.SampleRate(44100)
	toneFreq     = 880
	toneDuration = 250 * time.Millisecond
)

var errSpeakerInit = errors.New("unable to initialise speaker")

// SoundPublisher plays a short alert tone for every violation.
type SoundPublisher struct {
	init    func() error
	play    func(s ...beep.Streamer)
	once    sync.Once
	initErr error
}

// NewSoundPublisher returns a publisher that plays through the default
// audio device. The device is opened on first use.
func NewSoundPublisher() *SoundPublisher {
	return &SoundPublisher{
		init: func() error {
			return speaker.Init(sampleRate, sampleRate.N(time.Second/10))
		},
		play: speaker.Play,
	}
}

// Publish queues the tone on the speaker and returns without waiting for it
// to finish.
func (p *SoundPublisher) Publish(ctx context.Context, _ *models.ViolationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.once.Do(func() {
		if err := p.init(); err != nil {
			p.initErr = errors.Join(errSpeakerInit, err)
		}
	})

	if p.initErr != nil {
		return p.initErr
	}

	tone, err := generators.SineTone(sampleRate, toneFreq)
	if err != nil {
		return err
	}

	p.play(beep.Take(sampleRate.N(toneDuration), tone))

	return nil
}
