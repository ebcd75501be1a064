package notify

import (
	"context"
	"errors"

	"github.com/ayoisaiah/proctor/internal/models"
)

// Publisher receives appended violations.
type Publisher interface {
	Publish(ctx context.Context, ev *models.ViolationEvent) error
}

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev *models.ViolationEvent) error {
	var errs []error

	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Settings selects the publishers built by New.
type Settings struct {
	AMQPURL  string
	Exchange string
	Command  string
	AppDir   string
	Desktop  bool
	Sound    bool
}

// New builds the publishers enabled in s. A single publisher is returned
// as is and none yields Nop. The returned function releases the broker
// connection, if any.
func New(s Settings) (Publisher, func(), error) {
	var (
		pubs    Multi
		release = func() {}
	)

	if s.Command != "" {
		p, err := NewCommandPublisher(s.Command)
		if err != nil {
			return nil, nil, err
		}

		pubs = append(pubs, p)
	}

	if s.Desktop {
		pubs = append(pubs, NewDesktopPublisher(s.AppDir))
	}

	if s.Sound {
		pubs = append(pubs, NewSoundPublisher())
	}

	if s.AMQPURL != "" {
		p, err := NewAMQPPublisher(s.AMQPURL, s.Exchange)
		if err != nil {
			return nil, nil, err
		}

		pubs = append(pubs, p)
		release = p.Close
	}

	switch len(pubs) {
	case 0:
		return Nop{}, release, nil
	case 1:
		return pubs[0], release, nil
	default:
		return pubs, release, nil
	}
}
