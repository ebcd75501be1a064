// Package notify fans confirmed violations out to a message broker.
package notify

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/streadway/amqp"

	"github.com/ayoisaiah/proctor/internal/apperr"
	"github.com/ayoisaiah/proctor/internal/models"
)

// DefaultExchange is the fanout exchange violations are published to.
const DefaultExchange = "proctor.violations"

var errBrokerConnect = &apperr.Error{
	Message: "unable to connect to the message broker",
	Kind:    apperr.KindInternal,
}

// AMQPPublisher publishes violations to a fanout exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex
}

// NewAMQPPublisher connects to the broker at amqpURL and declares exchange.
func NewAMQPPublisher(amqpURL, exchange string) (*AMQPPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, errBrokerConnect.Wrap(err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errBrokerConnect.Wrap(err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()

		return nil, errBrokerConnect.Wrap(err)
	}

	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func message(ev *models.ViolationEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.SessionID + ":" + strconv.FormatUint(ev.Seq, 10),
		Timestamp:    ev.Timestamp,
		Type:         string(ev.Category),
		Headers: amqp.Table{
			"session_id": ev.SessionID,
			"source":     string(ev.Source),
		},
		Body: body,
	}, nil
}

// Publish sends ev to the exchange.
func (p *AMQPPublisher) Publish(_ context.Context, ev *models.ViolationEvent) error {
	msg, err := message(ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.channel.Publish(p.exchange, "", false, false, msg)
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}

	if p.conn != nil {
		p.conn.Close()
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, *models.ViolationEvent) error {
	return nil
}
