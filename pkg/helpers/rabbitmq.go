package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher keeps one long-lived AMQP connection and publishes JSON
// messages to durable queues through the default exchange.
type RabbitPublisher struct {
	url    string
	appID  string
	queues []string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewRabbitPublisher dials url and declares every queue it will publish to.
func NewRabbitPublisher(url, appID string, queues ...string) (*RabbitPublisher, error) {
	p := &RabbitPublisher{url: url, appID: appID, queues: queues}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect opens a channel and declares the queues. A live connection is
// reused; a dead one is closed and re-dialed. Callers hold p.mu.
func (p *RabbitPublisher) connect() error {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn == nil || p.conn.IsClosed() {
		if p.conn != nil {
			_ = p.conn.Close()
		}
		conn, err := amqp.Dial(p.url)
		if err != nil {
			p.conn = nil
			return err
		}
		p.conn = conn
	}

	ch, err := p.conn.Channel()
	if err != nil {
		p.dropConn()
		return err
	}
	for _, q := range p.queues {
		// Declare durable queue
		_, err = ch.QueueDeclare(
			q,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,
		)
		if err != nil {
			_ = ch.Close()
			p.dropConn()
			return err
		}
	}
	p.ch = ch
	return nil
}

func (p *RabbitPublisher) dropConn() {
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishJSON publishes a JSON-encoded message with routingKey = queue name.
// A dropped connection is re-dialed once before giving up.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, routingKey string, body any) error {
	if p == nil {
		return errors.New("rabbitmq publisher not configured")
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() || p.ch == nil || p.ch.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}
	return p.ch.PublishWithContext(ctx,
		"",         // default exchange
		routingKey, // routing key = queue
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:     "application/json",
			ContentEncoding: "utf-8",
			DeliveryMode:    amqp.Persistent,
			MessageId:       uuid.NewString(),
			AppId:           p.appID,
			Timestamp:       time.Now().UTC(),
			Body:            b,
		},
	)
}
