// Package messaging publishes quote events to RabbitMQ.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/coupon-service/internal/circuitbreaker"
	"github.com/guttosm/coupon-service/internal/domain/model"
	"github.com/guttosm/coupon-service/internal/metrics"
)

const (
	// DefaultExchange is the topic exchange quote events are published to.
	DefaultExchange = "coupon.quotes"
	// DefaultRoutingKey is the routing key of computed quote events.
	DefaultRoutingKey = "quote.computed"
)

// ErrPublisherClosed is returned by PublishQuote after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Config holds publisher settings.
type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// Publisher publishes quote events on a single AMQP channel. Publishes go
// through a circuit breaker; events are dropped while it is open.
type Publisher struct {
	conn       *amqp.Connection
	exchange   string
	routingKey string
	cb         *circuitbreaker.CircuitBreaker

	mu     sync.Mutex
	ch     channel
	closed bool
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithCircuitBreaker guards publishes with cb.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(p *Publisher) {
		p.cb = cb
	}
}

// NewPublisher dials cfg.URL, opens a channel and declares the exchange.
func NewPublisher(cfg Config, opts ...Option) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	p, err := newPublisher(ch, cfg, opts...)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn

	log.Info().
		Str("exchange", p.exchange).
		Str("routing_key", p.routingKey).
		Msg("AMQP quote publisher ready")
	return p, nil
}

func newPublisher(ch channel, cfg Config, opts ...Option) (*Publisher, error) {
	p := &Publisher{
		ch:         ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
	}
	if p.exchange == "" {
		p.exchange = DefaultExchange
	}
	if p.routingKey == "" {
		p.routingKey = DefaultRoutingKey
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cb == nil {
		cbConfig := circuitbreaker.DefaultConfig()
		cbConfig.Name = "amqp"
		p.cb = circuitbreaker.New(cbConfig)
	}

	if err := ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-delete
		false,      // internal
		false,      // noWait
		nil,        // arguments
	); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)
	}
	return p, nil
}

// PublishQuote encodes event as JSON and publishes it. It returns nil when
// the circuit is open and the event was dropped.
func (p *Publisher) PublishQuote(ctx context.Context, event model.QuoteEvent) error {
	body, err := sonic.Marshal(event)
	if err != nil {
		metrics.RecordEventPublished("encode_error")
		return fmt.Errorf("failed to encode quote event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     event.QuoteID,
		CorrelationId: event.RequestID,
		Timestamp:     event.PricedAt,
		Type:          p.routingKey,
		Body:          body,
	}

	err = p.cb.Execute(ctx, func() error {
		return p.publish(ctx, msg)
	})
	switch {
	case err == nil:
		metrics.RecordEventPublished("success")
		return nil
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		metrics.RecordEventPublished("dropped")
		log.Debug().Str("quote_id", event.QuoteID).Msg("Circuit open, dropping quote event")
		return nil
	default:
		metrics.RecordEventPublished("error")
		return err
	}
}

func (p *Publisher) publish(ctx context.Context, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}

	err := p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, msg)
	if errors.Is(err, amqp.ErrClosed) && p.conn != nil && !p.conn.IsClosed() {
		// The broker closed the channel; the connection is still usable.
		ch, openErr := p.conn.Channel()
		if openErr != nil {
			return fmt.Errorf("failed to reopen AMQP channel: %w", openErr)
		}
		p.ch = ch
		err = p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, msg)
	}
	return err
}

// HealthCheck reports whether the broker connection is open.
func (p *Publisher) HealthCheck(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}
	if p.conn != nil && p.conn.IsClosed() {
		return amqp.ErrClosed
	}
	return nil
}

// CircuitBreaker returns the breaker guarding publishes.
func (p *Publisher) CircuitBreaker() *circuitbreaker.CircuitBreaker {
	return p.cb
}

// Close closes the channel and connection. It is safe to call more than once.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	if err := p.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = append(errs, err)
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
