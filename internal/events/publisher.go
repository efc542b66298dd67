package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/analytics"
)

const defaultPublishTimeout = 3 * time.Second

type channel interface {
	exchangeDeclarer
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher forwards analytics events to the events exchange. It satisfies
// analytics.Observer so it can be subscribed to a mirror directly.
type Publisher struct {
	ch           channel
	seq          SequenceSource
	logger       *zap.Logger
	producer     string
	partitionKey string
	timeout      time.Duration
	now          func() time.Time
}

type PublisherOptions struct {
	Producer string
	// PartitionKey groups the sequence of one session's events.
	PartitionKey string
	Timeout      time.Duration
}

func NewPublisher(conn *amqp.Connection, seq SequenceSource, logger *zap.Logger, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := newPublisher(ch, seq, logger, opts)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return p, nil
}

func newPublisher(ch channel, seq SequenceSource, logger *zap.Logger, opts PublisherOptions) (*Publisher, error) {
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	producer := opts.Producer
	if producer == "" {
		producer = storefrontProducer
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	if seq == nil {
		seq = NewMemorySequence()
	}

	return &Publisher{
		ch:           ch,
		seq:          seq,
		logger:       logger,
		producer:     producer,
		partitionKey: opts.PartitionKey,
		timeout:      timeout,
		now:          time.Now,
	}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// OnEvent publishes the event and logs any failure. Recording never fails
// because a sink is down.
func (p *Publisher) OnEvent(ctx context.Context, name string, params *analytics.Params) {
	if err := p.Publish(ctx, name, params); err != nil {
		p.logger.Warn("publish analytics event failed",
			zap.String("event_name", name),
			zap.Error(err),
		)
	}
}

func (p *Publisher) Publish(ctx context.Context, name string, params *analytics.Params) error {
	seq, err := p.seq.NextSequence(ctx, p.partitionKey)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	env, err := p.newEnvelope(ctx, name, params, seq)
	if err != nil {
		return err
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", name, err)
	}

	return p.publishJSON(ctx, RoutingKey(name), body)
}

func (p *Publisher) newEnvelope(ctx context.Context, name string, params *analytics.Params, seq int64) (EventEnvelope, error) {
	if params == nil {
		params = analytics.NewParams()
	}
	payload, err := json.Marshal(params)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("marshal %s payload: %w", name, err)
	}

	return EventEnvelope{
		EventName:     name,
		EventVersion:  1,
		EventID:       uuid.NewString(),
		CorrelationID: analytics.CorrelationID(ctx),
		Producer:      p.producer,
		PartitionKey:  p.partitionKey,
		Sequence:      seq,
		OccurredAt:    p.now().UTC(),
		Schema:        analyticsSchema(name),
		Payload:       payload,
	}, nil
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
