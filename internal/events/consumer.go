package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AnalyticsQueue is the queue that collects every analytics event.
var AnalyticsQueue = serviceQueue(storefrontProducer, AnalyticsBindingKey)

type EnvelopeHandler func(ctx context.Context, env EventEnvelope) error

// StartAnalyticsConsumer binds AnalyticsQueue to the events exchange and
// hands every decoded envelope to handle until ctx is done. Messages that
// fail to decode or handle are dropped.
func StartAnalyticsConsumer(ctx context.Context, conn *amqp.Connection, logger *zap.Logger, handle EnvelopeHandler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare events exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(
		AnalyticsQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		return fmt.Errorf("queue declare: %w", err)
	}

	if err := ch.QueueBind(AnalyticsQueue, AnalyticsBindingKey, EventsExchange, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("queue bind: %w", err)
	}

	msgs, err := ch.Consume(
		AnalyticsQueue,
		storefrontProducer, // consumer tag
		false,              // autoAck
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume: %w", err)
	}

	go func() {
		defer ch.Close()
		for {
			select {
			case <-ctx.Done():
				logger.Info("stopping analytics consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Info("messages channel closed")
					return
				}
				handleDelivery(ctx, msg, logger, handle)
			}
		}
	}()

	return nil
}

func handleDelivery(ctx context.Context, msg amqp.Delivery, logger *zap.Logger, handle EnvelopeHandler) {
	if err := dispatch(ctx, msg.Body, handle); err != nil {
		logger.Warn("handle analytics message", zap.String("routing_key", msg.RoutingKey), zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}
	_ = msg.Ack(false)
}

func dispatch(ctx context.Context, body []byte, handle EnvelopeHandler) error {
	env, err := ParseEnvelope(body)
	if err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := validateAnalytics(env); err != nil {
		return fmt.Errorf("validate envelope: %w", err)
	}
	return handle(ctx, env)
}

// validateAnalytics accepts only version 1 analytics envelopes whose schema
// names the carried event.
func validateAnalytics(env EventEnvelope) error {
	if env.EventName == "" {
		return fmt.Errorf("missing eventName")
	}
	if want := analyticsSchema(env.EventName); env.Schema != want {
		return fmt.Errorf("unexpected schema %q for eventName %q", env.Schema, env.EventName)
	}
	return env.Validate(env.EventName, 1)
}
