package events

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange      = "ecommerce.events"
	AnalyticsBindingKey = "analytics.#"
	storefrontProducer  = "storefront-go"
)

// RoutingKey maps an analytics event name onto the shared topic exchange.
func RoutingKey(eventName string) string {
	return "analytics." + eventName + ".v1"
}

func serviceQueue(serviceName, routingKey string) string {
	return serviceName + "." + routingKey
}

type exchangeDeclarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
}

func declareEventsExchange(ch exchangeDeclarer) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

// Dial connects to RabbitMQ, retrying until ctx is done.
func Dial(ctx context.Context, url string) (*amqp.Connection, error) {
	var lastErr error
	for {
		conn, err := amqp.DialConfig(url, amqp.Config{
			Dial: amqp.DefaultDial(10 * time.Second),
		})
		if err == nil {
			return conn, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect to RabbitMQ: %w", lastErr)
		case <-time.After(time.Second):
		}
	}
}
