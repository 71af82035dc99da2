package mq

import (
	"context"
	"fmt"
	"strings"

	"github.com/KC-426/aeonaxy/config"
)

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
	// Redelivered is set when the broker has handed this message out
	// before.
	Redelivered bool
}

// Handler processes a message. Return an error to have the broker
// redeliver it.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// New connects to the broker named by cfg.Queue ("rabbitmq" or "pubsub").
func New(ctx context.Context, cfg config.NotifyConfig) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Queue)) {
	case "rabbitmq":
		client, err := NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "pubsub":
		client, err := NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown queue backend %q", cfg.Queue)
	}
}
