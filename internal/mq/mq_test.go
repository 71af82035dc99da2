package mq

import (
	"context"
	"strings"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/KC-426/aeonaxy/config"
)

func TestHeadersToAttributes(t *testing.T) {
	attrs := headersToAttributes(amqp.Table{
		"kind":  "welcome",
		"raw":   []byte("bytes"),
		"count": int32(3),
	})
	if attrs["kind"] != "welcome" || attrs["raw"] != "bytes" || attrs["count"] != "3" {
		t.Fatalf("unexpected attributes: %v", attrs)
	}
	if headersToAttributes(nil) != nil {
		t.Fatal("expected nil for empty headers")
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), config.NotifyConfig{Queue: "kafka"})
	if err == nil || !strings.Contains(err.Error(), "kafka") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}

func TestRabbitMQRequiresURL(t *testing.T) {
	if _, err := NewRabbitMQClient(config.RabbitMQConfig{}); err == nil {
		t.Fatal("expected missing url to fail")
	}
}
