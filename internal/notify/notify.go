// Package notify delivers outgoing email. Senders talk to a provider
// directly; Queue hands messages to a broker and Worker drains them.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KC-426/aeonaxy/config"
	"github.com/KC-426/aeonaxy/internal/mq"
)

// Message is one outgoing email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Nop drops every message. It is used when no provider is configured.
type Nop struct{}

func (Nop) Send(_ context.Context, msg Message) error {
	slog.Debug("notification skipped: no provider configured", slog.String("subject", msg.Subject))
	return nil
}

// NewProvider builds the sender that talks to the configured email
// provider.
func NewProvider(cfg config.NotifyConfig) (Sender, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "none":
		return Nop{}, nil
	case "sendgrid":
		s, err := NewSendGrid(cfg.SendGridAPIKey, cfg.FromName, cfg.From)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "smtp":
		s, err := NewSMTP(cfg.SMTP, cfg.From)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown notify provider %q", cfg.Provider)
	}
}

// New builds the sender used by the API process. With a queue configured
// messages are published for the worker; otherwise they go straight to
// the provider. The returned close function releases broker resources.
func New(ctx context.Context, cfg config.NotifyConfig) (Sender, func() error, error) {
	queue := strings.ToLower(strings.TrimSpace(cfg.Queue))
	if queue == "" || queue == "none" {
		sender, err := NewProvider(cfg)
		return sender, func() error { return nil }, err
	}

	backend, err := mq.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return NewQueue(backend, cfg.Channel), backend.Close, nil
}
