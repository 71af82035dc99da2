package notify

import (
	"context"
	"errors"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/KC-426/aeonaxy/config"
)

// SMTP sends email through an SMTP relay.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(cfg config.SMTPConfig, from string) (*SMTP, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("SMTP_HOST is required")
	}
	if strings.TrimSpace(from) == "" {
		from = cfg.Username
	}
	if strings.TrimSpace(from) == "" {
		return nil, errors.New("NOTIFY_FROM or SMTP_USERNAME is required")
	}
	return &SMTP{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
	}, nil
}

// Send ignores ctx cancellation once the SMTP dial has started.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return s.dialer.DialAndSend(m)
}
