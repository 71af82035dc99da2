package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/KC-426/aeonaxy/internal/notify"
)

const notifyTimeout = 15 * time.Second

// Notifier delivers outgoing email.
type Notifier interface {
	Send(ctx context.Context, msg notify.Message) error
}

// dispatch sends msg in the background after the primary write has
// committed. Failures are logged and never roll anything back.
func dispatch(ctx context.Context, n Notifier, msg notify.Message) {
	if n == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("notification panic recovered", slog.Any("panic", r))
			}
		}()
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()
		if err := n.Send(ctx, msg); err != nil {
			slog.Warn("notification failed",
				slog.String("to", msg.To),
				slog.String("subject", msg.Subject),
				slog.Any("error", err))
		}
	}()
}
