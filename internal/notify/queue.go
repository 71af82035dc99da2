package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KC-426/aeonaxy/internal/mq"
)

const attrKind = "kind"

// Queue publishes messages to a broker channel instead of sending them.
type Queue struct {
	backend mq.Backend
	channel string
}

func NewQueue(backend mq.Backend, channel string) *Queue {
	return &Queue{backend: backend, channel: channel}
}

func (q *Queue) Send(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	id, err := q.backend.Publish(ctx, q.channel, data, map[string]string{attrKind: "email"})
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	slog.Debug("notification queued", slog.String("id", id), slog.String("channel", q.channel))
	return nil
}

// Worker consumes queued messages and hands them to a provider sender. A
// message whose delivery fails is retried once and then dropped.
type Worker struct {
	backend mq.Backend
	channel string
	sender  Sender

	mu     sync.Mutex
	failed map[string]struct{}
}

func NewWorker(backend mq.Backend, channel string, sender Sender) *Worker {
	return &Worker{backend: backend, channel: channel, sender: sender, failed: map[string]struct{}{}}
}

// Run blocks until ctx is done or the subscription fails.
func (w *Worker) Run(ctx context.Context) error {
	slog.Info("notification worker started", slog.String("channel", w.channel))
	return w.backend.Subscribe(ctx, w.channel, w.handle)
}

// handle acks malformed payloads. A failed delivery is returned for one
// redelivery; a second failure is logged and acked.
func (w *Worker) handle(ctx context.Context, m mq.Message) error {
	var msg Message
	if err := json.Unmarshal(m.Data, &msg); err != nil {
		slog.Error("dropping malformed notification", slog.String("id", m.ID), slog.Any("error", err))
		return nil
	}
	if err := w.sender.Send(ctx, msg); err != nil {
		if w.retried(m) {
			slog.Error("dropping notification after retry", slog.String("id", m.ID), slog.String("to", msg.To), slog.Any("error", err))
			return nil
		}
		slog.Warn("notification delivery failed", slog.String("id", m.ID), slog.Any("error", err))
		return err
	}
	w.forget(m.ID)
	return nil
}

// retried reports whether m already failed once, either as flagged by the
// broker or as seen by this worker. A first failure is recorded.
func (w *Worker) retried(m mq.Message) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, seen := w.failed[m.ID]
	if m.Redelivered || seen {
		delete(w.failed, m.ID)
		return true
	}
	if m.ID != "" {
		w.failed[m.ID] = struct{}{}
	}
	return false
}

func (w *Worker) forget(id string) {
	w.mu.Lock()
	delete(w.failed, id)
	w.mu.Unlock()
}
