package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/KC-426/aeonaxy/config"
	"github.com/KC-426/aeonaxy/internal/mq"
)

type memBroker struct {
	published []mq.Message
	acked     int
	nacked    int
	delivered int
	// requeue puts nacked messages back at the tail; markRedelivered sets
	// the flag on those copies the way RabbitMQ does.
	requeue         bool
	markRedelivered bool
}

func (b *memBroker) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	id := channel + "-" + string(rune('0'+len(b.published)))
	b.published = append(b.published, mq.Message{ID: id, Data: data, Attributes: attrs})
	return id, nil
}

func (b *memBroker) Subscribe(ctx context.Context, _ string, handler mq.Handler) error {
	pending := append([]mq.Message(nil), b.published...)
	for len(pending) > 0 {
		m := pending[0]
		pending = pending[1:]
		b.delivered++
		if err := handler(ctx, m); err != nil {
			b.nacked++
			if b.requeue {
				m.Redelivered = b.markRedelivered
				pending = append(pending, m)
			}
			continue
		}
		b.acked++
	}
	return nil
}

func (b *memBroker) Close() error { return nil }

type recordingSender struct {
	sent []Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func TestQueueToWorker(t *testing.T) {
	broker := &memBroker{}
	queue := NewQueue(broker, "notifications")

	msg := Message{To: "ada@example.com", Subject: "Welcome", Body: "hello"}
	if err := queue.Send(context.Background(), msg); err != nil {
		t.Fatalf("queue send: %v", err)
	}
	if len(broker.published) != 1 || broker.published[0].Attributes[attrKind] != "email" {
		t.Fatalf("unexpected published messages: %+v", broker.published)
	}

	sender := &recordingSender{}
	if err := NewWorker(broker, "notifications", sender).Run(context.Background()); err != nil {
		t.Fatalf("worker run: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0] != msg {
		t.Fatalf("unexpected delivered messages: %+v", sender.sent)
	}
	if broker.acked != 1 {
		t.Fatalf("expected one ack, got %d", broker.acked)
	}
}

func TestWorkerNacksFailedDelivery(t *testing.T) {
	broker := &memBroker{}
	_ = NewQueue(broker, "n").Send(context.Background(), Message{To: "x@example.com"})
	broker.published = append(broker.published, mq.Message{ID: "bad", Data: []byte("{not json")})

	sender := &recordingSender{err: errors.New("provider down")}
	if err := NewWorker(broker, "n", sender).Run(context.Background()); err != nil {
		t.Fatalf("worker run: %v", err)
	}
	if broker.nacked != 1 || broker.acked != 1 {
		t.Fatalf("expected failed delivery nacked and malformed acked, got nacked=%d acked=%d", broker.nacked, broker.acked)
	}
}

func TestWorkerDropsMessageFailingTwice(t *testing.T) {
	for _, flagged := range []bool{true, false} {
		broker := &memBroker{requeue: true, markRedelivered: flagged}
		_ = NewQueue(broker, "n").Send(context.Background(), Message{To: "x@example.com"})

		sender := &recordingSender{err: errors.New("mailbox unavailable")}
		if err := NewWorker(broker, "n", sender).Run(context.Background()); err != nil {
			t.Fatalf("worker run: %v", err)
		}
		if broker.delivered != 2 || broker.nacked != 1 || broker.acked != 1 {
			t.Fatalf("redelivery flagged=%v: expected one nack then an ack, got delivered=%d nacked=%d acked=%d",
				flagged, broker.delivered, broker.nacked, broker.acked)
		}
	}
}

func TestWorkerRetrySucceeds(t *testing.T) {
	broker := &memBroker{requeue: true, markRedelivered: true}
	msg := Message{To: "x@example.com", Subject: "Enrolled"}
	_ = NewQueue(broker, "n").Send(context.Background(), msg)

	sender := &flakySender{failures: 1}
	worker := NewWorker(broker, "n", sender)
	if err := worker.Run(context.Background()); err != nil {
		t.Fatalf("worker run: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0] != msg {
		t.Fatalf("expected message delivered on retry, got %+v", sender.sent)
	}
	if len(worker.failed) != 0 {
		t.Fatalf("expected no remembered failures, got %v", worker.failed)
	}
}

type flakySender struct {
	failures int
	sent     []Message
}

func (f *flakySender) Send(_ context.Context, msg Message) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("temporary failure")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestNewProvider(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.NotifyConfig
		wantErr bool
	}{
		{name: "none", cfg: config.NotifyConfig{Provider: "none"}},
		{name: "sendgrid without key", cfg: config.NotifyConfig{Provider: "sendgrid", From: "a@example.com"}, wantErr: true},
		{name: "sendgrid", cfg: config.NotifyConfig{Provider: "sendgrid", SendGridAPIKey: "k", From: "a@example.com"}},
		{name: "smtp without sender", cfg: config.NotifyConfig{Provider: "smtp", SMTP: config.SMTPConfig{Host: "smtp.example.com", Port: 587}}, wantErr: true},
		{name: "smtp", cfg: config.NotifyConfig{Provider: "smtp", From: "a@example.com", SMTP: config.SMTPConfig{Host: "smtp.example.com", Port: 587}}},
		{name: "unknown", cfg: config.NotifyConfig{Provider: "pigeon"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sender, err := NewProvider(tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NewProvider() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err == nil && sender == nil {
				t.Fatal("expected a sender")
			}
		})
	}
}

func TestNewWithoutQueueUsesProvider(t *testing.T) {
	sender, closeFn, err := New(context.Background(), config.NotifyConfig{Provider: "none", Queue: "none"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := sender.(Nop); !ok {
		t.Fatalf("expected Nop sender, got %T", sender)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
