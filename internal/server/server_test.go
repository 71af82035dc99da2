package server

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/KC-426/aeonaxy/internal/storage"
)

type closeCounter struct {
	closed int
}

func (c *closeCounter) EnsureBucket(context.Context) error { return nil }

func (c *closeCounter) Put(context.Context, string, io.Reader, int64, string) error { return nil }

func (c *closeCounter) Delete(context.Context, string) error { return nil }

func (c *closeCounter) Bucket() string { return "media" }

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestShutdownReleasesMediaAndBroker(t *testing.T) {
	backend := &closeCounter{}
	brokerClosed := 0
	srv := &Server{
		httpServer: &http.Server{},
		media:      storage.NewStorage(backend, "profiles"),
		closeNotify: func() error {
			brokerClosed++
			return nil
		},
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if backend.closed != 1 || brokerClosed != 1 {
		t.Fatalf("expected media and broker closed once, got media=%d broker=%d", backend.closed, brokerClosed)
	}
}
