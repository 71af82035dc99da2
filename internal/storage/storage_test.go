package storage

import (
	"context"
	"io"
	"strings"
	"testing"
)

type memBackend struct {
	objects map[string][]byte
	types   map[string]string
	closed  int
}

func newMemBackend() *memBackend {
	return &memBackend{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memBackend) EnsureBucket(context.Context) error { return nil }

func (m *memBackend) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memBackend) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memBackend) Bucket() string { return "media" }

func (m *memBackend) Close() error {
	m.closed++
	return nil
}

func TestStoreAndRemove(t *testing.T) {
	backend := newMemBackend()
	s := NewStorage(backend, "profiles")

	ref, err := s.Store(context.Background(), []byte("png-bytes"), "../../avatar.png", "image/png")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if !strings.HasPrefix(ref, "media/profiles/") || !strings.HasSuffix(ref, "-avatar.png") {
		t.Fatalf("unexpected reference: %q", ref)
	}
	key := strings.TrimPrefix(ref, "media/")
	if string(backend.objects[key]) != "png-bytes" || backend.types[key] != "image/png" {
		t.Fatalf("object not stored under %q", key)
	}

	if err := s.Remove(context.Background(), ref); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := backend.objects[key]; ok {
		t.Fatal("expected object to be deleted")
	}
}

func TestStoreRejectsEmptyUpload(t *testing.T) {
	s := NewStorage(newMemBackend(), "")
	if _, err := s.Store(context.Background(), nil, "a.png", "image/png"); err == nil {
		t.Fatal("expected empty upload to fail")
	}
}

func TestRemoveForeignReference(t *testing.T) {
	s := NewStorage(newMemBackend(), "")
	if err := s.Remove(context.Background(), "other-bucket/key"); err == nil {
		t.Fatal("expected reference from another bucket to be rejected")
	}
}

func TestCloseReleasesBackend(t *testing.T) {
	backend := newMemBackend()
	s := NewStorage(backend, "profiles")
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if backend.closed != 1 {
		t.Fatalf("expected backend to be closed once, got %d", backend.closed)
	}
}
