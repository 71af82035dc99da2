package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/KC-426/aeonaxy/config"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Bucket() string
	Close() error
}

// Keys are never reused, so stored images can be cached indefinitely.
const imageCacheControl = "public, max-age=31536000, immutable"

// Storage stores uploaded media behind an ObjectStorage backend and hands
// out references of the form "<bucket>/<key>".
type Storage struct {
	backend ObjectStorage
	prefix  string
}

// NewStorage constructs a Storage wrapper for the provided backend. Keys
// are created under prefix.
func NewStorage(backend ObjectStorage, prefix string) *Storage {
	return &Storage{backend: backend, prefix: strings.Trim(prefix, "/")}
}

// New picks the backend named in cfg and makes sure its bucket exists.
func New(ctx context.Context, cfg config.MediaConfig) (*Storage, error) {
	var (
		backend ObjectStorage
		err     error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "minio", "":
		backend, err = newMinioBackend(cfg.Minio)
	case "gcs":
		backend, err = newGCSBackend(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if err := backend.EnsureBucket(ctx); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("ensure media bucket: %w", err)
	}
	return NewStorage(backend, "profiles"), nil
}

// Store uploads data under a fresh key derived from name and returns the
// reference to save alongside the owning record.
func (s *Storage) Store(ctx context.Context, data []byte, name, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty upload")
	}
	key := s.objectKey(name)
	if err := s.backend.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}
	return s.backend.Bucket() + "/" + key, nil
}

// Remove deletes the object behind a reference returned by Store.
func (s *Storage) Remove(ctx context.Context, ref string) error {
	bucket, key, ok := strings.Cut(ref, "/")
	if !ok || bucket != s.backend.Bucket() || key == "" {
		return fmt.Errorf("reference %q does not belong to bucket %q", ref, s.backend.Bucket())
	}
	return s.backend.Delete(ctx, key)
}

// Close releases the backend client.
func (s *Storage) Close() error {
	return s.backend.Close()
}

func (s *Storage) objectKey(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	key := uuid.NewString() + "-" + base
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}
