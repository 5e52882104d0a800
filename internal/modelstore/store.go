package modelstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"megahal/internal/config"
	"megahal/internal/engine"
	"megahal/internal/objectstore"
)

// keyPrefix namespaces model snapshots within whatever bucket/store backs
// them, so a model store can share an objectstore with other data.
const keyPrefix = "models/"

// Store persists and restores engine.Model snapshots by name, backed by an
// objectstore.ObjectStore.
type Store struct {
	objects objectstore.ObjectStore
}

// New selects a backing objectstore per cfg.Backend ("memory" or "s3";
// empty defaults to "memory") and returns a Store wrapping it.
func New(ctx context.Context, cfg config.ModelStoreConfig) (*Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return &Store{objects: objectstore.NewMemoryStore()}, nil
	case "s3":
		s3store, err := objectstore.NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("modelstore: build s3 backend: %w", err)
		}
		return &Store{objects: s3store}, nil
	default:
		return nil, fmt.Errorf("modelstore: unknown backend %q", cfg.Backend)
	}
}

// NewWithObjectStore wraps an already-constructed objectstore.ObjectStore,
// primarily for tests that want a MemoryStore without going through New.
func NewWithObjectStore(objects objectstore.ObjectStore) *Store {
	return &Store{objects: objects}
}

func objectKey(name string) string {
	return keyPrefix + name + ".hal"
}

// Save encodes m and writes it under name.
func (s *Store) Save(ctx context.Context, name string, m *engine.Model) error {
	data, err := Encode(m)
	if err != nil {
		return fmt.Errorf("modelstore: encode %q: %w", name, err)
	}
	if _, err := s.objects.Put(ctx, objectKey(name), bytes.NewReader(data), objectstore.PutOptions{
		ContentType: "application/octet-stream",
	}); err != nil {
		return fmt.Errorf("modelstore: put %q: %w", name, err)
	}
	return nil
}

// Load reads and decodes the model snapshot stored under name.
func (s *Store) Load(ctx context.Context, name string) (*engine.Model, error) {
	r, _, err := s.objects.Get(ctx, objectKey(name))
	if err != nil {
		return nil, fmt.Errorf("modelstore: get %q: %w", name, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("modelstore: read %q: %w", name, err)
	}

	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("modelstore: decode %q: %w", name, err)
	}
	return m, nil
}

// Exists reports whether a snapshot is stored under name.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	return s.objects.Exists(ctx, objectKey(name))
}
