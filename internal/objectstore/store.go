// Package objectstore provides the narrow storage abstraction modelstore
// needs to persist and rehydrate trained model snapshots: write a blob under
// a key, read it back, and check whether a checkpoint already exists before
// deciding whether to start a fresh model.
package objectstore

import (
	"context"
	"errors"
	"io"
	"time"
)

// Common errors returned by ObjectStore implementations.
var (
	ErrNotFound     = errors.New("object not found")
	ErrAccessDenied = errors.New("access denied")
)

// ObjectAttrs contains metadata about a stored object.
type ObjectAttrs struct {
	// Key is the full object key (path) in the bucket.
	Key string
	// Size is the object size in bytes.
	Size int64
	// ETag is the object's entity tag (typically an MD5 hash).
	ETag string
	// LastModified is when the object was last updated.
	LastModified time.Time
	// ContentType is the MIME type if set.
	ContentType string
}

// PutOptions configures Put operation behavior.
type PutOptions struct {
	// ContentType sets the MIME type of the object.
	ContentType string
}

// ObjectStore is the storage surface a model snapshot needs: write, read
// back, and check for existence. A model store never lists, copies, or
// head-checks snapshots independently of reading them, so the interface
// stops at the three methods it actually calls. Implementations must be
// safe for concurrent use.
type ObjectStore interface {
	// Get retrieves an object by key. The caller must close the returned reader.
	// Returns ErrNotFound if the object does not exist.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectAttrs, error)

	// Put stores an object with the given key, overwriting any existing
	// object at that key. The reader is fully consumed. Returns the ETag of
	// the stored object.
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (etag string, err error)

	// Exists checks if an object exists at the given key, used to decide
	// between loading a checkpoint and starting a new model.
	Exists(ctx context.Context, key string) (bool, error)
}
