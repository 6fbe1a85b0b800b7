// Package artifact defines the object-store contract the promotion pipeline
// depends on: named binary blobs (serialized models) and small metric
// documents, keyed by logical path. Implementations cover S3 (production),
// a local directory (dev runs) and an in-memory fake (tests).
package artifact

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors. Callers branch on these with errors.Is; the candidate
// resolver in particular depends on ErrNotFound being distinguishable from
// transient storage failures.
var (
	// ErrNotFound reports that no object exists at the key.
	ErrNotFound = errors.New("artifact: not found")
	// ErrPermission reports that the store rejected the credentials or the
	// caller lacks access to the bucket/key.
	ErrPermission = errors.New("artifact: permission denied")
	// ErrPrecondition reports a failed conditional write: the version token
	// supplied to PutBytesIf no longer matches the stored object.
	ErrPrecondition = errors.New("artifact: precondition failed")
)

// StorageError wraps a transient or permanent failure contacting the store.
// The pipeline never retries these itself; run-level retry belongs to the
// caller.
type StorageError struct {
	Op  string // "exists", "get", "put", "stat"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("artifact: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Info describes a stored object. Version is an opaque token (an ETag for
// S3, a content hash elsewhere) that changes whenever the object's bytes
// change; it is the handle for optimistic-concurrency writes.
type Info struct {
	Key     string
	Size    int64
	Version string
}

// Store is the artifact-store adapter consumed by the resolver and pusher.
// Keys are slash-separated logical paths.
type Store interface {
	// Exists reports whether an object is present at key. Absence is not an
	// error; failures reaching the store are.
	Exists(ctx context.Context, key string) (bool, error)
	// GetBytes returns the full object content. ErrNotFound if absent.
	GetBytes(ctx context.Context, key string) ([]byte, error)
	// PutBytes writes the object, overwriting any previous content.
	PutBytes(ctx context.Context, key string, data []byte) error
	// Stat returns object metadata including its version token.
	// ErrNotFound if absent.
	Stat(ctx context.Context, key string) (Info, error)
}

// ConditionalStore is implemented by stores that support compare-and-swap
// writes. PutBytesIf succeeds only while the stored object's version token
// still equals version; otherwise it fails with ErrPrecondition.
type ConditionalStore interface {
	Store
	PutBytesIf(ctx context.Context, key string, data []byte, version string) error
}
