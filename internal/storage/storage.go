// Package storage defines the object-store contract for the
// conversation corpus bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

// StoreError wraps an object-store failure with a message safe to
// surface; credentials never appear in it.
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("object store: %s", e.Message)
}

func (e *StoreError) Unwrap() error { return e.Cause }

type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

type PutOptions struct {
	ContentType string
}

type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, opts PutOptions) (ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	List(ctx context.Context, prefix string, max int) ([]ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	BucketExists(ctx context.Context) (bool, error)
}
