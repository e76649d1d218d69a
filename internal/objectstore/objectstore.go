// Package objectstore persists the raw bytes of uploaded documents. The
// metadata lives in the relational store; this package only deals with
// object keys.
package objectstore

import (
	"context"
	"io"
)

type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
	Type() string
}
