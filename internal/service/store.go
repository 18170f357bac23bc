package service

import (
	"context"
	"io"
)

// ObjectStore keeps the binary content of uploaded media. Keys are chosen
// by the caller, Put returns the public URL of the stored object.
type ObjectStore interface {
	Put(ctx context.Context, body io.Reader, size int64, contentType, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
}
