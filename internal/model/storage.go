package model

import (
	"context"
	"io"
)

// Storage is an object store.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Ping(ctx context.Context) error
}
