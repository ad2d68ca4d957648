package kv

import (
	"context"
	"errors"
)

// Store is the key-value persistence collaborator cart state is written
// through to. Values are opaque strings; callers own the serialization.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

var ErrKeyNotFound = errors.New("key not found")
