package history

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Store when nothing is persisted under the key yet.
var ErrNotFound = errors.New("history: not found")

// Store persists one serialized history list per key.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Ping checks that s answers reads. A missing key counts as healthy.
func Ping(ctx context.Context, s Store) error {
	_, err := s.Load(ctx, "healthz")
	if err == nil || errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
