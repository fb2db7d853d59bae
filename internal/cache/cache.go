// Package cache memoizes provider results keyed by content fingerprints.
// Values are JSON-marshaled so the same store serves transcripts and
// generated documents.
package cache

import (
	"context"
	"errors"
)

// ErrMiss is returned by Get when the key has no live entry.
var ErrMiss = errors.New("cache: miss")

// Store is a read-through key-value cache. Put is last-writer-wins;
// failures are never stored, only successful results.
type Store interface {
	Get(ctx context.Context, key string, dest any) error
	Put(ctx context.Context, key string, value any) error
}
