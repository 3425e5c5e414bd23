package common

import (
	"context"
	"time"
)

// IdempotencyStore guards retried write requests. Keys are caller-supplied
// and namespaced by the service using the store.
type IdempotencyStore interface {
	// MarkProcessed records the key if unseen and returns true. A false
	// return means the key was already recorded within its TTL.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
