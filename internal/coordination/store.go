package coordination

import (
	"context"
	"fmt"
	"time"
)

// Store is the coordination capability the booking engine relies on: a
// short-lived mutual-exclusion lock (atomic set-if-absent with expiry) and
// a bounded-TTL result cache for idempotency replay.
//
// The lock is advisory. Lock loss must never compromise correctness; the
// durable storage uniqueness constraint is the final guard.
type Store interface {
	// TryAcquire is a single non-blocking attempt. It returns false when
	// the key is already held.
	TryAcquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)

	// Release deletes the key only if it still holds token. Releasing a
	// lock that already expired or belongs to someone else is a no-op.
	Release(ctx context.Context, key, token string) error

	GetResult(ctx context.Context, key string) (string, error)
	PutResult(ctx context.Context, key, value string, ttl time.Duration) error
}

// SlotLockKey scopes the booking lock to one doctor and one start instant.
func SlotLockKey(doctorID uint, startAt time.Time) string {
	return fmt.Sprintf("lock:slot:%d:%d", doctorID, startAt.UTC().Unix())
}

// IdempotencyResultKey maps a caller-supplied token to the namespace used
// for appointment creation results.
func IdempotencyResultKey(key string) string {
	return "idem:appointment:" + key
}
