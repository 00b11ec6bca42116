package contract

import (
	"context"
	"time"
)

// PendingQuestion is the query a clarification was issued for. It is kept
// until the same identity answers or the TTL elapses.
type PendingQuestion struct {
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"created_at"`
}

// PendingRepository is a TTL key-value store for pending questions, keyed by
// session identity (user id or client address). Implementations handle
// expiry themselves; a Get after the TTL behaves like a miss.
type PendingRepository interface {
	Get(ctx context.Context, key string) (*PendingQuestion, bool, error)
	Set(ctx context.Context, key string, q *PendingQuestion) error
	Delete(ctx context.Context, key string) error
}
