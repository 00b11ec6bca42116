package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BeatricePi/MeinePraxisKI/internal/repository/contract"
)

const keyPrefix = "pending:"

// PendingRepository stores pending questions in Redis so multiple instances
// share one view of open clarifications.
type PendingRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ contract.PendingRepository = &PendingRepository{}

func NewPendingRepository(client *redis.Client, ttl time.Duration) *PendingRepository {
	return &PendingRepository{client: client, ttl: ttl}
}

func (r *PendingRepository) Get(ctx context.Context, key string) (*contract.PendingQuestion, bool, error) {
	raw, err := r.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read pending question: %w", err)
	}
	var q contract.PendingQuestion
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, false, fmt.Errorf("failed to decode pending question: %w", err)
	}
	return &q, true, nil
}

func (r *PendingRepository) Set(ctx context.Context, key string, q *contract.PendingQuestion) error {
	raw, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to encode pending question: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending question: %w", err)
	}
	return nil
}

func (r *PendingRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete pending question: %w", err)
	}
	return nil
}
