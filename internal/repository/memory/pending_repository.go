package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/BeatricePi/MeinePraxisKI/internal/repository/contract"
)

// PendingRepository keeps pending questions in-process. Suitable for a single
// instance; use the redis implementation when scaling out.
type PendingRepository struct {
	cache *cache.Cache
}

var _ contract.PendingRepository = &PendingRepository{}

func NewPendingRepository(ttl time.Duration) *PendingRepository {
	// Purge expired items at twice the TTL cadence.
	return &PendingRepository{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *PendingRepository) Get(_ context.Context, key string) (*contract.PendingQuestion, bool, error) {
	if x, found := r.cache.Get(key); found {
		return x.(*contract.PendingQuestion), true, nil
	}
	return nil, false, nil
}

func (r *PendingRepository) Set(_ context.Context, key string, q *contract.PendingQuestion) error {
	r.cache.Set(key, q, cache.DefaultExpiration)
	return nil
}

func (r *PendingRepository) Delete(_ context.Context, key string) error {
	r.cache.Delete(key)
	return nil
}
