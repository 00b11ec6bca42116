package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatricePi/MeinePraxisKI/internal/repository/contract"
)

func TestPendingRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewPendingRepository(time.Minute)

	q := &contract.PendingQuestion{Prompt: "ÖGK Blutabnahme", CreatedAt: time.Now()}
	require.NoError(t, repo.Set(ctx, "user-1", q))

	got, found, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ÖGK Blutabnahme", got.Prompt)

	require.NoError(t, repo.Delete(ctx, "user-1"))
	_, found, err = repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPendingRepositoryMiss(t *testing.T) {
	repo := NewPendingRepository(time.Minute)
	_, found, err := repo.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPendingRepositoryExpires(t *testing.T) {
	ctx := context.Background()
	repo := NewPendingRepository(20 * time.Millisecond)

	require.NoError(t, repo.Set(ctx, "user-1", &contract.PendingQuestion{Prompt: "x", CreatedAt: time.Now()}))
	time.Sleep(40 * time.Millisecond)

	_, found, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, found, "entry must expire after the TTL")
}
