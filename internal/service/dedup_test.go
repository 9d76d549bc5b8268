package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/essayforge/essay-api/internal/models"
)

func newTestCache(t *testing.T, results *stubResultRepo) (*EvaluationCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewEvaluationCache(client, results, time.Minute, zerolog.Nop()), mr
}

func TestEvaluationCacheMiss(t *testing.T) {
	cache, _ := newTestCache(t, newStubResultRepo())

	_, hit, err := cache.FindExisting(context.Background(), "u1", "some essay text")
	require.NoError(t, err)
	require.False(t, hit)
}

func TestEvaluationCacheStoreThenFind(t *testing.T) {
	cache, _ := newTestCache(t, newStubResultRepo())

	result := models.EvaluationResult{
		ID:        1,
		UserID:    "u1",
		EssayText: "an essay about practice",
		Score:     72,
		Feedback:  "Solid effort.",
	}
	cache.Store(context.Background(), result)

	found, hit, err := cache.FindExisting(context.Background(), "u1", "an essay about practice")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, 72.0, found.Score)
	require.Equal(t, "Solid effort.", found.Feedback)
}

func TestEvaluationCacheDatabaseHitBackfillsRedis(t *testing.T) {
	results := newStubResultRepo()
	cache, mr := newTestCache(t, results)

	result := models.EvaluationResult{
		UserID:    "u1",
		EssayText: "an essay about practice",
		Score:     64,
		Feedback:  "Workable draft.",
	}
	require.NoError(t, results.Create(context.Background(), &result))
	require.Empty(t, mr.Keys())

	found, hit, err := cache.FindExisting(context.Background(), "u1", "an essay about practice")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, 64.0, found.Score)
	require.Len(t, mr.Keys(), 1)

	// Subsequent lookups are served from Redis even if the row vanishes.
	results.byPair = map[string]models.EvaluationResult{}
	_, hit, err = cache.FindExisting(context.Background(), "u1", "an essay about practice")
	require.NoError(t, err)
	require.True(t, hit)
}

func TestEvaluationCacheKeysDifferPerUser(t *testing.T) {
	results := newStubResultRepo()
	cache, _ := newTestCache(t, results)

	result := models.EvaluationResult{
		UserID:    "u1",
		EssayText: "an essay about practice",
		Score:     58,
		Feedback:  "Needs tightening.",
	}
	require.NoError(t, results.Create(context.Background(), &result))

	_, hit, err := cache.FindExisting(context.Background(), "u2", "an essay about practice")
	require.NoError(t, err)
	require.False(t, hit)
}

func TestEvaluationCacheRedisDownDegradesToDatabase(t *testing.T) {
	results := newStubResultRepo()
	cache, mr := newTestCache(t, results)

	result := models.EvaluationResult{
		UserID:    "u1",
		EssayText: "an essay about practice",
		Score:     80,
		Feedback:  "Strong.",
	}
	require.NoError(t, results.Create(context.Background(), &result))

	mr.Close()

	found, hit, err := cache.FindExisting(context.Background(), "u1", "an essay about practice")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, 80.0, found.Score)
}

func TestEvaluationCacheNilClientUsesDatabaseOnly(t *testing.T) {
	results := newStubResultRepo()
	cache := NewEvaluationCache(nil, results, time.Minute, zerolog.Nop())

	result := models.EvaluationResult{
		UserID:    "u1",
		EssayText: "an essay about practice",
		Score:     70,
		Feedback:  "Fine.",
	}
	require.NoError(t, results.Create(context.Background(), &result))

	found, hit, err := cache.FindExisting(context.Background(), "u1", "an essay about practice")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, 70.0, found.Score)
}
