// internal/store/analysis_cache_test.go
package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/models"
)

func setupCache(t *testing.T) (*RedisAnalysisCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisAnalysisCache(client, 15*time.Minute, logger.NewTestLogger(t)), mr
}

func sampleAnalysis() *models.AIAnalysisResult {
	r := &models.AIAnalysisResult{
		TrendTopic:              "AI Tools 2024",
		ViralPotential:          8,
		ContentSaturation:       4,
		AudienceInterest:        9,
		MonetizationOpportunity: 7,
		ContentAngles:           []string{"Hands-On Review"},
		Reasoning:               "strong momentum",
		Source:                  "groq",
	}
	r.Finalize()
	return r
}

func TestCache_RoundTrip(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	cache.Set(ctx, "budget", "AI Tools 2024", sampleAnalysis())

	got, ok := cache.Get(ctx, "budget", "AI Tools 2024")
	require.True(t, ok)
	assert.Equal(t, 8, got.ViralPotential)
	assert.InDelta(t, 7.0, got.OverallScore, 1e-9)
	assert.Equal(t, "groq", got.Source)
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	cache, _ := setupCache(t)

	_, ok := cache.Get(context.Background(), "budget", "unknown topic")
	assert.False(t, ok)
}

func TestCache_TierIsolation(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	cache.Set(ctx, "budget", "AI Tools 2024", sampleAnalysis())

	_, ok := cache.Get(ctx, "premium", "AI Tools 2024")
	assert.False(t, ok)
}

func TestCache_ExpiredEntryIsMiss(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	cache.Set(ctx, "budget", "AI Tools 2024", sampleAnalysis())
	mr.FastForward(16 * time.Minute)

	_, ok := cache.Get(ctx, "budget", "AI Tools 2024")
	assert.False(t, ok)
}

func TestCache_BackendErrorIsMiss(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	cache.Set(ctx, "budget", "AI Tools 2024", sampleAnalysis())
	mr.Close()

	_, ok := cache.Get(ctx, "budget", "AI Tools 2024")
	assert.False(t, ok)
}

func TestCache_CorruptPayloadIsMiss(t *testing.T) {
	cache, mr := setupCache(t)

	require.NoError(t, mr.Set("analysis:budget:bad topic", "not json"))

	_, ok := cache.Get(context.Background(), "budget", "bad topic")
	assert.False(t, ok)
}

func TestCache_SetUsesConfiguredTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisAnalysisCache(client, 5*time.Minute, logger.NewTestLogger(t))

	payload, err := json.Marshal(sampleAnalysis())
	require.NoError(t, err)

	mock.ExpectSet("analysis:budget:AI Tools 2024", payload, 5*time.Minute).SetVal("OK")
	cache.Set(context.Background(), "budget", "AI Tools 2024", sampleAnalysis())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_WriteErrorIsSwallowed(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisAnalysisCache(client, 5*time.Minute, logger.NewTestLogger(t))

	payload, err := json.Marshal(sampleAnalysis())
	require.NoError(t, err)

	mock.ExpectSet("analysis:budget:AI Tools 2024", payload, 5*time.Minute).
		SetErr(assert.AnError)

	// Must not panic or propagate; the cache is best-effort.
	cache.Set(context.Background(), "budget", "AI Tools 2024", sampleAnalysis())
	assert.NoError(t, mock.ExpectationsWereMet())
}
