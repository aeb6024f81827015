// internal/analyzer/scorer_test.go
package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "opportunity-engine/internal/common/errors"
	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/models"
	"opportunity-engine/internal/providers"
	"opportunity-engine/pkg/catalog"
)

// ==========================
// Test Helpers
// ==========================

type scriptedAdapter struct {
	vendor string
	text   string
	err    error
	calls  int
}

func (s *scriptedAdapter) Vendor() string { return s.vendor }

func (s *scriptedAdapter) Invoke(ctx context.Context, req *providers.Request) (*providers.Output, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &providers.Output{Text: s.text, Model: s.vendor}, nil
}

type memoryCache struct {
	entries map[string]*models.AIAnalysisResult
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]*models.AIAnalysisResult{}}
}

func (m *memoryCache) Get(ctx context.Context, tier, topic string) (*models.AIAnalysisResult, bool) {
	r, ok := m.entries[tier+":"+topic]
	return r, ok
}

func (m *memoryCache) Set(ctx context.Context, tier, topic string, result *models.AIAnalysisResult) {
	m.sets++
	m.entries[tier+":"+topic] = result
}

func newTestRegistry(t *testing.T) *providers.Registry {
	registry, err := providers.BuildRegistry(&catalog.ProviderCatalog{
		Version: "test",
		Entries: []catalog.Entry{
			{Vendor: "primary", Capability: "trend_analysis", Tier: "budget", Position: 0, CostPerUnit: 0.1, QualityScore: 7},
			{Vendor: "secondary", Capability: "trend_analysis", Tier: "budget", Position: 1, CostPerUnit: 0.05, QualityScore: 6},
			{Vendor: "primary", Capability: "text", Tier: "budget", Position: 0, CostPerUnit: 0.001, QualityScore: 7},
			{Vendor: "primary", Capability: "image", Tier: "budget", Position: 0, CostPerUnit: 0.04, QualityScore: 7},
			{Vendor: "primary", Capability: "audio", Tier: "budget", Position: 0, CostPerUnit: 0.2, QualityScore: 7},
		},
	})
	require.NoError(t, err)
	return registry
}

func newScorer(t *testing.T, cache AnalysisCache, adapters ...providers.Adapter) *Scorer {
	executor := providers.NewExecutor(adapters, providers.CredentialMap{}, time.Second, 1, logger.NewTestLogger(t))
	return NewScorer(newTestRegistry(t), executor, cache, logger.NewTestLogger(t))
}

func testSignal() *models.TrendSignal {
	return &models.TrendSignal{
		Topic:           "AI Tools 2024",
		PopularityScore: 85,
		Keywords:        []string{"ai"},
		CollectedAt:     time.Now(),
	}
}

const goodResponse = `{"viral_potential": 8, "content_saturation": 4, "audience_interest": 9, "monetization_opportunity": 7, "content_angles": ["Deep Dive"], "reasoning": "solid"}`

// ==========================
// Core Functionality Tests
// ==========================

func TestScorer_UsesProviderResult(t *testing.T) {
	scorer := newScorer(t, nil, &scriptedAdapter{vendor: "primary", text: goodResponse})

	result := scorer.Analyze(context.Background(), providers.NewRunState(), testSignal(), providers.TierBudget)
	require.NotNil(t, result)
	assert.Equal(t, "primary", result.Source)
	assert.Equal(t, 8, result.ViralPotential)
}

func TestScorer_FallsBackToHeuristicOnExhaustion(t *testing.T) {
	scorer := newScorer(t, nil,
		&scriptedAdapter{vendor: "primary", err: apperrors.NewUnreachableError("primary", assert.AnError)},
		&scriptedAdapter{vendor: "secondary", err: apperrors.NewRateLimitedError("secondary", "429")},
	)

	result := scorer.Analyze(context.Background(), providers.NewRunState(), testSignal(), providers.TierBudget)
	require.NotNil(t, result)
	assert.Equal(t, models.AnalysisSourceHeuristic, result.Source)
	assert.GreaterOrEqual(t, result.ViralPotential, 7)
	assert.NotEmpty(t, result.ContentAngles)
}

func TestScorer_ParseFailureFallsBackToHeuristic(t *testing.T) {
	primary := &scriptedAdapter{vendor: "primary", text: "no json here, just vibes"}
	scorer := newScorer(t, nil, primary)

	result := scorer.Analyze(context.Background(), providers.NewRunState(), testSignal(), providers.TierBudget)
	require.NotNil(t, result)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, models.AnalysisSourceHeuristic, result.Source)
}

func TestScorer_CancelledContextScoresSynchronously(t *testing.T) {
	primary := &scriptedAdapter{vendor: "primary", text: goodResponse}
	scorer := newScorer(t, nil, primary)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := scorer.Analyze(ctx, providers.NewRunState(), testSignal(), providers.TierBudget)
	require.NotNil(t, result)
	assert.Equal(t, models.AnalysisSourceHeuristic, result.Source)
	assert.Equal(t, 0, primary.calls)
}

func TestScorer_CacheHitSkipsProviders(t *testing.T) {
	cache := newMemoryCache()
	primary := &scriptedAdapter{vendor: "primary", text: goodResponse}
	scorer := newScorer(t, cache, primary)

	signal := testSignal()

	first := scorer.Analyze(context.Background(), providers.NewRunState(), signal, providers.TierBudget)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, cache.sets)

	second := scorer.Analyze(context.Background(), providers.NewRunState(), signal, providers.TierBudget)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, first.OverallScore, second.OverallScore)
}

func TestScorer_HeuristicResultsNotCached(t *testing.T) {
	cache := newMemoryCache()
	scorer := newScorer(t, cache,
		&scriptedAdapter{vendor: "primary", err: apperrors.NewUnreachableError("primary", assert.AnError)},
		&scriptedAdapter{vendor: "secondary", err: apperrors.NewUnreachableError("secondary", assert.AnError)},
	)

	result := scorer.Analyze(context.Background(), providers.NewRunState(), testSignal(), providers.TierBudget)
	require.NotNil(t, result)
	assert.Equal(t, models.AnalysisSourceHeuristic, result.Source)
	assert.Equal(t, 0, cache.sets)
}
