// internal/ranker/ranker_test.go
package ranker

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity-engine/internal/models"
)

func opportunity(id string, overall, roi float64, collected time.Time) models.ContentOpportunity {
	return models.ContentOpportunity{
		ID:               id,
		TrendTopic:       "topic-" + id,
		OverallScore:     overall,
		EstimatedROI:     roi,
		Status:           models.StatusPending,
		TrendCollectedAt: collected,
	}
}

func TestPriorityScore_NormalizesROI(t *testing.T) {
	r := NewRanker(DefaultConfig())

	// ROI 5 on a cap of 10 normalizes to 5; equal weights with overall 8
	// give (8 + 5) / 2.
	assert.InDelta(t, 6.5, r.PriorityScore(8, 5), 1e-9)

	// ROI above the cap saturates at 10.
	assert.InDelta(t, 9.0, r.PriorityScore(8, 50), 1e-9)
}

func TestRank_OrdersByPriorityDescending(t *testing.T) {
	r := NewRanker(DefaultConfig())
	now := time.Now()

	ranked := r.Rank([]models.ContentOpportunity{
		opportunity("low", 3, 1, now),
		opportunity("high", 9, 8, now),
		opportunity("mid", 6, 4, now),
	})

	require.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].ID)
	assert.Equal(t, "mid", ranked[1].ID)
	assert.Equal(t, "low", ranked[2].ID)
	for _, opp := range ranked {
		assert.Positive(t, opp.PriorityScore)
	}
}

func TestRank_TieBreakChain(t *testing.T) {
	r := NewRanker(DefaultConfig())
	older := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	t.Run("roi breaks priority tie", func(t *testing.T) {
		// Same priority via compensating overall/roi mixes is hard to set up
		// exactly with one config, so use identical scores and different roi
		// with roi weight zero.
		rr := NewRanker(Config{ScoreWeight: 1, ROIWeight: 0, ROICap: 10})
		ranked := rr.Rank([]models.ContentOpportunity{
			opportunity("lean", 7, 2, older),
			opportunity("rich", 7, 6, older),
		})
		require.Len(t, ranked, 2)
		assert.Equal(t, "rich", ranked[0].ID)
	})

	t.Run("recency breaks priority and roi tie", func(t *testing.T) {
		ranked := r.Rank([]models.ContentOpportunity{
			opportunity("old", 7, 3, older),
			opportunity("new", 7, 3, newer),
		})
		require.Len(t, ranked, 2)
		assert.Equal(t, "new", ranked[0].ID)
	})

	t.Run("id ascending is the final tie-break", func(t *testing.T) {
		ranked := r.Rank([]models.ContentOpportunity{
			opportunity("bbb", 7, 3, older),
			opportunity("aaa", 7, 3, older),
		})
		require.Len(t, ranked, 2)
		assert.Equal(t, "aaa", ranked[0].ID)
		assert.Equal(t, "bbb", ranked[1].ID)
	})
}

func TestRank_IsDeterministicUnderShuffle(t *testing.T) {
	r := NewRanker(DefaultConfig())
	now := time.Now()

	input := []models.ContentOpportunity{
		opportunity("a", 7, 3, now),
		opportunity("b", 7, 3, now),
		opportunity("c", 9, 1, now),
		opportunity("d", 2, 8, now),
		opportunity("e", 7, 3, now.Add(-time.Hour)),
	}

	baseline := r.Rank(input)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]models.ContentOpportunity, len(input))
		copy(shuffled, input)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		ranked := r.Rank(shuffled)
		require.Len(t, ranked, len(baseline))
		for j := range baseline {
			assert.Equal(t, baseline[j].ID, ranked[j].ID)
		}
	}
}

func TestRank_Filtering(t *testing.T) {
	r := NewRanker(Config{ScoreWeight: 0.5, ROIWeight: 0.5, ROICap: 10, MinOverallScore: 5})
	now := time.Now()

	rejected := opportunity("rejected", 9, 9, now)
	rejected.Status = models.StatusRejected

	ranked := r.Rank([]models.ContentOpportunity{
		opportunity("keeper", 7, 3, now),
		opportunity("below-threshold", 4.9, 9, now),
		rejected,
	})

	require.Len(t, ranked, 1)
	assert.Equal(t, "keeper", ranked[0].ID)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	r := NewRanker(DefaultConfig())
	now := time.Now()

	input := []models.ContentOpportunity{
		opportunity("a", 2, 1, now),
		opportunity("b", 9, 9, now),
	}

	_ = r.Rank(input)
	assert.Equal(t, "a", input[0].ID)
	assert.Equal(t, 0.0, input[0].PriorityScore)
}
