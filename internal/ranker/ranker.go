// Package ranker orders and filters content opportunities deterministically.
package ranker

import (
	"sort"

	"opportunity-engine/internal/models"
)

// Config controls priority weighting and filtering. ROI is normalized onto a
// [0,10] scale via min(roi, ROICap)/ROICap*10 before weighting so it is
// commensurable with the overall score.
type Config struct {
	ScoreWeight     float64
	ROIWeight       float64
	ROICap          float64
	MinOverallScore float64
}

// DefaultConfig weights score and ROI equally and filters nothing.
func DefaultConfig() Config {
	return Config{
		ScoreWeight:     0.5,
		ROIWeight:       0.5,
		ROICap:          10,
		MinOverallScore: 0,
	}
}

type Ranker struct {
	cfg Config
}

func NewRanker(cfg Config) *Ranker {
	if cfg.ROICap <= 0 {
		cfg.ROICap = 10
	}
	return &Ranker{cfg: cfg}
}

// PriorityScore combines an opportunity's overall score with its normalized
// ROI using the configured weights.
func (r *Ranker) PriorityScore(overallScore, roi float64) float64 {
	normROI := roi
	if normROI > r.cfg.ROICap {
		normROI = r.cfg.ROICap
	}
	normROI = normROI / r.cfg.ROICap * 10
	return overallScore*r.cfg.ScoreWeight + normROI*r.cfg.ROIWeight
}

// Rank returns a new slice ordered best-first. Opportunities below the
// overall-score threshold or already rejected are excluded; the input slice
// is never mutated. The tie-break chain guarantees a total order:
// priority desc, ROI desc, trend recency desc, ID asc.
func (r *Ranker) Rank(opportunities []models.ContentOpportunity) []models.ContentOpportunity {
	ranked := make([]models.ContentOpportunity, 0, len(opportunities))
	for _, opp := range opportunities {
		if opp.Status == models.StatusRejected {
			continue
		}
		if opp.OverallScore < r.cfg.MinOverallScore {
			continue
		}
		opp.PriorityScore = r.PriorityScore(opp.OverallScore, opp.EstimatedROI)
		ranked = append(ranked, opp)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.PriorityScore != b.PriorityScore {
			return a.PriorityScore > b.PriorityScore
		}
		if a.EstimatedROI != b.EstimatedROI {
			return a.EstimatedROI > b.EstimatedROI
		}
		if !a.TrendCollectedAt.Equal(b.TrendCollectedAt) {
			return a.TrendCollectedAt.After(b.TrendCollectedAt)
		}
		return a.ID < b.ID
	})
	return ranked
}
