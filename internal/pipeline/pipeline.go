// Package pipeline orchestrates batch scoring of trend signals into ranked
// content opportunities.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"opportunity-engine/internal/analyzer"
	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/common/metrics"
	"opportunity-engine/internal/common/observability"
	"opportunity-engine/internal/common/validation"
	"opportunity-engine/internal/estimator"
	"opportunity-engine/internal/models"
	"opportunity-engine/internal/providers"
	"opportunity-engine/internal/ranker"
)

// SkippedSignal records one input signal that could not be scored, with the
// reason it was dropped. Only invalid inputs are ever skipped; provider
// outages degrade to heuristic scoring instead.
type SkippedSignal struct {
	Topic  string `json:"topic"`
	Reason string `json:"reason"`
}

// Result is the outcome of one batch run. A batch never fails as a whole.
type Result struct {
	Opportunities []models.ContentOpportunity `json:"opportunities"`
	Skipped       []SkippedSignal             `json:"skipped"`
}

// Config holds batch-level tunables.
type Config struct {
	BatchTimeout    time.Duration
	RevenuePerPoint float64
	ContentUnits    float64
}

// Pipeline fans a batch of trend signals out to concurrent analyses, attaches
// cost/ROI estimates, and ranks the collected set once at the end.
type Pipeline struct {
	scorer    *analyzer.Scorer
	estimator *estimator.CostEstimator
	ranker    *ranker.Ranker
	validator *validation.SignalValidator
	obs       *observability.Observability
	cfg       Config
	log       logger.Logger
}

func NewPipeline(scorer *analyzer.Scorer, est *estimator.CostEstimator, rank *ranker.Ranker, validator *validation.SignalValidator, cfg Config, log logger.Logger) *Pipeline {
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 30 * time.Second
	}
	if cfg.ContentUnits <= 0 {
		cfg.ContentUnits = 1500
	}
	return &Pipeline{
		scorer:    scorer,
		estimator: est,
		ranker:    rank,
		validator: validator,
		cfg:       cfg,
		log:       log,
	}
}

// WithObservability attaches the otel recorder. Optional; a pipeline without
// one records only the Prometheus counters.
func (p *Pipeline) WithObservability(obs *observability.Observability) *Pipeline {
	p.obs = obs
	return p
}

// Process scores every valid signal in the batch at the requested tier.
// Circuit-breaker state lives for exactly one call; a fresh run starts clean.
// If the batch deadline elapses, unfinished analyses fall back to synchronous
// heuristic scoring inside the scorer, so every valid signal still yields an
// opportunity.
func (p *Pipeline) Process(ctx context.Context, signals []*models.TrendSignal, tier providers.QualityTier) *Result {
	start := time.Now()
	defer func() {
		metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}()

	result := &Result{
		Opportunities: []models.ContentOpportunity{},
		Skipped:       []SkippedSignal{},
	}

	valid := make([]*models.TrendSignal, 0, len(signals))
	for _, signal := range signals {
		if err := p.validator.Validate(signal); err != nil {
			topic := ""
			if signal != nil {
				topic = signal.Topic
			}
			p.log.Warn("skipping invalid trend signal", map[string]interface{}{
				"topic": topic,
				"error": err.Error(),
			})
			result.Skipped = append(result.Skipped, SkippedSignal{
				Topic:  topic,
				Reason: err.Error(),
			})
			continue
		}
		valid = append(valid, signal)
	}
	if len(valid) == 0 {
		return result
	}

	batchCtx, cancel := context.WithTimeout(ctx, p.cfg.BatchTimeout)
	defer cancel()

	state := providers.NewRunState()
	opportunities := make([]models.ContentOpportunity, len(valid))

	var wg sync.WaitGroup
	for i, signal := range valid {
		wg.Add(1)
		go func(idx int, sig *models.TrendSignal) {
			defer wg.Done()
			opportunities[idx] = p.analyzeOne(batchCtx, state, sig, tier)
		}(i, signal)
	}
	wg.Wait()

	result.Opportunities = p.ranker.Rank(opportunities)
	metrics.OpportunitiesProduced.Add(float64(len(result.Opportunities)))

	p.log.Info("batch complete", map[string]interface{}{
		"signals":       len(signals),
		"opportunities": len(result.Opportunities),
		"skipped":       len(result.Skipped),
		"tier":          string(tier),
		"duration_ms":   time.Since(start).Milliseconds(),
	})
	return result
}

func (p *Pipeline) analyzeOne(ctx context.Context, state *providers.RunState, signal *models.TrendSignal, tier providers.QualityTier) models.ContentOpportunity {
	analysisStart := time.Now()
	analysis := p.scorer.Analyze(ctx, state, signal, tier)
	if p.obs != nil {
		p.obs.RecordAnalysisProcessed(ctx, analysis.Source)
		p.obs.RecordAnalysisDuration(ctx, time.Since(analysisStart), analysis.Source)
	}

	revenue := signal.PopularityScore * p.cfg.RevenuePerPoint
	est := p.estimator.Estimate(providers.CapabilityText, tier, p.cfg.ContentUnits, revenue)

	angle := ""
	if len(analysis.ContentAngles) > 0 {
		angle = analysis.ContentAngles[0]
	}

	return models.ContentOpportunity{
		ID:                      uuid.New().String(),
		TrendTopic:              signal.Topic,
		SuggestedAngle:          angle,
		EstimatedProductionCost: est.Cost,
		EstimatedROI:            est.ROI,
		OverallScore:            analysis.OverallScore,
		Status:                  models.StatusPending,
		TrendCollectedAt:        signal.CollectedAt,
		CreatedAt:               time.Now().UTC(),
	}
}
