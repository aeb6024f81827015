// Package analyzer scores trend signals into normalized analysis results,
// preferring AI providers and falling back to deterministic heuristics.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/common/metrics"
	"opportunity-engine/internal/models"
	"opportunity-engine/internal/providers"
)

// AnalysisCache is an optional read-through cache for scored results.
// Implementations must treat backend errors as misses.
type AnalysisCache interface {
	Get(ctx context.Context, tier, topic string) (*models.AIAnalysisResult, bool)
	Set(ctx context.Context, tier, topic string, result *models.AIAnalysisResult)
}

// Scorer produces an AIAnalysisResult for every signal it is handed. Provider
// failures, chain exhaustion, parse failures, and context cancellation all
// route to the heuristic analyzer; Analyze never returns nil.
type Scorer struct {
	registry  *providers.Registry
	executor  *providers.Executor
	heuristic *HeuristicAnalyzer
	cache     AnalysisCache
	log       logger.Logger
}

func NewScorer(registry *providers.Registry, executor *providers.Executor, cache AnalysisCache, log logger.Logger) *Scorer {
	return &Scorer{
		registry:  registry,
		executor:  executor,
		heuristic: NewHeuristicAnalyzer(),
		cache:     cache,
		log:       log,
	}
}

// Analyze scores one trend signal at the requested tier.
func (s *Scorer) Analyze(ctx context.Context, state *providers.RunState, signal *models.TrendSignal, tier providers.QualityTier) *models.AIAnalysisResult {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, string(tier), signal.Topic); ok {
			return cached
		}
	}

	if ctx.Err() != nil {
		return s.fallback(signal, "deadline")
	}

	chain := s.registry.Resolve(providers.CapabilityTrendAnalysis, tier)
	req := &providers.Request{
		Capability:  providers.CapabilityTrendAnalysis,
		Tier:        tier,
		Prompt:      buildAnalysisPrompt(signal),
		Topic:       signal.Topic,
		Keywords:    signal.Keywords,
		MaxTokens:   800,
		Temperature: 0.3,
	}

	output, used, err := s.executor.Run(ctx, state, chain, req)
	if err != nil {
		return s.fallback(signal, "chain_exhausted")
	}

	result, parseErr := parseAnalysis(output.Text, signal.Topic, used.Vendor)
	if parseErr != nil {
		s.log.Warn("provider response unparseable, falling back to heuristic", map[string]interface{}{
			"vendor": used.Vendor,
			"topic":  signal.Topic,
			"error":  parseErr.Error(),
		})
		return s.fallback(signal, "parse_failure")
	}

	if s.cache != nil {
		s.cache.Set(ctx, string(tier), signal.Topic, result)
	}
	return result
}

func (s *Scorer) fallback(signal *models.TrendSignal, reason string) *models.AIAnalysisResult {
	metrics.HeuristicFallbacks.WithLabelValues(reason).Inc()
	s.log.Info("scoring trend heuristically", map[string]interface{}{
		"topic":  signal.Topic,
		"reason": reason,
	})
	return s.heuristic.Analyze(signal)
}

func buildAnalysisPrompt(signal *models.TrendSignal) string {
	var b strings.Builder
	b.WriteString("Analyze the following trend for content creation potential.\n")
	fmt.Fprintf(&b, "Topic: %s\n", signal.Topic)
	fmt.Fprintf(&b, "Popularity score: %.0f/100\n", signal.PopularityScore)
	fmt.Fprintf(&b, "Growth rate: %.2f\n", signal.GrowthRate)
	if len(signal.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(signal.Keywords, ", "))
	}
	if signal.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", signal.Category)
	}
	b.WriteString(`Respond with a single JSON object with these fields:
{"viral_potential": 0-10, "content_saturation": 0-10, "audience_interest": 0-10, "monetization_opportunity": 0-10, "content_angles": ["..."], "reasoning": "..."}`)
	return b.String()
}
