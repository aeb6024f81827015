package handlers

import (
	"encoding/json"
	"net/http"

	"opportunity-engine/internal/analyzer"
	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/estimator"
	"opportunity-engine/internal/models"
	"opportunity-engine/internal/providers"
	"opportunity-engine/internal/ranker"
)

// AnalysisHandler exposes the pure scoring, ranking, and estimation
// operations directly, outside the batch pipeline.
type AnalysisHandler struct {
	scorer    *analyzer.Scorer
	ranker    *ranker.Ranker
	estimator *estimator.CostEstimator
	log       logger.Logger
}

func NewAnalysisHandler(scorer *analyzer.Scorer, rank *ranker.Ranker, est *estimator.CostEstimator, log logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{scorer: scorer, ranker: rank, estimator: est, log: log}
}

// AnalyzeRequest is the request body for POST /api/v1/trends/analyze.
type AnalyzeRequest struct {
	Trend *models.TrendSignal `json:"trend"`
	Tier  string              `json:"tier"`
}

// Analyze scores a single trend signal. Provider failure is not an error
// here either; the result carries its source so callers can tell heuristic
// scores from AI ones.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Trend == nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Trend.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tier := providers.QualityTier(req.Tier)
	if req.Tier == "" {
		tier = providers.TierBudget
	}
	if !tier.Valid() {
		writeError(w, http.StatusBadRequest, "unknown quality tier")
		return
	}

	result := h.scorer.Analyze(r.Context(), providers.NewRunState(), req.Trend, tier)
	writeJSON(w, http.StatusOK, result)
}

// RankRequest is the request body for POST /api/v1/opportunities/rank.
type RankRequest struct {
	Opportunities []models.ContentOpportunity `json:"opportunities"`
}

// Rank orders a caller-supplied opportunity list without touching storage.
func (h *AnalysisHandler) Rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"opportunities": h.ranker.Rank(req.Opportunities),
	})
}

// EstimateRequest is the request body for POST /api/v1/costs/estimate.
type EstimateRequest struct {
	Capability       string  `json:"capability"`
	Tier             string  `json:"tier"`
	ContentUnits     float64 `json:"contentUnits"`
	EstimatedRevenue float64 `json:"estimatedRevenue"`
}

// Estimate computes cost and ROI for a hypothetical piece of content.
func (h *AnalysisHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	capability := providers.Capability(req.Capability)
	if req.Capability == "" {
		capability = providers.CapabilityText
	}
	if !capability.Valid() {
		writeError(w, http.StatusBadRequest, "unknown capability")
		return
	}

	tier := providers.QualityTier(req.Tier)
	if req.Tier == "" {
		tier = providers.TierBudget
	}
	if !tier.Valid() {
		writeError(w, http.StatusBadRequest, "unknown quality tier")
		return
	}

	est := h.estimator.Estimate(capability, tier, req.ContentUnits, req.EstimatedRevenue)
	writeJSON(w, http.StatusOK, est)
}
