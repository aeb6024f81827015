// Package handlers implements the HTTP endpoints exposed by the engine.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/models"
	"opportunity-engine/internal/pipeline"
	"opportunity-engine/internal/providers"
	"opportunity-engine/internal/store"
)

// OpportunityPersister is the subset of the opportunity store the handler
// needs. Nil persister means the engine runs stateless.
type OpportunityPersister interface {
	Insert(ctx context.Context, opportunities []models.ContentOpportunity) error
	List(ctx context.Context, status models.OpportunityStatus, limit int) ([]models.ContentOpportunity, error)
	UpdateStatus(ctx context.Context, id string, target models.OpportunityStatus) error
}

type OpportunityHandler struct {
	pipeline *pipeline.Pipeline
	store    OpportunityPersister
	log      logger.Logger
}

func NewOpportunityHandler(p *pipeline.Pipeline, st OpportunityPersister, log logger.Logger) *OpportunityHandler {
	return &OpportunityHandler{pipeline: p, store: st, log: log}
}

// GenerateRequest is the request body for POST /api/v1/opportunities/generate.
type GenerateRequest struct {
	Trends []*models.TrendSignal `json:"trends"`
	Tier   string                `json:"tier"`
}

// Generate runs the batch pipeline. It always answers 200 for a decodable
// request: provider outages degrade to heuristic scoring and invalid signals
// come back in the skipped list, never as a 5xx.
func (h *OpportunityHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Trends) == 0 {
		writeError(w, http.StatusBadRequest, "trends must not be empty")
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

	result := h.pipeline.Process(r.Context(), req.Trends, tier)

	if h.store != nil && len(result.Opportunities) > 0 {
		if err := h.store.Insert(r.Context(), result.Opportunities); err != nil {
			h.log.Error("failed to persist opportunities", map[string]interface{}{
				"count": len(result.Opportunities),
				"error": err.Error(),
			})
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// List handles GET /api/v1/opportunities.
func (h *OpportunityHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "persistence is not configured")
		return
	}

	status := models.OpportunityStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	opportunities, err := h.store.List(r.Context(), status, 100)
	if err != nil {
		h.log.Error("failed to list opportunities", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "failed to list opportunities")
		return
	}
	if opportunities == nil {
		opportunities = []models.ContentOpportunity{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"opportunities": opportunities})
}

// UpdateStatusRequest is the request body for PATCH /api/v1/opportunities/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus applies a lifecycle transition to one opportunity.
func (h *OpportunityHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "persistence is not configured")
		return
	}

	id := mux.Vars(r)["id"]
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.store.UpdateStatus(r.Context(), id, models.OpportunityStatus(req.Status))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "opportunity not found")
	case errors.Is(err, store.ErrIllegalTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.Error("failed to update opportunity status", map[string]interface{}{
			"id":    id,
			"error": err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "failed to update status")
	}
}
