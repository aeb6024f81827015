package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "opportunity-engine/internal/common/errors"
	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/providers"
)

// ContentHandler routes ad-hoc generation requests (text, image, audio)
// through the provider fallback chains. Unlike trend analysis there is no
// heuristic to fall back on, so chain exhaustion surfaces as 502.
type ContentHandler struct {
	registry *providers.Registry
	executor *providers.Executor
	log      logger.Logger
}

func NewContentHandler(registry *providers.Registry, executor *providers.Executor, log logger.Logger) *ContentHandler {
	return &ContentHandler{registry: registry, executor: executor, log: log}
}

// GenerateContentRequest is the request body for POST /api/v1/content/generate.
type GenerateContentRequest struct {
	Capability  string  `json:"capability"`
	Tier        string  `json:"tier"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

// GenerateContentResponse carries the winning provider's output. Binary
// payloads (audio) come back base64-encoded in data.
type GenerateContentResponse struct {
	Vendor     string `json:"vendor"`
	Model      string `json:"model,omitempty"`
	Text       string `json:"text,omitempty"`
	Data       []byte `json:"data,omitempty"`
	TokensUsed int    `json:"tokensUsed,omitempty"`
}

// Generate resolves the chain for the requested capability and tier and runs
// it until one provider succeeds.
func (h *ContentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt must not be empty")
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

	chain := h.registry.Resolve(capability, tier)
	out, desc, err := h.executor.Run(r.Context(), providers.NewRunState(), chain, &providers.Request{
		Capability:  capability,
		Tier:        tier,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		h.log.Warn("content generation chain exhausted", map[string]interface{}{
			"capability": string(capability),
			"tier":       string(tier),
			"error":      err.Error(),
		})
		status := http.StatusBadGateway
		if apperrors.CodeOf(err) != apperrors.ErrCodeChainExhausted {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, GenerateContentResponse{
		Vendor:     desc.Vendor,
		Model:      out.Model,
		Text:       out.Text,
		Data:       out.Data,
		TokensUsed: out.TokensUsed,
	})
}
