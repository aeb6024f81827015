package analyzer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"opportunity-engine/internal/models"
)

var errNoJSONObject = errors.New("no JSON object found in provider response")

// providerScorePayload mirrors the JSON document providers are prompted to
// return. Score fields are pointers so a missing field is distinguishable
// from an explicit zero.
type providerScorePayload struct {
	ViralPotential          *int     `json:"viral_potential"`
	ContentSaturation       *int     `json:"content_saturation"`
	AudienceInterest        *int     `json:"audience_interest"`
	MonetizationOpportunity *int     `json:"monetization_opportunity"`
	ContentAngles           []string `json:"content_angles"`
	Reasoning               string   `json:"reasoning"`
}

// parseAnalysis extracts the embedded JSON object from a free-text provider
// response and maps it onto an AIAnalysisResult. Models often wrap the JSON
// in prose or markdown fences, so everything outside the outermost braces is
// discarded.
func parseAnalysis(raw, topic, vendor string) (*models.AIAnalysisResult, error) {
	doc, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var payload providerScorePayload
	if err := json.Unmarshal([]byte(doc), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode provider JSON: %w", err)
	}

	if payload.ViralPotential == nil || payload.ContentSaturation == nil ||
		payload.AudienceInterest == nil || payload.MonetizationOpportunity == nil {
		return nil, errors.New("provider response missing one or more score fields")
	}

	result := &models.AIAnalysisResult{
		TrendTopic:              topic,
		ViralPotential:          *payload.ViralPotential,
		ContentSaturation:       *payload.ContentSaturation,
		AudienceInterest:        *payload.AudienceInterest,
		MonetizationOpportunity: *payload.MonetizationOpportunity,
		ContentAngles:           payload.ContentAngles,
		Reasoning:               payload.Reasoning,
		Source:                  vendor,
	}
	result.Finalize()
	return result, nil
}

func extractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return "", errNoJSONObject
	}
	return raw[start : end+1], nil
}
