// Package gemini integrates the Google Gemini generateContent API as the
// standard-tier text/trend-analysis and image provider.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "opportunity-engine/internal/common/errors"
	commonhttp "opportunity-engine/internal/common/http"
	"opportunity-engine/internal/providers"
)

const vendorName = "gemini"

type Adapter struct {
	client  *commonhttp.Client
	baseURL string
	apiKey  string
	model   string
}

func NewAdapter(client *commonhttp.Client, baseURL, apiKey, model string) *Adapter {
	return &Adapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

func (a *Adapter) Vendor() string { return vendorName }

func (a *Adapter) Invoke(ctx context.Context, req *providers.Request) (*providers.Output, error) {
	switch req.Capability {
	case providers.CapabilityText, providers.CapabilityTrendAnalysis, providers.CapabilityImage:
	default:
		return nil, apperrors.NewMalformedResponseError(vendorName,
			fmt.Errorf("capability %s not supported", req.Capability))
	}

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": req.Prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": req.Temperature,
		},
	}

	body, _ := json.Marshal(requestBody)
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, a.model, a.apiKey)
	httpReq, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, apperrors.NewUnreachableError(vendorName, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.DoWithContext(ctx, httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.NewTimeoutError(vendorName)
		}
		return nil, apperrors.NewUnreachableError(vendorName, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, apperrors.NewCredentialMissingError(vendorName, fmt.Sprintf("status %d", resp.StatusCode))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, apperrors.NewRateLimitedError(vendorName, fmt.Sprintf("status %d", resp.StatusCode))
	case resp.StatusCode >= 500:
		return nil, apperrors.NewUnreachableError(vendorName, fmt.Errorf("status %d", resp.StatusCode))
	default:
		return nil, apperrors.NewMalformedResponseError(vendorName, fmt.Errorf("status %d", resp.StatusCode))
	}

	var apiResponse struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		UsageMetadata struct {
			TotalTokenCount int `json:"totalTokenCount"`
		} `json:"usageMetadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, apperrors.NewMalformedResponseError(vendorName, err)
	}
	if len(apiResponse.Candidates) == 0 || len(apiResponse.Candidates[0].Content.Parts) == 0 {
		return nil, apperrors.NewMalformedResponseError(vendorName, errors.New("no candidates in response"))
	}

	return &providers.Output{
		Text:       apiResponse.Candidates[0].Content.Parts[0].Text,
		Model:      a.model,
		TokensUsed: apiResponse.UsageMetadata.TotalTokenCount,
	}, nil
}
