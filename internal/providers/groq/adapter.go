// Package groq integrates Groq's OpenAI-compatible chat completions API as
// the budget text/trend-analysis provider.
package groq

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

const vendorName = "groq"

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
	if req.Capability != providers.CapabilityText && req.Capability != providers.CapabilityTrendAnalysis {
		return nil, apperrors.NewMalformedResponseError(vendorName,
			fmt.Errorf("capability %s not supported", req.Capability))
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	requestBody := map[string]interface{}{
		"model": a.model,
		"messages": []map[string]string{
			{"role": "user", "content": req.Prompt},
		},
		"max_tokens":  maxTokens,
		"temperature": req.Temperature,
	}

	body, _ := json.Marshal(requestBody)
	httpReq, err := http.NewRequest("POST", a.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, apperrors.NewUnreachableError(vendorName, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.DoWithContext(ctx, httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.NewTimeoutError(vendorName)
		}
		return nil, apperrors.NewUnreachableError(vendorName, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	var apiResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, apperrors.NewMalformedResponseError(vendorName, err)
	}
	if len(apiResponse.Choices) == 0 || strings.TrimSpace(apiResponse.Choices[0].Message.Content) == "" {
		return nil, apperrors.NewMalformedResponseError(vendorName, errors.New("no choices in response"))
	}

	return &providers.Output{
		Text:       apiResponse.Choices[0].Message.Content,
		Model:      a.model,
		TokensUsed: apiResponse.Usage.TotalTokens,
	}, nil
}

func classifyStatus(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.NewCredentialMissingError(vendorName, fmt.Sprintf("status %d", status))
	case status == http.StatusTooManyRequests:
		return apperrors.NewRateLimitedError(vendorName, fmt.Sprintf("status %d", status))
	case status >= 500:
		return apperrors.NewUnreachableError(vendorName, fmt.Errorf("status %d", status))
	default:
		return apperrors.NewMalformedResponseError(vendorName, fmt.Errorf("status %d", status))
	}
}
