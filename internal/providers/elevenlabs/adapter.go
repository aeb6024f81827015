// Package elevenlabs integrates the ElevenLabs text-to-speech API as the
// premium audio provider.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "opportunity-engine/internal/common/errors"
	commonhttp "opportunity-engine/internal/common/http"
	"opportunity-engine/internal/providers"
)

const vendorName = "elevenlabs"

type Adapter struct {
	client  *commonhttp.Client
	baseURL string
	apiKey  string
	voiceID string
}

func NewAdapter(client *commonhttp.Client, baseURL, apiKey, voiceID string) *Adapter {
	if voiceID == "" {
		voiceID = "21m00Tcm4TlvDq8ikWAM"
	}
	return &Adapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		voiceID: voiceID,
	}
}

func (a *Adapter) Vendor() string { return vendorName }

func (a *Adapter) Invoke(ctx context.Context, req *providers.Request) (*providers.Output, error) {
	if req.Capability != providers.CapabilityAudio {
		return nil, apperrors.NewMalformedResponseError(vendorName,
			fmt.Errorf("capability %s not supported", req.Capability))
	}

	requestBody := map[string]interface{}{
		"text":     req.Prompt,
		"model_id": "eleven_multilingual_v2",
	}

	body, _ := json.Marshal(requestBody)
	url := fmt.Sprintf("%s/text-to-speech/%s", a.baseURL, a.voiceID)
	httpReq, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, apperrors.NewUnreachableError(vendorName, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", a.apiKey)

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

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewMalformedResponseError(vendorName, err)
	}
	if len(audio) == 0 {
		return nil, apperrors.NewMalformedResponseError(vendorName, errors.New("empty audio payload"))
	}

	return &providers.Output{
		Data:  audio,
		Model: "eleven_multilingual_v2",
	}, nil
}
