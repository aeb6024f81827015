// Package azuretts integrates Azure Cognitive Services speech synthesis as
// the budget/standard audio provider.
package azuretts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "opportunity-engine/internal/common/errors"
	commonhttp "opportunity-engine/internal/common/http"
	"opportunity-engine/internal/providers"
)

const vendorName = "azure_tts"

type Adapter struct {
	client  *commonhttp.Client
	baseURL string
	apiKey  string
	voice   string
}

func NewAdapter(client *commonhttp.Client, region, apiKey, voice string) *Adapter {
	if voice == "" {
		voice = "en-US-JennyNeural"
	}
	baseURL := fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", region)
	return &Adapter{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		voice:   voice,
	}
}

func (a *Adapter) Vendor() string { return vendorName }

func (a *Adapter) Invoke(ctx context.Context, req *providers.Request) (*providers.Output, error) {
	if req.Capability != providers.CapabilityAudio {
		return nil, apperrors.NewMalformedResponseError(vendorName,
			fmt.Errorf("capability %s not supported", req.Capability))
	}

	ssml := fmt.Sprintf(
		`<speak version='1.0' xml:lang='en-US'><voice name='%s'>%s</voice></speak>`,
		a.voice, escapeSSML(req.Prompt),
	)

	httpReq, err := http.NewRequest("POST", a.baseURL, strings.NewReader(ssml))
	if err != nil {
		return nil, apperrors.NewUnreachableError(vendorName, err)
	}
	httpReq.Header.Set("Content-Type", "application/ssml+xml")
	httpReq.Header.Set("X-Microsoft-OutputFormat", "audio-24khz-96kbitrate-mono-mp3")
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", a.apiKey)

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
		Model: a.voice,
	}, nil
}

func escapeSSML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
