// Package openai integrates the OpenAI API as a provider adapter for text,
// image and trend-analysis requests.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "opportunity-engine/internal/common/errors"
	"opportunity-engine/internal/providers"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const vendorName = "openai"

type Adapter struct {
	client *openai.Client
	model  string
}

func NewAdapter(apiKey, model string) *Adapter {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Adapter{client: &client, model: model}
}

func (a *Adapter) Vendor() string { return vendorName }

func (a *Adapter) Invoke(ctx context.Context, req *providers.Request) (*providers.Output, error) {
	switch req.Capability {
	case providers.CapabilityText, providers.CapabilityTrendAnalysis:
		return a.complete(ctx, req)
	case providers.CapabilityImage:
		return a.generateImage(ctx, req)
	default:
		return nil, apperrors.NewMalformedResponseError(vendorName,
			fmt.Errorf("capability %s not supported", req.Capability))
	}
}

func (a *Adapter) complete(ctx context.Context, req *providers.Request) (*providers.Output, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	response, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a content strategy analyst. Respond with the exact JSON the user asks for."),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return nil, classify(err)
	}

	if len(response.Choices) == 0 {
		return nil, apperrors.NewMalformedResponseError(vendorName, fmt.Errorf("no choices in response"))
	}

	return &providers.Output{
		Text:       response.Choices[0].Message.Content,
		Model:      a.model,
		TokensUsed: int(response.Usage.TotalTokens),
	}, nil
}

func (a *Adapter) generateImage(ctx context.Context, req *providers.Request) (*providers.Output, error) {
	img, err := a.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: req.Prompt,
		Model:  openai.ImageModelDallE3,
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(img.Data) == 0 {
		return nil, apperrors.NewMalformedResponseError(vendorName, fmt.Errorf("no image data in response"))
	}
	return &providers.Output{
		Text:  img.Data[0].URL,
		Model: string(openai.ImageModelDallE3),
	}, nil
}

// classify maps SDK failures into the provider error taxonomy.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.NewTimeoutError(vendorName)
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.NewCredentialMissingError(vendorName, apiErr.Error())
		case http.StatusTooManyRequests:
			return apperrors.NewRateLimitedError(vendorName, apiErr.Error())
		}
		if apiErr.StatusCode >= 500 {
			return apperrors.NewUnreachableError(vendorName, apiErr)
		}
		return apperrors.NewMalformedResponseError(vendorName, apiErr)
	}

	return apperrors.NewUnreachableError(vendorName, err)
}
