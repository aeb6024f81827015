// Package validation checks incoming trend signals against a JSON schema
// before they enter the scoring pipeline.
package validation

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	apperrors "opportunity-engine/internal/common/errors"
	"opportunity-engine/internal/models"
)

const trendSignalSchema = `{
	"type": "object",
	"required": ["topic", "popularityScore"],
	"properties": {
		"topic": {"type": "string", "minLength": 1},
		"source": {"type": "string"},
		"popularityScore": {"type": "number", "minimum": 0, "maximum": 100},
		"growthRate": {"type": "number"},
		"keywords": {"type": "array", "items": {"type": "string"}},
		"category": {"type": "string"},
		"region": {"type": "string"},
		"collectedAt": {"type": "string"}
	}
}`

type SignalValidator struct {
	schema *gojsonschema.Schema
}

func NewSignalValidator() (*SignalValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(trendSignalSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile trend signal schema: %w", err)
	}
	return &SignalValidator{schema: schema}, nil
}

// Validate runs schema validation plus the model-level checks.
func (v *SignalValidator) Validate(signal *models.TrendSignal) error {
	// A JSON body like {"trends":[null]} decodes into a nil element.
	if signal == nil {
		return apperrors.NewInvalidTrendSignalError("signal is null")
	}

	payload, err := json.Marshal(signal)
	if err != nil {
		return apperrors.NewInvalidTrendSignalError(fmt.Sprintf("%s: %v", signal.Topic, err))
	}

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return apperrors.NewInvalidTrendSignalError(fmt.Sprintf("%s: %v", signal.Topic, err))
	}
	if !result.Valid() {
		detail := ""
		for i, e := range result.Errors() {
			if i > 0 {
				detail += "; "
			}
			detail += e.String()
		}
		return apperrors.NewInvalidTrendSignalError(fmt.Sprintf("%s: %s", signal.Topic, detail))
	}

	if err := signal.Validate(); err != nil {
		return apperrors.NewInvalidTrendSignalError(fmt.Sprintf("%s: %v", signal.Topic, err))
	}
	return nil
}
