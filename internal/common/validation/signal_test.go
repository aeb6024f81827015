// internal/common/validation/signal_test.go
package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "opportunity-engine/internal/common/errors"
	"opportunity-engine/internal/models"
)

func TestSignalValidator(t *testing.T) {
	validator, err := NewSignalValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		signal  models.TrendSignal
		wantErr bool
	}{
		{
			name: "complete signal",
			signal: models.TrendSignal{
				Topic:           "AI Tools 2024",
				Source:          "youtube",
				PopularityScore: 85,
				GrowthRate:      1.4,
				Keywords:        []string{"ai", "tools"},
				CollectedAt:     time.Now(),
			},
		},
		{
			name:   "minimal signal",
			signal: models.TrendSignal{Topic: "X", PopularityScore: 0},
		},
		{
			name:    "empty topic",
			signal:  models.TrendSignal{Topic: "", PopularityScore: 50},
			wantErr: true,
		},
		{
			name:    "whitespace topic",
			signal:  models.TrendSignal{Topic: "   ", PopularityScore: 50},
			wantErr: true,
		},
		{
			name:    "popularity above range",
			signal:  models.TrendSignal{Topic: "Over", PopularityScore: 101},
			wantErr: true,
		},
		{
			name:    "popularity below range",
			signal:  models.TrendSignal{Topic: "Under", PopularityScore: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(&tt.signal)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrCodeInvalidTrendSignal, apperrors.CodeOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSignalValidator_NilSignal(t *testing.T) {
	validator, err := NewSignalValidator()
	require.NoError(t, err)

	err = validator.Validate(nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidTrendSignal, apperrors.CodeOf(err))
}
