package models

import (
	"fmt"
	"strings"
	"time"
)

// TrendSignal is a raw trend observation handed to the pipeline by the
// trend-collection collaborator. Immutable once submitted.
type TrendSignal struct {
	Topic           string    `json:"topic"`
	Source          string    `json:"source"`
	PopularityScore float64   `json:"popularityScore"`
	GrowthRate      float64   `json:"growthRate"`
	Keywords        []string  `json:"keywords"`
	Category        string    `json:"category,omitempty"`
	Region          string    `json:"region,omitempty"`
	CollectedAt     time.Time `json:"collectedAt,omitempty"`
}

// Validate checks the fields the pipeline depends on. A failing signal is
// rejected per-item, never aborting the batch.
func (s TrendSignal) Validate() error {
	if strings.TrimSpace(s.Topic) == "" {
		return fmt.Errorf("topic is required")
	}
	if s.PopularityScore < 0 || s.PopularityScore > 100 {
		return fmt.Errorf("popularityScore must be in [0,100], got %v", s.PopularityScore)
	}
	return nil
}
