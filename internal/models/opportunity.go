package models

import "time"

// OpportunityStatus is the lifecycle state of a content opportunity. The
// scoring core only ever creates pending opportunities; transitions are
// driven by an external collaborator (dashboard).
type OpportunityStatus string

const (
	StatusPending  OpportunityStatus = "pending"
	StatusSelected OpportunityStatus = "selected"
	StatusRejected OpportunityStatus = "rejected"
)

// CanTransitionTo reports whether the status change is legal. Only
// pending -> selected and pending -> rejected are allowed.
func (s OpportunityStatus) CanTransitionTo(target OpportunityStatus) bool {
	return s == StatusPending && (target == StatusSelected || target == StatusRejected)
}

// Valid reports whether s is a known status value.
func (s OpportunityStatus) Valid() bool {
	switch s {
	case StatusPending, StatusSelected, StatusRejected:
		return true
	}
	return false
}

// ContentOpportunity is a ranked, cost-estimated content idea derived from a
// trend signal.
type ContentOpportunity struct {
	ID                      string            `json:"id"`
	TrendTopic              string            `json:"trendTopic"`
	SuggestedAngle          string            `json:"suggestedAngle"`
	EstimatedProductionCost float64           `json:"estimatedProductionCost"`
	EstimatedROI            float64           `json:"estimatedRoi"`
	PriorityScore           float64           `json:"priorityScore"`
	OverallScore            float64           `json:"overallScore"`
	Status                  OpportunityStatus `json:"status"`
	TrendCollectedAt        time.Time         `json:"trendCollectedAt"`
	CreatedAt               time.Time         `json:"createdAt"`
}
