// Package estimator derives production cost and ROI for content opportunities
// from provider tier cost metadata.
package estimator

import (
	"opportunity-engine/internal/providers"
)

// Estimate is the cost/ROI pair returned for one piece of content.
type Estimate struct {
	Cost float64 `json:"cost"`
	ROI  float64 `json:"roi"`
}

// CostEstimator prices content against the preferred provider of a
// (capability, tier) pair. It holds the registry only for cost lookups and
// never invokes providers.
type CostEstimator struct {
	registry *providers.Registry
}

func NewCostEstimator(registry *providers.Registry) *CostEstimator {
	return &CostEstimator{registry: registry}
}

// Estimate computes production cost for contentUnits units plus ROI against
// the supplied expected revenue. The cost is floored at one unit's price so
// zero-length content still carries provider overhead and ROI stays finite.
func (e *CostEstimator) Estimate(capability providers.Capability, tier providers.QualityTier, contentUnits float64, estimatedRevenue float64) Estimate {
	perUnit := e.registry.TierCost(capability, tier)
	return estimateWithUnitCost(perUnit, contentUnits, estimatedRevenue)
}

func estimateWithUnitCost(perUnit, contentUnits, estimatedRevenue float64) Estimate {
	cost := perUnit * contentUnits
	if cost < perUnit {
		cost = perUnit
	}

	roi := 0.0
	if cost > 0 {
		roi = estimatedRevenue / cost
	}
	if roi < 0 {
		roi = 0
	}
	return Estimate{Cost: cost, ROI: roi}
}
