// internal/providers/registry.go
package providers

import (
	"fmt"
	"sort"

	"opportunity-engine/pkg/catalog"
)

type chainKey struct {
	capability Capability
	tier       QualityTier
}

// Registry is the read-only catalog of fallback chains, built once at
// startup. No locking is needed after BuildRegistry returns.
type Registry struct {
	chains map[chainKey]FallbackChain
}

// BuildRegistry constructs the registry from a validated provider catalog.
// Every capability must carry at least a budget chain so Resolve can always
// degrade to a routable chain.
func BuildRegistry(cat *catalog.ProviderCatalog) (*Registry, error) {
	if err := catalog.Validate(cat); err != nil {
		return nil, fmt.Errorf("invalid provider catalog: %w", err)
	}

	grouped := make(map[chainKey][]catalog.Entry)
	for _, e := range cat.Entries {
		key := chainKey{Capability(e.Capability), QualityTier(e.Tier)}
		grouped[key] = append(grouped[key], e)
	}

	// Catalog position orders each chain.
	chains := make(map[chainKey]FallbackChain, len(grouped))
	for key, entries := range grouped {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })
		chain := make(FallbackChain, 0, len(entries))
		for _, e := range entries {
			chain = append(chain, Descriptor{
				Vendor:        e.Vendor,
				Capability:    Capability(e.Capability),
				Tier:          QualityTier(e.Tier),
				CostPerUnit:   e.CostPerUnit,
				QualityScore:  e.QualityScore,
				CredentialKey: e.CredentialKey,
			})
		}
		chains[key] = chain
	}

	return &Registry{chains: chains}, nil
}

// Resolve returns the fallback chain for (capability, tier). A tier with no
// configured chain degrades to the nearest lower tier, so every request is
// always routable to at least the budget chain; a missing premium entry must
// not block a request.
func (r *Registry) Resolve(capability Capability, tier QualityTier) FallbackChain {
	t := tier
	for {
		if chain, ok := r.chains[chainKey{capability, t}]; ok && len(chain) > 0 {
			return chain
		}
		next, ok := t.lower()
		if !ok {
			return nil
		}
		t = next
	}
}

// TierCost returns the cost-per-unit metadata of the preferred provider for
// (capability, tier), following the same degradation as Resolve.
func (r *Registry) TierCost(capability Capability, tier QualityTier) float64 {
	chain := r.Resolve(capability, tier)
	if len(chain) == 0 {
		return 0
	}
	return chain[0].CostPerUnit
}
