package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadCatalog reads the provider catalog JSON from path.
func LoadCatalog(path string) (*ProviderCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat ProviderCatalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Save writes the catalog back to path.
func Save(cat *ProviderCatalog, path string) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks entry fields and enforces that all four capabilities have
// at least a budget chain, so tier degradation always terminates at a
// routable chain.
func Validate(cat *ProviderCatalog) error {
	if err := ValidateEntries(cat); err != nil {
		return err
	}

	budgetChains := map[string]bool{}
	for _, e := range cat.Entries {
		if e.Tier == "budget" {
			budgetChains[e.Capability] = true
		}
	}

	// Tier degradation bottoms out at budget. Every capability needs a
	// budget chain, or some (capability, tier) requests would be unroutable.
	for _, capability := range []string{"text", "image", "audio", "trend_analysis"} {
		if !budgetChains[capability] {
			return fmt.Errorf("capability %q has no budget chain", capability)
		}
	}
	return nil
}

// ValidateEntries checks the per-entry fields without requiring full
// capability coverage. The catalog tooling uses it while a catalog is still
// being assembled.
func ValidateEntries(cat *ProviderCatalog) error {
	if len(cat.Entries) == 0 {
		return fmt.Errorf("catalog has no entries")
	}

	for i, e := range cat.Entries {
		if e.Vendor == "" {
			return fmt.Errorf("entry %d: vendor is required", i)
		}
		switch e.Capability {
		case "text", "image", "audio", "trend_analysis":
		default:
			return fmt.Errorf("entry %d: unknown capability %q", i, e.Capability)
		}
		switch e.Tier {
		case "budget", "standard", "premium":
		default:
			return fmt.Errorf("entry %d: unknown tier %q", i, e.Tier)
		}
		if e.CostPerUnit < 0 {
			return fmt.Errorf("entry %d: costPerUnit must be non-negative", i)
		}
		if e.QualityScore < 0 || e.QualityScore > 10 {
			return fmt.Errorf("entry %d: qualityScore must be in [0,10]", i)
		}
	}
	return nil
}
