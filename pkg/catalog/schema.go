package catalog

// ProviderCatalog is the static provider configuration loaded at startup.
// Entries are grouped into ordered fallback chains per (capability, tier).
type ProviderCatalog struct {
	Version     string  `json:"version"`
	LastUpdated string  `json:"lastUpdated"`
	Entries     []Entry `json:"entries"`
}

// Entry describes one provider in one fallback chain. Position orders the
// chain for its (capability, tier) pair, lowest first.
type Entry struct {
	Vendor        string  `json:"vendor"`
	Capability    string  `json:"capability"`
	Tier          string  `json:"tier"`
	Position      int     `json:"position"`
	CostPerUnit   float64 `json:"costPerUnit"`
	QualityScore  float64 `json:"qualityScore"`
	CredentialKey string  `json:"credentialKey,omitempty"`
}
