// Package providers holds the capability/tier model, the provider registry
// and the fallback executor that routes generation requests across vendors.
package providers

import "context"

// Capability is one of the generation/analysis functions a provider may
// implement.
type Capability string

const (
	CapabilityText          Capability = "text"
	CapabilityImage         Capability = "image"
	CapabilityAudio         Capability = "audio"
	CapabilityTrendAnalysis Capability = "trend_analysis"
)

// Valid reports whether c is a known capability.
func (c Capability) Valid() bool {
	switch c {
	case CapabilityText, CapabilityImage, CapabilityAudio, CapabilityTrendAnalysis:
		return true
	}
	return false
}

// QualityTier is a cost/quality class selecting which provider chain to use.
// The ordering budget < standard < premium is for display only; fallback
// order within a chain comes from the catalog.
type QualityTier string

const (
	TierBudget   QualityTier = "budget"
	TierStandard QualityTier = "standard"
	TierPremium  QualityTier = "premium"
)

// Valid reports whether t is a known tier.
func (t QualityTier) Valid() bool {
	switch t {
	case TierBudget, TierStandard, TierPremium:
		return true
	}
	return false
}

// Rank returns the display ordering of the tier.
func (t QualityTier) Rank() int {
	switch t {
	case TierStandard:
		return 1
	case TierPremium:
		return 2
	default:
		return 0
	}
}

// lower returns the next tier down for degradation, false at budget.
func (t QualityTier) lower() (QualityTier, bool) {
	switch t {
	case TierPremium:
		return TierStandard, true
	case TierStandard:
		return TierBudget, true
	}
	return "", false
}

// Descriptor is the immutable catalog record for one provider in a chain.
type Descriptor struct {
	Vendor        string
	Capability    Capability
	Tier          QualityTier
	CostPerUnit   float64
	QualityScore  float64
	CredentialKey string
}

// RequiresCredential reports whether the descriptor can only be invoked with
// a configured credential.
func (d Descriptor) RequiresCredential() bool {
	return d.CredentialKey != ""
}

// FallbackChain is the ordered list of providers attempted for one
// (capability, tier) pair until one succeeds.
type FallbackChain []Descriptor

// Request is one logical generation or analysis request.
type Request struct {
	Capability  Capability
	Tier        QualityTier
	Prompt      string
	Topic       string
	Keywords    []string
	MaxTokens   int
	Temperature float64
}

// Output is a provider's successful response.
type Output struct {
	Text       string
	Data       []byte
	Model      string
	TokensUsed int
}

// Adapter is the uniform interface each concrete vendor integration
// implements. Invoke makes exactly one attempt; retries across providers are
// the executor's job. Failures must be classified ProviderErrors.
type Adapter interface {
	Vendor() string
	Invoke(ctx context.Context, req *Request) (*Output, error)
}

// CredentialStore answers whether a provider credential is configured.
type CredentialStore interface {
	Has(key string) bool
}

// CredentialMap is the map-backed CredentialStore built from configuration.
type CredentialMap map[string]string

func (m CredentialMap) Has(key string) bool {
	return m[key] != ""
}
