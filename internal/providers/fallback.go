// internal/providers/fallback.go
package providers

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "opportunity-engine/internal/common/errors"
	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/common/metrics"
)

// RunState is the per-run circuit breaker. It lives for exactly one
// orchestration run and is the only structure mutated by concurrent
// analyses. Lost updates are tolerable (at most one extra attempt against an
// already-failing provider), so a plain mutex suffices.
type RunState struct {
	mu       sync.Mutex
	failures map[string]int
	tripped  map[string]bool
}

// NewRunState creates fresh breaker state for one orchestration run.
func NewRunState() *RunState {
	return &RunState{
		failures: make(map[string]int),
		tripped:  make(map[string]bool),
	}
}

func (s *RunState) isTripped(vendor string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tripped[vendor]
}

// recordFailure increments the vendor's failure count and trips the circuit
// once the threshold is reached. Returns true when this call tripped it.
func (s *RunState) recordFailure(vendor string, threshold int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[vendor]++
	if !s.tripped[vendor] && s.failures[vendor] >= threshold {
		s.tripped[vendor] = true
		return true
	}
	return false
}

// FailureCount returns the number of recorded failures for a vendor.
func (s *RunState) FailureCount(vendor string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[vendor]
}

// Executor drives a fallback chain for one logical request: first success
// wins, failures trip the per-run breaker, exhaustion is reported as
// CHAIN_EXHAUSTED for the caller to recover from.
type Executor struct {
	adapters       map[string]Adapter
	creds          CredentialStore
	attemptTimeout time.Duration
	threshold      int
	logger         logger.Logger
}

// NewExecutor builds an executor over the given vendor adapters. threshold
// is the per-run failure count that trips a provider's circuit; the default
// of 1 means one strike.
func NewExecutor(adapters []Adapter, creds CredentialStore, attemptTimeout time.Duration, threshold int, log logger.Logger) *Executor {
	byVendor := make(map[string]Adapter, len(adapters))
	for _, a := range adapters {
		byVendor[a.Vendor()] = a
	}
	if threshold < 1 {
		threshold = 1
	}
	if attemptTimeout <= 0 {
		attemptTimeout = 8 * time.Second
	}
	return &Executor{
		adapters:       byVendor,
		creds:          creds,
		attemptTimeout: attemptTimeout,
		threshold:      threshold,
		logger:         log.WithFields(map[string]interface{}{"component": "fallback-executor"}),
	}
}

// Run iterates the chain in order and returns the first successful output
// together with the descriptor that produced it. Descriptors with a missing
// credential are skipped without an attempt and without a circuit penalty;
// tripped descriptors are skipped for the remainder of the run. Every
// attempt is bounded by the per-attempt timeout so one slow provider cannot
// stall the chain beyond a single attempt's budget.
func (e *Executor) Run(ctx context.Context, state *RunState, chain FallbackChain, req *Request) (*Output, *Descriptor, error) {
	var attempted []string

	for i := range chain {
		desc := chain[i]

		if desc.RequiresCredential() && !e.creds.Has(desc.CredentialKey) {
			e.logger.Debug("skipping provider without credential", map[string]interface{}{
				"vendor":     desc.Vendor,
				"capability": string(desc.Capability),
			})
			continue
		}

		if state.isTripped(desc.Vendor) {
			e.logger.Debug("skipping tripped provider", map[string]interface{}{
				"vendor": desc.Vendor,
			})
			continue
		}

		adapter, ok := e.adapters[desc.Vendor]
		if !ok {
			// Catalog references a vendor with no wired adapter.
			attempted = append(attempted, fmt.Sprintf("%s(no adapter)", desc.Vendor))
			continue
		}

		metrics.ProviderAttempts.WithLabelValues(desc.Vendor, string(desc.Capability)).Inc()

		attemptCtx, cancel := context.WithTimeout(ctx, e.attemptTimeout)
		out, err := adapter.Invoke(attemptCtx, req)
		cancel()

		if err == nil && out != nil {
			return out, &desc, nil
		}
		if err == nil {
			err = apperrors.NewMalformedResponseError(desc.Vendor, fmt.Errorf("adapter returned empty output"))
		}

		code := apperrors.CodeOf(err)
		attempted = append(attempted, fmt.Sprintf("%s(%s)", desc.Vendor, code))
		metrics.ProviderFailures.WithLabelValues(desc.Vendor, string(code)).Inc()

		if state.recordFailure(desc.Vendor, e.threshold) {
			metrics.CircuitTrips.WithLabelValues(desc.Vendor).Inc()
			e.logger.Warn("provider circuit tripped for this run", map[string]interface{}{
				"vendor": desc.Vendor,
				"code":   string(code),
			})
		} else {
			e.logger.Warn("provider attempt failed", map[string]interface{}{
				"vendor": desc.Vendor,
				"code":   string(code),
				"error":  err.Error(),
			})
		}

		if ctx.Err() != nil {
			// Run deadline gone; stop burning the rest of the chain.
			break
		}
	}

	capability, tier := chainIdentity(chain, req)
	metrics.ChainExhaustions.WithLabelValues(capability, tier).Inc()
	return nil, nil, apperrors.NewChainExhaustedError(capability, tier, attempted)
}

func chainIdentity(chain FallbackChain, req *Request) (string, string) {
	if len(chain) > 0 {
		return string(chain[0].Capability), string(chain[0].Tier)
	}
	return string(req.Capability), string(req.Tier)
}
