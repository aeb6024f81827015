// internal/providers/fallback_test.go
package providers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "opportunity-engine/internal/common/errors"
	"opportunity-engine/internal/common/logger"
)

// ==========================
// Test Helpers
// ==========================

// fakeAdapter counts invocations and returns a scripted result.
type fakeAdapter struct {
	vendor  string
	calls   int
	output  *Output
	err     error
	blockOn context.Context // when set, Invoke blocks until ctx is done
}

func (f *fakeAdapter) Vendor() string { return f.vendor }

func (f *fakeAdapter) Invoke(ctx context.Context, req *Request) (*Output, error) {
	f.calls++
	if f.blockOn != nil {
		<-ctx.Done()
		return nil, apperrors.NewTimeoutError(f.vendor)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func testChain(vendors ...Descriptor) FallbackChain {
	return FallbackChain(vendors)
}

func testRequest() *Request {
	return &Request{
		Capability: CapabilityTrendAnalysis,
		Tier:       TierBudget,
		Prompt:     "score this trend",
		Topic:      "Test Topic",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestRun_FirstSuccessWins(t *testing.T) {
	first := &fakeAdapter{vendor: "first", err: apperrors.NewUnreachableError("first", assert.AnError)}
	second := &fakeAdapter{vendor: "second", err: apperrors.NewRateLimitedError("second", "429")}
	third := &fakeAdapter{vendor: "third", output: &Output{Text: "ok"}}
	fourth := &fakeAdapter{vendor: "fourth", output: &Output{Text: "never"}}

	executor := NewExecutor(
		[]Adapter{first, second, third, fourth},
		CredentialMap{}, time.Second, 1, logger.NewTestLogger(t),
	)

	chain := testChain(
		Descriptor{Vendor: "first", Capability: CapabilityTrendAnalysis, Tier: TierBudget},
		Descriptor{Vendor: "second", Capability: CapabilityTrendAnalysis, Tier: TierBudget},
		Descriptor{Vendor: "third", Capability: CapabilityTrendAnalysis, Tier: TierBudget},
		Descriptor{Vendor: "fourth", Capability: CapabilityTrendAnalysis, Tier: TierBudget},
	)

	out, used, err := executor.Run(context.Background(), NewRunState(), chain, testRequest())
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Text)
	assert.Equal(t, "third", used.Vendor)

	// Chain members beyond the first success are never invoked.
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 1, third.calls)
	assert.Equal(t, 0, fourth.calls)
}

func TestRun_SkipsMissingCredentialWithoutPenalty(t *testing.T) {
	gated := &fakeAdapter{vendor: "gated", output: &Output{Text: "should not run"}}
	open := &fakeAdapter{vendor: "open", output: &Output{Text: "ok"}}

	executor := NewExecutor(
		[]Adapter{gated, open},
		CredentialMap{"OPEN_KEY": "set"}, time.Second, 1, logger.NewTestLogger(t),
	)

	chain := testChain(
		Descriptor{Vendor: "gated", Capability: CapabilityTrendAnalysis, Tier: TierBudget, CredentialKey: "GATED_KEY"},
		Descriptor{Vendor: "open", Capability: CapabilityTrendAnalysis, Tier: TierBudget, CredentialKey: "OPEN_KEY"},
	)

	state := NewRunState()
	out, used, err := executor.Run(context.Background(), state, chain, testRequest())
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Text)
	assert.Equal(t, "open", used.Vendor)

	// No call made, no circuit penalty.
	assert.Equal(t, 0, gated.calls)
	assert.Equal(t, 0, state.FailureCount("gated"))
}

func TestRun_CircuitTripsAfterOneStrike(t *testing.T) {
	flaky := &fakeAdapter{vendor: "flaky", err: apperrors.NewUnreachableError("flaky", assert.AnError)}
	steady := &fakeAdapter{vendor: "steady", output: &Output{Text: "ok"}}

	executor := NewExecutor(
		[]Adapter{flaky, steady},
		CredentialMap{}, time.Second, 1, logger.NewTestLogger(t),
	)

	chain := testChain(
		Descriptor{Vendor: "flaky", Capability: CapabilityTrendAnalysis, Tier: TierBudget},
		Descriptor{Vendor: "steady", Capability: CapabilityTrendAnalysis, Tier: TierBudget},
	)

	state := NewRunState()

	// First request: flaky fails once and trips.
	_, _, err := executor.Run(context.Background(), state, chain, testRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, flaky.calls)

	// Second request in the same run: flaky is skipped entirely.
	_, used, err := executor.Run(context.Background(), state, chain, testRequest())
	require.NoError(t, err)
	assert.Equal(t, "steady", used.Vendor)
	assert.Equal(t, 1, flaky.calls)

	// Fresh run state resets the breaker.
	_, _, err = executor.Run(context.Background(), NewRunState(), chain, testRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, flaky.calls)
}

func TestRun_ChainExhaustedWhenAllFail(t *testing.T) {
	a := &fakeAdapter{vendor: "a", err: apperrors.NewUnreachableError("a", assert.AnError)}
	b := &fakeAdapter{vendor: "b", err: apperrors.NewMalformedResponseError("b", assert.AnError)}

	executor := NewExecutor(
		[]Adapter{a, b},
		CredentialMap{}, time.Second, 1, logger.NewTestLogger(t),
	)

	chain := testChain(
		Descriptor{Vendor: "a", Capability: CapabilityTrendAnalysis, Tier: TierBudget},
		Descriptor{Vendor: "b", Capability: CapabilityTrendAnalysis, Tier: TierBudget},
	)

	out, used, err := executor.Run(context.Background(), NewRunState(), chain, testRequest())
	assert.Nil(t, out)
	assert.Nil(t, used)
	require.Error(t, err)
	assert.True(t, apperrors.IsChainExhausted(err))
}

func TestRun_AttemptTimeoutBoundsSlowProvider(t *testing.T) {
	slow := &fakeAdapter{vendor: "slow", blockOn: context.Background()}
	fast := &fakeAdapter{vendor: "fast", output: &Output{Text: "ok"}}

	executor := NewExecutor(
		[]Adapter{slow, fast},
		CredentialMap{}, 20*time.Millisecond, 1, logger.NewTestLogger(t),
	)

	chain := testChain(
		Descriptor{Vendor: "slow", Capability: CapabilityTrendAnalysis, Tier: TierBudget},
		Descriptor{Vendor: "fast", Capability: CapabilityTrendAnalysis, Tier: TierBudget},
	)

	start := time.Now()
	out, used, err := executor.Run(context.Background(), NewRunState(), chain, testRequest())
	require.NoError(t, err)
	assert.Equal(t, "fast", used.Vendor)
	assert.Equal(t, "ok", out.Text)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRun_StopsWhenRunContextCancelled(t *testing.T) {
	a := &fakeAdapter{vendor: "a", err: apperrors.NewUnreachableError("a", assert.AnError)}
	b := &fakeAdapter{vendor: "b", output: &Output{Text: "ok"}}

	executor := NewExecutor(
		[]Adapter{a, b},
		CredentialMap{}, time.Second, 1, logger.NewTestLogger(t),
	)

	chain := testChain(
		Descriptor{Vendor: "a", Capability: CapabilityTrendAnalysis, Tier: TierBudget},
		Descriptor{Vendor: "b", Capability: CapabilityTrendAnalysis, Tier: TierBudget},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := executor.Run(ctx, NewRunState(), chain, testRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsChainExhausted(err))
	// The chain stops after the first attempt observes the dead context.
	assert.Equal(t, 0, b.calls)
}
