// Package domain holds the core types of the daily track pipeline:
// market indicators, derived music parameters, and the persisted Track record.
package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidIndicators wraps every indicator validation failure so callers
// can detect the category with errors.Is.
var ErrInvalidIndicators = errors.New("domain: invalid indicators")

// Regime classifies the overall market direction for the day.
type Regime string

const (
	RegimeBull Regime = "bull"
	RegimeBear Regime = "bear"
	RegimeChop Regime = "chop"
)

// Valid reports whether the regime is one of the known values.
func (r Regime) Valid() bool {
	switch r {
	case RegimeBull, RegimeBear, RegimeChop:
		return true
	}
	return false
}

// Dominance indicates which asset class drives the day's sentiment.
type Dominance string

const (
	DominanceBTC   Dominance = "btc"
	DominanceETH   Dominance = "eth"
	DominanceMixed Dominance = "mixed"
)

// Valid reports whether the dominance is one of the known values.
func (d Dominance) Valid() bool {
	switch d {
	case DominanceBTC, DominanceETH, DominanceMixed:
		return true
	}
	return false
}

// Indicators is the immutable market-sentiment snapshot for one day.
// All fields must be present and within bounds; out-of-range input is a
// validation failure, never silently clamped (only derived parameters clamp).
type Indicators struct {
	Change24h  float64   `json:"change24h"` // -1..+1 normalized price change
	Volatility float64   `json:"vol"`       // 0..1
	FearGreed  int       `json:"fearGreed"` // 0..100
	Momentum   float64   `json:"momentum"`  // -1..+1
	Regime     Regime    `json:"regime"`
	Activity   float64   `json:"activity"` // 0..1, on-chain proxy
	Dominance  Dominance `json:"dominance"`
}

// Validate checks every field against its documented bounds.
func (in Indicators) Validate() error {
	if in.Change24h < -1 || in.Change24h > 1 {
		return fmt.Errorf("%w: change24h %v outside [-1,1]", ErrInvalidIndicators, in.Change24h)
	}
	if in.Volatility < 0 || in.Volatility > 1 {
		return fmt.Errorf("%w: vol %v outside [0,1]", ErrInvalidIndicators, in.Volatility)
	}
	if in.FearGreed < 0 || in.FearGreed > 100 {
		return fmt.Errorf("%w: fearGreed %d outside [0,100]", ErrInvalidIndicators, in.FearGreed)
	}
	if in.Momentum < -1 || in.Momentum > 1 {
		return fmt.Errorf("%w: momentum %v outside [-1,1]", ErrInvalidIndicators, in.Momentum)
	}
	if !in.Regime.Valid() {
		return fmt.Errorf("%w: regime %q", ErrInvalidIndicators, in.Regime)
	}
	if in.Activity < 0 || in.Activity > 1 {
		return fmt.Errorf("%w: activity %v outside [0,1]", ErrInvalidIndicators, in.Activity)
	}
	if !in.Dominance.Valid() {
		return fmt.Errorf("%w: dominance %q", ErrInvalidIndicators, in.Dominance)
	}
	return nil
}

// DemoIndicators is the fallback snapshot used when the sentiment feed is
// unreachable or returns malformed data: a strongly bullish ETH day.
func DemoIndicators() Indicators {
	return Indicators{
		Change24h:  0.085,
		Volatility: 0.72,
		FearGreed:  78,
		Momentum:   0.8,
		Regime:     RegimeBull,
		Activity:   0.9,
		Dominance:  DominanceETH,
	}
}
