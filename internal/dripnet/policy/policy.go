// Package policy decides claim eligibility. It is pure: every function is
// a computation over an account record, the global pause flag and a caller
// supplied clock reading, with no access to shared state.
package policy

import (
	"math/big"
	"time"
)

// Reason explains why a claim was rejected.
type Reason string

const (
	ReasonEligible   Reason = ""
	ReasonPaused     Reason = "paused"
	ReasonCapReached Reason = "cap reached"
	ReasonCooldown   Reason = "cooldown active"
)

// Params are the claim constants, fixed at faucet construction.
type Params struct {
	FaucetAmount   *big.Int
	MaxClaimAmount *big.Int
	Cooldown       time.Duration
}

// Record is the claim history of a single account. The zero value is the
// state of an account that has never claimed.
type Record struct {
	LastClaimAt  time.Time
	TotalClaimed *big.Int
}

// Total returns the cumulative claimed amount, never nil.
func (r Record) Total() *big.Int {
	if r.TotalClaimed == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(r.TotalClaimed)
}

// Claimed reports whether the account has ever claimed.
func (r Record) Claimed() bool {
	return !r.LastClaimAt.IsZero()
}

// Decision is the outcome of evaluating a claim request.
type Decision struct {
	Eligible    bool
	Reason      Reason
	GrantAmount *big.Int
}

// Evaluate applies the claim rules in order: global pause, lifetime cap,
// cooldown window. The cap is checked before the cooldown so an exhausted
// account stays ineligible even after its cooldown expires.
func (p Params) Evaluate(rec Record, paused bool, now time.Time) Decision {
	if paused {
		return Decision{Reason: ReasonPaused}
	}

	next := new(big.Int).Add(rec.Total(), p.FaucetAmount)
	if next.Cmp(p.MaxClaimAmount) > 0 {
		return Decision{Reason: ReasonCapReached}
	}

	if rec.Claimed() && now.Before(rec.LastClaimAt.Add(p.Cooldown)) {
		return Decision{Reason: ReasonCooldown}
	}

	return Decision{
		Eligible:    true,
		GrantAmount: new(big.Int).Set(p.FaucetAmount),
	}
}

// CanClaim is the boolean projection of Evaluate over the same inputs.
func (p Params) CanClaim(rec Record, paused bool, now time.Time) bool {
	return p.Evaluate(rec, paused, now).Eligible
}

// RemainingAllowance returns how much the account may still claim over its
// lifetime, floored at zero.
func (p Params) RemainingAllowance(rec Record) *big.Int {
	rem := new(big.Int).Sub(p.MaxClaimAmount, rec.Total())
	if rem.Sign() < 0 {
		return big.NewInt(0)
	}
	return rem
}

// TimeUntilNextClaim returns how long the account must wait before the
// cooldown expires. Zero for accounts that never claimed or whose window
// has already passed. The lifetime cap is not consulted here: an exhausted
// account reports zero wait yet still cannot claim.
func (p Params) TimeUntilNextClaim(rec Record, now time.Time) time.Duration {
	if !rec.Claimed() {
		return 0
	}
	wait := rec.LastClaimAt.Add(p.Cooldown).Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}
