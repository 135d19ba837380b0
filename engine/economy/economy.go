// Package economy implements the currency ledger: round-local chips,
// persistent cash, entry costs, interest, and completion rewards.
package economy

import (
	"math"

	"github.com/nathoo/lootcore/engine/attrs"
	"github.com/nathoo/lootcore/types"
)

// interestDivisor converts banked cash into interest stacks.
const interestDivisor = 5

// NormalRoundCost returns the chip entry cost for a non-boss round:
// cheap flat tiers early, linear growth later. Non-decreasing in round.
func NormalRoundCost(round int) int {
	switch {
	case round <= 3:
		return 5
	case round <= 6:
		return 10
	case round <= 9:
		return 20
	default:
		return 20 + (round-9)*5
	}
}

// BossRoundCost returns the route-indexed chip cost for a boss round.
func BossRoundCost(rounds types.RoundsDef, routeIndex int) int {
	return rounds.BossCostBase + routeIndex*rounds.BossCostPerRoute
}

// Ledger owns the currency fields of one run. Chips and cash never rest
// below zero.
type Ledger struct {
	state *types.RunState
}

// NewLedger wraps the currency fields of a run state.
func NewLedger(s *types.RunState) *Ledger {
	return &Ledger{state: s}
}

// Chips returns the round-local chip balance.
func (l *Ledger) Chips() int { return l.state.Chips }

// Cash returns the persistent cash balance.
func (l *Ledger) Cash() int { return l.state.Cash }

// AddChips credits chips and records the running total. Negative amounts
// are ignored.
func (l *Ledger) AddChips(n int) {
	if n <= 0 {
		return
	}
	l.state.Chips += n
	l.state.Stats.ChipsEarned += n
}

// SpendChips debits chips if the balance covers it. Returns false, leaving
// the balance untouched, otherwise.
func (l *Ledger) SpendChips(n int) bool {
	if n < 0 || l.state.Chips < n {
		return false
	}
	l.state.Chips -= n
	return true
}

// AddCash credits cash and records the running total.
func (l *Ledger) AddCash(n int) {
	if n <= 0 {
		return
	}
	l.state.Cash += n
	l.state.Stats.CashEarned += n
}

// SpendCash debits cash if the balance covers it.
func (l *Ledger) SpendCash(n int) bool {
	if n < 0 || l.state.Cash < n {
		return false
	}
	l.state.Cash -= n
	return true
}

// ResetChips zeroes the round-local balance for a new round.
func (l *Ledger) ResetChips() {
	l.state.Chips = 0
}

// InterestStacks returns the dynamic interest for the current cash
// balance: floor(cash/5), capped by the snapshot's maximum, plus any
// accumulated bonus stacks.
func (l *Ledger) InterestStacks(snap *attrs.Snapshot) int {
	stacks := l.state.Cash / interestDivisor
	if limit := snap.MaxInterestStacks(); stacks > limit {
		stacks = limit
	}
	return stacks + l.state.BonusInterest
}

// CompleteRoundReward computes and credits the cash reward for finishing a
// round. Canonical coefficient order: the set_cash override replaces
// (base + interest) before multipliers, then multi, then add, then sub,
// then div, rounded to nearest and floored at zero.
func (l *Ledger) CompleteRoundReward(base int, snap *attrs.Snapshot) types.RewardBreakdown {
	interest := l.InterestStacks(snap)

	pre := float64(base + interest)
	if snap.Has(attrs.FieldSetCash) {
		pre = snap.Value(attrs.FieldSetCash)
	}

	total := linearTransform(pre, snap,
		attrs.FieldMultiCash, attrs.FieldAddCash, attrs.FieldSubCash, attrs.FieldDivCash)

	l.AddCash(total)
	return types.RewardBreakdown{Base: base, Interest: interest, Total: total}
}

// SellValue converts a rolled thing's value into chips using the
// chip-specific coefficients.
func SellValue(value int, snap *attrs.Snapshot) int {
	pre := float64(value)
	if snap.Has(attrs.FieldSetChips) {
		pre = snap.Value(attrs.FieldSetChips)
	}
	return linearTransform(pre, snap,
		attrs.FieldMultiChips, attrs.FieldAddChips, attrs.FieldSubChips, attrs.FieldDivChips)
}

// linearTransform applies round(max(0, (pre*multi + add - sub) / div)).
// A zero divisor coefficient is clamped to 1 rather than raised.
func linearTransform(pre float64, snap *attrs.Snapshot, multiField, addField, subField, divField string) int {
	multi := snap.Scale(multiField)
	div := snap.Scale(divField)
	if div == 0 {
		div = 1
	}

	v := (pre*multi + snap.Value(addField) - snap.Value(subField)) / div
	if v < 0 {
		v = 0
	}
	return int(math.Round(v))
}
