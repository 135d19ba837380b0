// Package attrs folds owned perks into one attributes snapshot: typed stat
// operations, modifier weights, guaranteed mods, set bonuses, conditional
// triggers, and a post-processing rules pipeline.
package attrs

import (
	"math"

	"github.com/nathoo/lootcore/types"
)

// Well-known snapshot fields. Stat ops may address any field name; unknown
// fields initialize per the operator semantics instead of failing.
const (
	FieldRolls       = "rolls"
	FieldLuck        = "luck"
	FieldModChance   = "modification_chance"
	FieldValueBonus  = "value_bonus"
	FieldMaxInterest = "max_interest_stacks"

	FieldAddChips   = "add_chips"
	FieldSubChips   = "sub_chips"
	FieldMultiChips = "multi_chips"
	FieldDivChips   = "div_chips"
	FieldSetChips   = "set_chips"

	FieldAddCash   = "add_cash"
	FieldSubCash   = "sub_cash"
	FieldMultiCash = "multi_cash"
	FieldDivCash   = "div_cash"
	FieldSetCash   = "set_cash"
)

// defaultMaxInterest is the interest-stack cap before any perk raises it.
const defaultMaxInterest = 5

// Snapshot is the fully-reduced numeric state derived from all owned perks
// for the current moment. It is recomputed on demand and never mutated
// after being returned.
type Snapshot struct {
	fields         map[string]float64
	modifiers      map[string]float64
	guaranteedMods []string
	guaranteedSeen map[string]bool
}

// NewSnapshot creates a snapshot with the documented defaults.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		fields:         map[string]float64{FieldMaxInterest: defaultMaxInterest},
		modifiers:      map[string]float64{},
		guaranteedSeen: map[string]bool{},
	}
}

// Apply folds one stat operation into a field with stack count n.
// Add/sub scale linearly with n; multi/div stack geometrically (x^n) and
// are no-ops at n = 0 to avoid spurious initialization. A multi/div on an
// undefined field initializes it to 1 first. A div by zero is clamped to a
// no-op rather than raised.
func (s *Snapshot) Apply(field string, op types.StatOp, n int) {
	switch op.Kind {
	case types.OpAdd:
		s.fields[field] += op.Value * float64(n)
	case types.OpSub:
		s.fields[field] -= op.Value * float64(n)
	case types.OpSet:
		if n > 0 {
			s.fields[field] = op.Value
		}
	case types.OpMulti:
		if n > 0 {
			s.fields[field] = s.scaleOf(field) * math.Pow(op.Value, float64(n))
		}
	case types.OpDiv:
		if n > 0 && op.Value != 0 {
			s.fields[field] = s.scaleOf(field) / math.Pow(op.Value, float64(n))
		}
	}
}

// ApplyModifier folds one operation into a mod's selection-weight
// multiplier. Multipliers default to 1 before the first operation.
func (s *Snapshot) ApplyModifier(modID string, op types.StatOp, n int) {
	v, ok := s.modifiers[modID]
	if !ok {
		v = 1
	}
	switch op.Kind {
	case types.OpAdd:
		v += op.Value * float64(n)
	case types.OpSub:
		v -= op.Value * float64(n)
	case types.OpSet:
		if n > 0 {
			v = op.Value
		}
	case types.OpMulti:
		if n > 0 {
			v *= math.Pow(op.Value, float64(n))
		}
	case types.OpDiv:
		if n > 0 && op.Value != 0 {
			v /= math.Pow(op.Value, float64(n))
		}
	}
	s.modifiers[modID] = v
}

// AddGuaranteedMod appends a mod id to the guaranteed list, deduplicated.
func (s *Snapshot) AddGuaranteedMod(modID string) {
	if s.guaranteedSeen[modID] {
		return
	}
	s.guaranteedSeen[modID] = true
	s.guaranteedMods = append(s.guaranteedMods, modID)
}

func (s *Snapshot) scaleOf(field string) float64 {
	if v, ok := s.fields[field]; ok {
		return v
	}
	return 1
}

// Value returns an additive field, 0 when unset.
func (s *Snapshot) Value(field string) float64 {
	return s.fields[field]
}

// Scale returns a multiplicative field, 1 when unset.
func (s *Snapshot) Scale(field string) float64 {
	return s.scaleOf(field)
}

// Has reports whether a field has been written at all. Used for setX
// overrides that only apply when present.
func (s *Snapshot) Has(field string) bool {
	_, ok := s.fields[field]
	return ok
}

// SetValue overwrites a field directly. Post-processing rules use this to
// rewrite the fields they claim ownership of.
func (s *Snapshot) SetValue(field string, v float64) {
	s.fields[field] = v
}

// ModifierWeight returns the rarity multiplier for a mod, 1 when no perk
// touched it. Values below 1 lower the effective rarity, making the mod
// more common in selection.
func (s *Snapshot) ModifierWeight(modID string) float64 {
	if v, ok := s.modifiers[modID]; ok {
		return v
	}
	return 1
}

// GuaranteedMods returns the deduplicated guaranteed mod ids in the order
// they were merged.
func (s *Snapshot) GuaranteedMods() []string {
	return s.guaranteedMods
}

// MaxInterestStacks returns the interest cap, never below 0.
func (s *Snapshot) MaxInterestStacks() int {
	v := s.fields[FieldMaxInterest]
	if v < 0 {
		return 0
	}
	return int(v)
}
