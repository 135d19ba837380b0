// Package state holds the immutable catalog definitions and the mutable
// run state, with deterministic iteration order for every catalog.
package state

import (
	"sort"

	"github.com/nathoo/lootcore/types"
)

// Defs holds the immutable catalogs loaded from Lua.
//
// The *Order slices fix the iteration order for weighted draws — map
// iteration order must never influence a roll.
type Defs struct {
	Tiers      map[string]types.TierDef
	TierOrder  []string // sorted by TierDef.Order
	Things     map[string]types.ThingTemplate
	ThingOrder []string
	Sizes      map[string]types.SizeDef
	SizeOrder  []string
	Mods       map[string]types.ModDef
	ModOrder   []string
	Perks      map[string]types.PerkDef
	PerkOrder  []string
	Sets       map[string]types.SetDef
	Rounds     types.RoundsDef
}

// Freeze populates the ordered id slices from the catalog maps.
// Tiers sort by declared order, everything else by id.
func (d *Defs) Freeze() {
	d.TierOrder = d.TierOrder[:0]
	for id := range d.Tiers {
		d.TierOrder = append(d.TierOrder, id)
	}
	sort.Slice(d.TierOrder, func(i, j int) bool {
		return d.Tiers[d.TierOrder[i]].Order < d.Tiers[d.TierOrder[j]].Order
	})

	d.ThingOrder = sortedIDs(d.Things)
	d.SizeOrder = sortedIDs(d.Sizes)
	d.ModOrder = sortedIDs(d.Mods)
	d.PerkOrder = sortedIDs(d.Perks)
}

func sortedIDs[T any](m map[string]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NewState creates a fresh run state for the given seed.
func NewState(seed uint32) *types.RunState {
	return &types.RunState{
		Seed:       seed,
		Round:      1,
		Perks:      map[string]int{},
		Inventory:  []types.RolledThing{},
		CommandLog: []string{},
	}
}

// PerkCount returns the normalized stack count for a perk. Absent perks
// return 0; counts are always at least 1 for owned perks.
func PerkCount(s *types.RunState, perkID string) int {
	n := s.Perks[perkID]
	if n < 0 {
		return 0
	}
	return n
}

// HasPerk returns true if the player owns at least one stack of the perk.
func HasPerk(s *types.RunState, perkID string) bool {
	return PerkCount(s, perkID) > 0
}

// StackLimit returns the effective stack limit for a perk definition.
// Non-stackable perks normalize to a limit of 1.
func StackLimit(def types.PerkDef) int {
	if def.Props.StackLimit <= 0 {
		return 1
	}
	return def.Props.StackLimit
}

// TierAtLeast reports whether tier a is at least as rare as tier b
// per the declared tier ordering.
func (d *Defs) TierAtLeast(a, b string) bool {
	ta, ok := d.Tiers[a]
	if !ok {
		return false
	}
	tb, ok := d.Tiers[b]
	if !ok {
		return false
	}
	return ta.Order >= tb.Order
}

// StatValue reads a named running stat for trigger evaluation.
// Unknown names read as 0 rather than failing the pass.
func StatValue(stats types.RunStats, name string) float64 {
	switch name {
	case "chips_earned":
		return float64(stats.ChipsEarned)
	case "cash_earned":
		return float64(stats.CashEarned)
	case "things_sold":
		return float64(stats.ThingsSold)
	case "total_rolls":
		return float64(stats.TotalRolls)
	default:
		return 0
	}
}
