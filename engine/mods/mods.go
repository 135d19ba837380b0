// Package mods resolves the size attribute and modifications of a rolled
// thing: luck-skewed weighted selection, guaranteed and perk-gated mods,
// and the final value multiplier.
package mods

import (
	"math"

	"github.com/nathoo/lootcore/engine/roll"
	"github.com/nathoo/lootcore/engine/state"
	"github.com/nathoo/lootcore/types"
)

// adjustFloor bounds the luck adjustment factor so extreme negative luck
// can never zero out a rarity score.
const adjustFloor = 0.1

// Mod-count probability bands before boosts: band two on top of band one.
const (
	baseTwoModChance = 0.05
	baseOneModChance = 0.30
)

// Options carries the snapshot-derived inputs for one resolution pass.
type Options struct {
	ChanceBoost float64  // multiplicative scalar on mod chance, 1 = neutral
	Luck        float64  // signed luck scalar
	Guaranteed  []string // mod ids that always apply
	// RarityMult scales a mod's rarity score; values below 1 make the
	// mod more common.
	RarityMult func(modID string) float64
	ValueBonus float64 // flat percentage add on the mod sum
	HasPerk    func(perkID string) bool
}

// Resolver applies size attributes and mods from the catalogs.
type Resolver struct {
	defs *state.Defs
}

// New creates a resolver over the given catalogs.
func New(defs *state.Defs) *Resolver {
	return &Resolver{defs: defs}
}

// Apply mutates the rolled thing in place: picks one size attribute, rolls
// a mod count, fills mod slots, and recomputes the value. All randomness
// comes from the passed-in stream.
func (r *Resolver) Apply(thing *types.RolledThing, src roll.Source, opts Options) {
	if opts.ChanceBoost <= 0 {
		opts.ChanceBoost = 1
	}

	sizeValue := r.pickSize(thing, src, opts.Luck)
	count := r.modCount(src, opts)

	selected := r.seedGuaranteed(opts.Guaranteed)
	if len(selected) < count {
		r.fillMods(&selected, count, src, opts)
	}

	modSum := 0.0
	thing.Mods = thing.Mods[:0]
	for _, id := range selected {
		thing.Mods = append(thing.Mods, id)
		modSum += r.defs.Mods[id].Value
	}

	// The floor keeps a pile of negative mods from inverting the sign.
	multiplier := sizeValue * math.Max(1, 1+modSum+opts.ValueBonus)
	thing.ModValue = multiplier
	thing.Value = roundedValue(thing.BaseValue, multiplier)
}

// pickSize selects the size/quality attribute. Luck divides the rarity of
// attributes contributing more than 1.0 and multiplies the rarity of those
// below, so lucky rolls skew large.
func (r *Resolver) pickSize(thing *types.RolledThing, src roll.Source, luck float64) float64 {
	candidates := make([]roll.Candidate, 0, len(r.defs.SizeOrder))
	for _, id := range r.defs.SizeOrder {
		def := r.defs.Sizes[id]
		if def.Rarity <= 0 {
			continue
		}
		rarity := adjustRarity(def.Rarity, def.Value, luck)
		candidates = append(candidates, roll.Candidate{ID: id, Weight: 100 / rarity})
	}

	id, ok := roll.Pick(src, candidates)
	if !ok {
		return 1
	}
	thing.Size = id
	return r.defs.Sizes[id].Value
}

// modCount rolls the target mod count from cumulative probability bands,
// each scaled by the chance boost plus a small luck-derived bonus.
func (r *Resolver) modCount(src roll.Source, opts Options) int {
	bonus := opts.Luck * 0.01
	if bonus < 0 {
		bonus = 0
	}
	two := baseTwoModChance*opts.ChanceBoost + bonus
	one := baseOneModChance*opts.ChanceBoost + bonus

	draw := src.Float64()
	switch {
	case draw < two:
		return 2
	case draw < one:
		return 1
	default:
		return 0
	}
}

// seedGuaranteed pre-seeds the selection with guaranteed mods,
// deduplicated and restricted to catalog entries.
func (r *Resolver) seedGuaranteed(guaranteed []string) []string {
	var selected []string
	seen := map[string]bool{}
	for _, id := range guaranteed {
		if seen[id] {
			continue
		}
		if _, ok := r.defs.Mods[id]; !ok {
			continue
		}
		seen[id] = true
		selected = append(selected, id)
	}
	return selected
}

// fillMods fills the remaining slots by weighted draw over the catalog,
// excluding mods already selected, mods whose perk gate is unsatisfied,
// and mods with a rarity score of exactly 0.
func (r *Resolver) fillMods(selected *[]string, count int, src roll.Source, opts Options) {
	taken := map[string]bool{}
	for _, id := range *selected {
		taken[id] = true
	}

	for len(*selected) < count {
		candidates := make([]roll.Candidate, 0, len(r.defs.ModOrder))
		for _, id := range r.defs.ModOrder {
			def := r.defs.Mods[id]
			if taken[id] || def.Rarity == 0 {
				continue
			}
			if def.RequiresPerk != "" && (opts.HasPerk == nil || !opts.HasPerk(def.RequiresPerk)) {
				continue
			}
			rarity := def.Rarity
			if opts.RarityMult != nil {
				if m := opts.RarityMult(id); m > 0 {
					rarity *= m
				}
			}
			rarity = adjustRarity(rarity, 1+def.Value, opts.Luck)
			candidates = append(candidates, roll.Candidate{ID: id, Weight: 100 / rarity * opts.ChanceBoost})
		}
		if len(candidates) == 0 {
			return
		}

		id, _ := roll.Pick(src, candidates)
		taken[id] = true
		*selected = append(*selected, id)
	}
}

// adjustRarity applies the luck skew: contributions above 1.0 get their
// rarity divided by the luck factor, below 1.0 multiplied. The factor is
// floored so the adjustment never collapses a score.
func adjustRarity(rarity, contribution, luck float64) float64 {
	factor := 1 + luck*0.25
	if factor < adjustFloor {
		factor = adjustFloor
	}
	switch {
	case contribution > 1:
		return rarity / factor
	case contribution < 1:
		return rarity * factor
	default:
		return rarity
	}
}

// roundedValue computes the final integer value, floored at 0.
func roundedValue(base int, multiplier float64) int {
	v := math.Round(float64(base) * multiplier)
	if v < 0 {
		v = 0
	}
	return int(v)
}
