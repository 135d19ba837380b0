package attrs

import (
	"sort"

	"github.com/nathoo/lootcore/engine/state"
	"github.com/nathoo/lootcore/types"
)

// Context carries the run-scoped inputs a dynamic hook or post rule may read.
type Context struct {
	Round int
	Stats types.RunStats
	Owned map[string]int
}

// Aggregator reduces owned perks against the perk catalog.
type Aggregator struct {
	defs *state.Defs
}

// New creates an aggregator over the given catalogs.
func New(defs *state.Defs) *Aggregator {
	return &Aggregator{defs: defs}
}

// Aggregate folds all owned perks into one snapshot. The result is a pure
// function of (owned, round, stats) — no memoization across purchases.
//
// Pass order: per-perk stats and triggers, then set-bonus thresholds, then
// the post-processing conversion rules. A perk id missing from the catalog
// contributes nothing; one bad entry never corrupts the rest of the pass.
func (a *Aggregator) Aggregate(owned map[string]int, round int, stats types.RunStats) *Snapshot {
	snap := NewSnapshot()
	ctx := Context{Round: round, Stats: stats, Owned: owned}
	setCounts := map[string]int{}

	for _, id := range a.defs.PerkOrder {
		n := owned[id]
		if n <= 0 {
			continue
		}
		def := a.defs.Perks[id]
		if limit := state.StackLimit(def); n > limit {
			n = limit
		}

		if def.Dynamic != "" {
			// Dynamic perks contribute directly computed deltas instead
			// of going through the generic op reducer.
			if hook, ok := dynamicHooks[def.Dynamic]; ok {
				hook(snap, n, ctx)
			}
		} else {
			for _, field := range sortedKeys(def.Stats) {
				snap.Apply(field, def.Stats[field], n)
			}
		}

		for _, m := range def.Mods {
			if m.Guaranteed {
				snap.AddGuaranteedMod(m.ModID)
			} else {
				snap.ApplyModifier(m.ModID, m.Op, n)
			}
		}
		for _, modID := range def.GuaranteedMods {
			snap.AddGuaranteedMod(modID)
		}

		if def.Props.Set != "" {
			setCounts[def.Props.Set] += n
		}

		// Triggers apply once, regardless of stack count.
		if def.Trigger != nil && triggerFires(def.Trigger, stats) {
			for _, field := range sortedKeys(def.Trigger.Stats) {
				snap.Apply(field, def.Trigger.Stats[field], 1)
			}
		}
	}

	a.applySetBonuses(snap, setCounts)

	// Conversion rules run last against the fully-reduced snapshot.
	for _, rule := range postRules {
		if owned[rule.Perk] > 0 {
			rule.Apply(snap, ctx)
		}
	}

	return snap
}

// applySetBonuses grants every threshold bonus whose piece count is
// reached. Thresholds are independent and cumulative.
func (a *Aggregator) applySetBonuses(snap *Snapshot, setCounts map[string]int) {
	for _, setID := range sortedKeys(setCounts) {
		def, ok := a.defs.Sets[setID]
		if !ok {
			continue
		}
		count := setCounts[setID]

		thresholds := make([]int, 0, len(def.Thresholds))
		for th := range def.Thresholds {
			thresholds = append(thresholds, th)
		}
		sort.Ints(thresholds)

		for _, th := range thresholds {
			if th > count {
				break
			}
			block := def.Thresholds[th]
			for _, field := range sortedKeys(block) {
				snap.Apply(field, block[field], 1)
			}
		}
	}
}

// triggerFires evaluates a conditional bonus against the running stats.
func triggerFires(tr *types.Trigger, stats types.RunStats) bool {
	v := state.StatValue(stats, tr.Stat)
	if tr.Below {
		return v < tr.Threshold
	}
	return v >= tr.Threshold
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
