// Package roll produces base rolled things: weighted tier and template
// selection that scales with round number, plus the shared weighted
// selection primitive.
package roll

import (
	"math"

	"github.com/nathoo/lootcore/engine/state"
	"github.com/nathoo/lootcore/types"
)

// minTierWeight keeps every declared tier reachable from round 1.
// The weight table can never sum to zero while at least one tier exists.
const minTierWeight = 0.0005

// tierDecay controls how fast selection weight falls off per rarity step,
// indexed by round bucket. Later buckets decay slower, smoothing the
// distribution toward rarer tiers.
var tierDecay = []float64{0.25, 0.33, 0.42, 0.52}

// Roller selects a base thing (template + tier) for a round.
type Roller struct {
	defs *state.Defs
}

// New creates a roller over the given catalogs.
func New(defs *state.Defs) *Roller {
	return &Roller{defs: defs}
}

// roundBucket maps a round number to a weight-table bucket.
func roundBucket(round int) int {
	switch {
	case round <= 3:
		return 0
	case round <= 7:
		return 1
	case round <= 12:
		return 2
	default:
		return 3
	}
}

// TierWeights returns the base selection weight table for a round.
// Weight falls off geometrically with tier order and is floored so the
// rarest tiers stay strictly positive.
func (r *Roller) TierWeights(round int) map[string]float64 {
	decay := tierDecay[roundBucket(round)]
	weights := make(map[string]float64, len(r.defs.TierOrder))
	for _, id := range r.defs.TierOrder {
		w := math.Pow(decay, float64(r.defs.Tiers[id].Order))
		if w < minTierWeight {
			w = minTierWeight
		}
		weights[id] = w
	}
	return weights
}

// Roll selects one template and instantiates it. The override table, when
// non-nil, replaces base weights per tier; overrides for tiers absent from
// the base table are ignored. The bool is false only when the catalog has
// no eligible templates.
func (r *Roller) Roll(round int, src Source, override map[string]float64) (types.RolledThing, bool) {
	weights := r.TierWeights(round)
	for id, w := range override {
		if _, ok := weights[id]; ok {
			weights[id] = w
		}
	}

	candidates := make([]Candidate, 0, len(r.defs.ThingOrder))
	for _, id := range r.defs.ThingOrder {
		tmpl := r.defs.Things[id]
		w := weights[tmpl.Tier] * tmpl.Rarity
		if w <= 0 {
			continue
		}
		candidates = append(candidates, Candidate{ID: id, Weight: w})
	}

	chosen, ok := Pick(src, candidates)
	if !ok {
		return types.RolledThing{}, false
	}

	tmpl := r.defs.Things[chosen]
	value := templateValue(r.defs.Tiers[tmpl.Tier], tmpl)
	return types.RolledThing{
		Template:  chosen,
		Name:      tmpl.Name,
		Tier:      tmpl.Tier,
		Value:     value,
		BaseValue: value,
		ModValue:  1,
	}, true
}

// templateValue computes the base value from the tier base and the
// template's multiplier/offset, rounded to nearest and floored at 0.
func templateValue(tier types.TierDef, tmpl types.ThingTemplate) int {
	v := math.Round(tier.BaseValue*tmpl.Value + tmpl.Offset)
	if v < 0 {
		v = 0
	}
	return int(v)
}
