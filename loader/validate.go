package loader

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/nathoo/lootcore/engine/state"
	"github.com/nathoo/lootcore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Stat names a trigger may track.
var validTriggerStats = map[string]bool{
	"chips_earned": true,
	"cash_earned":  true,
	"things_sold":  true,
	"total_rolls":  true,
}

// Dynamic scaling hooks implemented by the aggregator.
var validDynamicHooks = map[string]bool{
	"chip_hoard":    true,
	"round_veteran": true,
}

// validate checks the compiled defs for referential integrity and
// consistency.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}

	if len(defs.Tiers) == 0 {
		ve.Errors = append(ve.Errors, "at least one Tier is required")
	}
	if len(defs.Things) == 0 {
		ve.Errors = append(ve.Errors, "at least one Thing is required")
	}
	if len(defs.Sizes) == 0 {
		ve.Errors = append(ve.Errors, "at least one Size is required")
	}

	validateTiers(defs, ve)
	validateThings(defs, ve)
	validateMods(defs, ve)
	validatePerks(defs, ve)
	validateSets(defs, ve)
	validateRounds(defs.Rounds, ve)

	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateTiers requires unique tier orders — the ordering drives both
// weight decay and the rare-plus cutoffs.
func validateTiers(defs *state.Defs, ve *ValidationError) {
	seen := map[int]string{}
	for _, id := range sortedKeys(defs.Tiers) {
		tier := defs.Tiers[id]
		if prev, dup := seen[tier.Order]; dup {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"tiers %q and %q declare the same order %d", prev, id, tier.Order))
			continue
		}
		seen[tier.Order] = id
		if tier.BaseValue < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"tier %q has negative base_value", id))
		}
	}
}

func validateThings(defs *state.Defs, ve *ValidationError) {
	for _, id := range sortedKeys(defs.Things) {
		thing := defs.Things[id]
		if _, ok := defs.Tiers[thing.Tier]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"thing %q references undefined tier %q", id, thing.Tier))
		}
		if thing.Rarity < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"thing %q has negative rarity", id))
		}
		if thing.Rarity == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"thing %q has rarity 0 and can never roll", id))
		}
	}
}

func validateMods(defs *state.Defs, ve *ValidationError) {
	for _, id := range sortedKeys(defs.Mods) {
		mod := defs.Mods[id]
		if mod.RequiresPerk != "" {
			if _, ok := defs.Perks[mod.RequiresPerk]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"mod %q requires undefined perk %q", id, mod.RequiresPerk))
			}
		}
		if mod.Rarity < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"mod %q has negative rarity", id))
		}
	}
}

func validatePerks(defs *state.Defs, ve *ValidationError) {
	for _, id := range sortedKeys(defs.Perks) {
		perk := defs.Perks[id]

		if perk.Cost < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("perk %q has negative cost", id))
		}
		if perk.Requires != "" {
			if _, ok := defs.Perks[perk.Requires]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"perk %q requires undefined perk %q", id, perk.Requires))
			}
		}
		for _, c := range perk.Props.Conflicts {
			if _, ok := defs.Perks[c]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"perk %q conflicts with undefined perk %q", id, c))
			}
		}
		if perk.Props.Set != "" {
			if _, ok := defs.Sets[perk.Props.Set]; !ok {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"perk %q counts toward undeclared set %q", id, perk.Props.Set))
			}
		}
		for _, m := range perk.Mods {
			if _, ok := defs.Mods[m.ModID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"perk %q modifies undefined mod %q", id, m.ModID))
			}
		}
		for _, modID := range perk.GuaranteedMods {
			if _, ok := defs.Mods[modID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"perk %q guarantees undefined mod %q", id, modID))
			}
		}
		if perk.Dynamic != "" && !validDynamicHooks[perk.Dynamic] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"perk %q names unknown dynamic hook %q", id, perk.Dynamic))
		}
		if perk.Trigger != nil && !validTriggerStats[perk.Trigger.Stat] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"perk %q trigger tracks unknown stat %q", id, perk.Trigger.Stat))
		}
		if perk.Forge != nil {
			if len(perk.Forge.Consumes) == 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"perk %q forge recipe consumes nothing", id))
			}
			for _, c := range perk.Forge.Consumes {
				if _, ok := defs.Perks[c]; !ok {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"perk %q forge consumes undefined perk %q", id, c))
				}
			}
		}
	}
}

func validateSets(defs *state.Defs, ve *ValidationError) {
	for _, id := range sortedKeys(defs.Sets) {
		set := defs.Sets[id]
		for th := range set.Thresholds {
			if th <= 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"set %q has non-positive threshold %d", id, th))
			}
		}
	}
}

func validateRounds(rounds types.RoundsDef, ve *ValidationError) {
	if rounds.BaseRolls < 1 {
		ve.Errors = append(ve.Errors, "Rounds.base_rolls must be at least 1")
	}
	if rounds.BossInterval > 0 && rounds.BossPicks > rounds.BossOffers {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(
			"Rounds declares %d boss picks but only %d offers", rounds.BossPicks, rounds.BossOffers))
	}
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
