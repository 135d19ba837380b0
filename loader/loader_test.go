package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/lootcore/types"
)

func TestLoad_MinimalCatalog(t *testing.T) {
	defs, err := Load("testdata/minimal")
	require.NoError(t, err)

	assert.Contains(t, defs.Tiers, "common")
	assert.Contains(t, defs.Things, "pebble")
	assert.Contains(t, defs.Sizes, "plain")
	assert.Equal(t, 3, defs.Rounds.BaseRolls)
	assert.Equal(t, 5, defs.Rounds.BaseReward)
}

func TestLoad_FullCatalog(t *testing.T) {
	defs, err := Load("testdata/full")
	require.NoError(t, err)

	// Tiers, frozen in declared order.
	require.Len(t, defs.Tiers, 4)
	assert.Equal(t, []string{"common", "uncommon", "rare", "zenith"}, defs.TierOrder)
	assert.Equal(t, 200.0, defs.Tiers["zenith"].BaseValue)
	assert.Equal(t, "gold", defs.Tiers["zenith"].Color)

	// Things.
	require.Len(t, defs.Things, 4)
	geode := defs.Things["geode"]
	assert.Equal(t, "rare", geode.Tier)
	assert.Equal(t, 1.5, geode.Value)
	assert.Equal(t, 5.0, geode.Offset)

	// Sizes and mods.
	assert.Len(t, defs.Sizes, 3)
	assert.Equal(t, 0.5, defs.Sizes["tiny"].Value)
	require.Contains(t, defs.Mods, "runed")
	assert.Equal(t, "runesmith", defs.Mods["runed"].RequiresPerk)
	assert.Equal(t, -0.75, defs.Mods["cursed"].Value)

	// Perk stat ops.
	charm := defs.Perks["lucky_charm"]
	require.Contains(t, charm.Stats, "luck")
	assert.Equal(t, types.OpAdd, charm.Stats["luck"].Kind)
	assert.Equal(t, 1.0, charm.Stats["luck"].Value)
	assert.Equal(t, 5, charm.Props.StackLimit)
	assert.Equal(t, "gambler", charm.Props.Set)

	// Legacy bare-number stat normalized to an add op.
	dice := defs.Perks["loaded_dice"]
	require.Contains(t, dice.Stats, "rolls")
	assert.Equal(t, types.OpAdd, dice.Stats["rolls"].Kind)
	assert.Equal(t, 1.0, dice.Stats["rolls"].Value)

	// Multiplicative op and conflicts.
	touch := defs.Perks["golden_touch"]
	assert.Equal(t, types.OpMulti, touch.Stats["multi_chips"].Kind)
	assert.Equal(t, []string{"lead_touch"}, touch.Props.Conflicts)

	// Mod operations: weight adjustment and guarantee.
	smith := defs.Perks["runesmith"]
	require.Len(t, smith.Mods, 2)
	assert.Equal(t, types.ModOp{ModID: "shiny", Op: types.StatOp{Kind: types.OpDiv, Value: 2}}, smith.Mods[0])
	assert.Equal(t, types.ModOp{ModID: "runed", Guaranteed: true}, smith.Mods[1])

	// Trigger.
	desp := defs.Perks["desperation"]
	require.NotNil(t, desp.Trigger)
	assert.Equal(t, "chips_earned", desp.Trigger.Stat)
	assert.True(t, desp.Trigger.Below)
	assert.Equal(t, 50.0, desp.Trigger.Threshold)
	assert.Equal(t, types.OpAdd, desp.Trigger.Stats["luck"].Kind)

	// Dynamic hook, boss gate, forge recipe.
	assert.Equal(t, "chip_hoard", defs.Perks["hoarder"].Dynamic)
	assert.True(t, defs.Perks["crown"].BossOnly)
	assert.Equal(t, types.OpSet, defs.Perks["crown"].Stats["max_interest_stacks"].Kind)
	alloyed := defs.Perks["alloyed_charm"]
	require.NotNil(t, alloyed.Forge)
	assert.Equal(t, []string{"lucky_charm", "lucky_charm"}, alloyed.Forge.Consumes)
	assert.Equal(t, 5, alloyed.Forge.Cost)
	assert.Equal(t, "lucky_charm", alloyed.Requires)

	// Sets.
	set := defs.Sets["gambler"]
	require.Contains(t, set.Thresholds, 2)
	require.Contains(t, set.Thresholds, 4)
	assert.Equal(t, 1.0, set.Thresholds[2]["luck"].Value)

	// Rounds.
	assert.Equal(t, 3, defs.Rounds.BossInterval)
	assert.Equal(t, 25, defs.Rounds.BossCostBase)
	assert.Equal(t, 10, defs.Rounds.BossCostPerRoute)
}

func TestLoad_DanglingReferences(t *testing.T) {
	_, err := Load("testdata/dangling")
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T", err)

	joined := ""
	for _, e := range ve.Errors {
		joined += e + "\n"
	}
	assert.Contains(t, joined, `undefined tier "mythic"`)
	assert.Contains(t, joined, `requires undefined perk "runesmith"`)
	assert.Contains(t, joined, `requires undefined perk "telescope"`)
	assert.Contains(t, joined, `guarantees undefined mod "polished"`)
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load("testdata/nonexistent")
	assert.Error(t, err)
}
