package save

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/nathoo/lootcore/engine"
	"github.com/nathoo/lootcore/engine/state"
	"github.com/nathoo/lootcore/types"
)

func testDefs() *state.Defs {
	d := &state.Defs{
		Tiers: map[string]types.TierDef{
			"common": {ID: "common", Name: "Common", Order: 0, BaseValue: 10},
			"rare":   {ID: "rare", Name: "Rare", Order: 2, BaseValue: 60},
		},
		Things: map[string]types.ThingTemplate{
			"pebble": {ID: "pebble", Name: "Pebble", Tier: "common", Value: 1, Rarity: 1},
			"geode":  {ID: "geode", Name: "Geode", Tier: "rare", Value: 1, Rarity: 1},
		},
		Sizes: map[string]types.SizeDef{
			"plain": {ID: "plain", Value: 1, Rarity: 1},
		},
		Mods: map[string]types.ModDef{
			"shiny": {ID: "shiny", Name: "Shiny", Value: 0.5, Rarity: 5},
		},
		Perks: map[string]types.PerkDef{
			"lucky_charm": {ID: "lucky_charm", Name: "Lucky Charm", Cost: 10,
				Stats: map[string]types.StatOp{"luck": {Kind: types.OpAdd, Value: 1}},
				Props: types.PerkProps{StackLimit: 5}},
		},
		Rounds: types.RoundsDef{BaseRolls: 5, BaseReward: 5, BossInterval: 3},
	}
	d.Freeze()
	return d
}

func TestRoundTrip(t *testing.T) {
	defs := testDefs()
	e := engine.New(defs, 42)
	e.State.Cash = 25
	e.State.Perks["lucky_charm"] = 2
	e.Step("roll")
	e.Step("roll")

	data, err := Save(e.State, e.Streams.Positions())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sd.Version != FormatVersion {
		t.Errorf("version = %q, want %q", sd.Version, FormatVersion)
	}

	e2 := engine.New(defs, 1)
	ApplySave(e2.State, sd)
	e2.RestoreStreams(sd.State.Seed, sd.Streams)

	if e2.State.Cash != 25 {
		t.Errorf("cash = %d, want 25", e2.State.Cash)
	}
	if e2.State.Perks["lucky_charm"] != 2 {
		t.Errorf("perk stacks = %d, want 2", e2.State.Perks["lucky_charm"])
	}
	if !reflect.DeepEqual(e2.State.Inventory, e.State.Inventory) {
		t.Errorf("inventory mismatch:\n  %+v\n  %+v", e2.State.Inventory, e.State.Inventory)
	}
	if len(e2.State.CommandLog) != 2 {
		t.Errorf("command log = %d entries, want 2", len(e2.State.CommandLog))
	}
}

func TestRoundTrip_ReplaysFutureRolls(t *testing.T) {
	defs := testDefs()
	e := engine.New(defs, 7)
	e.Step("roll")

	data, err := Save(e.State, e.Streams.Positions())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	e2 := engine.New(defs, 999)
	ApplySave(e2.State, sd)
	e2.RestoreStreams(sd.State.Seed, sd.Streams)

	// The restored run must continue with the same draws as the original.
	for i := 0; i < 4; i++ {
		t1, r1 := e.Roll()
		t2, r2 := e2.Roll()
		if r1.Success != r2.Success {
			t.Fatalf("roll %d: success diverged (%v vs %v)", i, r1.Success, r2.Success)
		}
		if !reflect.DeepEqual(t1, t2) {
			t.Fatalf("roll %d diverged:\n  %+v\n  %+v", i, t1, t2)
		}
	}
}

func TestSave_ProducesValidJSON(t *testing.T) {
	e := engine.New(testDefs(), 1)

	data, err := Save(e.State, e.Streams.Positions())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !json.Valid(data) {
		t.Fatal("Save output is not valid JSON")
	}

	var raw map[string]any
	json.Unmarshal(data, &raw)
	if raw["version"] != "1" {
		t.Errorf("version = %v, want 1", raw["version"])
	}
}

func TestLoad_MissingOptionalFields(t *testing.T) {
	data := []byte(`{"version":"1","state":{"seed":5,"round":2}}`)

	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sd.State.Perks == nil {
		t.Error("expected non-nil perks")
	}
	if sd.State.Inventory == nil {
		t.Error("expected non-nil inventory")
	}
	if sd.State.CommandLog == nil {
		t.Error("expected non-nil command_log")
	}
	if sd.Streams == nil {
		t.Error("expected non-nil streams")
	}
	if sd.State.Round != 2 {
		t.Errorf("round = %d, want 2", sd.State.Round)
	}
}

func TestLoad_RejectsMalformedJSON(t *testing.T) {
	if _, err := Load([]byte(`{"version":`)); err == nil {
		t.Fatal("Load accepted malformed JSON")
	}
}
