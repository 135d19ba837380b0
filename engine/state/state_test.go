package state

import (
	"testing"

	"github.com/nathoo/lootcore/types"
)

func TestNewState_Defaults(t *testing.T) {
	s := NewState(42)

	if s.Seed != 42 {
		t.Errorf("Seed = %d, want 42", s.Seed)
	}
	if s.Round != 1 {
		t.Errorf("Round = %d, want 1", s.Round)
	}
	if s.Chips != 0 || s.Cash != 0 {
		t.Errorf("expected zero currencies, got chips=%d cash=%d", s.Chips, s.Cash)
	}
	if s.Perks == nil || s.Inventory == nil {
		t.Error("maps and slices must be initialized")
	}
}

func TestFreeze_TierOrderByDeclaredOrder(t *testing.T) {
	d := &Defs{
		Tiers: map[string]types.TierDef{
			"zenith": {ID: "zenith", Order: 2},
			"common": {ID: "common", Order: 0},
			"rare":   {ID: "rare", Order: 1},
		},
	}
	d.Freeze()

	want := []string{"common", "rare", "zenith"}
	for i, id := range want {
		if d.TierOrder[i] != id {
			t.Fatalf("TierOrder = %v, want %v", d.TierOrder, want)
		}
	}
}

func TestFreeze_ThingOrderSorted(t *testing.T) {
	d := &Defs{
		Things: map[string]types.ThingTemplate{
			"pebble": {ID: "pebble"},
			"crown":  {ID: "crown"},
			"orb":    {ID: "orb"},
		},
	}
	d.Freeze()

	want := []string{"crown", "orb", "pebble"}
	for i, id := range want {
		if d.ThingOrder[i] != id {
			t.Fatalf("ThingOrder = %v, want %v", d.ThingOrder, want)
		}
	}
}

func TestPerkCount_Normalization(t *testing.T) {
	s := NewState(1)
	s.Perks["lucky_coin"] = 2

	if got := PerkCount(s, "lucky_coin"); got != 2 {
		t.Errorf("PerkCount = %d, want 2", got)
	}
	if got := PerkCount(s, "unknown"); got != 0 {
		t.Errorf("PerkCount(unknown) = %d, want 0", got)
	}
	if !HasPerk(s, "lucky_coin") {
		t.Error("HasPerk(lucky_coin) = false, want true")
	}
	if HasPerk(s, "unknown") {
		t.Error("HasPerk(unknown) = true, want false")
	}
}

func TestStackLimit_NonStackableNormalizesToOne(t *testing.T) {
	if got := StackLimit(types.PerkDef{}); got != 1 {
		t.Errorf("StackLimit = %d, want 1", got)
	}
	if got := StackLimit(types.PerkDef{Props: types.PerkProps{StackLimit: 5}}); got != 5 {
		t.Errorf("StackLimit = %d, want 5", got)
	}
}

func TestTierAtLeast(t *testing.T) {
	d := &Defs{
		Tiers: map[string]types.TierDef{
			"common": {ID: "common", Order: 0},
			"rare":   {ID: "rare", Order: 2},
			"zenith": {ID: "zenith", Order: 5},
		},
	}

	tests := []struct {
		a, b string
		want bool
	}{
		{"rare", "rare", true},
		{"zenith", "rare", true},
		{"common", "rare", false},
		{"missing", "rare", false},
		{"rare", "missing", false},
	}
	for _, tt := range tests {
		if got := d.TierAtLeast(tt.a, tt.b); got != tt.want {
			t.Errorf("TierAtLeast(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestStatValue(t *testing.T) {
	stats := types.RunStats{ChipsEarned: 120, ThingsSold: 7}

	if got := StatValue(stats, "chips_earned"); got != 120 {
		t.Errorf("chips_earned = %v, want 120", got)
	}
	if got := StatValue(stats, "things_sold"); got != 7 {
		t.Errorf("things_sold = %v, want 7", got)
	}
	if got := StatValue(stats, "nope"); got != 0 {
		t.Errorf("unknown stat = %v, want 0", got)
	}
}
