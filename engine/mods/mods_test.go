package mods

import (
	"testing"

	"github.com/nathoo/lootcore/engine/state"
	"github.com/nathoo/lootcore/types"
)

type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

type lcgSource struct{ state uint32 }

func (s *lcgSource) Float64() float64 {
	s.state = s.state*1664525 + 1013904223
	return float64(s.state) / (1 << 32)
}

func testDefs() *state.Defs {
	d := &state.Defs{
		Sizes: map[string]types.SizeDef{
			"tiny":  {ID: "tiny", Value: 0.5, Rarity: 4},
			"plain": {ID: "plain", Value: 1, Rarity: 1},
			"huge":  {ID: "huge", Value: 2, Rarity: 8},
		},
		Mods: map[string]types.ModDef{
			"shiny":    {ID: "shiny", Value: 0.5, Rarity: 5},
			"heavy":    {ID: "heavy", Value: 0.25, Rarity: 3},
			"cursed":   {ID: "cursed", Value: -0.75, Rarity: 4},
			"runed":    {ID: "runed", Value: 1, Rarity: 10, RequiresPerk: "runesmith"},
			"disabled": {ID: "disabled", Value: 9, Rarity: 0},
		},
	}
	d.Freeze()
	return d
}

func rolled() types.RolledThing {
	return types.RolledThing{Template: "geode", Name: "Geode", Tier: "rare",
		Value: 80, BaseValue: 80, ModValue: 1}
}

func TestApply_Deterministic(t *testing.T) {
	r := New(testDefs())
	opts := Options{ChanceBoost: 1, Luck: 1}

	t1, t2 := rolled(), rolled()
	r.Apply(&t1, &lcgSource{state: 42}, opts)
	r.Apply(&t2, &lcgSource{state: 42}, opts)

	if t1.Size != t2.Size || t1.Value != t2.Value || len(t1.Mods) != len(t2.Mods) {
		t.Fatalf("same stream state produced %+v and %+v", t1, t2)
	}
}

func TestApply_SizeAlwaysAssigned(t *testing.T) {
	r := New(testDefs())
	src := &lcgSource{state: 7}

	for i := 0; i < 50; i++ {
		thing := rolled()
		r.Apply(&thing, src, Options{ChanceBoost: 1})
		if thing.Size == "" {
			t.Fatal("size attribute missing after Apply")
		}
	}
}

func TestApply_GuaranteedModsAlwaysPresent(t *testing.T) {
	r := New(testDefs())

	thing := rolled()
	// High draw → zero random mods; guaranteed still applies.
	src := &seqSource{vals: []float64{0.5, 0.99}}
	r.Apply(&thing, src, Options{ChanceBoost: 1, Guaranteed: []string{"shiny", "shiny"}})

	if len(thing.Mods) != 1 || thing.Mods[0] != "shiny" {
		t.Fatalf("Mods = %v, want [shiny] (deduplicated, guaranteed)", thing.Mods)
	}
}

func TestApply_UnknownGuaranteedModSkipped(t *testing.T) {
	r := New(testDefs())

	thing := rolled()
	src := &seqSource{vals: []float64{0.5, 0.99}}
	r.Apply(&thing, src, Options{ChanceBoost: 1, Guaranteed: []string{"ghost"}})

	if len(thing.Mods) != 0 {
		t.Fatalf("Mods = %v, want none for an unknown guaranteed id", thing.Mods)
	}
}

func TestApply_GatedModNeverRollsWithoutPerk(t *testing.T) {
	r := New(testDefs())
	src := &lcgSource{state: 99}

	for i := 0; i < 300; i++ {
		thing := rolled()
		r.Apply(&thing, src, Options{ChanceBoost: 10, Luck: 5})
		for _, id := range thing.Mods {
			if id == "runed" {
				t.Fatal("perk-gated mod selected without the perk")
			}
			if id == "disabled" {
				t.Fatal("zero-rarity mod selected")
			}
		}
	}
}

func TestApply_GatedModRollsWithPerk(t *testing.T) {
	r := New(testDefs())
	src := &lcgSource{state: 99}
	opts := Options{ChanceBoost: 10, Luck: 5, HasPerk: func(id string) bool { return id == "runesmith" }}

	seen := false
	for i := 0; i < 300 && !seen; i++ {
		thing := rolled()
		r.Apply(&thing, src, opts)
		for _, id := range thing.Mods {
			if id == "runed" {
				seen = true
			}
		}
	}
	if !seen {
		t.Error("perk-gated mod never selected despite owning the gate perk")
	}
}

func TestApply_ValueMultiplier(t *testing.T) {
	r := New(testDefs())

	thing := rolled()
	// A single-size catalog pins the size draw so the arithmetic is exact.
	d := &state.Defs{
		Sizes: map[string]types.SizeDef{"huge": {ID: "huge", Value: 2, Rarity: 1}},
		Mods:  map[string]types.ModDef{"shiny": {ID: "shiny", Value: 0.5, Rarity: 5}},
	}
	d.Freeze()
	r = New(d)

	src := &seqSource{vals: []float64{0.5, 0.99}}
	r.Apply(&thing, src, Options{ChanceBoost: 1, Guaranteed: []string{"shiny"}, ValueBonus: 0.1})

	// multiplier = 2 * max(1, 1 + 0.5 + 0.1) = 3.2 → 80 * 3.2 = 256
	if thing.ModValue != 3.2 {
		t.Errorf("ModValue = %v, want 3.2", thing.ModValue)
	}
	if thing.Value != 256 {
		t.Errorf("Value = %d, want 256", thing.Value)
	}
}

func TestApply_NegativeModsFloorAtSizeValue(t *testing.T) {
	d := &state.Defs{
		Sizes: map[string]types.SizeDef{"plain": {ID: "plain", Value: 1, Rarity: 1}},
		Mods:  map[string]types.ModDef{"cursed": {ID: "cursed", Value: -5, Rarity: 1}},
	}
	d.Freeze()
	r := New(d)

	thing := rolled()
	src := &seqSource{vals: []float64{0.5, 0.99}}
	r.Apply(&thing, src, Options{ChanceBoost: 1, Guaranteed: []string{"cursed"}})

	// max(1, 1-5) = 1: negative mods cannot invert the value sign.
	if thing.Value != 80 {
		t.Errorf("Value = %d, want 80 (mod sum floored)", thing.Value)
	}
}

func TestApply_LuckSkewsTowardLargeSizes(t *testing.T) {
	r := New(testDefs())

	countHuge := func(luck float64, seed uint32) int {
		src := &lcgSource{state: seed}
		n := 0
		for i := 0; i < 2000; i++ {
			thing := rolled()
			r.Apply(&thing, src, Options{ChanceBoost: 1, Luck: luck})
			if thing.Size == "huge" {
				n++
			}
		}
		return n
	}

	unlucky := countHuge(0, 1)
	lucky := countHuge(8, 1)
	if lucky <= unlucky {
		t.Errorf("huge sizes with luck 8 (%d) not above luck 0 (%d)", lucky, unlucky)
	}
}

func TestApply_ChanceBoostRaisesModCounts(t *testing.T) {
	r := New(testDefs())

	countMods := func(boost float64) int {
		src := &lcgSource{state: 5}
		n := 0
		for i := 0; i < 2000; i++ {
			thing := rolled()
			r.Apply(&thing, src, Options{ChanceBoost: boost})
			n += len(thing.Mods)
		}
		return n
	}

	base := countMods(1)
	boosted := countMods(2.5)
	if boosted <= base {
		t.Errorf("mods with boost 2.5 (%d) not above baseline (%d)", boosted, base)
	}
}

func TestAdjustRarity_FloorBounds(t *testing.T) {
	// Deeply negative luck clamps the factor at 0.1 instead of flipping sign.
	got := adjustRarity(10, 2, -100)
	if got != 100 {
		t.Errorf("adjustRarity = %v, want 100 (10 / 0.1)", got)
	}
	// Neutral contributions are untouched.
	if got := adjustRarity(10, 1, 5); got != 10 {
		t.Errorf("neutral contribution adjusted: %v", got)
	}
}
