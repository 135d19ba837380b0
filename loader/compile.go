// Package loader loads Lua catalog content into Go structs at startup.
// The Lua VM is discarded after loading — zero Lua at runtime.
package loader

import (
	"fmt"

	"github.com/nathoo/lootcore/engine/state"
	"github.com/nathoo/lootcore/types"
	lua "github.com/yuin/gopher-lua"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or false if missing.
func getBool(tbl *lua.LTable, key string) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return false
}

// getNumber returns a numeric field from a Lua table, or def if missing.
func getNumber(tbl *lua.LTable, key string, def float64) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// getInt returns an int field from a Lua table, or def if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	return int(getNumber(tbl, key, float64(def)))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toStringSlice converts a Lua array of strings to a Go slice.
func toStringSlice(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

var opKinds = map[string]types.OpKind{
	"add":   types.OpAdd,
	"sub":   types.OpSub,
	"multi": types.OpMulti,
	"div":   types.OpDiv,
	"set":   types.OpSet,
}

// compileStatOp normalizes one stat value into the closed StatOp union.
// A bare number is the legacy additive shape and becomes an add op;
// tagged tables must carry a known op kind. Normalization happens here,
// never at read sites.
func compileStatOp(v lua.LValue) (types.StatOp, error) {
	switch val := v.(type) {
	case lua.LNumber:
		return types.StatOp{Kind: types.OpAdd, Value: float64(val)}, nil
	case *lua.LTable:
		kindName := getString(val, "op")
		kind, ok := opKinds[kindName]
		if !ok {
			return types.StatOp{}, fmt.Errorf("unknown op kind %q", kindName)
		}
		num := val.RawGetString("value")
		n, ok := num.(lua.LNumber)
		if !ok {
			return types.StatOp{}, fmt.Errorf("op %q has no numeric value", kindName)
		}
		return types.StatOp{Kind: kind, Value: float64(n)}, nil
	default:
		return types.StatOp{}, fmt.Errorf("stat value must be a number or an op table, got %s", v.Type())
	}
}

// compileStats compiles a { field = op, ... } table.
func compileStats(tbl *lua.LTable) (map[string]types.StatOp, error) {
	if tbl == nil {
		return nil, nil
	}
	stats := map[string]types.StatOp{}
	var firstErr error
	tbl.ForEach(func(k, v lua.LValue) {
		if firstErr != nil {
			return
		}
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		op, err := compileStatOp(v)
		if err != nil {
			firstErr = fmt.Errorf("stat %q: %w", string(ks), err)
			return
		}
		stats[string(ks)] = op
	})
	return stats, firstErr
}

// compileModOps compiles a perk's mods list: Modify(...) and
// Guaranteed(...) entries.
func compileModOps(tbl *lua.LTable) ([]types.ModOp, error) {
	if tbl == nil {
		return nil, nil
	}
	var out []types.ModOp
	for i := 1; i <= tbl.MaxN(); i++ {
		entry, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("mods[%d]: expected a Modify(...) or Guaranteed(...) entry", i)
		}
		modID := getString(entry, "mod")
		if modID == "" {
			return nil, fmt.Errorf("mods[%d]: missing mod id", i)
		}
		if getBool(entry, "guaranteed") {
			out = append(out, types.ModOp{ModID: modID, Guaranteed: true})
			continue
		}
		opTbl := getTable(entry, "op")
		if opTbl == nil {
			return nil, fmt.Errorf("mods[%d] (%s): missing op", i, modID)
		}
		op, err := compileStatOp(opTbl)
		if err != nil {
			return nil, fmt.Errorf("mods[%d] (%s): %w", i, modID, err)
		}
		out = append(out, types.ModOp{ModID: modID, Op: op})
	}
	return out, nil
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Tiers:  map[string]types.TierDef{},
		Things: map[string]types.ThingTemplate{},
		Sizes:  map[string]types.SizeDef{},
		Mods:   map[string]types.ModDef{},
		Perks:  map[string]types.PerkDef{},
		Sets:   map[string]types.SetDef{},
	}

	for _, raw := range coll.tiers {
		if _, dup := defs.Tiers[raw.id]; dup {
			return nil, fmt.Errorf("duplicate tier %q", raw.id)
		}
		defs.Tiers[raw.id] = compileTier(raw)
	}
	for _, raw := range coll.things {
		if _, dup := defs.Things[raw.id]; dup {
			return nil, fmt.Errorf("duplicate thing %q", raw.id)
		}
		defs.Things[raw.id] = compileThing(raw)
	}
	for _, raw := range coll.sizes {
		if _, dup := defs.Sizes[raw.id]; dup {
			return nil, fmt.Errorf("duplicate size %q", raw.id)
		}
		defs.Sizes[raw.id] = compileSize(raw)
	}
	for _, raw := range coll.mods {
		if _, dup := defs.Mods[raw.id]; dup {
			return nil, fmt.Errorf("duplicate mod %q", raw.id)
		}
		defs.Mods[raw.id] = compileMod(raw)
	}
	for _, raw := range coll.perks {
		if _, dup := defs.Perks[raw.id]; dup {
			return nil, fmt.Errorf("duplicate perk %q", raw.id)
		}
		perk, err := compilePerk(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling perk %s: %w", raw.id, err)
		}
		defs.Perks[raw.id] = perk
	}
	for _, raw := range coll.sets {
		if _, dup := defs.Sets[raw.id]; dup {
			return nil, fmt.Errorf("duplicate set %q", raw.id)
		}
		set, err := compileSet(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling set %s: %w", raw.id, err)
		}
		defs.Sets[raw.id] = set
	}

	if coll.rounds == nil {
		return nil, fmt.Errorf("no Rounds{} definition found")
	}
	defs.Rounds = compileRounds(coll.rounds)

	return defs, nil
}

func compileTier(raw rawDef) types.TierDef {
	return types.TierDef{
		ID:        raw.id,
		Name:      getString(raw.table, "name"),
		Order:     getInt(raw.table, "order", 0),
		BaseValue: getNumber(raw.table, "base_value", 0),
		Color:     getString(raw.table, "color"),
	}
}

func compileThing(raw rawDef) types.ThingTemplate {
	return types.ThingTemplate{
		ID:     raw.id,
		Name:   getString(raw.table, "name"),
		Tier:   getString(raw.table, "tier"),
		Value:  getNumber(raw.table, "value", 1),
		Offset: getNumber(raw.table, "offset", 0),
		Rarity: getNumber(raw.table, "rarity", 1),
		Color:  getString(raw.table, "color"),
	}
}

func compileSize(raw rawDef) types.SizeDef {
	return types.SizeDef{
		ID:     raw.id,
		Name:   getString(raw.table, "name"),
		Value:  getNumber(raw.table, "value", 1),
		Rarity: getNumber(raw.table, "rarity", 1),
	}
}

func compileMod(raw rawDef) types.ModDef {
	return types.ModDef{
		ID:           raw.id,
		Name:         getString(raw.table, "name"),
		Value:        getNumber(raw.table, "value", 0),
		Rarity:       getNumber(raw.table, "rarity", 1),
		RequiresPerk: getString(raw.table, "requires_perk"),
	}
}

func compilePerk(raw rawDef) (types.PerkDef, error) {
	tbl := raw.table
	perk := types.PerkDef{
		ID:       raw.id,
		Name:     getString(tbl, "name"),
		Cost:     getInt(tbl, "cost", 0),
		Tier:     getInt(tbl, "tier", 0),
		Requires: getString(tbl, "requires"),
		Dynamic:  getString(tbl, "dynamic"),
		BossOnly: getBool(tbl, "boss_only"),
		Props: types.PerkProps{
			StackLimit: getInt(tbl, "stack_limit", 0),
			Set:        getString(tbl, "set"),
			Conflicts:  toStringSlice(getTable(tbl, "conflicts")),
			ShopLimit:  getInt(tbl, "shop_limit", 0),
		},
		GuaranteedMods: toStringSlice(getTable(tbl, "guaranteed_mods")),
	}

	stats, err := compileStats(getTable(tbl, "stats"))
	if err != nil {
		return perk, err
	}
	perk.Stats = stats

	modOps, err := compileModOps(getTable(tbl, "mods"))
	if err != nil {
		return perk, err
	}
	perk.Mods = modOps

	if trigTbl := getTable(tbl, "trigger"); trigTbl != nil {
		trigger, err := compileTrigger(trigTbl)
		if err != nil {
			return perk, err
		}
		perk.Trigger = trigger
	}

	if forgeTbl := getTable(tbl, "forge"); forgeTbl != nil {
		perk.Forge = &types.ForgeRecipe{
			Consumes: toStringSlice(getTable(forgeTbl, "consumes")),
			Cost:     getInt(forgeTbl, "cost", 0),
		}
	}

	return perk, nil
}

func compileTrigger(tbl *lua.LTable) (*types.Trigger, error) {
	trigger := &types.Trigger{
		Stat:      getString(tbl, "stat"),
		Below:     getBool(tbl, "below"),
		Threshold: getNumber(tbl, "threshold", 0),
	}
	if trigger.Stat == "" {
		return nil, fmt.Errorf("trigger: missing stat")
	}
	stats, err := compileStats(getTable(tbl, "stats"))
	if err != nil {
		return nil, fmt.Errorf("trigger: %w", err)
	}
	trigger.Stats = stats
	return trigger, nil
}

func compileSet(raw rawDef) (types.SetDef, error) {
	set := types.SetDef{
		ID:         raw.id,
		Name:       getString(raw.table, "name"),
		Thresholds: map[int]map[string]types.StatOp{},
	}

	thTbl := getTable(raw.table, "thresholds")
	if thTbl == nil {
		return set, fmt.Errorf("set has no thresholds")
	}

	var firstErr error
	thTbl.ForEach(func(k, v lua.LValue) {
		if firstErr != nil {
			return
		}
		kn, ok := k.(lua.LNumber)
		if !ok {
			firstErr = fmt.Errorf("threshold key must be a piece count, got %s", k.Type())
			return
		}
		blockTbl, ok := v.(*lua.LTable)
		if !ok {
			firstErr = fmt.Errorf("threshold %d: expected a stat block", int(kn))
			return
		}
		block, err := compileStats(blockTbl)
		if err != nil {
			firstErr = fmt.Errorf("threshold %d: %w", int(kn), err)
			return
		}
		set.Thresholds[int(kn)] = block
	})
	return set, firstErr
}

func compileRounds(tbl *lua.LTable) types.RoundsDef {
	return types.RoundsDef{
		BaseRolls:        getInt(tbl, "base_rolls", 3),
		BaseReward:       getInt(tbl, "base_reward", 5),
		BossInterval:     getInt(tbl, "boss_interval", 0),
		BossCostBase:     getInt(tbl, "boss_cost_base", 0),
		BossCostPerRoute: getInt(tbl, "boss_cost_per_route", 0),
		BossOffers:       getInt(tbl, "boss_offers", 0),
		BossPicks:        getInt(tbl, "boss_picks", 0),
	}
}
