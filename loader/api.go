package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerOpHelpers(L)
}

// curried registers a "Name 'id' { ... }" constructor appending to dst.
func curried(L *lua.LState, name string, dst *[]rawDef) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			*dst = append(*dst, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Tier "id" { name = "...", order = 0, base_value = 10, color = "..." }
	curried(L, "Tier", &coll.tiers)

	// Thing "id" { name = "...", tier = "...", value = 1, offset = 0, rarity = 1 }
	curried(L, "Thing", &coll.things)

	// Size "id" { name = "...", value = 1.5, rarity = 4 }
	curried(L, "Size", &coll.sizes)

	// Mod "id" { name = "...", value = 0.5, rarity = 5, requires_perk = "..." }
	curried(L, "Mod", &coll.mods)

	// Perk "id" { name = "...", cost = 10, stats = { luck = Add(1) }, ... }
	curried(L, "Perk", &coll.perks)

	// Set "id" { name = "...", thresholds = { [2] = { luck = Add(1) } } }
	curried(L, "Set", &coll.sets)

	// Rounds { base_rolls = 3, base_reward = 5, boss_interval = 3, ... }
	L.SetGlobal("Rounds", L.NewFunction(func(L *lua.LState) int {
		coll.rounds = L.CheckTable(1)
		return 0
	}))

	// Trigger { stat = "...", below = true, threshold = 100, stats = {...} }
	// and Forge { consumes = {...}, cost = 5 } — pass-through, return the table.
	passthrough := func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}
	L.SetGlobal("Trigger", L.NewFunction(passthrough))
	L.SetGlobal("Forge", L.NewFunction(passthrough))
}

// opTable builds a tagged stat-op table {op = kind, value = x}.
func opTable(L *lua.LState, kind string, value lua.LNumber) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("op", lua.LString(kind))
	tbl.RawSetString("value", value)
	return tbl
}

func registerOpHelpers(L *lua.LState) {
	op := func(kind string) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			L.Push(opTable(L, kind, L.CheckNumber(1)))
			return 1
		})
	}

	// Add(x), Sub(x), Multi(x), Div(x), SetTo(x) — typed stat operations.
	L.SetGlobal("Add", op("add"))
	L.SetGlobal("Sub", op("sub"))
	L.SetGlobal("Multi", op("multi"))
	L.SetGlobal("Div", op("div"))
	L.SetGlobal("SetTo", op("set"))

	// Modify("mod_id", Multi(0.5)) — adjust one mod's selection weight.
	L.SetGlobal("Modify", L.NewFunction(func(L *lua.LState) int {
		modID := L.CheckString(1)
		opTbl := L.CheckTable(2)
		tbl := L.NewTable()
		tbl.RawSetString("mod", lua.LString(modID))
		tbl.RawSetString("op", opTbl)
		L.Push(tbl)
		return 1
	}))

	// Guaranteed("mod_id") — the mod always applies to rolled things.
	L.SetGlobal("Guaranteed", L.NewFunction(func(L *lua.LState) int {
		modID := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("mod", lua.LString(modID))
		tbl.RawSetString("guaranteed", lua.LTrue)
		L.Push(tbl)
		return 1
	}))
}
