package engine

import (
	"fmt"
	"strings"

	"github.com/nathoo/lootcore/engine/attrs"
	"github.com/nathoo/lootcore/engine/state"
	"github.com/nathoo/lootcore/types"
)

// Verb aliases for the command layer. Intentionally dumb: no NLP, just a
// lookup before dispatch.
var verbAliases = map[string]string{
	"r":    "roll",
	"spin": "roll",

	"cashout": "sell",
	"cash":    "sell",

	"store":  "shop",
	"perks":  "shop",
	"market": "shop",

	"purchase": "buy",
	"b":        "buy",

	"combine": "forge",
	"craft":   "forge",

	"next":    "advance",
	"n":       "advance",
	"proceed": "advance",

	"choose": "pick",
	"claim":  "pick",
	"take":   "pick",

	"stat": "status",
	"st":   "status",

	"inv": "inventory",
	"i":   "inventory",

	"attributes": "attrs",
	"a":          "attrs",
}

// Step processes one player command and returns the result. Every
// mutation happens through the typed engine operations; Step only parses,
// resolves names, dispatches, and formats.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	e.State.CommandLog = append(e.State.CommandLog, input)

	words := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(words) == 0 {
		result.Output = append(result.Output, "What do you want to do? (try: roll, sell, shop, buy, advance)")
		return result
	}

	verb := words[0]
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}
	arg := strings.Join(words[1:], " ")

	switch verb {
	case "roll":
		return e.stepRoll()
	case "sell":
		return e.stepSell()
	case "shop":
		return e.stepShop()
	case "buy":
		return e.stepBuy(arg)
	case "forge":
		return e.stepForge(arg)
	case "advance":
		return e.stepAdvance()
	case "pick":
		return e.stepPick(arg)
	case "status":
		return e.stepStatus()
	case "inventory":
		return e.stepInventory()
	case "attrs":
		return e.stepAttrs()
	default:
		result.Output = append(result.Output, fmt.Sprintf("Unknown command %q. Try: roll, sell, shop, buy, forge, advance, pick, status, inventory, attrs.", verb))
		return result
	}
}

func (e *Engine) stepRoll() types.Result {
	var result types.Result

	thing, res := e.Roll()
	result.Output = append(result.Output, res.Message)
	if !res.Success {
		return result
	}

	if thing.Size != "" || len(thing.Mods) > 0 {
		result.Output = append(result.Output, describeThing(e.Defs, thing))
	}
	result.Events = append(result.Events, types.Event{Type: "roll", Data: map[string]any{
		"template": thing.Template,
		"tier":     thing.Tier,
		"value":    thing.Value,
		"size":     thing.Size,
		"mods":     thing.Mods,
	}})
	return result
}

func (e *Engine) stepSell() types.Result {
	var result types.Result

	count := len(e.State.Inventory)
	chips, res := e.SellAll()
	result.Output = append(result.Output, res.Message)
	if res.Success {
		result.Events = append(result.Events, types.Event{Type: "sell", Data: map[string]any{
			"count": count,
			"chips": chips,
		}})
	}
	return result
}

func (e *Engine) stepShop() types.Result {
	var result types.Result

	result.Output = append(result.Output, fmt.Sprintf("Shop (cash: %d)", e.State.Cash))
	for _, id := range e.Defs.PerkOrder {
		def := e.Defs.Perks[id]
		if def.BossOnly {
			continue
		}
		result.Output = append(result.Output, shopLine(e.State, def))
	}
	return result
}

// shopLine formats one shop row: name, cost, ownership, affordability.
func shopLine(s *types.RunState, def types.PerkDef) string {
	line := fmt.Sprintf("  %-24s %4d cash", def.Name, def.Cost)

	n := state.PerkCount(s, def.ID)
	limit := state.StackLimit(def)
	switch {
	case n >= limit && limit == 1:
		line += "  [owned]"
	case n > 0:
		line += fmt.Sprintf("  [owned %d/%d]", n, limit)
	case s.Cash < def.Cost:
		line += "  [can't afford]"
	}
	if def.Forge != nil {
		line += "  [forge]"
	}
	return line
}

func (e *Engine) stepBuy(name string) types.Result {
	var result types.Result

	id, err := e.resolvePerk(name, func(def types.PerkDef) bool { return !def.BossOnly })
	if err != nil {
		result.Output = append(result.Output, err.Error())
		return result
	}
	res := e.PurchasePerk(id)
	result.Output = append(result.Output, res.Message)
	if res.Success {
		result.Events = append(result.Events, types.Event{Type: "purchase", Data: map[string]any{"perk": id}})
	}
	return result
}

func (e *Engine) stepForge(name string) types.Result {
	var result types.Result

	id, err := e.resolvePerk(name, func(def types.PerkDef) bool { return def.Forge != nil })
	if err != nil {
		result.Output = append(result.Output, err.Error())
		return result
	}
	res := e.ForgePerk(id)
	result.Output = append(result.Output, res.Message)
	if res.Success {
		result.Events = append(result.Events, types.Event{Type: "forge", Data: map[string]any{"perk": id}})
	}
	return result
}

func (e *Engine) stepAdvance() types.Result {
	var result types.Result

	completed := e.State.Round
	res := e.AdvanceRound()
	result.Output = append(result.Output, res.Message)
	if !res.Success {
		return result
	}

	result.Events = append(result.Events, types.Event{Type: "advance", Data: map[string]any{
		"completed": completed,
		"round":     e.State.Round,
	}})
	if res.BossReward {
		result.Output = append(result.Output, e.bossOfferLines()...)
		result.Events = append(result.Events, types.Event{Type: "boss_offer", Data: map[string]any{
			"offers": e.State.BossOffers,
			"picks":  e.State.BossPicksLeft,
		}})
	}
	return result
}

func (e *Engine) stepPick(name string) types.Result {
	var result types.Result

	if e.State.BossPicksLeft <= 0 {
		result.Output = append(result.Output, "No boss reward is pending.")
		return result
	}
	id, err := e.resolvePerk(name, func(def types.PerkDef) bool {
		for _, offered := range e.State.BossOffers {
			if offered == def.ID {
				return true
			}
		}
		return false
	})
	if err != nil {
		result.Output = append(result.Output, err.Error())
		return result
	}
	res := e.ChooseBossPerk(id)
	result.Output = append(result.Output, res.Message)
	if res.Success {
		result.Events = append(result.Events, types.Event{Type: "boss_pick", Data: map[string]any{"perk": id}})
		if e.State.BossPicksLeft > 0 {
			result.Output = append(result.Output, e.bossOfferLines()...)
		}
	}
	return result
}

func (e *Engine) bossOfferLines() []string {
	lines := []string{fmt.Sprintf("Boss offers (%d pick(s) left):", e.State.BossPicksLeft)}
	for _, id := range e.State.BossOffers {
		lines = append(lines, "  "+e.perkName(id))
	}
	return lines
}

func (e *Engine) stepStatus() types.Result {
	var result types.Result
	snap := e.Attributes()

	nextCost := e.roundCost(e.State.Round + 1)
	result.Output = append(result.Output,
		fmt.Sprintf("Round %d  chips %d  cash %d", e.State.Round, e.State.Chips, e.State.Cash),
		fmt.Sprintf("Rolls %d/%d  interest %d  next round costs %d chips",
			e.State.RollsUsed, e.AvailableRolls(snap), e.ledger.InterestStacks(snap), nextCost),
	)
	if e.State.BadLuckStreak > 0 {
		result.Output = append(result.Output, fmt.Sprintf("Bad-luck streak: %d", e.State.BadLuckStreak))
	}
	if len(e.State.Perks) > 0 {
		var owned []string
		for _, id := range e.Defs.PerkOrder {
			if n := state.PerkCount(e.State, id); n > 0 {
				label := e.perkName(id)
				if n > 1 {
					label = fmt.Sprintf("%s x%d", label, n)
				}
				owned = append(owned, label)
			}
		}
		result.Output = append(result.Output, "Perks: "+strings.Join(owned, ", "))
	}
	return result
}

func (e *Engine) stepInventory() types.Result {
	var result types.Result

	if len(e.State.Inventory) == 0 {
		result.Output = append(result.Output, "Your inventory is empty.")
		return result
	}
	for _, thing := range e.State.Inventory {
		result.Output = append(result.Output, describeThing(e.Defs, thing))
	}
	return result
}

func (e *Engine) stepAttrs() types.Result {
	var result types.Result
	snap := e.Attributes()

	result.Output = append(result.Output,
		fmt.Sprintf("rolls        %d", e.AvailableRolls(snap)),
		fmt.Sprintf("luck         %g", snap.Value(attrs.FieldLuck)),
		fmt.Sprintf("mod chance   %g", 1+snap.Value(attrs.FieldModChance)),
		fmt.Sprintf("value bonus  %g", snap.Value(attrs.FieldValueBonus)),
		fmt.Sprintf("interest cap %d", snap.MaxInterestStacks()),
	)
	if guaranteed := snap.GuaranteedMods(); len(guaranteed) > 0 {
		result.Output = append(result.Output, "guaranteed mods: "+strings.Join(guaranteed, ", "))
	}
	return result
}

// describeThing formats one rolled thing for display.
func describeThing(defs *state.Defs, thing types.RolledThing) string {
	name := thing.Name
	if size, ok := defs.Sizes[thing.Size]; ok && size.Name != "" {
		name = size.Name + " " + name
	}
	line := fmt.Sprintf("#%d %s (%s) worth %d", thing.ID, name, thing.Tier, thing.Value)
	if len(thing.Mods) > 0 {
		var names []string
		for _, id := range thing.Mods {
			if def, ok := defs.Mods[id]; ok && def.Name != "" {
				names = append(names, def.Name)
			} else {
				names = append(names, id)
			}
		}
		line += " [" + strings.Join(names, ", ") + "]"
	}
	return line
}

// resolvePerk maps a typed perk name to a catalog id: exact id, underscore
// normalization, exact display name, then word-based partial match against
// display names. Only perks passing the eligibility filter participate.
func (e *Engine) resolvePerk(name string, eligible func(types.PerkDef) bool) (string, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return "", fmt.Errorf("which perk?")
	}

	if def, ok := e.Defs.Perks[name]; ok && eligible(def) {
		return name, nil
	}
	normalized := strings.ReplaceAll(name, " ", "_")
	if def, ok := e.Defs.Perks[normalized]; ok && eligible(def) {
		return normalized, nil
	}

	var matches []string
	for _, id := range e.Defs.PerkOrder {
		def := e.Defs.Perks[id]
		if !eligible(def) {
			continue
		}
		display := strings.ToLower(def.Name)
		if display == name {
			return id, nil
		}
		for _, word := range strings.Fields(display) {
			if word == name {
				matches = append(matches, id)
				break
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no perk matches %q", name)
	case 1:
		return matches[0], nil
	default:
		var names []string
		for _, id := range matches {
			names = append(names, e.perkName(id))
		}
		return "", fmt.Errorf("which perk? (%s)", strings.Join(names, ", "))
	}
}
