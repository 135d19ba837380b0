// Package engine provides the run controller that wires together the rng
// streams, roller, modification resolver, attribute aggregator, and
// currency ledger into player-facing operations.
package engine

import (
	"fmt"

	"github.com/nathoo/lootcore/engine/attrs"
	"github.com/nathoo/lootcore/engine/economy"
	"github.com/nathoo/lootcore/engine/mods"
	"github.com/nathoo/lootcore/engine/roll"
	"github.com/nathoo/lootcore/engine/state"
	"github.com/nathoo/lootcore/types"
)

// Stream labels. Each gameplay concern draws from its own stream so that
// one draw never shifts another concern's sequence.
const (
	StreamLoot = "loot"
	StreamMods = "mods"
	StreamLuck = "luck"
	StreamBoss = "boss"
)

const (
	// luckyRollChance is the per-point-of-luck probability of an entire
	// second roll pass, keeping the higher-valued result.
	luckyRollChance = 0.05

	// Tier override shaping: luck and the bad-luck streak each boost the
	// selection weight of tiers at or above pityTierOrder.
	luckTierBoost = 0.1
	pityTierBoost = 0.05
	pityTierOrder = 2
)

// Engine owns the run state and is the only mutator of it. All player
// operations return an OpResult; failure means the state was untouched.
type Engine struct {
	Defs    *state.Defs
	State   *types.RunState
	Streams *Streams

	roller   *roll.Roller
	resolver *mods.Resolver
	agg      *attrs.Aggregator
	ledger   *economy.Ledger
}

// New creates an engine for a fresh run with the given seed.
func New(defs *state.Defs, seed uint32) *Engine {
	s := state.NewState(seed)
	return &Engine{
		Defs:     defs,
		State:    s,
		Streams:  NewStreams(seed),
		roller:   roll.New(defs),
		resolver: mods.New(defs),
		agg:      attrs.New(defs),
		ledger:   economy.NewLedger(s),
	}
}

// RestoreStreams re-derives all streams from a seed and advances each to
// its saved position, reproducing the exact pre-save stream states.
func (e *Engine) RestoreStreams(seed uint32, positions map[string]int64) {
	e.Streams = NewStreams(seed)
	e.Streams.Restore(positions)
}

// Attributes computes the current attributes snapshot. It is recomputed on
// every call; nothing is memoized across perk purchases.
func (e *Engine) Attributes() *attrs.Snapshot {
	return e.agg.Aggregate(e.State.Perks, e.State.Round, e.State.Stats)
}

// AvailableRolls returns the roll allowance for the current round.
func (e *Engine) AvailableRolls(snap *attrs.Snapshot) int {
	return e.Defs.Rounds.BaseRolls + int(snap.Value(attrs.FieldRolls))
}

// Roll consumes one roll: selects a base thing, resolves its size and
// mods, and adds it to the inventory. Luck may grant an entire second
// pass, keeping whichever result is worth more.
func (e *Engine) Roll() (types.RolledThing, types.OpResult) {
	snap := e.Attributes()
	avail := e.AvailableRolls(snap)
	if e.State.RollsUsed >= avail {
		return types.RolledThing{}, fail("No rolls left this round. Sell your haul or advance.")
	}

	luck := snap.Value(attrs.FieldLuck)
	thing, ok := e.rollOnce(snap, luck)
	if !ok {
		return types.RolledThing{}, fail("There is nothing left to roll.")
	}

	if p := luck * luckyRollChance; p > 0 && e.Streams.Get(StreamLuck).Float64() < p {
		if second, ok := e.rollOnce(snap, luck); ok && second.Value > thing.Value {
			thing = second
		}
	}

	e.State.NextThingID++
	thing.ID = e.State.NextThingID
	e.State.RollsUsed++
	e.State.Stats.TotalRolls++

	if e.Defs.Tiers[thing.Tier].Order >= pityTierOrder {
		e.State.BadLuckStreak = 0
	} else {
		e.State.BadLuckStreak++
	}

	e.State.Inventory = append(e.State.Inventory, thing)
	return thing, succeed(fmt.Sprintf("Rolled %s (%s, %d).", thing.Name, thing.Tier, thing.Value))
}

// rollOnce performs one full roll + modification pass.
func (e *Engine) rollOnce(snap *attrs.Snapshot, luck float64) (types.RolledThing, bool) {
	thing, ok := e.roller.Roll(e.State.Round, e.Streams.Get(StreamLoot), e.tierOverride(luck))
	if !ok {
		return thing, false
	}
	e.resolver.Apply(&thing, e.Streams.Get(StreamMods), mods.Options{
		ChanceBoost: 1 + snap.Value(attrs.FieldModChance),
		Luck:        luck,
		Guaranteed:  snap.GuaranteedMods(),
		RarityMult:  snap.ModifierWeight,
		ValueBonus:  snap.Value(attrs.FieldValueBonus),
		HasPerk:     func(id string) bool { return state.HasPerk(e.State, id) },
	})
	return thing, true
}

// tierOverride boosts rare-plus tier weights from luck and the bad-luck
// streak. Nil when there is nothing to boost, leaving the base table as is.
func (e *Engine) tierOverride(luck float64) map[string]float64 {
	boost := luck*luckTierBoost + float64(e.State.BadLuckStreak)*pityTierBoost
	if boost <= 0 {
		return nil
	}
	base := e.roller.TierWeights(e.State.Round)
	override := make(map[string]float64)
	for id, w := range base {
		if e.Defs.Tiers[id].Order >= pityTierOrder {
			override[id] = w * (1 + boost)
		}
	}
	return override
}

// SellAll converts the whole inventory into chips.
func (e *Engine) SellAll() (int, types.OpResult) {
	if len(e.State.Inventory) == 0 {
		return 0, fail("Nothing to sell.")
	}

	snap := e.Attributes()
	total := 0
	for _, thing := range e.State.Inventory {
		total += economy.SellValue(thing.Value, snap)
	}
	sold := len(e.State.Inventory)

	e.ledger.AddChips(total)
	e.State.Stats.ThingsSold += sold
	e.State.Inventory = e.State.Inventory[:0]
	return total, succeed(fmt.Sprintf("Sold %d things for %d chips.", sold, total))
}

// PurchasePerk buys one stack of a perk with cash. The checks run in a
// fixed order — not found, boss-only, conflict, stack limit, requirement,
// funds — and any failure leaves the state untouched.
func (e *Engine) PurchasePerk(id string) types.OpResult {
	def, ok := e.Defs.Perks[id]
	if !ok {
		return fail(fmt.Sprintf("No perk named %q.", id))
	}
	if def.BossOnly {
		return fail(fmt.Sprintf("%s is only offered as a boss reward.", def.Name))
	}
	for _, c := range def.Props.Conflicts {
		if state.HasPerk(e.State, c) {
			return fail(fmt.Sprintf("%s conflicts with %s.", def.Name, e.perkName(c)))
		}
	}
	n := state.PerkCount(e.State, id)
	if limit := state.StackLimit(def); n >= limit {
		if limit == 1 {
			return fail(fmt.Sprintf("You already own %s.", def.Name))
		}
		return fail(fmt.Sprintf("%s is at its stack limit (%d).", def.Name, limit))
	}
	if def.Requires != "" && !state.HasPerk(e.State, def.Requires) {
		return fail(fmt.Sprintf("%s requires %s first.", def.Name, e.perkName(def.Requires)))
	}
	if !e.ledger.SpendCash(def.Cost) {
		return fail(fmt.Sprintf("Not enough cash for %s (%d needed, %d held).", def.Name, def.Cost, e.ledger.Cash()))
	}

	e.State.Perks[id] = n + 1
	return succeed(fmt.Sprintf("Bought %s for %d cash.", def.Name, def.Cost))
}

// ForgePerk upgrades owned perks into a forged perk per its recipe. All
// checks pass before any consumption happens.
func (e *Engine) ForgePerk(id string) types.OpResult {
	def, ok := e.Defs.Perks[id]
	if !ok {
		return fail(fmt.Sprintf("No perk named %q.", id))
	}
	if def.Forge == nil {
		return fail(fmt.Sprintf("%s cannot be forged.", def.Name))
	}
	n := state.PerkCount(e.State, id)
	if limit := state.StackLimit(def); n >= limit {
		return fail(fmt.Sprintf("You already own %s.", def.Name))
	}

	// A recipe may consume multiple stacks of the same perk.
	need := map[string]int{}
	for _, c := range def.Forge.Consumes {
		need[c]++
	}
	for c, count := range need {
		if state.PerkCount(e.State, c) < count {
			return fail(fmt.Sprintf("Forging %s needs %s.", def.Name, e.perkName(c)))
		}
	}
	if e.ledger.Cash() < def.Forge.Cost {
		return fail(fmt.Sprintf("Not enough cash to forge %s (%d needed, %d held).", def.Name, def.Forge.Cost, e.ledger.Cash()))
	}

	for c, count := range need {
		left := e.State.Perks[c] - count
		if left <= 0 {
			delete(e.State.Perks, c)
		} else {
			e.State.Perks[c] = left
		}
	}
	e.ledger.SpendCash(def.Forge.Cost)
	e.State.Perks[id] = n + 1
	return succeed(fmt.Sprintf("Forged %s.", def.Name))
}

// AdvanceRound completes the current round and enters the next one. The
// chip cost check happens before any mutation; on failure the round, the
// balances, and the inventory are all unchanged. Completing a boss round
// opens the boss-reward flow, which must be fully consumed before the run
// can advance again.
func (e *Engine) AdvanceRound() types.OpResult {
	if e.State.BossPicksLeft > 0 {
		return fail(fmt.Sprintf("Pick your boss reward first (%d left).", e.State.BossPicksLeft))
	}

	next := e.State.Round + 1
	cost := e.roundCost(next)
	if !e.ledger.SpendChips(cost) {
		return fail(fmt.Sprintf("Entering round %d costs %d chips; you have %d.", next, cost, e.ledger.Chips()))
	}

	snap := e.Attributes()
	breakdown := e.ledger.CompleteRoundReward(e.Defs.Rounds.BaseReward, snap)
	res := succeed(fmt.Sprintf("Round %d complete: +%d cash (%d base, %d interest).",
		e.State.Round, breakdown.Total, breakdown.Base, breakdown.Interest))

	if e.isBossRound(e.State.Round) {
		e.offerBossPerks()
		e.State.RouteIndex++
		if e.State.BossPicksLeft > 0 {
			res.BossReward = true
			res.Message += " The boss yields: choose your reward."
		}
	}

	e.State.Round = next
	e.ledger.ResetChips()
	e.State.RollsUsed = 0
	return res
}

// ChooseBossPerk consumes one pending boss-reward pick.
func (e *Engine) ChooseBossPerk(id string) types.OpResult {
	if e.State.BossPicksLeft <= 0 {
		return fail("No boss reward is pending.")
	}
	idx := -1
	for i, offered := range e.State.BossOffers {
		if offered == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fail(fmt.Sprintf("%s is not among the boss offers.", e.perkName(id)))
	}

	e.State.Perks[id]++
	e.State.BossOffers = append(e.State.BossOffers[:idx], e.State.BossOffers[idx+1:]...)
	e.State.BossPicksLeft--

	msg := fmt.Sprintf("Claimed %s.", e.perkName(id))
	if e.State.BossPicksLeft == 0 {
		e.State.BossOffers = nil
		msg += " The boss reward is settled."
	}
	return succeed(msg)
}

// roundCost returns the chip entry cost for a round.
func (e *Engine) roundCost(round int) int {
	if e.isBossRound(round) {
		return economy.BossRoundCost(e.Defs.Rounds, e.State.RouteIndex)
	}
	return economy.NormalRoundCost(round)
}

// isBossRound reports whether a round number lands on the boss interval.
func (e *Engine) isBossRound(round int) bool {
	interval := e.Defs.Rounds.BossInterval
	return interval > 0 && round%interval == 0
}

// offerBossPerks draws the boss-reward offers from the boss-only perk
// pool, excluding perks already at their stack limit. Draw order comes
// from the dedicated boss stream.
func (e *Engine) offerBossPerks() {
	pool := make([]roll.Candidate, 0)
	for _, id := range e.Defs.PerkOrder {
		def := e.Defs.Perks[id]
		if !def.BossOnly {
			continue
		}
		if state.PerkCount(e.State, id) >= state.StackLimit(def) {
			continue
		}
		pool = append(pool, roll.Candidate{ID: id, Weight: 1})
	}

	src := e.Streams.Get(StreamBoss)
	offers := make([]string, 0, e.Defs.Rounds.BossOffers)
	for len(offers) < e.Defs.Rounds.BossOffers && len(pool) > 0 {
		id, ok := roll.Pick(src, pool)
		if !ok {
			break
		}
		offers = append(offers, id)
		for i, c := range pool {
			if c.ID == id {
				pool = append(pool[:i], pool[i+1:]...)
				break
			}
		}
	}

	e.State.BossOffers = offers
	picks := e.Defs.Rounds.BossPicks
	if picks > len(offers) {
		picks = len(offers)
	}
	e.State.BossPicksLeft = picks
}

// perkName returns the display name for a perk id, falling back to the id
// for catalog misses.
func (e *Engine) perkName(id string) string {
	if def, ok := e.Defs.Perks[id]; ok {
		return def.Name
	}
	return id
}

func fail(msg string) types.OpResult {
	return types.OpResult{Success: false, Message: msg}
}

func succeed(msg string) types.OpResult {
	return types.OpResult{Success: true, Message: msg}
}
