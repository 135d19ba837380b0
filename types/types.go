// Package types defines the shared data structures for the LootCore engine.
// This package contains only type definitions — no logic, no methods.
package types

// OpKind enumerates the closed set of stat operation variants.
type OpKind uint8

const (
	OpAdd OpKind = iota
	OpSub
	OpMulti
	OpDiv
	OpSet
)

// StatOp is a single typed operation applied to one snapshot field.
type StatOp struct {
	Kind  OpKind
	Value float64
}

// ModOp is the "modify" sub-schema: an operation scoped to one mod id.
// Guaranteed appends the mod to the guaranteed list instead of touching
// its selection weight.
type ModOp struct {
	ModID      string
	Guaranteed bool
	Op         StatOp // weight adjustment when Guaranteed is false
}

// TierDef is one ordered rarity bucket for rolled things.
type TierDef struct {
	ID        string
	Name      string
	Order     int // 0 = most common, ascending toward rarest
	BaseValue float64
	Color     string
}

// ThingTemplate is one static catalog entry for a rollable thing.
type ThingTemplate struct {
	ID     string
	Name   string
	Tier   string
	Value  float64 // multiplier applied to the tier base value
	Offset float64 // flat value offset
	Rarity float64 // per-template selection weight within its tier
	Color  string
}

// SizeDef is a size/quality attribute applied to every rolled thing.
type SizeDef struct {
	ID     string
	Name   string
	Value  float64 // value multiplier contribution
	Rarity float64 // selection rarity score (higher = rarer)
}

// ModDef is one modification that can attach to a rolled thing.
type ModDef struct {
	ID           string
	Name         string
	Value        float64 // signed value contribution
	Rarity       float64 // selection rarity score; 0 disables the mod
	RequiresPerk string  // owning this perk gates the mod in
}

// RolledThing is a template instantiation produced by a roll.
type RolledThing struct {
	ID        int      `json:"id"`
	Template  string   `json:"template"`
	Name      string   `json:"name"`
	Tier      string   `json:"tier"`
	Value     int      `json:"value"`
	BaseValue int      `json:"base_value"`
	Size      string   `json:"size,omitempty"`
	Mods      []string `json:"mods,omitempty"`
	ModValue  float64  `json:"mod_value"`
}

// PerkProps holds the stacking and shop behavior of a perk.
type PerkProps struct {
	StackLimit int      // 0 = not stackable (normalized to limit 1)
	Set        string   // named set this perk counts toward
	Conflicts  []string // mutually exclusive perk ids
	ShopLimit  int      // max offers per shop refresh; 0 = no limit
}

// Trigger is a conditional bonus: while the tracked stat is on the given
// side of the threshold, the extra stat block applies once.
type Trigger struct {
	Stat      string // run-stat name, e.g. "chips_earned"
	Below     bool   // true: fires while stat < threshold; false: while >=
	Threshold float64
	Stats     map[string]StatOp
}

// ForgeRecipe upgrades a set of owned perks into this perk.
type ForgeRecipe struct {
	Consumes []string // perk ids removed on forge
	Cost     int      // cash cost on top of the consumed perks
}

// PerkDef is one purchasable perk (augment) in the catalog.
type PerkDef struct {
	ID             string
	Name           string
	Cost           int
	Tier           int
	Stats          map[string]StatOp
	Mods           []ModOp
	Props          PerkProps
	Requires       string // perk id that must be owned before purchase
	Trigger        *Trigger
	Forge          *ForgeRecipe
	GuaranteedMods []string
	Dynamic        string // named hook for non-table-driven scaling
	BossOnly       bool   // offered only in boss reward picks
}

// SetDef maps piece-count thresholds to bonus stat blocks. Thresholds are
// independent and cumulative: reaching 4 also applies the 2-piece bonus.
type SetDef struct {
	ID         string
	Name       string
	Thresholds map[int]map[string]StatOp
}

// RoundsDef holds the round and boss progression constants.
type RoundsDef struct {
	BaseRolls        int // rolls available per round before perks
	BaseReward       int // cash reward base for completing a round
	BossInterval     int // every Nth round is a boss round
	BossCostBase     int
	BossCostPerRoute int
	BossOffers       int // perks offered after a boss round
	BossPicks        int // picks that must be consumed
}

// RunStats tracks running totals consumed by triggers and dynamic perks.
type RunStats struct {
	ChipsEarned int `json:"chips_earned"`
	CashEarned  int `json:"cash_earned"`
	ThingsSold  int `json:"things_sold"`
	TotalRolls  int `json:"total_rolls"`
}

// RunState is the complete mutable state of one play session.
type RunState struct {
	Seed          uint32         `json:"seed"`
	Round         int            `json:"round"`
	RollsUsed     int            `json:"rolls_used"`
	BadLuckStreak int            `json:"bad_luck_streak"`
	Chips         int            `json:"chips"`
	Cash          int            `json:"cash"`
	BonusInterest int            `json:"bonus_interest"`
	RouteIndex    int            `json:"route_index"`
	Perks         map[string]int `json:"perks"` // perk id → stack count
	Inventory     []RolledThing  `json:"inventory"`
	Stats         RunStats       `json:"stats"`
	BossOffers    []string       `json:"boss_offers,omitempty"`
	BossPicksLeft int            `json:"boss_picks_left"`
	NextThingID   int            `json:"next_thing_id"`
	CommandLog    []string       `json:"command_log"`
}

// OpResult is the outcome of a player-facing operation. Failure means the
// operation was a no-op on state.
type OpResult struct {
	Success    bool
	Message    string
	BossReward bool // AdvanceRound entered the boss-reward flow
}

// RewardBreakdown itemizes a round-completion cash reward.
type RewardBreakdown struct {
	Base     int
	Interest int
	Total    int
}

// Event is emitted by engine operations for trace output.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single Step command.
type Result struct {
	Output []string
	Events []Event
}
