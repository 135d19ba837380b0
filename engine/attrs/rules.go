package attrs

import "github.com/nathoo/lootcore/types"

// PostRule is a pure snapshot rewrite registered for one perk id. Rules run
// in declaration order after the per-perk and set-bonus passes, and rewrite
// only the fields they claim ownership of.
type PostRule struct {
	Perk  string
	Apply func(s *Snapshot, ctx Context)
}

// postRules is the ordered post-processing pipeline. Ordering matters:
// a conversion reads whatever the rules before it left behind.
var postRules = []PostRule{
	// Wishing star: all accumulated luck becomes rolls, 1:1.
	{Perk: "wishing_star", Apply: func(s *Snapshot, ctx Context) {
		luck := s.Value(FieldLuck)
		if luck <= 0 {
			return
		}
		s.SetValue(FieldRolls, s.Value(FieldRolls)+luck)
		s.SetValue(FieldLuck, 0)
	}},

	// Falling star: bonus rolls become luck, but at least one bonus roll
	// always survives the conversion when any were present.
	{Perk: "falling_star", Apply: func(s *Snapshot, ctx Context) {
		rolls := s.Value(FieldRolls)
		if rolls <= 1 {
			return
		}
		s.SetValue(FieldLuck, s.Value(FieldLuck)+rolls-1)
		s.SetValue(FieldRolls, 1)
	}},
}

// dynamicHooks computes contributions for perks whose scaling is a function
// of run context rather than a static stat table. The catalog names the
// hook via the perk's dynamic property.
var dynamicHooks = map[string]func(s *Snapshot, n int, ctx Context){
	// +1 luck per 100 chips earned this run, per stack.
	"chip_hoard": func(s *Snapshot, n int, ctx Context) {
		bonus := float64(ctx.Stats.ChipsEarned/100) * float64(n)
		if bonus > 0 {
			s.Apply(FieldLuck, types.StatOp{Kind: types.OpAdd, Value: bonus}, 1)
		}
	},

	// Cash reward grows with elapsed rounds: +1 add_cash per 3 rounds,
	// per stack.
	"round_veteran": func(s *Snapshot, n int, ctx Context) {
		bonus := float64(ctx.Round/3) * float64(n)
		if bonus > 0 {
			s.Apply(FieldAddCash, types.StatOp{Kind: types.OpAdd, Value: bonus}, 1)
		}
	},
}
