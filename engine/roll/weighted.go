package roll

// Source is the minimal random stream contract the roll and modification
// packages consume. engine.Stream satisfies it.
type Source interface {
	Float64() float64
}

// Candidate pairs an id with its effective selection weight.
type Candidate struct {
	ID     string
	Weight float64
}

// Pick returns the id chosen by weighted random selection: draw
// r = src()*total, walk the candidates subtracting each weight, and select
// the first candidate where the running remainder drops to or below zero.
// Candidates with non-positive weight never win. If the total weight is
// zero the first candidate is returned deterministically; an empty list
// returns ("", false). No draw is consumed in either fallback case.
func Pick(src Source, candidates []Candidate) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	total := 0.0
	for _, c := range candidates {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total <= 0 {
		return candidates[0].ID, true
	}

	r := src.Float64() * total
	for _, c := range candidates {
		if c.Weight <= 0 {
			continue
		}
		r -= c.Weight
		if r <= 0 {
			return c.ID, true
		}
	}
	// Float round-off can leave a sliver; the last positive candidate wins.
	for i := len(candidates) - 1; i >= 0; i-- {
		if candidates[i].Weight > 0 {
			return candidates[i].ID, true
		}
	}
	return candidates[0].ID, true
}
