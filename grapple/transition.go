package grapple

import "math/rand"

// TransitionContext is the fight state transition conditions are checked
// against. HP values are normalized to [0, 1].
type TransitionContext struct {
	Elapsed        float64
	AttackerHP     float64
	DefenderHP     float64
	AttackerDebuff int
	DefenderDebuff int
}

func (c Condition) Allows(ctx TransitionContext) bool {
	if c.Elapsed != nil && !c.Elapsed.Contains(ctx.Elapsed) {
		return false
	}
	if c.AttackerHP != nil && !c.AttackerHP.Contains(ctx.AttackerHP) {
		return false
	}
	if c.DefenderHP != nil && !c.DefenderHP.Contains(ctx.DefenderHP) {
		return false
	}
	if c.AttackerDebuffMin != nil && ctx.AttackerDebuff < *c.AttackerDebuffMin {
		return false
	}
	if c.DefenderDebuffMin != nil && ctx.DefenderDebuff < *c.DefenderDebuffMin {
		return false
	}
	return true
}

// PickTransition draws one follow-up move id, weighted among the
// transitions whose condition holds. rng may be nil.
func PickTransition(move *Move, ctx TransitionContext, rng *rand.Rand) (string, bool) {
	if move == nil {
		return "", false
	}
	var total float64
	for _, tr := range move.Transitions {
		if tr.Weight > 0 && tr.When.Allows(ctx) {
			total += tr.Weight
		}
	}
	if total <= 0 {
		return "", false
	}

	var r float64
	if rng != nil {
		r = rng.Float64() * total
	} else {
		r = rand.Float64() * total
	}
	var last string
	for _, tr := range move.Transitions {
		if tr.Weight <= 0 || !tr.When.Allows(ctx) {
			continue
		}
		last = tr.Next
		if r < tr.Weight {
			return tr.Next, true
		}
		r -= tr.Weight
	}
	return last, true
}
