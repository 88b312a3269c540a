package ik

// Phase is the position of a channel within its timed motion.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseToAim
	PhaseHold
	PhaseReturn
)

func (p Phase) String() string {
	switch p {
	case PhaseToAim:
		return "to_aim"
	case PhaseHold:
		return "hold"
	case PhaseReturn:
		return "return"
	default:
		return "idle"
	}
}

// next is the only transition function: ToAim -> Hold (when held) -> Return -> Idle.
func (p Phase) next(holdDur float64) Phase {
	switch p {
	case PhaseToAim:
		if holdDur > 0 {
			return PhaseHold
		}
		return PhaseReturn
	case PhaseHold:
		return PhaseReturn
	default:
		return PhaseIdle
	}
}

// timing holds the phase durations captured at trigger time.
type timing struct {
	toAim, hold, back float64
}

func (tm timing) duration(p Phase) float64 {
	switch p {
	case PhaseToAim:
		return tm.toAim
	case PhaseHold:
		return tm.hold
	case PhaseReturn:
		return tm.back
	default:
		return 0
	}
}

// phaseEpsilon absorbs float drift when a phase ends exactly on a frame edge.
const phaseEpsilon = 1e-9

// advance moves the phase clock forward by dt seconds, carrying overshoot
// into the following phases. Every phase passed through is reported to
// visit in order.
func advance(p Phase, t float64, tm timing, dt float64, visit func(from, to Phase)) (Phase, float64) {
	remaining := dt
	for p != PhaseIdle && remaining > 0 {
		dur := tm.duration(p)
		left := (1 - t) * dur
		if remaining+phaseEpsilon < left {
			return p, t + remaining/dur
		}
		remaining -= left
		if remaining < 0 {
			remaining = 0
		}
		next := p.next(tm.hold)
		if visit != nil {
			visit(p, next)
		}
		p, t = next, 0
	}
	return p, t
}
