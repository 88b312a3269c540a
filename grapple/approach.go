package grapple

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapplecore/skeleton"
)

// EntryPoint is where the attacker should stand to start move: the defender's
// entry bone plus the attacker offset, with X mirrored by facing when the
// move asks for it.
func EntryPoint(move *Move, defender skeleton.PoseSnapshot, facingSign float64) (cp.Vector, bool) {
	bone := DefaultEntryBone
	var offset cp.Vector
	if move != nil {
		if move.EntryBone != "" {
			bone = move.EntryBone
		}
		offset = move.AttackerOffset
		if move.MirrorOffsetByFacing && facingSign < 0 {
			offset.X = -offset.X
		}
	}
	p, ok := defender.Bone(bone)
	if !ok {
		return cp.Vector{}, false
	}
	return p.Add(offset), true
}

type ApproachState int

const (
	ApproachIdle ApproachState = iota
	ApproachWaitingForDown
	Approaching
	ApproachReached
)

func (s ApproachState) String() string {
	switch s {
	case ApproachWaitingForDown:
		return "waiting_for_down"
	case Approaching:
		return "approaching"
	case ApproachReached:
		return "reached"
	default:
		return "idle"
	}
}

// ApproachInput is what an approaching attacker sees this frame.
type ApproachInput struct {
	Self       cp.Vector
	FacingSign float64
	TargetDown bool
	// TargetOrigin is used when the entry bone is missing from Target.
	TargetOrigin cp.Vector
	Target       skeleton.PoseSnapshot
}

// ApproachStep is the steering decision for one frame.
type ApproachStep struct {
	VelocityX  float64
	FacingSign float64
	// Steering is true while the approach owns movement.
	Steering bool
	// Enter is set on the frame the entry point is reached.
	Enter bool
}

// Approach waits for the target to go down, walks to the move's entry point
// and then asks for the grapple to begin.
type Approach struct {
	State         ApproachState
	Move          *Move
	Speed         float64
	StopDistanceX float64

	logger *log.Logger
	warned bool
}

func NewApproach(move *Move, speed, stopDistanceX float64, logger *log.Logger) *Approach {
	if logger == nil {
		logger = log.Default()
	}
	return &Approach{
		State:         ApproachWaitingForDown,
		Move:          move,
		Speed:         speed,
		StopDistanceX: stopDistanceX,
		logger:        logger,
	}
}

// Reset re-arms the approach for the next knockdown.
func (a *Approach) Reset() {
	a.State = ApproachWaitingForDown
	a.warned = false
}

func (a *Approach) Step(in ApproachInput) ApproachStep {
	out := ApproachStep{FacingSign: in.FacingSign}
	if a == nil {
		return out
	}
	if a.State == ApproachWaitingForDown && in.TargetDown {
		a.State = Approaching
	}
	if a.State != Approaching {
		return out
	}
	if !in.TargetDown {
		// target got up before we arrived
		a.State = ApproachWaitingForDown
		return out
	}

	entry, ok := EntryPoint(a.Move, in.Target, in.FacingSign)
	if !ok {
		if !a.warned {
			a.warned = true
			a.logger.Printf("grapple: approach: entry bone missing on %q, using origin", in.Target.Owner)
		}
		entry = in.TargetOrigin
	}

	dx := entry.X - in.Self.X
	if math.Abs(dx) <= a.StopDistanceX {
		a.State = ApproachReached
		out.Enter = true
		return out
	}
	dir := 1.0
	if dx < 0 {
		dir = -1
	}
	out.VelocityX = dir * a.Speed
	out.FacingSign = dir
	out.Steering = true
	return out
}
