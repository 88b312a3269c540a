package fighter

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapplecore/grapple"
)

// Locomotion is the movement collaborator. The state machine only toggles
// its flags.
type Locomotion interface {
	FacingForward() bool
	SetMovementEnabled(enabled bool)
	SetAutoPoseEnabled(enabled bool)
}

// Animator plays base animations.
type Animator interface {
	SetAnimation(track int, name string, loop bool)
	CurrentAnimation(track int) string
	SetTimeScale(scale float64)
	SetMixDuration(track int, seconds float64)
}

// Input holds the intents for one frame. Button presses last one frame and
// are cleared by ConsumeFrameButtons; GuardHeld and Move persist.
type Input struct {
	Move cp.Vector

	RightPunch bool
	LeftPunch  bool
	RightKick  bool
	LeftKick   bool

	GuardPressed bool
	GuardHeld    bool
}

func (in *Input) ConsumeFrameButtons() {
	in.RightPunch = false
	in.LeftPunch = false
	in.RightKick = false
	in.LeftKick = false
	in.GuardPressed = false
}

// GrappleAnimator plays the grapple entry animation for one role.
type GrappleAnimator struct {
	Animator Animator
	// DefaultEntry is used when the move names no animation for the role.
	DefaultEntry string
	Logger       *log.Logger
}

// PlayEntry loops the role's entry animation on the base track at the move's
// speed, cross-fading over its mix duration.
func (g *GrappleAnimator) PlayEntry(move *grapple.Move, attacker bool) {
	if g == nil {
		return
	}
	if g.Animator == nil {
		if g.Logger != nil {
			g.Logger.Printf("fighter: grapple entry: no animator")
		}
		return
	}
	name := ""
	speed := 1.0
	mix := 0.0
	if move != nil {
		name = move.DefenderEntryAnim
		if attacker {
			name = move.AttackerEntryAnim
		}
		if move.AnimSpeed > 0 {
			speed = move.AnimSpeed
		}
		mix = math.Max(0, move.EntryMixDuration)
	}
	if name == "" {
		name = g.DefaultEntry
	}
	if name == "" {
		return
	}
	g.Animator.SetTimeScale(speed)
	g.Animator.SetAnimation(0, name, true)
	if mix > 0 {
		g.Animator.SetMixDuration(0, mix)
	}
}
