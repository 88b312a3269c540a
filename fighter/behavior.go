package fighter

import (
	"math"

	"github.com/milk9111/grapplecore/attack"
)

// behavior is the per-state logic of the fighter state machine.
type behavior interface {
	enter(f *Fighter)
	update(f *Fighter)
}

func behaviorFor(s State) behavior {
	switch s {
	case Idle, Walk:
		return neutralBehavior{}
	case Guard:
		return guardBehavior{}
	case Attack:
		return attackBehavior{}
	case Down:
		return loopBehavior{anim: func(f *Fighter) string { return f.cfg.Animations.Down }}
	case Grabbed:
		return loopBehavior{anim: func(f *Fighter) string { return f.cfg.Animations.Grabbed }}
	default:
		return grappleBehavior{}
	}
}

type neutralBehavior struct{}

func (neutralBehavior) enter(f *Fighter) {
	f.setLocomotion(true)
}

func (neutralBehavior) update(f *Fighter) {
	in := &f.Input
	if in.GuardPressed {
		f.setState(Guard)
		return
	}

	requested := requestedAttack(in)
	if requested != attack.None {
		f.StartAttack(requested)
		return
	}

	next := Idle
	if math.Abs(in.Move.X) > f.cfg.MoveDeadzone {
		next = Walk
	}
	if next != f.state {
		f.setState(next)
	}
	f.setLocomotion(true)
}

type guardBehavior struct{}

func (guardBehavior) enter(f *Fighter) {
	f.setLocomotion(false)
}

func (guardBehavior) update(f *Fighter) {
	f.setLocomotion(false)
	if name := f.cfg.Animations.Guard; name != "" && f.anim != nil && f.anim.CurrentAnimation(0) != name {
		f.anim.SetAnimation(0, name, true)
	}
	if !f.Input.GuardHeld {
		f.setState(Idle)
	}
}

type attackBehavior struct{}

func (attackBehavior) enter(f *Fighter) {
	f.setLocomotion(false)
}

func (attackBehavior) update(*Fighter) {}

// loopBehavior disables movement and loops one base animation.
type loopBehavior struct {
	anim func(f *Fighter) string
}

func (b loopBehavior) enter(f *Fighter) {
	f.setLocomotion(false)
	if name := b.anim(f); name != "" && f.anim != nil {
		f.anim.SetAnimation(0, name, true)
	}
}

func (loopBehavior) update(*Fighter) {}

type grappleBehavior struct{}

func (grappleBehavior) enter(f *Fighter) {
	f.setLocomotion(false)
}

func (grappleBehavior) update(*Fighter) {}
