// Package fighter holds the fighter state machine. It owns the behavioral
// state and delegates movement, attacks and grapple IK to collaborators.
package fighter

import (
	"log"

	"github.com/milk9111/grapplecore/attack"
	"github.com/milk9111/grapplecore/grapple"
	"github.com/milk9111/grapplecore/skeleton"
)

type Animations struct {
	Idle    string `yaml:"idle"`
	Guard   string `yaml:"guard"`
	Down    string `yaml:"down"`
	Grabbed string `yaml:"grabbed"`
	// GrappleEntry is played when a grapple move names no entry animation.
	GrappleEntry string `yaml:"grapple_entry"`
}

type Config struct {
	MoveDeadzone float64
	Animations   Animations
}

func DefaultConfig() Config {
	return Config{
		MoveDeadzone: 0.05,
		Animations: Animations{
			Idle:    "idle",
			Guard:   "guard",
			Down:    "down",
			Grabbed: "grabbed",
		},
	}
}

// Deps are the collaborators of a fighter. Any of them may be nil; the
// matching behavior is then skipped.
type Deps struct {
	Skeleton   skeleton.Skeleton
	Locomotion Locomotion
	Animator   Animator
	Attacks    *attack.Executor
	Grapple    *grapple.Driver
	Logger     *log.Logger
}

type Fighter struct {
	Name  string
	Input Input

	// Frozen stops input handling, for debugging.
	Frozen bool
	// OnStateChange observes every transition.
	OnStateChange func(f *Fighter, from, to State)

	state      State
	attackKind attack.Kind

	cfg     Config
	skel    skeleton.Skeleton
	loco    Locomotion
	anim    Animator
	attacks *attack.Executor
	driver  *grapple.Driver
	entry   GrappleAnimator
	logger  *log.Logger

	// partner is the other side of a running ground grapple.
	partner *Fighter
}

func New(name string, deps Deps, cfg Config) *Fighter {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	f := &Fighter{
		Name:    name,
		cfg:     cfg,
		skel:    deps.Skeleton,
		loco:    deps.Locomotion,
		anim:    deps.Animator,
		attacks: deps.Attacks,
		driver:  deps.Grapple,
		logger:  logger,
		entry: GrappleAnimator{
			Animator:     deps.Animator,
			DefaultEntry: cfg.Animations.GrappleEntry,
			Logger:       logger,
		},
	}
	f.driver.SetGate(func() bool { return f.state == GrappleAttacker })
	return f
}

func (f *Fighter) State() State                { return f.state }
func (f *Fighter) AttackKind() attack.Kind     { return f.attackKind }
func (f *Fighter) IsDown() bool                { return f.state == Down }
func (f *Fighter) Skeleton() skeleton.Skeleton { return f.skel }
func (f *Fighter) Attacks() *attack.Executor   { return f.attacks }
func (f *Fighter) Grapple() *grapple.Driver    { return f.driver }

// Update runs the logic of the current state and then clears this frame's
// button presses.
func (f *Fighter) Update() {
	if f == nil {
		return
	}
	if !f.Frozen {
		behaviorFor(f.state).update(f)
	}
	f.Input.ConsumeFrameButtons()
}

// requestedAttack picks the pressed attack; kicks win over punches.
func requestedAttack(in *Input) attack.Kind {
	switch {
	case in.RightKick:
		return attack.RightKick
	case in.LeftKick:
		return attack.LeftKick
	case in.RightPunch:
		return attack.RightPunch
	case in.LeftPunch:
		return attack.LeftPunch
	}
	return attack.None
}

// StartAttack enters Attack from Idle or Walk when the executor accepts the
// request. Every other state refuses it.
func (f *Fighter) StartAttack(kind attack.Kind) bool {
	if f == nil || !f.state.neutral() || f.attacks == nil {
		return false
	}
	facing := true
	if f.loco != nil {
		facing = f.loco.FacingForward()
	}
	if _, ok := f.attacks.RequestAttack(kind, facing, f.onAttackComplete); !ok {
		return false
	}
	f.attackKind = kind
	f.setState(Attack)
	return true
}

func (f *Fighter) onAttackComplete() {
	if f.state != Attack {
		return
	}
	f.attackKind = attack.None
	f.setState(Idle)
}

func (f *Fighter) EnterDown() {
	f.setState(Down)
}

// StandUp returns a downed fighter to Idle.
func (f *Fighter) StandUp() {
	if f.state != Down {
		return
	}
	f.setState(Idle)
}

func (f *Fighter) EnterGrabbed() {
	f.setState(Grabbed)
}

func (f *Fighter) ReleaseGrabbed() {
	if f.state != Grabbed {
		return
	}
	f.setState(Idle)
}

// EnterGroundGrappleAsAttacker puts f on top of defender: both play their
// entry animation and f's driver starts the move against the defender's
// skeleton. It only works from Idle, Walk or Down, against another fighter
// that has a skeleton. A refused entry changes nothing.
func (f *Fighter) EnterGroundGrappleAsAttacker(defender *Fighter, move *grapple.Move) bool {
	if f == nil || !(f.state.neutral() || f.state == Down) {
		return false
	}
	if move == nil || defender == nil || defender == f || defender.skel == nil {
		f.logger.Printf("fighter %s: ground grapple refused", f.Name)
		return false
	}
	f.setState(GrappleAttacker)
	defender.EnterGroundGrappleAsDefender(move)
	f.partner, defender.partner = defender, f
	f.entry.PlayEntry(move, true)
	f.driver.BeginGrapple(move, defender.skel)
	return true
}

// ChainGrapple switches a running hold to move without leaving the grapple.
func (f *Fighter) ChainGrapple(defender *Fighter, move *grapple.Move) bool {
	if f == nil || f.state != GrappleAttacker || move == nil {
		return false
	}
	f.entry.PlayEntry(move, true)
	if defender != nil {
		defender.entry.PlayEntry(move, false)
		if defender.skel != nil {
			f.driver.BeginGrapple(move, defender.skel)
		}
	}
	return true
}

func (f *Fighter) EnterGroundGrappleAsDefender(move *grapple.Move) {
	if f == nil {
		return
	}
	f.setState(GrappleDefender)
	f.entry.PlayEntry(move, false)
}

// ExitGroundGrappleToDown ends a grapple for this participant. The partner
// goes Down with it.
func (f *Fighter) ExitGroundGrappleToDown() {
	if f == nil || !f.state.grappling() {
		return
	}
	f.setState(Down)
}

// leaveGrapple runs on every transition out of a grapple state: the
// attacker's driver stops and the partner is dropped to Down.
func (f *Fighter) leaveGrapple(from State) {
	if from == GrappleAttacker {
		f.driver.End()
	}
	p := f.partner
	f.partner = nil
	if p != nil && p.partner == f && p.state.grappling() {
		p.partner = nil
		p.setState(Down)
	}
}

// ForceState jumps straight to target, bypassing the transition table.
func (f *Fighter) ForceState(target State) {
	switch target {
	case Idle, Walk:
		f.attackKind = attack.None
		f.setState(target)
		if target == Idle && f.anim != nil && f.cfg.Animations.Idle != "" {
			f.anim.SetAnimation(0, f.cfg.Animations.Idle, true)
		}
	case Guard:
		f.setState(Guard)
	case Attack:
		if !f.state.neutral() {
			f.ForceState(Idle)
		}
		f.StartAttack(attack.RightPunch)
	case Down:
		f.EnterDown()
	case Grabbed:
		f.EnterGrabbed()
	case GrappleAttacker:
		f.driver.End()
		f.setState(GrappleAttacker)
		f.entry.PlayEntry(nil, true)
	case GrappleDefender:
		f.EnterGroundGrappleAsDefender(nil)
	}
}

func (f *Fighter) setState(to State) {
	from := f.state
	f.state = to
	if from.grappling() && to != from {
		f.leaveGrapple(from)
	}
	if to != Attack {
		f.attackKind = attack.None
	}
	behaviorFor(to).enter(f)
	if f.OnStateChange != nil && from != to {
		f.OnStateChange(f, from, to)
	}
}

func (f *Fighter) setLocomotion(enabled bool) {
	if f.loco == nil {
		return
	}
	f.loco.SetMovementEnabled(enabled)
	f.loco.SetAutoPoseEnabled(enabled)
}
