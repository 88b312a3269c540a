package component

import (
	"github.com/milk9111/grapplecore/attack"
	"github.com/milk9111/grapplecore/fighter"
	"github.com/milk9111/grapplecore/grapple"
	"github.com/milk9111/grapplecore/ik"
	"github.com/milk9111/grapplecore/skeleton"
)

var (
	FighterComponent  = NewComponent[fighter.Fighter]()
	BodyComponent     = NewComponent[fighter.Body]()
	PlaybackComponent = NewComponent[fighter.Playback]()
	RigComponent      = NewComponent[skeleton.Rig]()
	AimerComponent    = NewComponent[ik.Aimer]()
	AttackComponent   = NewComponent[attack.Executor]()
	GrappleComponent  = NewComponent[grapple.Driver]()
	SnapshotComponent = NewComponent[skeleton.PoseSnapshot]()
)

// Opponent names the fighter this one faces.
type Opponent struct {
	Name string
}

var OpponentComponent = NewComponent[Opponent]()

// Vitals feed grapple transition conditions.
type Vitals struct {
	HP     float64
	MaxHP  float64
	Debuff int
}

// HPFraction is HP over MaxHP, or HP itself when no maximum is set.
func (v *Vitals) HPFraction() float64 {
	if v == nil {
		return 0
	}
	if v.MaxHP <= 0 {
		return v.HP
	}
	return v.HP / v.MaxHP
}

var VitalsComponent = NewComponent[Vitals]()
