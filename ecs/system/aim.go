package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapplecore/ecs"
	"github.com/milk9111/grapplecore/ecs/component"
	"github.com/milk9111/grapplecore/ik"
)

const defaultAimBone = "head"

// AimSystem moves attack channels toward the opponent's aim bone. Without
// a resolvable target the last point is kept.
type AimSystem struct{}

func (AimSystem) Update(w *ecs.World, dt float64) {
	byName := fightersByName(w)
	ecs.ForEach(w, component.AimerComponent.Kind(), func(e ecs.Entity, a *ik.Aimer) {
		var point cp.Vector
		if target, ok := ecs.Get(w, e, component.AimTargetComponent.Kind()); ok {
			resolveAimTarget(target, opponentOf(w, e, byName))
			point = target.Point
		}
		a.Update(dt, point)
	})
}

func resolveAimTarget(target *component.AimTarget, opp *fighterRef) {
	if opp == nil || opp.snap == nil {
		return
	}
	bone := target.Bone
	if bone == "" {
		bone = defaultAimBone
	}
	if p, ok := opp.snap.Bone(bone); ok {
		target.Point = p
		target.Valid = true
	}
}
