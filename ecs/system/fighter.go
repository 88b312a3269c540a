package system

import (
	"github.com/milk9111/grapplecore/attack"
	"github.com/milk9111/grapplecore/ecs"
	"github.com/milk9111/grapplecore/ecs/component"
	"github.com/milk9111/grapplecore/fighter"
)

// FighterSystem runs the logic stage: the state machine, attack locks,
// locomotion and base animation clocks. The rig follows the body.
type FighterSystem struct {
	MoveDeadzone float64
	IdleAnim     string
	WalkAnim     string
}

func (s *FighterSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach(w, component.FighterComponent.Kind(), func(e ecs.Entity, f *fighter.Fighter) {
		moveX := f.Input.Move.X
		f.Update()
		// after f.Update so an attack accepted this frame starts its clock now
		if exec, ok := ecs.Get(w, e, component.AttackComponent.Kind()); ok {
			exec.Update(dt)
		}

		pb, hasPlayback := ecs.Get(w, e, component.PlaybackComponent.Kind())
		if body, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
			body.Drive(moveX, s.MoveDeadzone)
			body.Integrate(dt)
			if hasPlayback {
				body.AutoPose(pb, s.IdleAnim, s.WalkAnim)
			}
			if rig, ok := ecs.Get(w, e, component.RigComponent.Kind()); ok {
				rig.Position = body.Position
				rig.SetFlipped(!body.FacingForward())
			}
		}
		if hasPlayback {
			pb.Update(dt)
		}
	})
}

// StartAttackTimeline wires an executor so each accepted attack plays its
// move's events on tl.
func StartAttackTimeline(exec *attack.Executor, tl *component.Timeline) {
	if exec == nil || tl == nil || tl.Player == nil {
		return
	}
	exec.OnStart = func(r attack.Result) {
		if tl.Regions != nil {
			tl.Regions.Reset()
		}
		if r.Move == nil || len(r.Move.Events) == 0 {
			tl.Player.Stop()
			return
		}
		tl.Player.Start(newMoveTimeline(r))
	}
}
