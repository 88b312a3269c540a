package system

import (
	"log"

	"github.com/milk9111/grapplecore/ecs"
	"github.com/milk9111/grapplecore/ecs/component"
	"github.com/milk9111/grapplecore/fighter"
	"github.com/milk9111/grapplecore/grapple"
)

// GrappleSystem feeds each active driver the defender's snapshot and rolls
// follow-up moves. It runs after AimSystem so grapple tracks win on shared
// targets.
type GrappleSystem struct {
	Logger *log.Logger
}

func (s *GrappleSystem) Update(w *ecs.World, dt float64) {
	byName := fightersByName(w)
	ecs.ForEach(w, component.GrappleComponent.Kind(), func(e ecs.Entity, d *grapple.Driver) {
		if !d.Active() {
			return
		}
		def := byName[d.Defender()]
		if def == nil || def.snap == nil {
			return
		}
		d.Update(dt, *def.snap)

		ctl, ok := ecs.Get(w, e, component.GrappleControlComponent.Kind())
		if !ok {
			return
		}
		f, ok := ecs.Get(w, e, component.FighterComponent.Kind())
		if !ok || f.State() != fighter.GrappleAttacker {
			return
		}
		s.rollTransition(ctl, d, f, def, byName[f.Name])
	})
}

func (s *GrappleSystem) rollTransition(ctl *component.GrappleControl, d *grapple.Driver, f *fighter.Fighter, def, self *fighterRef) {
	if ctl.CheckEvery <= 0 || ctl.Lookup == nil {
		return
	}
	if d.Move() != ctl.Watching {
		ctl.Watching = d.Move()
		ctl.NextCheck = ctl.CheckEvery
	}
	if d.Elapsed() < ctl.NextCheck {
		return
	}
	ctl.NextCheck += ctl.CheckEvery

	move := d.Move()
	ctx := grapple.TransitionContext{Elapsed: d.Elapsed()}
	if self != nil && self.vitals != nil {
		ctx.AttackerHP = self.vitals.HPFraction()
		ctx.AttackerDebuff = self.vitals.Debuff
	}
	if def.vitals != nil {
		ctx.DefenderHP = def.vitals.HPFraction()
		ctx.DefenderDebuff = def.vitals.Debuff
	}
	id, ok := grapple.PickTransition(move, ctx, ctl.Rand)
	if !ok || move == nil || id == move.ID {
		return
	}
	next, err := ctl.Lookup(id)
	if err != nil {
		s.logger().Printf("grapple: transition from %q: %v", move.ID, err)
		return
	}
	f.ChainGrapple(def.f, next)
}

func (s *GrappleSystem) logger() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}
