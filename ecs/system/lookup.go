package system

import (
	"github.com/milk9111/grapplecore/ecs"
	"github.com/milk9111/grapplecore/ecs/component"
	"github.com/milk9111/grapplecore/fighter"
	"github.com/milk9111/grapplecore/skeleton"
)

// fighterRef gathers one fighter's components for cross-entity lookups.
type fighterRef struct {
	entity ecs.Entity
	f      *fighter.Fighter
	body   *fighter.Body
	snap   *skeleton.PoseSnapshot
	vitals *component.Vitals
}

func fightersByName(w *ecs.World) map[string]*fighterRef {
	out := make(map[string]*fighterRef)
	ecs.ForEach(w, component.FighterComponent.Kind(), func(e ecs.Entity, f *fighter.Fighter) {
		ref := &fighterRef{entity: e, f: f}
		ref.body, _ = ecs.Get(w, e, component.BodyComponent.Kind())
		ref.snap, _ = ecs.Get(w, e, component.SnapshotComponent.Kind())
		ref.vitals, _ = ecs.Get(w, e, component.VitalsComponent.Kind())
		out[f.Name] = ref
	})
	return out
}

func opponentOf(w *ecs.World, e ecs.Entity, byName map[string]*fighterRef) *fighterRef {
	opp, ok := ecs.Get(w, e, component.OpponentComponent.Kind())
	if !ok {
		return nil
	}
	return byName[opp.Name]
}
