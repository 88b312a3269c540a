package system

import (
	"github.com/milk9111/grapplecore/ecs"
	"github.com/milk9111/grapplecore/ecs/component"
	"github.com/milk9111/grapplecore/skeleton"
)

// PoseSystem applies each rig's base pose.
type PoseSystem struct{}

func (PoseSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach(w, component.RigComponent.Kind(), func(_ ecs.Entity, r *skeleton.Rig) {
		r.ApplyBasePose(dt)
	})
}

// SnapshotSystem captures every rig's pose after the base pose. Procedural
// writers read opponents only through these snapshots.
type SnapshotSystem struct{}

func (SnapshotSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach(w, component.RigComponent.Kind(), func(e ecs.Entity, r *skeleton.Rig) {
		snap := skeleton.Capture(r, w.Frame())
		if cur, ok := ecs.Get(w, e, component.SnapshotComponent.Kind()); ok {
			*cur = snap
			return
		}
		_ = ecs.Add(w, e, component.SnapshotComponent.Kind(), &snap)
	})
}

// ResolveSystem refreshes world transforms once every procedural writer
// has run.
type ResolveSystem struct{}

func (ResolveSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach(w, component.RigComponent.Kind(), func(_ ecs.Entity, r *skeleton.Rig) {
		r.UpdateWorldTransform()
	})
}
