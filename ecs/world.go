// Package ecs is a small entity store with typed sparse-set components and a
// staged system scheduler.
package ecs

import (
	"github.com/milk9111/grapplecore/ecs/component"
)

// World owns entities, components, the event queue and the schedule.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*SparseSet
	events    EventQueue
	scheduler Scheduler

	frame   uint64
	elapsed float64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = newSparseSet()
		w.stores[id] = s
	}
	return s
}

// Scheduler returns the world's system schedule.
func (w *World) Scheduler() *Scheduler {
	if w == nil {
		return nil
	}
	return &w.scheduler
}

// AddSystem registers a system at stage and priority.
func (w *World) AddSystem(stage Stage, priority int, s System) {
	if w == nil {
		return
	}
	w.scheduler.Add(stage, priority, s)
}

// Step runs every system once in schedule order, advances the frame counter
// and drops events nobody drained.
func (w *World) Step(dt float64) {
	if w == nil {
		return
	}
	w.scheduler.Run(w, dt)
	w.frame++
	w.elapsed += dt
	w.events.flush()
}

// Frame is the number of completed steps.
func (w *World) Frame() uint64 {
	if w == nil {
		return 0
	}
	return w.frame
}

// Elapsed is the simulated time of all completed steps.
func (w *World) Elapsed() float64 {
	if w == nil {
		return 0
	}
	return w.elapsed
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}
