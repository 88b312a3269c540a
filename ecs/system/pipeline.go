package system

import (
	"log"

	"github.com/milk9111/grapplecore/ecs"
)

// Procedural priorities: grapple tracks run after aim channels and win on
// shared targets.
const (
	AimPriority     = 0
	GrapplePriority = 10
)

type PipelineOptions struct {
	MoveDeadzone float64
	IdleAnim     string
	WalkAnim     string
	Logger       *log.Logger
	// Sink receives every world event at the end of its frame.
	Sink func(frame uint64, evt ecs.Event)
}

// InstallPipeline registers the frame pipeline on w. The returned AI system
// can be told to reload scripts.
func InstallPipeline(w *ecs.World, opts PipelineOptions) *AISystem {
	ai := NewAISystem(opts.Logger)
	w.AddSystem(ecs.StageInput, 0, ai)
	w.AddSystem(ecs.StageLogic, 0, &FighterSystem{
		MoveDeadzone: opts.MoveDeadzone,
		IdleAnim:     opts.IdleAnim,
		WalkAnim:     opts.WalkAnim,
	})
	w.AddSystem(ecs.StagePose, 0, PoseSystem{})
	w.AddSystem(ecs.StageSnapshot, 0, SnapshotSystem{})
	w.AddSystem(ecs.StageProcedural, AimPriority, AimSystem{})
	w.AddSystem(ecs.StageProcedural, GrapplePriority, &GrappleSystem{Logger: opts.Logger})
	w.AddSystem(ecs.StageResolve, 0, ResolveSystem{})
	w.AddSystem(ecs.StageEvents, 0, TimelineSystem{})
	w.AddSystem(ecs.StageEvents, 10, &EventLogSystem{Sink: opts.Sink})
	return ai
}
