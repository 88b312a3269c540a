package ecs

import "sort"

// Stage groups systems within a frame. Stages run in declaration order.
type Stage int

const (
	StageInput Stage = iota
	StageLogic
	StagePose
	StageSnapshot
	StageProcedural
	StageResolve
	StageEvents
)

var stageNames = [...]string{"input", "logic", "pose", "snapshot", "procedural", "resolve", "events"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "stage(?)"
	}
	return stageNames[s]
}

type System interface {
	Update(w *World, dt float64)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World, dt float64)

func (f SystemFunc) Update(w *World, dt float64) { f(w, dt) }

type scheduled struct {
	stage    Stage
	priority int
	seq      int
	system   System
}

// Scheduler orders systems by stage, then priority, then registration.
// Within a stage, a later writer to the same bones wins.
type Scheduler struct {
	entries []scheduled
	seq     int
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Add(stage Stage, priority int, system System) {
	if system == nil {
		return
	}
	s.entries = append(s.entries, scheduled{stage: stage, priority: priority, seq: s.seq, system: system})
	s.seq++
	sort.SliceStable(s.entries, func(i, j int) bool {
		a, b := s.entries[i], s.entries[j]
		if a.stage != b.stage {
			return a.stage < b.stage
		}
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		return a.seq < b.seq
	})
}

func (s *Scheduler) Run(w *World, dt float64) {
	for _, e := range s.entries {
		e.system.Update(w, dt)
	}
}

// Systems returns the systems in run order.
func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.entries))
	for _, e := range s.entries {
		systems = append(systems, e.system)
	}
	return systems
}
