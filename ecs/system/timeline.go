package system

import (
	"github.com/milk9111/grapplecore/attack"
	"github.com/milk9111/grapplecore/ecs"
	"github.com/milk9111/grapplecore/ecs/component"
	"github.com/milk9111/grapplecore/timeline"
)

// EventTimeline is the world event type for dispatched timeline events.
// Data holds the timeline.Event.
const EventTimeline = "timeline"

func newMoveTimeline(r attack.Result) *timeline.Timeline {
	return timeline.New(r.Animation, r.Move.Events...)
}

// TimelineSystem advances attack timelines.
type TimelineSystem struct{}

func (TimelineSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach(w, component.TimelineComponent.Kind(), func(_ ecs.Entity, tl *component.Timeline) {
		tl.Player.Advance(dt)
	})
}

// WorldEventHandler forwards timeline events of e into the world queue.
func WorldEventHandler(w *ecs.World, e ecs.Entity) timeline.Handler {
	return func(owner string, at float64, evt timeline.Event) {
		w.Events().Push(ecs.Event{Type: EventTimeline, Entity: e, Data: evt})
	}
}

// EventLogSystem drains the world queue at the end of the frame.
type EventLogSystem struct {
	Sink func(frame uint64, evt ecs.Event)
}

func (s *EventLogSystem) Update(w *ecs.World, dt float64) {
	for _, evt := range w.Events().Drain() {
		if s.Sink != nil {
			s.Sink(w.Frame(), evt)
		}
	}
}
