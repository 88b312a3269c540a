// Package timeline plays ordered (time, event) lists alongside attack
// animations and toggles hit regions from them.
package timeline

import "sort"

// Event is a named timeline event. Hit-region events use Value as an on/off
// switch.
type Event struct {
	Name    string  `yaml:"name"`
	Value   float64 `yaml:"value"`
	Payload string  `yaml:"payload"`
}

// Entry schedules an event at Time seconds after the timeline starts.
type Entry struct {
	Time  float64 `yaml:"time"`
	Event `yaml:",inline"`
}

// Timeline is an immutable list of entries ordered by time. Entries that
// share a time keep their authored order.
type Timeline struct {
	Name    string
	entries []Entry
}

func New(name string, entries ...Entry) *Timeline {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	return &Timeline{Name: name, entries: sorted}
}

func (t *Timeline) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

func (t *Timeline) Entries() []Entry {
	if t == nil {
		return nil
	}
	return append([]Entry(nil), t.entries...)
}

// Handler receives dispatched events.
type Handler func(owner string, at float64, evt Event)

// Emitter fans events out to its handlers.
type Emitter struct {
	Handlers []Handler
}

func (e *Emitter) Emit(owner string, at float64, evt Event) {
	if e == nil || len(e.Handlers) == 0 {
		return
	}
	for _, h := range e.Handlers {
		if h != nil {
			h(owner, at, evt)
		}
	}
}

// Player steps one timeline at a time for an owner.
type Player struct {
	Owner   string
	Emitter *Emitter

	tl      *Timeline
	elapsed float64
	next    int
}

func NewPlayer(owner string, emitter *Emitter) *Player {
	return &Player{Owner: owner, Emitter: emitter}
}

// Start replaces the current timeline. Events of the old one that have not
// fired yet are dropped.
func (p *Player) Start(tl *Timeline) {
	if p == nil {
		return
	}
	p.tl = tl
	p.elapsed = 0
	p.next = 0
}

func (p *Player) Stop() {
	if p == nil {
		return
	}
	p.tl = nil
	p.next = 0
}

// Advance moves the clock by dt and dispatches every entry whose time has
// been reached, each exactly once and in order.
func (p *Player) Advance(dt float64) int {
	if p == nil || p.tl == nil || dt < 0 {
		return 0
	}
	p.elapsed += dt
	fired := 0
	for p.next < len(p.tl.entries) && p.tl.entries[p.next].Time <= p.elapsed {
		e := p.tl.entries[p.next]
		p.next++
		fired++
		p.Emitter.Emit(p.Owner, e.Time, e.Event)
	}
	if p.next >= len(p.tl.entries) {
		p.tl = nil
	}
	return fired
}

// Playing reports whether entries remain to be dispatched.
func (p *Player) Playing() bool {
	return p != nil && p.tl != nil
}

func (p *Player) Elapsed() float64 {
	if p == nil {
		return 0
	}
	return p.elapsed
}
