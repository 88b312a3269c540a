package timeline

import (
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestPlayerDispatchesInOrderOnce(t *testing.T) {
	tl := New("punch",
		Entry{Time: 0.2, Event: Event{Name: "b"}},
		Entry{Time: 0.05, Event: Event{Name: "a"}},
		Entry{Time: 0.2, Event: Event{Name: "c"}},
		Entry{Time: 0.4, Event: Event{Name: "d"}},
	)
	var got []string
	em := &Emitter{Handlers: []Handler{func(owner string, at float64, evt Event) {
		if owner != "p1" {
			t.Errorf("owner = %q", owner)
		}
		got = append(got, evt.Name)
	}}}
	p := NewPlayer("p1", em)
	p.Start(tl)

	steps := []struct {
		dt   float64
		want []string
	}{
		{0.01, nil},
		{0.05, []string{"a"}},
		{0.2, []string{"a", "b", "c"}},
		{0.1, []string{"a", "b", "c"}},
		{1, []string{"a", "b", "c", "d"}},
		{1, []string{"a", "b", "c", "d"}},
	}
	for i, s := range steps {
		p.Advance(s.dt)
		if !reflect.DeepEqual(got, s.want) {
			t.Fatalf("step %d: dispatched %v, want %v", i, got, s.want)
		}
	}
	if p.Playing() {
		t.Fatalf("player should be done")
	}
}

func TestPlayerStartDropsPending(t *testing.T) {
	var got []string
	em := &Emitter{Handlers: []Handler{func(_ string, _ float64, evt Event) { got = append(got, evt.Name) }}}
	p := NewPlayer("p1", em)
	p.Start(New("a", Entry{Time: 0.1, Event: Event{Name: "old"}}))
	p.Start(New("b", Entry{Time: 0.1, Event: Event{Name: "new"}}))
	p.Advance(0.5)
	if !reflect.DeepEqual(got, []string{"new"}) {
		t.Fatalf("dispatched %v", got)
	}
}

func TestHitRegions(t *testing.T) {
	h := NewHitRegions()
	em := &Emitter{Handlers: []Handler{h.Handler()}}
	p := NewPlayer("p1", em)
	p.Start(New("kick",
		Entry{Time: 0.05, Event: Event{Name: HitRightFoot, Value: 1}},
		Entry{Time: 0.1, Event: Event{Name: "footstep", Value: 1}},
		Entry{Time: 0.15, Event: Event{Name: HitRightFoot, Value: 0.2}},
	))

	p.Advance(0.06)
	if !h.Active(HitRightFoot) || h.Active(HitLeftFoot) {
		t.Fatalf("after on event: %v", h.ActiveNames())
	}
	p.Advance(0.05)
	if names := h.ActiveNames(); !reflect.DeepEqual(names, []string{HitRightFoot}) {
		t.Fatalf("unknown event changed regions: %v", names)
	}
	p.Advance(0.05)
	if h.Active(HitRightFoot) {
		t.Fatalf("value below 0.5 should switch off")
	}

	h.Apply(Event{Name: HitLeftHand, Value: 0.5})
	h.Reset()
	if len(h.ActiveNames()) != 0 {
		t.Fatalf("reset left regions on: %v", h.ActiveNames())
	}
}

func TestEntryYAML(t *testing.T) {
	src := []byte(`
- time: 0.04
  name: HB_RHand
  value: 1
- time: 0.12
  name: HB_RHand
  value: 0
`)
	var entries []Entry
	if err := yaml.Unmarshal(src, &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	tl := New("r_punch", entries...)
	if tl.Len() != 2 || tl.Entries()[0].Name != HitRightHand || tl.Entries()[1].Value != 0 {
		t.Fatalf("entries = %+v", tl.Entries())
	}
}
