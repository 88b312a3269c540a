// Package trace writes one JSON object per frame describing every fighter,
// for diffing runs and feeding offline tools.
package trace

import (
	"fmt"
	"io"

	"github.com/milk9111/grapplecore/attack"
	"github.com/milk9111/grapplecore/ecs"
	"github.com/milk9111/grapplecore/ecs/component"
	"github.com/milk9111/grapplecore/fighter"
	"github.com/milk9111/grapplecore/grapple"
	"github.com/milk9111/grapplecore/ik"
	"github.com/milk9111/grapplecore/timeline"
	"github.com/tidwall/sjson"
)

type Channel struct {
	Name  string
	Phase string
	T     float64
}

// Fighter is the traced view of one fighter.
type Fighter struct {
	Name   string
	State  string
	X, Y   float64
	Facing float64

	Attack string
	Locked bool
	// Lock is the attack lock progress, 0..1.
	Lock float64

	Channels []Channel

	Grapple        string
	GrappleElapsed float64

	HitRegions []string
}

// Collect reads the traced view of every fighter in w.
func Collect(w *ecs.World) []Fighter {
	var out []Fighter
	ecs.ForEach(w, component.FighterComponent.Kind(), func(e ecs.Entity, f *fighter.Fighter) {
		v := Fighter{Name: f.Name, State: f.State().String()}
		if body, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
			v.X, v.Y, v.Facing = body.Position.X, body.Position.Y, body.Facing
		}
		if exec, ok := ecs.Get[attack.Executor](w, e, component.AttackComponent.Kind()); ok && exec.Locked() {
			v.Attack = exec.Current().String()
			v.Locked = true
			v.Lock = exec.LockProgress()
		}
		if aimer, ok := ecs.Get[ik.Aimer](w, e, component.AimerComponent.Kind()); ok {
			for _, ch := range aimer.Channels() {
				if ch.Phase == ik.PhaseIdle {
					continue
				}
				v.Channels = append(v.Channels, Channel{Name: ch.Name, Phase: ch.Phase.String(), T: ch.T})
			}
		}
		if d, ok := ecs.Get[grapple.Driver](w, e, component.GrappleComponent.Kind()); ok && d.Active() {
			if m := d.Move(); m != nil {
				v.Grapple = m.ID
			}
			v.GrappleElapsed = d.Elapsed()
		}
		if tl, ok := ecs.Get(w, e, component.TimelineComponent.Kind()); ok {
			v.HitRegions = tl.Regions.ActiveNames()
		}
		out = append(out, v)
	})
	return out
}

// Frame renders one frame as a single JSON line.
func Frame(frame uint64, fighters []Fighter) (string, error) {
	js, err := sjson.Set("", "frame", frame)
	if err != nil {
		return "", err
	}
	for i, f := range fighters {
		p := fmt.Sprintf("fighters.%d.", i)
		fields := []field{
			{p + "name", f.Name},
			{p + "state", f.State},
			{p + "pos.x", f.X},
			{p + "pos.y", f.Y},
			{p + "facing", f.Facing},
		}
		if f.Locked {
			fields = append(fields, field{p + "attack", f.Attack}, field{p + "lock", f.Lock})
		}
		for j, ch := range f.Channels {
			cpath := fmt.Sprintf("%schannels.%d.", p, j)
			fields = append(fields,
				field{cpath + "name", ch.Name},
				field{cpath + "phase", ch.Phase},
				field{cpath + "t", ch.T},
			)
		}
		if f.Grapple != "" {
			fields = append(fields,
				field{p + "grapple.move", f.Grapple},
				field{p + "grapple.elapsed", f.GrappleElapsed},
			)
		}
		if len(f.HitRegions) > 0 {
			fields = append(fields, field{p + "hit_regions", f.HitRegions})
		}
		if js, err = setAll(js, fields); err != nil {
			return "", err
		}
	}
	return js, nil
}

type field struct {
	path  string
	value any
}

func setAll(js string, fields []field) (string, error) {
	var err error
	for _, f := range fields {
		if js, err = sjson.Set(js, f.path, f.value); err != nil {
			return "", err
		}
	}
	return js, nil
}

// Event renders a world event as a single JSON line.
func Event(frame uint64, owner string, evt ecs.Event) (string, error) {
	fields := []field{{"frame", frame}, {"event", evt.Type}}
	if owner != "" {
		fields = append(fields, field{"owner", owner})
	}
	if te, ok := evt.Data.(timeline.Event); ok {
		fields = append(fields, field{"name", te.Name}, field{"value", te.Value})
	}
	return setAll("", fields)
}

// Recorder writes trace lines to an io.Writer.
type Recorder struct {
	w io.Writer
	// Every skips frames; 0 or 1 records all of them.
	Every uint64
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w, Every: 1}
}

func (r *Recorder) Frame(w *ecs.World) error {
	frame := w.Frame()
	if r.Every > 1 && frame%r.Every != 0 {
		return nil
	}
	line, err := Frame(frame, Collect(w))
	if err != nil {
		return fmt.Errorf("trace: frame %d: %w", frame, err)
	}
	_, err = fmt.Fprintln(r.w, line)
	return err
}

func (r *Recorder) Event(frame uint64, owner string, evt ecs.Event) error {
	line, err := Event(frame, owner, evt)
	if err != nil {
		return fmt.Errorf("trace: event %q: %w", evt.Type, err)
	}
	_, err = fmt.Fprintln(r.w, line)
	return err
}
