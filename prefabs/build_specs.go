package prefabs

import (
	"errors"
	"fmt"

	"github.com/milk9111/grapplecore/attack"
	"github.com/milk9111/grapplecore/grapple"
	"github.com/milk9111/grapplecore/ik"
	"github.com/milk9111/grapplecore/skeleton"
)

var (
	ErrUnknownLimb    = errors.New("prefabs: unknown limb")
	ErrUnknownGrapple = errors.New("prefabs: unknown grapple move")
)

// Library is move data ready for the runtime.
type Library struct {
	Attacks    *attack.MoveSet
	Animations attack.Animations

	grapples       map[string]*grapple.Move
	order          []string
	defaultGrapple string
}

func LoadLibrary(filename string) (*Library, error) {
	spec, err := LoadMovesSpec(filename)
	if err != nil {
		return nil, err
	}
	lib, err := BuildLibrary(spec)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return lib, nil
}

func BuildLibrary(spec MovesSpec) (*Library, error) {
	set, err := BuildMoveSet(spec.Attacks)
	if err != nil {
		return nil, err
	}
	lib := &Library{
		Attacks:    set,
		Animations: attack.DefaultAnimations(),
		grapples:   make(map[string]*grapple.Move, len(spec.Grapples)),
	}
	if spec.Animations != nil {
		lib.Animations = *spec.Animations
	}
	for i := range spec.Grapples {
		m := spec.Grapples[i]
		if m.ID == "" {
			return nil, fmt.Errorf("grapple %d has no id", i)
		}
		if _, dup := lib.grapples[m.ID]; dup {
			return nil, fmt.Errorf("duplicate grapple %q", m.ID)
		}
		lib.grapples[m.ID] = &m
		lib.order = append(lib.order, m.ID)
	}
	for _, id := range lib.order {
		for _, tr := range lib.grapples[id].Transitions {
			if _, ok := lib.grapples[tr.Next]; !ok {
				return nil, fmt.Errorf("grapple %q: transition to %q: %w", id, tr.Next, ErrUnknownGrapple)
			}
		}
	}
	lib.defaultGrapple = spec.DefaultGrapple
	if lib.defaultGrapple == "" && len(lib.order) > 0 {
		lib.defaultGrapple = lib.order[0]
	}
	if _, ok := lib.grapples[lib.defaultGrapple]; lib.defaultGrapple != "" && !ok {
		return nil, fmt.Errorf("default grapple %q: %w", lib.defaultGrapple, ErrUnknownGrapple)
	}
	return lib, nil
}

// BuildMoveSet maps limb-keyed attack moves onto a MoveSet. Limbs left out
// stay in degraded mode.
func BuildMoveSet(attacks map[string]*attack.Move) (*attack.MoveSet, error) {
	set := &attack.MoveSet{}
	for key, m := range attacks {
		limb, err := ik.ParseLimb(key)
		if err != nil {
			return nil, fmt.Errorf("attack %q: %w", key, ErrUnknownLimb)
		}
		if m == nil {
			continue
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("attack %q: %w", key, err)
		}
		slot := limbSlot(set, limb)
		if *slot != nil {
			return nil, fmt.Errorf("attack %q: limb %s defined twice", key, limb)
		}
		*slot = m
	}
	return set, nil
}

func limbSlot(set *attack.MoveSet, l ik.Limb) **attack.Move {
	switch l {
	case ik.LeftHand:
		return &set.LeftHand
	case ik.RightFoot:
		return &set.RightFoot
	case ik.LeftFoot:
		return &set.LeftFoot
	default:
		return &set.RightHand
	}
}

func (l *Library) Grapple(id string) (*grapple.Move, error) {
	if l == nil {
		return nil, ErrUnknownGrapple
	}
	m, ok := l.grapples[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGrapple, id)
	}
	return m, nil
}

func (l *Library) DefaultGrapple() (*grapple.Move, bool) {
	if l == nil || l.defaultGrapple == "" {
		return nil, false
	}
	m, ok := l.grapples[l.defaultGrapple]
	return m, ok
}

// GrappleIDs lists grapple moves in authored order.
func (l *Library) GrappleIDs() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.order...)
}

// BuildRig creates a rig named name from spec. Its base pose restores the
// authored bone transforms every frame, standing in for animation playback.
func BuildRig(spec skeleton.RigSpec, name string) (*skeleton.Rig, error) {
	if name != "" {
		spec.Name = name
	}
	r, err := skeleton.NewRig(spec)
	if err != nil {
		return nil, err
	}
	rest := append([]skeleton.BoneSpec(nil), spec.Bones...)
	r.BasePose = func(r *skeleton.Rig, _ float64) {
		for i, b := range r.Bones() {
			bs := rest[i]
			b.X, b.Y, b.Rotation = bs.X, bs.Y, bs.Rotation
			b.ScaleX, b.ScaleY = orOne(bs.ScaleX), orOne(bs.ScaleY)
		}
	}
	return r, nil
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
