package skeleton

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

type BoneSpec struct {
	Name     string  `yaml:"name"`
	Parent   string  `yaml:"parent"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
}

type IKSpec struct {
	Name   string   `yaml:"name"`
	Target string   `yaml:"target"`
	Bones  []string `yaml:"bones"`
	Mix    float64  `yaml:"mix"`
}

// RigSpec describes a rig. Parents must be listed before their children.
type RigSpec struct {
	Name  string     `yaml:"name"`
	Bones []BoneSpec `yaml:"bones"`
	IKs   []IKSpec   `yaml:"iks"`
}

// Rig is an in-memory Skeleton.
type Rig struct {
	name string

	bones    []*Bone
	byName   map[string]*Bone
	iks      []*IKConstraint
	ikByName map[string]*IKConstraint

	Position       cp.Vector
	ScaleX, ScaleY float64

	// BasePose, when set, is the animation playback for this rig.
	BasePose func(r *Rig, dt float64)
}

func NewRig(spec RigSpec) (*Rig, error) {
	r := &Rig{
		name:     spec.Name,
		byName:   make(map[string]*Bone, len(spec.Bones)),
		ikByName: make(map[string]*IKConstraint, len(spec.IKs)),
		ScaleX:   1,
		ScaleY:   1,
	}
	for i, bs := range spec.Bones {
		if bs.Name == "" {
			return nil, fmt.Errorf("skeleton: rig %q: bone %d has no name", spec.Name, i)
		}
		if _, dup := r.byName[bs.Name]; dup {
			return nil, fmt.Errorf("skeleton: rig %q: duplicate bone %q", spec.Name, bs.Name)
		}
		b := &Bone{
			Name:     bs.Name,
			X:        bs.X,
			Y:        bs.Y,
			Rotation: bs.Rotation,
			ScaleX:   orOne(bs.ScaleX),
			ScaleY:   orOne(bs.ScaleY),
			index:    len(r.bones),
		}
		if bs.Parent != "" {
			parent, ok := r.byName[bs.Parent]
			if !ok {
				return nil, fmt.Errorf("skeleton: rig %q: bone %q: parent %q: %w", spec.Name, bs.Name, bs.Parent, ErrBoneNotFound)
			}
			b.Parent = parent
		}
		r.bones = append(r.bones, b)
		r.byName[b.Name] = b
	}
	for _, is := range spec.IKs {
		target, ok := r.byName[is.Target]
		if !ok {
			return nil, fmt.Errorf("skeleton: rig %q: ik %q: target %q: %w", spec.Name, is.Name, is.Target, ErrBoneNotFound)
		}
		ik := &IKConstraint{Name: is.Name, Target: target, Mix: is.Mix}
		for _, name := range is.Bones {
			b, ok := r.byName[name]
			if !ok {
				return nil, fmt.Errorf("skeleton: rig %q: ik %q: bone %q: %w", spec.Name, is.Name, name, ErrBoneNotFound)
			}
			ik.Bones = append(ik.Bones, b)
		}
		r.iks = append(r.iks, ik)
		r.ikByName[ik.Name] = ik
	}
	r.UpdateWorldTransform()
	return r, nil
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func (r *Rig) Name() string {
	return r.name
}

func (r *Rig) FindBone(name string) (*Bone, bool) {
	b, ok := r.byName[name]
	return b, ok
}

func (r *Rig) FindIKConstraint(name string) (*IKConstraint, bool) {
	ik, ok := r.ikByName[name]
	return ik, ok
}

func (r *Rig) Bones() []*Bone {
	return r.bones
}

func (r *Rig) IKConstraints() []*IKConstraint {
	return r.iks
}

func (r *Rig) RootBone() *Bone {
	if len(r.bones) == 0 {
		return nil
	}
	return r.bones[0]
}

func (r *Rig) Scale() (float64, float64) {
	return r.ScaleX, r.ScaleY
}

func (r *Rig) Flipped() bool {
	return r.ScaleX < 0
}

// SetFlipped mirrors the rig horizontally.
func (r *Rig) SetFlipped(flipped bool) {
	if (r.ScaleX < 0) != flipped {
		r.ScaleX = -r.ScaleX
	}
}

func (r *Rig) SceneToSkeleton(p cp.Vector) cp.Vector {
	return p.Sub(r.Position)
}

func (r *Rig) SkeletonToScene(p cp.Vector) cp.Vector {
	return p.Add(r.Position)
}

func (r *Rig) UpdateWorldTransform() {
	for _, b := range r.bones {
		b.updateWorldTransform(r.ScaleX, r.ScaleY)
	}
}

func (r *Rig) ApplyBasePose(dt float64) {
	if r.BasePose != nil {
		r.BasePose(r, dt)
	}
	r.UpdateWorldTransform()
}
