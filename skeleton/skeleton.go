// Package skeleton defines the skeleton collaborator the procedural stages
// read and write, plus an in-memory rig implementing it.
package skeleton

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
)

var (
	ErrBoneNotFound = errors.New("skeleton: bone not found")
	ErrIKNotFound   = errors.New("skeleton: ik constraint not found")
	ErrNoIKTarget   = errors.New("skeleton: ik constraint has no target")
)

// Skeleton is the contract the procedural stages need from a skeletal pose
// owner. Scene space is the shared space both fighters live in; skeleton
// space is relative to the skeleton origin and already includes the
// skeleton scale (a negative ScaleX mirrors the character).
type Skeleton interface {
	Name() string
	FindBone(name string) (*Bone, bool)
	FindIKConstraint(name string) (*IKConstraint, bool)
	Bones() []*Bone
	RootBone() *Bone
	Scale() (x, y float64)
	Flipped() bool
	SceneToSkeleton(p cp.Vector) cp.Vector
	SkeletonToScene(p cp.Vector) cp.Vector
	UpdateWorldTransform()
}

// BasePoser is implemented by skeletons that play back animation. The pose
// stage calls ApplyBasePose before any procedural writer runs.
type BasePoser interface {
	ApplyBasePose(dt float64)
}

// ResolveIK finds an IK constraint and its target bone.
func ResolveIK(s Skeleton, name string) (*IKConstraint, *Bone, error) {
	if s == nil || name == "" {
		return nil, nil, fmt.Errorf("%w: %q", ErrIKNotFound, name)
	}
	ik, ok := s.FindIKConstraint(name)
	if !ok || ik == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrIKNotFound, name)
	}
	if ik.Target == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrNoIKTarget, name)
	}
	return ik, ik.Target, nil
}

// SceneToBoneLocal converts a scene-space point into the space the target
// bone's local position is expressed in (its parent's local space).
func SceneToBoneLocal(s Skeleton, target *Bone, scene cp.Vector) cp.Vector {
	return SkeletonToBoneLocal(s, target, s.SceneToSkeleton(scene))
}

// SkeletonToBoneLocal converts a skeleton-space point into the target bone's
// parent space.
func SkeletonToBoneLocal(s Skeleton, target *Bone, skel cp.Vector) cp.Vector {
	parent := target.Parent
	if parent == nil {
		sx, sy := s.Scale()
		if sx == 0 || sy == 0 {
			return skel
		}
		return cp.Vector{X: skel.X / sx, Y: skel.Y / sy}
	}
	return parent.WorldToLocal(skel)
}

// PoseSnapshot is a frozen copy of a skeleton's bone positions in scene
// space, taken after that skeleton's base pose stage for a frame.
type PoseSnapshot struct {
	Owner string
	Frame uint64

	positions map[string]cp.Vector
}

func NewPoseSnapshot(owner string, frame uint64, positions map[string]cp.Vector) PoseSnapshot {
	copied := make(map[string]cp.Vector, len(positions))
	for k, v := range positions {
		copied[k] = v
	}
	return PoseSnapshot{Owner: owner, Frame: frame, positions: copied}
}

// Capture snapshots every bone of s. World transforms are refreshed first.
func Capture(s Skeleton, frame uint64) PoseSnapshot {
	if s == nil {
		return PoseSnapshot{}
	}
	s.UpdateWorldTransform()
	bones := s.Bones()
	positions := make(map[string]cp.Vector, len(bones))
	for _, b := range bones {
		positions[b.Name] = s.SkeletonToScene(b.WorldPosition())
	}
	return PoseSnapshot{Owner: s.Name(), Frame: frame, positions: positions}
}

func (p PoseSnapshot) Valid() bool {
	return p.positions != nil
}

// Bone returns the scene position of the named bone.
func (p PoseSnapshot) Bone(name string) (cp.Vector, bool) {
	v, ok := p.positions[name]
	return v, ok
}
