package skeleton

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Bone is a node of a 2D skeleton. Local values are relative to the parent
// bone; the world affine (A, B, C, D, WorldX, WorldY) is in skeleton space
// and is refreshed by UpdateWorldTransform.
type Bone struct {
	Name   string
	Parent *Bone

	X, Y           float64
	Rotation       float64 // degrees
	ScaleX, ScaleY float64

	A, B, C, D     float64
	WorldX, WorldY float64

	index int
}

func (b *Bone) Index() int {
	return b.index
}

func (b *Bone) LocalPosition() cp.Vector {
	return cp.Vector{X: b.X, Y: b.Y}
}

func (b *Bone) SetLocalPosition(p cp.Vector) {
	b.X = p.X
	b.Y = p.Y
}

func (b *Bone) WorldPosition() cp.Vector {
	return cp.Vector{X: b.WorldX, Y: b.WorldY}
}

// WorldToLocal converts a skeleton-space point into this bone's local space.
func (b *Bone) WorldToLocal(world cp.Vector) cp.Vector {
	det := b.A*b.D - b.B*b.C
	if det == 0 {
		return cp.Vector{}
	}
	inv := 1 / det
	x := world.X - b.WorldX
	y := world.Y - b.WorldY
	return cp.Vector{
		X: (x*b.D - y*b.B) * inv,
		Y: (y*b.A - x*b.C) * inv,
	}
}

// LocalToWorld converts a point in this bone's local space to skeleton space.
func (b *Bone) LocalToWorld(local cp.Vector) cp.Vector {
	return cp.Vector{
		X: local.X*b.A + local.Y*b.B + b.WorldX,
		Y: local.X*b.C + local.Y*b.D + b.WorldY,
	}
}

func (b *Bone) updateWorldTransform(skelScaleX, skelScaleY float64) {
	rad := b.Rotation * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	la, lb := cos*b.ScaleX, -sin*b.ScaleY
	lc, ld := sin*b.ScaleX, cos*b.ScaleY

	p := b.Parent
	if p == nil {
		b.A, b.B = la*skelScaleX, lb*skelScaleX
		b.C, b.D = lc*skelScaleY, ld*skelScaleY
		b.WorldX = b.X * skelScaleX
		b.WorldY = b.Y * skelScaleY
		return
	}
	b.A = p.A*la + p.B*lc
	b.B = p.A*lb + p.B*ld
	b.C = p.C*la + p.D*lc
	b.D = p.C*lb + p.D*ld
	b.WorldX = p.A*b.X + p.B*b.Y + p.WorldX
	b.WorldY = p.C*b.X + p.D*b.Y + p.WorldY
}

// IKConstraint pulls its constrained bones toward Target. Mix is the blend
// weight in [0, 1]; solving happens in the external resolve stage.
type IKConstraint struct {
	Name   string
	Target *Bone
	Bones  []*Bone
	Mix    float64
}
