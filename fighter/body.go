package fighter

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Body is a kinematic Locomotion: it walks along X from the input axis and
// keeps the facing sign.
type Body struct {
	Position  cp.Vector
	VelocityX float64
	// Facing is +1 when facing forward (right) and -1 otherwise.
	Facing    float64
	WalkSpeed float64

	MovementEnabled bool
	AutoPoseEnabled bool
}

func NewBody(pos cp.Vector, walkSpeed float64) *Body {
	return &Body{
		Position:        pos,
		Facing:          1,
		WalkSpeed:       walkSpeed,
		MovementEnabled: true,
		AutoPoseEnabled: true,
	}
}

func (b *Body) FacingForward() bool {
	return b.Facing >= 0
}

func (b *Body) SetMovementEnabled(enabled bool) {
	b.MovementEnabled = enabled
	if !enabled {
		b.VelocityX = 0
	}
}

func (b *Body) SetAutoPoseEnabled(enabled bool) {
	b.AutoPoseEnabled = enabled
}

// Drive sets the walking velocity from the input axis. Axis values inside
// the deadzone stop the body and keep its facing.
func (b *Body) Drive(moveX, deadzone float64) {
	if !b.MovementEnabled {
		return
	}
	if math.Abs(moveX) <= deadzone {
		b.VelocityX = 0
		return
	}
	b.VelocityX = moveX * b.WalkSpeed
	b.Facing = math.Copysign(1, moveX)
}

// Steer overrides velocity and facing, e.g. while approaching a grapple.
func (b *Body) Steer(velocityX, facing float64) {
	b.VelocityX = velocityX
	if facing != 0 {
		b.Facing = math.Copysign(1, facing)
	}
}

func (b *Body) Integrate(dt float64) {
	b.Position.X += b.VelocityX * dt
}

// AutoPose picks the idle or walk loop while automatic posing is enabled.
func (b *Body) AutoPose(anim Animator, idle, walk string) {
	if !b.AutoPoseEnabled || anim == nil {
		return
	}
	name := idle
	if b.VelocityX != 0 {
		name = walk
	}
	if name != "" && anim.CurrentAnimation(0) != name {
		anim.SetAnimation(0, name, true)
	}
}
