// Package attack turns attack requests into an animation, an IK aim and a
// timed lock.
package attack

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapplecore/curve"
	"github.com/milk9111/grapplecore/ik"
	"github.com/milk9111/grapplecore/timeline"
)

type Kind int

const (
	None Kind = iota
	RightPunch
	LeftPunch
	RightKick
	LeftKick
)

func (k Kind) String() string {
	switch k {
	case RightPunch:
		return "right_punch"
	case LeftPunch:
		return "left_punch"
	case RightKick:
		return "right_kick"
	case LeftKick:
		return "left_kick"
	default:
		return "none"
	}
}

func (k Kind) IsKick() bool {
	return k == RightKick || k == LeftKick
}

// Limb is the limb that throws the attack.
func (k Kind) Limb() (ik.Limb, bool) {
	switch k {
	case RightPunch:
		return ik.RightHand, true
	case LeftPunch:
		return ik.LeftHand, true
	case RightKick:
		return ik.RightFoot, true
	case LeftKick:
		return ik.LeftFoot, true
	}
	return 0, false
}

// AngleLimit bounds the aim direction in degrees, 0 along local +X.
type AngleLimit struct {
	MinDeg float64 `yaml:"min_deg"`
	MaxDeg float64 `yaml:"max_deg"`
}

// Secondary is an extra cosmetic channel driven alongside kicks.
type Secondary struct {
	IK     string    `yaml:"ik"`
	Offset cp.Vector `yaml:"offset"`
	Mix    float64   `yaml:"mix"`
}

// Move is the per-limb attack configuration.
type Move struct {
	// IKFront is aimed when facing forward, IKBack otherwise.
	IKFront string `yaml:"ik_front"`
	IKBack  string `yaml:"ik_back"`

	Secondary *Secondary `yaml:"secondary"`

	ToAim  float64 `yaml:"to_aim"`
	Hold   float64 `yaml:"hold"`
	Return float64 `yaml:"return"`
	Mix    float64 `yaml:"mix"`

	AngleLimit  *AngleLimit `yaml:"angle_limit"`
	ToCurve     curve.Curve `yaml:"to_curve"`
	ReturnCurve curve.Curve `yaml:"return_curve"`

	Damage       int     `yaml:"damage"`
	LockOverride float64 `yaml:"lock_override"`

	Events []timeline.Entry `yaml:"events"`
}

// LockDuration is the override when set, otherwise the sum of the phases.
func (m *Move) LockDuration() float64 {
	if m.LockOverride > 0 {
		return m.LockOverride
	}
	return m.ToAim + m.Hold + m.Return
}

func (m *Move) Validate() error {
	if m.IKFront == "" && m.IKBack == "" {
		return fmt.Errorf("attack: move has no ik channel")
	}
	if m.ToAim < 0 || m.Hold < 0 || m.Return < 0 || m.LockOverride < 0 {
		return fmt.Errorf("attack: negative duration")
	}
	if l := m.AngleLimit; l != nil {
		// Aim angles come from common.AngleDeg, so the window lies in [-180, 180].
		if l.MinDeg < -180 || l.MaxDeg > 180 || math.IsNaN(l.MinDeg) || math.IsNaN(l.MaxDeg) {
			return fmt.Errorf("attack: angle limit [%.1f, %.1f] outside [-180, 180]", l.MinDeg, l.MaxDeg)
		}
		if l.MinDeg > l.MaxDeg {
			return fmt.Errorf("attack: angle limit min %.1f > max %.1f", l.MinDeg, l.MaxDeg)
		}
	}
	return nil
}

// MoveSet holds one move per limb. Nil entries put the limb in degraded
// mode.
type MoveSet struct {
	RightHand *Move `yaml:"r_hand"`
	LeftHand  *Move `yaml:"l_hand"`
	RightFoot *Move `yaml:"r_foot"`
	LeftFoot  *Move `yaml:"l_foot"`
}

func (s *MoveSet) ForLimb(l ik.Limb) *Move {
	if s == nil {
		return nil
	}
	switch l {
	case ik.RightHand:
		return s.RightHand
	case ik.LeftHand:
		return s.LeftHand
	case ik.RightFoot:
		return s.RightFoot
	case ik.LeftFoot:
		return s.LeftFoot
	}
	return nil
}

// Animations names the attack animations. Each kind plays its own name when
// facing forward and its mirror otherwise.
type Animations struct {
	PunchRight string `yaml:"punch_r"`
	PunchLeft  string `yaml:"punch_l"`
	KickRight  string `yaml:"kick_r"`
	KickLeft   string `yaml:"kick_l"`
}

func DefaultAnimations() Animations {
	return Animations{
		PunchRight: "R_punch",
		PunchLeft:  "L_punch",
		KickRight:  "R_kick",
		KickLeft:   "L_kick",
	}
}

// For returns the animation to play for kind.
func (a Animations) For(k Kind, facingForward bool) string {
	pick := func(own, mirror string) string {
		if facingForward {
			return own
		}
		return mirror
	}
	switch k {
	case RightPunch:
		return pick(a.PunchRight, a.PunchLeft)
	case LeftPunch:
		return pick(a.PunchLeft, a.PunchRight)
	case RightKick:
		return pick(a.KickRight, a.KickLeft)
	case LeftKick:
		return pick(a.KickLeft, a.KickRight)
	}
	return ""
}

// Fallback is used for limbs without a move.
type Fallback struct {
	ToAim        float64
	Hold         float64
	Return       float64
	LockOverride float64
	Mix          float64
}

func DefaultFallback() Fallback {
	return Fallback{ToAim: 0.08, Hold: 0.10, Return: 0.12, Mix: 1}
}

func (f Fallback) LockDuration() float64 {
	if f.LockOverride > 0 {
		return f.LockOverride
	}
	return f.ToAim + f.Hold + f.Return
}
