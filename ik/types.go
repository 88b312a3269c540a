package ik

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapplecore/curve"
)

// Limb is the limb class of a channel; it selects the default reach radius.
type Limb int

const (
	RightHand Limb = iota
	LeftHand
	RightFoot
	LeftFoot
)

func (l Limb) IsHand() bool {
	return l == RightHand || l == LeftHand
}

func (l Limb) String() string {
	switch l {
	case RightHand:
		return "r_hand"
	case LeftHand:
		return "l_hand"
	case RightFoot:
		return "r_foot"
	case LeftFoot:
		return "l_foot"
	default:
		return fmt.Sprintf("limb(%d)", int(l))
	}
}

func ParseLimb(s string) (Limb, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r_hand", "rhand", "right_hand":
		return RightHand, nil
	case "l_hand", "lhand", "left_hand":
		return LeftHand, nil
	case "r_foot", "rfoot", "right_foot":
		return RightFoot, nil
	case "l_foot", "lfoot", "left_foot":
		return LeftFoot, nil
	}
	return 0, fmt.Errorf("ik: unknown limb %q", s)
}

// OffsetSpace selects where an aim offset is added.
type OffsetSpace int

const (
	// OffsetBoneLocal adds the offset after conversion into the target's
	// parent bone space.
	OffsetBoneLocal OffsetSpace = iota
	// OffsetSkeleton adds the offset in skeleton space before conversion.
	OffsetSkeleton
)

// AngleClamp limits the aim direction to [MinDeg, MaxDeg], 0 along local +X.
type AngleClamp struct {
	MinDeg float64
	MaxDeg float64
}

// AimRequest triggers a timed three-phase motion of one channel.
type AimRequest struct {
	Name  string
	Limb  Limb
	ToAim float64
	Hold  float64
	// Return is the duration of the way back.
	Return float64

	Blend       float64
	Radius      float64
	RespectFlip bool
	Offset      cp.Vector
	OffsetSpace OffsetSpace

	ToCurve     curve.Curve
	ReturnCurve curve.Curve
	AngleClamp  *AngleClamp
}

// Config holds the aimer defaults.
type Config struct {
	HandRadius  float64
	FootRadius  float64
	ToCurve     curve.Curve
	ReturnCurve curve.Curve
}

func DefaultConfig() Config {
	return Config{
		HandRadius:  2.5,
		FootRadius:  3.0,
		ToCurve:     curve.Default(),
		ReturnCurve: curve.Default(),
	}
}

func (c Config) radiusFor(l Limb) float64 {
	if l.IsHand() {
		return c.HandRadius
	}
	return c.FootRadius
}
