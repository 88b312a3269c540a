package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Repeat wraps t into [0, length).
func Repeat(t, length float64) float64 {
	if length <= 0 {
		return 0
	}
	r := t - math.Floor(t/length)*length
	if r < 0 {
		r = 0
	}
	return r
}

// PingPong bounces t between 0 and length.
func PingPong(t, length float64) float64 {
	if length <= 0 {
		return 0
	}
	t = Repeat(t, length*2)
	return length - math.Abs(t-length)
}

// QuadraticBezier evaluates (1-t)^2*p0 + 2(1-t)t*p1 + t^2*p2.
func QuadraticBezier(p0, p1, p2 cp.Vector, t float64) cp.Vector {
	u := 1 - t
	return p0.Mult(u * u).Add(p1.Mult(2 * u * t)).Add(p2.Mult(t * t))
}

// ClampInRadius limits the length of v to radius. A non-positive radius
// leaves v untouched.
func ClampInRadius(v cp.Vector, radius float64) cp.Vector {
	if radius <= 0 {
		return v
	}
	if v.LengthSq() > radius*radius {
		return v.Normalize().Mult(radius)
	}
	return v
}

// AngleDeg returns the angle of v in degrees within [-180, 180], 0 along +X.
func AngleDeg(v cp.Vector) float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(v.Y, v.X) * 180 / math.Pi
}

func FromPolar(radius, angleDeg float64) cp.Vector {
	rad := angleDeg * math.Pi / 180
	return cp.Vector{X: math.Cos(rad) * radius, Y: math.Sin(rad) * radius}
}

// ClampDirectionByAngle clamps the direction of v into [minDeg, maxDeg] and
// keeps its length.
func ClampDirectionByAngle(v cp.Vector, minDeg, maxDeg float64) cp.Vector {
	if v.X == 0 && v.Y == 0 {
		return v
	}
	if minDeg > maxDeg {
		minDeg, maxDeg = maxDeg, minDeg
	}
	angle := AngleDeg(v)
	clamped := math.Max(minDeg, math.Min(maxDeg, angle))
	if clamped == angle {
		return v
	}
	return FromPolar(v.Length(), clamped)
}
