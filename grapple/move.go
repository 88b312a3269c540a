// Package grapple drives an attacker's IK targets along quadratic bezier
// paths whose control points are bones of the defender's skeleton.
package grapple

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapplecore/curve"
)

const DefaultEntryBone = "hip"

// BezierTrack drives one attacker IK channel between three defender bones.
type BezierTrack struct {
	IK  string  `yaml:"ik"`
	Mix float64 `yaml:"mix"`

	P0 string `yaml:"p0"`
	P1 string `yaml:"p1"`
	P2 string `yaml:"p2"`

	// Duration is one 0→1 sweep in seconds.
	Duration   float64     `yaml:"duration"`
	PingPong   bool        `yaml:"ping_pong"`
	Curve      curve.Curve `yaml:"curve"`
	TimeOffset float64     `yaml:"time_offset"`
}

// Move is one ground grapple hold.
type Move struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`

	EntryBone            string    `yaml:"entry_bone"`
	AttackerOffset       cp.Vector `yaml:"attacker_offset"`
	MirrorOffsetByFacing bool      `yaml:"mirror_offset_by_facing"`

	AttackerEntryAnim string  `yaml:"attacker_entry_anim"`
	DefenderEntryAnim string  `yaml:"defender_entry_anim"`
	AnimSpeed         float64 `yaml:"anim_speed"`
	EntryMixDuration  float64 `yaml:"entry_mix_duration"`

	Tracks      []BezierTrack `yaml:"tracks"`
	Transitions []Transition  `yaml:"transitions"`
}

// Range is an inclusive [Min, Max] window.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Condition gates a transition. Nil fields are not checked.
type Condition struct {
	Elapsed           *Range `yaml:"elapsed"`
	AttackerHP        *Range `yaml:"attacker_hp"`
	DefenderHP        *Range `yaml:"defender_hp"`
	AttackerDebuffMin *int   `yaml:"attacker_debuff_min"`
	DefenderDebuffMin *int   `yaml:"defender_debuff_min"`
}

// Transition is a weighted candidate follow-up move.
type Transition struct {
	Next   string    `yaml:"next"`
	Weight float64   `yaml:"weight"`
	When   Condition `yaml:"when"`
}
