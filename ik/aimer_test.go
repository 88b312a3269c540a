package ik

import (
	"bytes"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapplecore/common"
	"github.com/milk9111/grapplecore/curve"
	"github.com/milk9111/grapplecore/skeleton"
)

func newTestRig(t *testing.T) *skeleton.Rig {
	t.Helper()
	r, err := skeleton.NewRig(skeleton.RigSpec{
		Name: "attacker",
		Bones: []skeleton.BoneSpec{
			{Name: "root"},
			{Name: "hand_front_target", Parent: "root", X: 0.5, Y: 1},
			{Name: "hand_back_target", Parent: "root", X: -0.5, Y: 1},
			{Name: "foot_target", Parent: "root", X: 0.2, Y: 0},
			{Name: "shoulder", Parent: "root", Rotation: 90},
			{Name: "skirt_target", Parent: "shoulder"},
		},
		IKs: []skeleton.IKSpec{
			{Name: "arm_front_IK", Target: "hand_front_target"},
			{Name: "arm_back_IK", Target: "hand_back_target"},
			{Name: "leg_IK", Target: "foot_target"},
			{Name: "skirt_IK", Target: "skirt_target"},
		},
	})
	if err != nil {
		t.Fatalf("NewRig: %v", err)
	}
	return r
}

func quietLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}

func step(a *Aimer, r *skeleton.Rig, frames int, dt float64, aim cp.Vector) {
	for i := 0; i < frames; i++ {
		r.UpdateWorldTransform()
		a.Update(dt, aim)
	}
}

func punch(name string) AimRequest {
	return AimRequest{
		Name:        name,
		Limb:        RightHand,
		ToAim:       0.08,
		Hold:        0.10,
		Return:      0.12,
		Blend:       1,
		RespectFlip: true,
	}
}

func TestAimerPhaseTimeline(t *testing.T) {
	r := newTestRig(t)
	logger, _ := quietLogger()
	a := NewAimer(r, DefaultConfig(), logger)
	if _, ok := a.AimChannel(punch("arm_front_IK")); !ok {
		t.Fatalf("AimChannel failed")
	}

	aim := cp.Vector{X: 2, Y: 1}
	for frame := 1; frame <= 32; frame++ {
		step(a, r, 1, 0.01, aim)
		got := a.Phase("arm_front_IK")
		var want Phase
		switch {
		case frame < 8:
			want = PhaseToAim
		case frame < 18:
			want = PhaseHold
		case frame < 30:
			want = PhaseReturn
		default:
			want = PhaseIdle
		}
		if got != want {
			t.Fatalf("frame %d (t=%.2fs): phase %v, want %v", frame, float64(frame)*0.01, got, want)
		}
	}
}

func TestAimerPhaseSequence(t *testing.T) {
	cases := []struct {
		name string
		hold float64
		want []string
	}{
		{"with_hold", 0.1, []string{"idle>to_aim", "to_aim>hold", "hold>return", "return>idle"}},
		{"without_hold", 0, []string{"idle>to_aim", "to_aim>return", "return>idle"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newTestRig(t)
			logger, _ := quietLogger()
			a := NewAimer(r, DefaultConfig(), logger)
			var seen []string
			a.OnPhase = func(name string, from, to Phase) {
				seen = append(seen, from.String()+">"+to.String())
			}
			req := punch("arm_front_IK")
			req.Hold = c.hold
			a.AimChannel(req)
			// a large frame crosses several phases at once
			step(a, r, 1, 0.05, cp.Vector{X: 1, Y: 1})
			step(a, r, 20, 0.05, cp.Vector{X: 1, Y: 1})
			if strings.Join(seen, ",") != strings.Join(c.want, ",") {
				t.Fatalf("sequence %v, want %v", seen, c.want)
			}
		})
	}
}

func TestAimerReturnsToStartAndDropsBlend(t *testing.T) {
	r := newTestRig(t)
	logger, _ := quietLogger()
	a := NewAimer(r, DefaultConfig(), logger)
	target, _ := r.FindBone("hand_front_target")
	start := target.LocalPosition()

	a.AimChannel(punch("arm_front_IK"))
	ik, _ := r.FindIKConstraint("arm_front_IK")
	step(a, r, 10, 0.01, cp.Vector{X: 2, Y: 2})
	if ik.Mix != 1 {
		t.Fatalf("mix during motion = %v, want 1", ik.Mix)
	}
	if target.LocalPosition() == start {
		t.Fatalf("target did not move")
	}
	step(a, r, 40, 0.01, cp.Vector{X: 2, Y: 2})
	if ik.Mix != 0 {
		t.Fatalf("mix after idle = %v, want 0", ik.Mix)
	}
	if got := target.LocalPosition(); got.Distance(start) > 1e-9 {
		t.Fatalf("target = %v, want rest %v", got, start)
	}
}

func TestAimerHoldReachesClampedAim(t *testing.T) {
	cases := []struct {
		name string
		req  func() AimRequest
		aim  cp.Vector
		flip bool
		want cp.Vector
	}{
		{
			name: "class_default_radius",
			req:  func() AimRequest { return punch("arm_front_IK") },
			aim:  cp.Vector{X: 100, Y: 0},
			want: cp.Vector{X: 2.5, Y: 0},
		},
		{
			name: "explicit_radius",
			req: func() AimRequest {
				r := punch("arm_front_IK")
				r.Radius = 1
				return r
			},
			aim:  cp.Vector{X: 0, Y: 10},
			want: cp.Vector{X: 0, Y: 1},
		},
		{
			name: "foot_default_radius",
			req: func() AimRequest {
				r := punch("leg_IK")
				r.Limb = RightFoot
				return r
			},
			aim:  cp.Vector{X: 0, Y: -10},
			want: cp.Vector{X: 0, Y: -3},
		},
		{
			name: "flip_respected",
			req:  func() AimRequest { return punch("arm_front_IK") },
			aim:  cp.Vector{X: 1, Y: 1},
			flip: true,
			want: cp.Vector{X: 1, Y: 1},
		},
		{
			name: "flip_ignored",
			req: func() AimRequest {
				r := punch("arm_front_IK")
				r.RespectFlip = false
				return r
			},
			aim:  cp.Vector{X: 1, Y: 1},
			flip: true,
			want: cp.Vector{X: -1, Y: 1},
		},
		{
			name: "angle_clamp",
			req: func() AimRequest {
				r := punch("arm_front_IK")
				r.AngleClamp = &AngleClamp{MinDeg: 30, MaxDeg: 120}
				return r
			},
			aim:  cp.Vector{X: 1, Y: -1},
			want: common.FromPolar(math.Sqrt2, 30),
		},
		{
			name: "skeleton_space_offset",
			req: func() AimRequest {
				r := punch("skirt_IK")
				r.Radius = 10
				r.Offset = cp.Vector{X: 0, Y: 1}
				r.OffsetSpace = OffsetSkeleton
				return r
			},
			aim:  cp.Vector{X: 1, Y: 0},
			want: cp.Vector{X: 1, Y: -1},
		},
		{
			name: "bone_space_offset",
			req: func() AimRequest {
				r := punch("skirt_IK")
				r.Radius = 10
				r.Offset = cp.Vector{X: 0, Y: 1}
				r.OffsetSpace = OffsetBoneLocal
				return r
			},
			aim:  cp.Vector{X: 1, Y: 0},
			want: cp.Vector{X: 0, Y: 0},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newTestRig(t)
			r.SetFlipped(c.flip)
			logger, _ := quietLogger()
			a := NewAimer(r, DefaultConfig(), logger)
			req := c.req()
			if _, ok := a.AimChannel(req); !ok {
				t.Fatalf("AimChannel(%q) failed", req.Name)
			}
			// 0.12s lands inside the hold window
			step(a, r, 12, 0.01, c.aim)
			if got := a.Phase(req.Name); got != PhaseHold {
				t.Fatalf("phase = %v, want hold", got)
			}
			var target *skeleton.Bone
			for _, ch := range a.channels {
				if ch.name == req.Name {
					target = ch.target
				}
			}
			if got := target.LocalPosition(); got.Distance(c.want) > 1e-9 {
				t.Fatalf("target = %v, want %v", got, c.want)
			}
		})
	}
}

func TestAimerRetriggerIsContinuous(t *testing.T) {
	r := newTestRig(t)
	logger, _ := quietLogger()
	cfg := DefaultConfig()
	cfg.ToCurve = curve.Linear()
	cfg.ReturnCurve = curve.Linear()
	a := NewAimer(r, cfg, logger)
	target, _ := r.FindBone("hand_front_target")
	rest := target.LocalPosition()

	first := cp.Vector{X: 2, Y: 0}
	a.AimChannel(punch("arm_front_IK"))
	// into the return phase
	step(a, r, 22, 0.01, first)
	if a.Phase("arm_front_IK") != PhaseReturn {
		t.Fatalf("expected return phase before retrigger")
	}
	before := target.LocalPosition()
	if before.Distance(rest) < 1e-6 {
		t.Fatalf("target already at rest; test would be vacuous")
	}

	second := cp.Vector{X: 0, Y: 2}
	a.AimChannel(punch("arm_front_IK"))
	step(a, r, 1, 0.01, second)
	after := target.LocalPosition()

	maxStep := before.Distance(second) * (0.01 / 0.08)
	if jump := after.Distance(before); jump > maxStep+1e-9 {
		t.Fatalf("retrigger jumped %v, larger than one frame step %v", jump, maxStep)
	}

	step(a, r, 60, 0.01, second)
	if got := target.LocalPosition(); got.Distance(before) > 1e-9 {
		t.Fatalf("return anchor = %v, want captured %v", got, before)
	}
}

func TestAimerMissingChannelDegrades(t *testing.T) {
	r := newTestRig(t)
	logger, buf := quietLogger()
	a := NewAimer(r, DefaultConfig(), logger)

	for i := 0; i < 3; i++ {
		if _, ok := a.AimChannel(punch("tail_IK")); ok {
			t.Fatalf("missing channel should not resolve")
		}
	}
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Fatalf("expected one log line, got %d: %q", n, buf.String())
	}

	a.AimChannel(punch("arm_back_IK"))
	step(a, r, 5, 0.01, cp.Vector{X: 1, Y: 1})
	if a.Phase("arm_back_IK") != PhaseToAim {
		t.Fatalf("other channel should keep running")
	}
	if a.Active() != 1 {
		t.Fatalf("active = %d, want 1", a.Active())
	}
}

func TestAimFrontBack(t *testing.T) {
	r := newTestRig(t)
	logger, _ := quietLogger()
	a := NewAimer(r, DefaultConfig(), logger)
	a.AimFrontBack("arm_front_IK", "arm_back_IK", false, punch(""))
	if a.Phase("arm_back_IK") != PhaseToAim || a.Phase("arm_front_IK") != PhaseIdle {
		t.Fatalf("backward facing should aim the back channel")
	}
	a.AimFrontBack("arm_front_IK", "arm_back_IK", true, punch(""))
	if a.Phase("arm_front_IK") != PhaseToAim {
		t.Fatalf("forward facing should aim the front channel")
	}
}
