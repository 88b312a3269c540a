package grapple

import (
	"bytes"
	"log"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapplecore/curve"
	"github.com/milk9111/grapplecore/skeleton"
)

func defenderRig(t *testing.T) *skeleton.Rig {
	t.Helper()
	r, err := skeleton.NewRig(skeleton.RigSpec{
		Name: "defender",
		Bones: []skeleton.BoneSpec{
			{Name: "root"},
			{Name: "hip", Parent: "root", Y: 1},
			{Name: "spine", Parent: "hip", Y: 0.5},
			{Name: "head", Parent: "spine", Y: 0.5},
		},
	})
	if err != nil {
		t.Fatalf("defender rig: %v", err)
	}
	r.Position = cp.Vector{X: 5, Y: 0}
	return r
}

func attackerRig(t *testing.T) *skeleton.Rig {
	t.Helper()
	r, err := skeleton.NewRig(skeleton.RigSpec{
		Name: "attacker",
		Bones: []skeleton.BoneSpec{
			{Name: "root"},
			{Name: "shoulder", Parent: "root", Y: 1.2, Rotation: 30, ScaleX: 1.5},
			{Name: "hand_target", Parent: "shoulder", X: 0.4},
			{Name: "foot_target", Parent: "root", X: 0.3},
		},
		IKs: []skeleton.IKSpec{
			{Name: "hand_IK", Target: "hand_target"},
			{Name: "foot_IK", Target: "foot_target"},
		},
	})
	if err != nil {
		t.Fatalf("attacker rig: %v", err)
	}
	r.Position = cp.Vector{X: 4.4, Y: 0}
	r.SetFlipped(true)
	return r
}

func twoTrackMove() *Move {
	return &Move{
		ID: "kesa_a",
		Tracks: []BezierTrack{
			{IK: "hand_IK", Mix: 1, P0: "hip", P1: "spine", P2: "head", Duration: 1.5, PingPong: true},
			{IK: "foot_IK", Mix: 0.6, P0: "hip", P1: "head", P2: "spine", Duration: 1.5, PingPong: true},
		},
	}
}

func testLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}

func near(a, b cp.Vector) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func targetScene(r *skeleton.Rig, bone string) cp.Vector {
	r.UpdateWorldTransform()
	b, _ := r.FindBone(bone)
	return r.SkeletonToScene(b.WorldPosition())
}

func run(d *Driver, def *skeleton.Rig, frames int, dt float64) {
	for i := 0; i < frames; i++ {
		def.ApplyBasePose(dt)
		d.Update(dt, skeleton.Capture(def, uint64(i)))
	}
}

func within(a, b cp.Vector, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol
}

func TestDriverPingPongScenario(t *testing.T) {
	// 1/60 is not exact in binary, so the elapsed sum drifts by a few ulps
	// over 180 frames. The tolerance covers that drift.
	cases := []struct {
		name string
		dt   float64
		half int
		tol  float64
	}{
		{"64hz", 1.0 / 64, 96, 1e-9},
		{"60hz", 1.0 / 60, 90, 1e-6},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			def := defenderRig(t)
			att := attackerRig(t)
			logger, _ := testLogger()
			d := NewDriver(att, func() bool { return true }, logger)
			if n := d.BeginGrapple(twoTrackMove(), def); n != 2 {
				t.Fatalf("BeginGrapple tracks = %d, want 2", n)
			}

			snap := skeleton.Capture(def, 0)
			hip, _ := snap.Bone("hip")
			spine, _ := snap.Bone("spine")
			head, _ := snap.Bone("head")

			run(d, def, c.half, c.dt)
			if got := targetScene(att, "hand_target"); !within(got, head, c.tol) {
				t.Fatalf("hand at 1.5s = %v, want P2 %v", got, head)
			}
			if got := targetScene(att, "foot_target"); !within(got, spine, c.tol) {
				t.Fatalf("foot at 1.5s = %v, want P2 %v", got, spine)
			}

			run(d, def, c.half, c.dt)
			if got := targetScene(att, "hand_target"); !within(got, hip, c.tol) {
				t.Fatalf("hand at 3.0s = %v, want P0 %v", got, hip)
			}
			if got := targetScene(att, "foot_target"); !within(got, hip, c.tol) {
				t.Fatalf("foot at 3.0s = %v, want P0 %v", got, hip)
			}

			ik, _ := att.FindIKConstraint("foot_IK")
			if ik.Mix != 0.6 {
				t.Fatalf("foot mix = %v, want 0.6", ik.Mix)
			}
		})
	}
}

func TestDriverFollowsAnimatedDefender(t *testing.T) {
	def := defenderRig(t)
	att := attackerRig(t)
	logger, _ := testLogger()
	d := NewDriver(att, nil, logger)
	move := &Move{ID: "m", Tracks: []BezierTrack{
		{IK: "hand_IK", Mix: 1, P0: "head", P1: "head", P2: "head", Duration: 1, Curve: curve.Linear()},
	}}
	d.BeginGrapple(move, def)

	def.BasePose = func(r *skeleton.Rig, dt float64) {
		hip, _ := r.FindBone("hip")
		hip.X += 1
	}
	run(d, def, 3, 0.1)
	if got, want := targetScene(att, "hand_target"), (cp.Vector{X: 8, Y: 2}); !near(got, want) {
		t.Fatalf("hand = %v, want live head %v", got, want)
	}
}

func TestDriverSkipsUnresolvableTracks(t *testing.T) {
	def := defenderRig(t)
	att := attackerRig(t)
	logger, buf := testLogger()
	d := NewDriver(att, nil, logger)
	move := &Move{ID: "broken", Tracks: []BezierTrack{
		{IK: "tail_IK", P0: "hip", P1: "spine", P2: "head", Duration: 1},
		{IK: "hand_IK", P0: "hip", P1: "neck", P2: "head", Duration: 1},
		{IK: "", P0: "hip", P1: "spine", P2: "head"},
		{IK: "foot_IK", Mix: 1, P0: "hip", P1: "spine", P2: "head", Duration: 1},
	}}
	if n := d.BeginGrapple(move, def); n != 1 {
		t.Fatalf("tracks = %d, want 1", n)
	}
	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Fatalf("expected 2 warnings, got %d: %q", n, buf.String())
	}
	run(d, def, 4, 0.1)
	if tr := d.Tracks(); len(tr) != 1 || tr[0].IK != "foot_IK" {
		t.Fatalf("running tracks = %+v", tr)
	}
}

func TestDriverGateAndOffset(t *testing.T) {
	def := defenderRig(t)
	att := attackerRig(t)
	logger, _ := testLogger()
	open := false
	d := NewDriver(att, func() bool { return open }, logger)
	move := twoTrackMove()
	move.Tracks[1].TimeOffset = 0.5
	d.BeginGrapple(move, def)

	run(d, def, 10, 0.1)
	tr := d.Tracks()
	if tr[0].Elapsed != 0 || tr[1].Elapsed != 0.5 || d.Elapsed() != 0 {
		t.Fatalf("closed gate advanced time: %+v elapsed=%v", tr, d.Elapsed())
	}

	open = true
	run(d, def, 1, 0.25)
	tr = d.Tracks()
	if tr[0].Elapsed != 0.25 || tr[1].Elapsed != 0.75 {
		t.Fatalf("elapsed after open = %+v", tr)
	}

	d.BeginGrapple(move, def)
	if tr := d.Tracks(); tr[0].Elapsed != 0 || tr[1].Elapsed != 0.5 {
		t.Fatalf("begin did not reset elapsed: %+v", tr)
	}
}

func TestDriverRejectsForeignSnapshot(t *testing.T) {
	def := defenderRig(t)
	att := attackerRig(t)
	logger, buf := testLogger()
	d := NewDriver(att, nil, logger)
	d.BeginGrapple(twoTrackMove(), def)

	for i := 0; i < 3; i++ {
		d.Update(0.1, skeleton.Capture(att, uint64(i)))
	}
	if d.Elapsed() != 0 {
		t.Fatalf("foreign snapshot advanced the driver")
	}
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Fatalf("expected a single warning, got %q", buf.String())
	}
}

func TestDriverEnd(t *testing.T) {
	def := defenderRig(t)
	att := attackerRig(t)
	logger, _ := testLogger()
	d := NewDriver(att, nil, logger)
	d.BeginGrapple(twoTrackMove(), def)
	d.End()
	if d.Active() || len(d.Tracks()) != 0 {
		t.Fatalf("driver still active after End")
	}
	for _, name := range []string{"hand_IK", "foot_IK"} {
		ik, _ := att.FindIKConstraint(name)
		if ik.Mix != 0 {
			t.Fatalf("%s mix = %v after End", name, ik.Mix)
		}
	}
	// no-op after End
	run(d, def, 2, 0.1)
}

func TestEntryPoint(t *testing.T) {
	def := defenderRig(t)
	snap := skeleton.Capture(def, 0)
	move := &Move{AttackerOffset: cp.Vector{X: -0.6, Y: 0.1}, MirrorOffsetByFacing: true}

	cases := []struct {
		name   string
		move   *Move
		facing float64
		want   cp.Vector
	}{
		{"facing_right", move, 1, cp.Vector{X: 4.4, Y: 1.1}},
		{"facing_left_mirrored", move, -1, cp.Vector{X: 5.6, Y: 1.1}},
		{"no_mirror", &Move{AttackerOffset: cp.Vector{X: -0.6}}, -1, cp.Vector{X: 4.4, Y: 1}},
		{"custom_bone", &Move{EntryBone: "head"}, 1, cp.Vector{X: 5, Y: 2}},
		{"nil_move", nil, 1, cp.Vector{X: 5, Y: 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := EntryPoint(c.move, snap, c.facing)
			if !ok || !near(got, c.want) {
				t.Fatalf("EntryPoint = %v ok=%v, want %v", got, ok, c.want)
			}
		})
	}
	if _, ok := EntryPoint(&Move{EntryBone: "tail"}, snap, 1); ok {
		t.Fatalf("missing entry bone should fail")
	}
}

func TestApproach(t *testing.T) {
	def := defenderRig(t)
	snap := skeleton.Capture(def, 0)
	logger, _ := testLogger()
	a := NewApproach(&Move{AttackerOffset: cp.Vector{X: -0.6}, MirrorOffsetByFacing: true}, 3, 0.12, logger)

	in := ApproachInput{Self: cp.Vector{X: 0}, FacingSign: 1, Target: snap}
	if step := a.Step(in); step.Steering || a.State != ApproachWaitingForDown {
		t.Fatalf("should wait while target is standing: %+v state=%v", step, a.State)
	}

	in.TargetDown = true
	step := a.Step(in)
	if a.State != Approaching || step.VelocityX != 3 || !step.Steering {
		t.Fatalf("approach step = %+v state=%v", step, a.State)
	}

	in.Self = cp.Vector{X: 6}
	step = a.Step(in)
	if step.VelocityX != -3 || step.FacingSign != -1 {
		t.Fatalf("overshoot should turn back: %+v", step)
	}

	in.Self = cp.Vector{X: 4.45}
	step = a.Step(in)
	if !step.Enter || a.State != ApproachReached || step.VelocityX != 0 {
		t.Fatalf("arrival step = %+v state=%v", step, a.State)
	}
	if step = a.Step(in); step.Enter {
		t.Fatalf("enter must fire once")
	}

	a.Reset()
	if a.State != ApproachWaitingForDown {
		t.Fatalf("reset state = %v", a.State)
	}
}

func TestPickTransition(t *testing.T) {
	one := 1
	move := &Move{Transitions: []Transition{
		{Next: "yoko", Weight: 1},
		{Next: "tate", Weight: 3},
		{Next: "late", Weight: 5, When: Condition{Elapsed: &Range{Min: 10, Max: 20}}},
		{Next: "debuffed", Weight: 5, When: Condition{DefenderDebuffMin: &one}},
		{Next: "never", Weight: 0},
	}}
	rng := rand.New(rand.NewSource(7))

	counts := map[string]int{}
	const draws = 4000
	for i := 0; i < draws; i++ {
		next, ok := PickTransition(move, TransitionContext{Elapsed: 1}, rng)
		if !ok {
			t.Fatalf("no transition picked")
		}
		counts[next]++
	}
	if counts["late"] != 0 || counts["debuffed"] != 0 || counts["never"] != 0 {
		t.Fatalf("ineligible transitions picked: %v", counts)
	}
	if frac := float64(counts["tate"]) / draws; frac < 0.7 || frac > 0.8 {
		t.Fatalf("weighted fraction = %v, want about 0.75", frac)
	}

	only := &Move{Transitions: []Transition{
		{Next: "late", Weight: 1, When: Condition{Elapsed: &Range{Min: 10, Max: 20}, AttackerHP: &Range{Min: 0.5, Max: 1}}},
	}}
	if next, ok := PickTransition(only, TransitionContext{Elapsed: 12, AttackerHP: 0.9}, rng); !ok || next != "late" {
		t.Fatalf("eligible transition = %q ok=%v", next, ok)
	}
	if _, ok := PickTransition(only, TransitionContext{Elapsed: 12, AttackerHP: 0.2}, rng); ok {
		t.Fatalf("hp condition ignored")
	}
	if _, ok := PickTransition(nil, TransitionContext{}, rng); ok {
		t.Fatalf("nil move should not transition")
	}
}
