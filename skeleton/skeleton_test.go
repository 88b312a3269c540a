package skeleton

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func testRig(t *testing.T) *Rig {
	t.Helper()
	r, err := NewRig(RigSpec{
		Name: "fighter",
		Bones: []BoneSpec{
			{Name: "root"},
			{Name: "hip", Parent: "root", Y: 1},
			{Name: "chest", Parent: "hip", Y: 0.5, Rotation: 90},
			{Name: "hand_target", Parent: "chest", X: 0.25},
		},
		IKs: []IKSpec{
			{Name: "hand_IK", Target: "hand_target", Bones: []string{"chest"}},
		},
	})
	if err != nil {
		t.Fatalf("NewRig: %v", err)
	}
	return r
}

func nearVec(a, b cp.Vector) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestRigWorldTransform(t *testing.T) {
	r := testRig(t)
	hand, _ := r.FindBone("hand_target")
	// chest is rotated 90 degrees, so +X local points up.
	if want := (cp.Vector{X: 0, Y: 1.75}); !nearVec(hand.WorldPosition(), want) {
		t.Fatalf("hand world = %v, want %v", hand.WorldPosition(), want)
	}

	r.SetFlipped(true)
	r.UpdateWorldTransform()
	if !r.Flipped() {
		t.Fatalf("rig should report flipped")
	}
	hip, _ := r.FindBone("hip")
	hip.X = 0.5
	r.UpdateWorldTransform()
	if hip.WorldX != -0.5 {
		t.Fatalf("mirrored hip world x = %v, want -0.5", hip.WorldX)
	}
}

func TestWorldToLocalRoundTrip(t *testing.T) {
	r := testRig(t)
	r.Position = cp.Vector{X: 3, Y: -2}
	r.SetFlipped(true)
	r.UpdateWorldTransform()
	hand, _ := r.FindBone("hand_target")

	scene := cp.Vector{X: 1.25, Y: 0.75}
	local := SceneToBoneLocal(r, hand, scene)
	hand.SetLocalPosition(local)
	r.UpdateWorldTransform()
	if got := r.SkeletonToScene(hand.WorldPosition()); !nearVec(got, scene) {
		t.Fatalf("round trip = %v, want %v", got, scene)
	}
}

func TestNewRigErrors(t *testing.T) {
	cases := []struct {
		name string
		spec RigSpec
	}{
		{"unknown_parent", RigSpec{Name: "x", Bones: []BoneSpec{{Name: "a", Parent: "missing"}}}},
		{"unknown_ik_target", RigSpec{Name: "x", Bones: []BoneSpec{{Name: "a"}}, IKs: []IKSpec{{Name: "ik", Target: "b"}}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := NewRig(c.spec); !errors.Is(err, ErrBoneNotFound) {
				t.Fatalf("expected ErrBoneNotFound, got %v", err)
			}
		})
	}
	if _, err := NewRig(RigSpec{Bones: []BoneSpec{{Name: "a"}, {Name: "a"}}}); err == nil {
		t.Fatalf("duplicate bone should fail")
	}
}

func TestResolveIK(t *testing.T) {
	r := testRig(t)
	ik, target, err := ResolveIK(r, "hand_IK")
	if err != nil {
		t.Fatalf("ResolveIK: %v", err)
	}
	if ik.Name != "hand_IK" || target.Name != "hand_target" {
		t.Fatalf("resolved %q -> %q", ik.Name, target.Name)
	}
	if _, _, err := ResolveIK(r, "nope"); !errors.Is(err, ErrIKNotFound) {
		t.Fatalf("expected ErrIKNotFound, got %v", err)
	}
}

func TestCaptureSnapshotIsFrozen(t *testing.T) {
	r := testRig(t)
	r.Position = cp.Vector{X: 10, Y: 0}
	snap := Capture(r, 7)
	if snap.Owner != "fighter" || snap.Frame != 7 || !snap.Valid() {
		t.Fatalf("unexpected snapshot header %+v", snap)
	}
	hip, ok := snap.Bone("hip")
	if !ok || !nearVec(hip, cp.Vector{X: 10, Y: 1}) {
		t.Fatalf("hip = %v ok=%v", hip, ok)
	}

	b, _ := r.FindBone("hip")
	b.Y = 5
	r.UpdateWorldTransform()
	if again, _ := snap.Bone("hip"); !nearVec(again, cp.Vector{X: 10, Y: 1}) {
		t.Fatalf("snapshot changed after pose edit: %v", again)
	}
	if _, ok := snap.Bone("tail"); ok {
		t.Fatalf("unknown bone should be missing")
	}
}

func TestApplyBasePose(t *testing.T) {
	r := testRig(t)
	calls := 0
	r.BasePose = func(r *Rig, dt float64) {
		calls++
		hip, _ := r.FindBone("hip")
		hip.X += dt
	}
	r.ApplyBasePose(0.5)
	hip, _ := r.FindBone("hip")
	if calls != 1 || hip.WorldX != 0.5 {
		t.Fatalf("calls=%d hip world x=%v", calls, hip.WorldX)
	}
}
