package grapple

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapplecore/common"
	"github.com/milk9111/grapplecore/curve"
	"github.com/milk9111/grapplecore/skeleton"
)

const minTrackDuration = 0.01

// Gate reports whether the driver may advance this frame. The fighter
// wires it to "owner is in GrappleAttacker".
type Gate func() bool

type trackRuntime struct {
	track   BezierTrack
	ik      *skeleton.IKConstraint
	target  *skeleton.Bone
	elapsed float64
	warned  bool
}

// TrackState is a read-only view of a running track.
type TrackState struct {
	IK       string
	Elapsed  float64
	Progress float64
	Target   cp.Vector
}

// Driver moves the attacker's IK targets for the current grapple move.
type Driver struct {
	attacker skeleton.Skeleton
	gate     Gate
	logger   *log.Logger

	move     *Move
	defender string
	tracks   []trackRuntime
	active   bool
	elapsed  float64

	ownerWarned bool
}

func NewDriver(attacker skeleton.Skeleton, gate Gate, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{attacker: attacker, gate: gate, logger: logger}
}

func (d *Driver) SetGate(g Gate) {
	if d == nil {
		return
	}
	d.gate = g
}

// BeginGrapple replaces any running tracks with the tracks of move; the
// replaced tracks are released first. Tracks
// whose IK or defender bones cannot be found are skipped. It returns the
// number of tracks that will run.
func (d *Driver) BeginGrapple(move *Move, defender skeleton.Skeleton) int {
	if d == nil {
		return 0
	}
	for i := range d.tracks {
		d.tracks[i].ik.Mix = 0
	}
	d.tracks = d.tracks[:0]
	d.active = false
	d.elapsed = 0
	d.ownerWarned = false
	d.move = move

	if d.attacker == nil || defender == nil || move == nil {
		d.logger.Printf("grapple: begin: missing attacker, defender or move")
		return 0
	}
	d.defender = defender.Name()

	for _, tr := range move.Tracks {
		if tr.IK == "" {
			continue
		}
		ik, target, err := skeleton.ResolveIK(d.attacker, tr.IK)
		if err != nil {
			d.logger.Printf("grapple: move %q: track skipped: %v", move.ID, err)
			continue
		}
		if missing, ok := missingBone(defender, tr); !ok {
			d.logger.Printf("grapple: move %q: track %q skipped: defender bone %q not found", move.ID, tr.IK, missing)
			continue
		}
		d.tracks = append(d.tracks, trackRuntime{
			track:   tr,
			ik:      ik,
			target:  target,
			elapsed: math.Max(0, tr.TimeOffset),
		})
		ik.Mix = tr.Mix
	}
	d.active = true
	return len(d.tracks)
}

func missingBone(s skeleton.Skeleton, tr BezierTrack) (string, bool) {
	for _, name := range [...]string{tr.P0, tr.P1, tr.P2} {
		if _, ok := s.FindBone(name); !ok {
			return name, false
		}
	}
	return "", true
}

// Update advances every track by dt and writes the bezier position into the
// attacker's IK targets. Control points come from snap, the defender's pose
// for this frame, and must be captured after the defender's base pose.
func (d *Driver) Update(dt float64, snap skeleton.PoseSnapshot) {
	if d == nil || !d.active || len(d.tracks) == 0 || dt <= 0 {
		return
	}
	if d.gate != nil && !d.gate() {
		return
	}
	if !snap.Valid() || snap.Owner != d.defender {
		if !d.ownerWarned {
			d.ownerWarned = true
			d.logger.Printf("grapple: snapshot of %q ignored, grappling %q", snap.Owner, d.defender)
		}
		return
	}

	d.elapsed += dt
	for i := range d.tracks {
		rt := &d.tracks[i]
		p0, ok0 := snap.Bone(rt.track.P0)
		p1, ok1 := snap.Bone(rt.track.P1)
		p2, ok2 := snap.Bone(rt.track.P2)
		if !ok0 || !ok1 || !ok2 {
			if !rt.warned {
				rt.warned = true
				d.logger.Printf("grapple: track %q: control bone missing from pose of %q", rt.track.IK, snap.Owner)
			}
			continue
		}

		rt.elapsed += dt
		world := common.QuadraticBezier(p0, p1, p2, rt.progress())
		rt.target.SetLocalPosition(skeleton.SceneToBoneLocal(d.attacker, rt.target, world))
	}
	d.attacker.UpdateWorldTransform()
}

// progress is the eased bezier parameter for the current elapsed time.
func (rt *trackRuntime) progress() float64 {
	dur := math.Max(minTrackDuration, rt.track.Duration)
	raw := rt.elapsed / dur
	var t float64
	if rt.track.PingPong {
		t = common.PingPong(raw, 1)
	} else {
		t = common.Repeat(raw, 1)
	}
	c := rt.track.Curve
	if c.IsZero() {
		c = curve.Default()
	}
	return c.Evaluate(t)
}

// End stops the grapple and releases every driven IK.
func (d *Driver) End() {
	if d == nil {
		return
	}
	for i := range d.tracks {
		d.tracks[i].ik.Mix = 0
	}
	d.tracks = d.tracks[:0]
	d.active = false
	d.move = nil
	d.defender = ""
}

func (d *Driver) Active() bool {
	return d != nil && d.active
}

func (d *Driver) Move() *Move {
	if d == nil {
		return nil
	}
	return d.move
}

// Defender is the skeleton name the running move was started against.
func (d *Driver) Defender() string {
	if d == nil {
		return ""
	}
	return d.defender
}

// Elapsed is the gated time since BeginGrapple.
func (d *Driver) Elapsed() float64 {
	if d == nil {
		return 0
	}
	return d.elapsed
}

func (d *Driver) Tracks() []TrackState {
	if d == nil {
		return nil
	}
	out := make([]TrackState, 0, len(d.tracks))
	for i := range d.tracks {
		rt := &d.tracks[i]
		out = append(out, TrackState{
			IK:       rt.track.IK,
			Elapsed:  rt.elapsed,
			Progress: rt.progress(),
			Target:   rt.target.LocalPosition(),
		})
	}
	return out
}
