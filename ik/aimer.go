// Package ik drives named IK channels through timed ToAim/Hold/Return
// motions toward a shared aim point.
package ik

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapplecore/common"
	"github.com/milk9111/grapplecore/skeleton"
)

// Handle indexes a resolved channel. Handles stay valid for the life of the
// Aimer.
type Handle int

const InvalidHandle Handle = -1

const (
	minToAim  = 0.0001
	minReturn = 0.0001
)

type channel struct {
	name   string
	ik     *skeleton.IKConstraint
	target *skeleton.Bone

	phase Phase
	t     float64
	tm    timing
	start cp.Vector
	req   AimRequest
}

// ChannelState is a read-only view of a channel.
type ChannelState struct {
	Name   string
	Phase  Phase
	T      float64
	Target cp.Vector
	Mix    float64
}

// Aimer owns the IK channels of one skeleton.
type Aimer struct {
	skel   skeleton.Skeleton
	cfg    Config
	logger *log.Logger

	channels []channel
	index    map[string]Handle
	missing  map[string]struct{}

	// OnPhase, when set, observes every phase change.
	OnPhase func(name string, from, to Phase)
}

func NewAimer(skel skeleton.Skeleton, cfg Config, logger *log.Logger) *Aimer {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.ToCurve.IsZero() {
		cfg.ToCurve = DefaultConfig().ToCurve
	}
	if cfg.ReturnCurve.IsZero() {
		cfg.ReturnCurve = DefaultConfig().ReturnCurve
	}
	return &Aimer{
		skel:    skel,
		cfg:     cfg,
		logger:  logger,
		index:   make(map[string]Handle),
		missing: make(map[string]struct{}),
	}
}

func (a *Aimer) Config() Config {
	return a.cfg
}

// Resolve returns the handle of the named channel, resolving the IK
// constraint on first use. A constraint that cannot be found is logged once.
func (a *Aimer) Resolve(name string) (Handle, bool) {
	if a == nil {
		return InvalidHandle, false
	}
	if h, ok := a.index[name]; ok {
		return h, true
	}
	if _, ok := a.missing[name]; ok {
		return InvalidHandle, false
	}
	ik, target, err := skeleton.ResolveIK(a.skel, name)
	if err != nil {
		a.missing[name] = struct{}{}
		a.logger.Printf("ik: channel %q unavailable: %v", name, err)
		return InvalidHandle, false
	}
	h := Handle(len(a.channels))
	a.channels = append(a.channels, channel{name: name, ik: ik, target: target})
	a.index[name] = h
	return h, true
}

// AimChannel resolves req.Name and starts its motion.
func (a *Aimer) AimChannel(req AimRequest) (Handle, bool) {
	h, ok := a.Resolve(req.Name)
	if !ok {
		return InvalidHandle, false
	}
	a.AimHandle(h, req)
	return h, true
}

// AimFrontBack aims the front channel when facing forward and the back one
// otherwise.
func (a *Aimer) AimFrontBack(front, back string, facingForward bool, req AimRequest) (Handle, bool) {
	req.Name = back
	if facingForward {
		req.Name = front
	}
	return a.AimChannel(req)
}

// AimHandle starts (or restarts) the motion of a resolved channel. The
// motion eases from wherever the target is right now.
func (a *Aimer) AimHandle(h Handle, req AimRequest) {
	if a == nil || h < 0 || int(h) >= len(a.channels) {
		return
	}
	ch := &a.channels[h]
	if req.ToCurve.IsZero() {
		req.ToCurve = a.cfg.ToCurve
	}
	if req.ReturnCurve.IsZero() {
		req.ReturnCurve = a.cfg.ReturnCurve
	}
	req.Name = ch.name
	ch.req = req
	ch.tm = timing{
		toAim: math.Max(minToAim, req.ToAim),
		hold:  math.Max(0, req.Hold),
		back:  math.Max(minReturn, req.Return),
	}
	ch.start = ch.target.LocalPosition()
	ch.t = 0
	prev := ch.phase
	ch.phase = PhaseToAim
	ch.ik.Mix = req.Blend
	if a.OnPhase != nil {
		a.OnPhase(ch.name, prev, PhaseToAim)
	}
}

// Update evaluates every running channel. aimScene is the pointer or target
// position in scene space; it is converted to skeleton space once.
func (a *Aimer) Update(dt float64, aimScene cp.Vector) {
	if a == nil || a.skel == nil || dt <= 0 || a.Active() == 0 {
		return
	}
	skelAim := a.skel.SceneToSkeleton(aimScene)
	for i := range a.channels {
		ch := &a.channels[i]
		if ch.phase == PhaseIdle {
			continue
		}
		aim := a.aimLocal(ch, skelAim)

		var visit func(from, to Phase)
		if a.OnPhase != nil {
			name := ch.name
			visit = func(from, to Phase) { a.OnPhase(name, from, to) }
		}
		ch.phase, ch.t = advance(ch.phase, ch.t, ch.tm, dt, visit)

		switch ch.phase {
		case PhaseToAim:
			ch.target.SetLocalPosition(ch.start.Lerp(aim, ch.req.ToCurve.Evaluate(ch.t)))
		case PhaseHold:
			ch.target.SetLocalPosition(aim)
		case PhaseReturn:
			ch.target.SetLocalPosition(aim.Lerp(ch.start, ch.req.ReturnCurve.Evaluate(ch.t)))
		case PhaseIdle:
			ch.target.SetLocalPosition(aim.Lerp(ch.start, ch.req.ReturnCurve.Evaluate(1)))
			ch.ik.Mix = 0
		}
	}
}

// aimLocal computes the channel's aim point in its target's parent space:
// offset, reach clamp, facing flip, then angle clamp.
func (a *Aimer) aimLocal(ch *channel, skelAim cp.Vector) cp.Vector {
	cfg := ch.req
	p := skelAim
	if cfg.OffsetSpace == OffsetSkeleton {
		p = p.Add(cfg.Offset)
	}
	local := skeleton.SkeletonToBoneLocal(a.skel, ch.target, p)
	if cfg.OffsetSpace == OffsetBoneLocal {
		local = local.Add(cfg.Offset)
	}

	radius := cfg.Radius
	if radius <= 0 {
		radius = a.cfg.radiusFor(cfg.Limb)
	}
	local = common.ClampInRadius(local, radius)

	if cfg.RespectFlip && a.skel.Flipped() {
		local.X = -local.X
	}
	if cfg.AngleClamp != nil {
		local = common.ClampDirectionByAngle(local, cfg.AngleClamp.MinDeg, cfg.AngleClamp.MaxDeg)
	}
	return local
}

// Phase reports the phase of the named channel; unknown channels are idle.
func (a *Aimer) Phase(name string) Phase {
	if a == nil {
		return PhaseIdle
	}
	h, ok := a.index[name]
	if !ok {
		return PhaseIdle
	}
	return a.channels[h].phase
}

// Active counts channels that are not idle.
func (a *Aimer) Active() int {
	if a == nil {
		return 0
	}
	n := 0
	for i := range a.channels {
		if a.channels[i].phase != PhaseIdle {
			n++
		}
	}
	return n
}

// Channels lists every resolved channel in handle order.
func (a *Aimer) Channels() []ChannelState {
	if a == nil {
		return nil
	}
	out := make([]ChannelState, 0, len(a.channels))
	for i := range a.channels {
		ch := &a.channels[i]
		out = append(out, ChannelState{
			Name:   ch.name,
			Phase:  ch.phase,
			T:      ch.t,
			Target: ch.target.LocalPosition(),
			Mix:    ch.ik.Mix,
		})
	}
	return out
}
