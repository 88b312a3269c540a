package attack

import (
	"log"

	"github.com/milk9111/grapplecore/ik"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Track is the animation track attacks play on, above the locomotion track.
const Track = 1

const minLock = 0.0001

// lockEpsilon absorbs float drift when a lock ends exactly on a frame edge.
const lockEpsilon = 1e-9

// AnimationPlayer plays a named animation on a track.
type AnimationPlayer interface {
	SetAnimation(track int, name string, loop bool)
}

// Result describes an accepted attack.
type Result struct {
	Kind      Kind
	Channel   string
	Limb      ik.Limb
	Move      *Move
	Animation string
	Lock      float64
}

// Executor runs one attack at a time. While locked, new requests are
// dropped; the completion callback fires once when the lock expires.
type Executor struct {
	aimer    *ik.Aimer
	anim     AnimationPlayer
	moves    *MoveSet
	anims    Animations
	fallback Fallback
	logger   *log.Logger

	lock   *lockTimer
	onDone func()
	damage int
	kind   Kind

	// OnStart observes accepted attacks, e.g. to start their event timeline.
	OnStart func(Result)
}

func NewExecutor(aimer *ik.Aimer, anim AnimationPlayer, moves *MoveSet, logger *log.Logger) *Executor {
	if logger == nil {
		logger = log.Default()
	}
	return &Executor{
		aimer:    aimer,
		anim:     anim,
		moves:    moves,
		anims:    DefaultAnimations(),
		fallback: DefaultFallback(),
		logger:   logger,
	}
}

func (e *Executor) SetAnimations(a Animations) { e.anims = a }
func (e *Executor) SetFallback(f Fallback)     { e.fallback = f }

// SetMoves swaps the move set; an attack in flight keeps its lock.
func (e *Executor) SetMoves(m *MoveSet) { e.moves = m }

// RequestAttack starts kind. facingForward picks the primary animation and
// channel; otherwise the mirrored ones are used. It reports false when the
// request was dropped.
func (e *Executor) RequestAttack(kind Kind, facingForward bool, onDone func()) (Result, bool) {
	if e == nil || e.Locked() {
		return Result{}, false
	}
	limb, ok := kind.Limb()
	if !ok {
		return Result{}, false
	}
	res := Result{Kind: kind, Limb: limb, Animation: e.anims.For(kind, facingForward)}
	if res.Animation == "" {
		return Result{}, false
	}
	if e.anim != nil {
		e.anim.SetAnimation(Track, res.Animation, false)
	}

	move := e.moves.ForLimb(limb)
	res.Move = move
	if move == nil {
		e.logger.Printf("attack: no move for %s, playing %q without aim", limb, res.Animation)
		e.damage = 0
		res.Lock = e.fallback.LockDuration()
	} else {
		res.Channel = e.aim(move, limb, facingForward)
		e.damage = move.Damage
		res.Lock = move.LockDuration()
	}

	e.startLock(res.Lock, onDone)
	e.kind = kind
	if e.OnStart != nil {
		e.OnStart(res)
	}
	return res, true
}

// aim triggers the limb channel and, for kicks, the secondary channel.
func (e *Executor) aim(m *Move, limb ik.Limb, facingForward bool) string {
	name := m.IKBack
	if facingForward || name == "" {
		name = m.IKFront
	}
	if name == "" {
		name = m.IKBack
	}
	if e.aimer == nil {
		return name
	}

	req := ik.AimRequest{
		Name:        name,
		Limb:        limb,
		ToAim:       m.ToAim,
		Hold:        m.Hold,
		Return:      m.Return,
		Blend:       m.Mix,
		RespectFlip: true,
		OffsetSpace: ik.OffsetBoneLocal,
		ToCurve:     m.ToCurve,
		ReturnCurve: m.ReturnCurve,
	}
	if m.AngleLimit != nil {
		req.AngleClamp = &ik.AngleClamp{MinDeg: m.AngleLimit.MinDeg, MaxDeg: m.AngleLimit.MaxDeg}
	}
	e.aimer.AimChannel(req)

	if !limb.IsHand() && m.Secondary != nil && m.Secondary.IK != "" {
		e.aimer.AimChannel(ik.AimRequest{
			Name: m.Secondary.IK,
			// the secondary uses the hand reach
			Limb:        ik.RightHand,
			ToAim:       m.ToAim,
			Hold:        m.Hold,
			Return:      m.Return,
			Blend:       m.Secondary.Mix,
			Offset:      m.Secondary.Offset,
			OffsetSpace: ik.OffsetSkeleton,
			ToCurve:     m.ToCurve,
			ReturnCurve: m.ReturnCurve,
		})
	}
	return name
}

// lockTimer counts the lock down in float64 seconds. The tween only eases
// the reported progress.
type lockTimer struct {
	tween    *gween.Tween
	elapsed  float64
	duration float64
	progress float64
}

func (l *lockTimer) advance(dt float64) bool {
	l.elapsed += dt
	v, _ := l.tween.Update(float32(dt))
	l.progress = float64(v)
	if l.elapsed+lockEpsilon >= l.duration {
		l.progress = 1
		return true
	}
	return false
}

func (e *Executor) startLock(d float64, onDone func()) {
	if d < minLock {
		d = minLock
	}
	e.lock = &lockTimer{tween: gween.New(0, 1, float32(d), ease.Linear), duration: d}
	e.onDone = onDone
}

// Update advances the lock. Call it after the attack was requested in the
// same frame so the lock and its aim channel see the same clock. The
// completion callback runs after the lock has been released, so it may
// start the next attack.
func (e *Executor) Update(dt float64) {
	if e == nil || e.lock == nil || dt <= 0 {
		return
	}
	if !e.lock.advance(dt) {
		return
	}
	cb := e.onDone
	e.lock = nil
	e.onDone = nil
	e.kind = None
	if cb != nil {
		cb()
	}
}

func (e *Executor) Locked() bool {
	return e != nil && e.lock != nil
}

// LockProgress runs from 0 when an attack starts to 1 when its lock ends.
// It is 0 while unlocked.
func (e *Executor) LockProgress() float64 {
	if e == nil || e.lock == nil {
		return 0
	}
	return e.lock.progress
}

// CurrentDamage is the damage of the last accepted attack.
func (e *Executor) CurrentDamage() int {
	if e == nil {
		return 0
	}
	return e.damage
}

// Current is the kind of the attack holding the lock.
func (e *Executor) Current() Kind {
	if e == nil {
		return None
	}
	return e.kind
}
