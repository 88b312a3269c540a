package entity

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/milk9111/grapplecore/attack"
	"github.com/milk9111/grapplecore/config"
	"github.com/milk9111/grapplecore/ecs"
	"github.com/milk9111/grapplecore/ecs/component"
	"github.com/milk9111/grapplecore/ecs/system"
	"github.com/milk9111/grapplecore/fighter"
	"github.com/milk9111/grapplecore/grapple"
	"github.com/milk9111/grapplecore/ik"
	"github.com/milk9111/grapplecore/prefabs"
	"github.com/milk9111/grapplecore/timeline"
)

const (
	defaultHP              = 100
	defaultTransitionCheck = 1.0
)

type Options struct {
	Engine *config.Engine
	Logger *log.Logger
	Rand   *rand.Rand
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

// NewFighter builds a fighter entity from spec, facing opponent.
func NewFighter(w *ecs.World, spec prefabs.FighterSpec, opponent string, opts Options) (ecs.Entity, error) {
	eng := opts.Engine
	if eng == nil {
		var err error
		if eng, err = config.Default(); err != nil {
			return 0, err
		}
	}
	logger := opts.logger()

	rigSpec, err := prefabs.LoadRigSpec(spec.Rig)
	if err != nil {
		return 0, err
	}
	rig, err := prefabs.BuildRig(rigSpec, spec.Name)
	if err != nil {
		return 0, fmt.Errorf("fighter %q: %w", spec.Name, err)
	}
	lib, err := prefabs.LoadLibrary(spec.Moves)
	if err != nil {
		return 0, err
	}
	ikCfg, err := eng.IK()
	if err != nil {
		return 0, err
	}

	body := fighter.NewBody(spec.Position, eng.Locomotion.WalkSpeed)
	if spec.FacingLeft {
		body.Facing = -1
	}
	rig.Position = spec.Position
	rig.SetFlipped(spec.FacingLeft)

	playback := fighter.NewPlayback()
	aimer := ik.NewAimer(rig, ikCfg, logger)
	exec := attack.NewExecutor(aimer, playback, lib.Attacks, logger)
	exec.SetAnimations(lib.Animations)
	exec.SetFallback(eng.Fallback())
	driver := grapple.NewDriver(rig, nil, logger)

	cfg := eng.Fighter()
	if spec.Animations != nil {
		cfg.Animations = *spec.Animations
	}
	f := fighter.New(spec.Name, fighter.Deps{
		Skeleton:   rig,
		Locomotion: body,
		Animator:   playback,
		Attacks:    exec,
		Grapple:    driver,
		Logger:     logger,
	}, cfg)

	hp := spec.HP
	if hp <= 0 {
		hp = defaultHP
	}

	e := ecs.CreateEntity(w)
	regions := timeline.NewHitRegions()
	tl := &component.Timeline{
		Player: timeline.NewPlayer(spec.Name, &timeline.Emitter{
			Handlers: []timeline.Handler{regions.Handler(), system.WorldEventHandler(w, e)},
		}),
		Regions: regions,
	}
	system.StartAttackTimeline(exec, tl)

	adds := []error{
		ecs.Add(w, e, component.FighterComponent.Kind(), f),
		ecs.Add(w, e, component.BodyComponent.Kind(), body),
		ecs.Add(w, e, component.PlaybackComponent.Kind(), playback),
		ecs.Add(w, e, component.RigComponent.Kind(), rig),
		ecs.Add(w, e, component.AimerComponent.Kind(), aimer),
		ecs.Add(w, e, component.AttackComponent.Kind(), exec),
		ecs.Add(w, e, component.GrappleComponent.Kind(), driver),
		ecs.Add(w, e, component.TimelineComponent.Kind(), tl),
		ecs.Add(w, e, component.OpponentComponent.Kind(), &component.Opponent{Name: opponent}),
		ecs.Add(w, e, component.AimTargetComponent.Kind(), &component.AimTarget{Bone: spec.AimBone}),
		ecs.Add(w, e, component.VitalsComponent.Kind(), &component.Vitals{HP: hp, MaxHP: hp}),
		ecs.Add(w, e, component.GrappleControlComponent.Kind(), &component.GrappleControl{
			Lookup:     lib.Grapple,
			CheckEvery: defaultTransitionCheck,
			Rand:       opts.Rand,
		}),
	}
	if spec.Script != "" {
		move, _ := lib.DefaultGrapple()
		adds = append(adds, ecs.Add(w, e, component.AIComponent.Kind(), &component.AI{
			ScriptPath: spec.Script,
			Params: map[string]float64{
				"approach_distance": eng.AI.ApproachDistance,
				"attack_interval":   eng.AI.AttackInterval,
			},
			Approach: grapple.NewApproach(move, eng.AI.ApproachSpeed, eng.AI.StopDistanceX, logger),
		}))
	}
	for _, err := range adds {
		if err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("fighter %q: %w", spec.Name, err)
		}
	}
	return e, nil
}

// NewBout builds every fighter of roster. Two fighters face each other; with
// more, each faces the next one in the list.
func NewBout(w *ecs.World, roster prefabs.RosterSpec, opts Options) ([]ecs.Entity, error) {
	n := len(roster.Fighters)
	if n < 2 {
		return nil, fmt.Errorf("bout needs two fighters, got %d", n)
	}
	out := make([]ecs.Entity, 0, n)
	for i, spec := range roster.Fighters {
		opp := roster.Fighters[(i+1)%n].Name
		e, err := NewFighter(w, spec, opp, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// ReloadMoves swaps freshly loaded move data into every fighter. Attacks and
// grapples already running keep their current data.
func ReloadMoves(w *ecs.World, lib *prefabs.Library) {
	if lib == nil {
		return
	}
	ecs.ForEach(w, component.AttackComponent.Kind(), func(_ ecs.Entity, exec *attack.Executor) {
		exec.SetMoves(lib.Attacks)
		exec.SetAnimations(lib.Animations)
	})
	ecs.ForEach(w, component.GrappleControlComponent.Kind(), func(_ ecs.Entity, ctl *component.GrappleControl) {
		ctl.Lookup = lib.Grapple
	})
	ecs.ForEach(w, component.AIComponent.Kind(), func(_ ecs.Entity, ai *component.AI) {
		if ai.Approach == nil {
			return
		}
		if move, ok := lib.DefaultGrapple(); ok {
			ai.Approach.Move = move
		}
	})
}
