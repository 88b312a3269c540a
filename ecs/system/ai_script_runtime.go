package system

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/grapplecore/attack"
	"github.com/milk9111/grapplecore/ecs"
	"github.com/milk9111/grapplecore/ecs/component"
	"github.com/milk9111/grapplecore/fighter"
	"github.com/milk9111/grapplecore/grapple"
	"github.com/milk9111/grapplecore/prefabs"
)

// AISystem runs tengo fighter scripts. Scripts define onEnter, update and
// onExit, each called with (engine, state, current); engine exposes the
// fighter's senses and intents.
type AISystem struct {
	Logger *log.Logger

	scriptCache map[ecs.Entity]*aiScriptRuntime
}

func NewAISystem(logger *log.Logger) *AISystem {
	if logger == nil {
		logger = log.Default()
	}
	return &AISystem{Logger: logger, scriptCache: map[ecs.Entity]*aiScriptRuntime{}}
}

type aiScriptRuntime struct {
	scriptPath  string
	compiled    *tengo.Compiled
	stateData   *tengo.Map
	initial     string
	initialized bool
	pending     string
}

type aiContext struct {
	world *ecs.World
	ent   ecs.Entity
	ai    *component.AI
	self  *fighterRef
	opp   *fighterRef
	dt    float64
}

const aiLifecycleDispatchScript = `
if __phase == "enter" {
	onEnter(__engine, __state, __current_state)
} else if __phase == "update" {
	update(__engine, __state, __current_state)
} else if __phase == "exit" {
	onExit(__engine, __state, __current_state)
}
`

// Invalidate drops compiled copies of a script so the next frame reloads
// it. An empty name drops every script.
func (s *AISystem) Invalidate(name string) {
	if s == nil {
		return
	}
	for ent, rt := range s.scriptCache {
		if name == "" || sameScript(rt.scriptPath, name) {
			delete(s.scriptCache, ent)
		}
	}
}

func sameScript(a, b string) bool {
	return strings.TrimPrefix(strings.TrimPrefix(a, "scripts/"), "prefabs/scripts/") ==
		strings.TrimPrefix(strings.TrimPrefix(b, "scripts/"), "prefabs/scripts/")
}

func (s *AISystem) Update(w *ecs.World, dt float64) {
	if s == nil || w == nil {
		return
	}
	byName := fightersByName(w)
	ecs.ForEach(w, component.AIComponent.Kind(), func(e ecs.Entity, ai *component.AI) {
		f, ok := ecs.Get(w, e, component.FighterComponent.Kind())
		if !ok {
			return
		}
		ctx := &aiContext{
			world: w,
			ent:   e,
			ai:    ai,
			self:  byName[f.Name],
			opp:   opponentOf(w, e, byName),
			dt:    dt,
		}
		s.updateFromScript(ctx)
	})
}

func (s *AISystem) updateFromScript(ctx *aiContext) {
	rt, err := s.getScriptRuntime(ctx.ent, ctx.ai)
	if err != nil {
		s.Logger.Printf("ai: entity=%d load script error: %v", ctx.ent, err)
		return
	}

	if ctx.ai.Current == "" {
		ctx.ai.Current = rt.initial
	}

	engine := buildAIScriptEngine(ctx, rt)
	if !rt.initialized {
		if err := rt.runPhase("enter", ctx.ai.Current, engine); err != nil {
			s.Logger.Printf("ai: entity=%d script onEnter error: %v", ctx.ent, err)
			return
		}
		rt.initialized = true
	}

	if err := rt.runPhase("update", ctx.ai.Current, engine); err != nil {
		s.Logger.Printf("ai: entity=%d script update error: %v", ctx.ent, err)
		return
	}

	if rt.pending == "" || rt.pending == ctx.ai.Current {
		rt.pending = ""
		return
	}

	prev := ctx.ai.Current
	if err := rt.runPhase("exit", prev, engine); err != nil {
		s.Logger.Printf("ai: entity=%d script onExit error: %v", ctx.ent, err)
		return
	}

	ctx.ai.Current = rt.pending
	rt.pending = ""

	if err := rt.runPhase("enter", ctx.ai.Current, engine); err != nil {
		s.Logger.Printf("ai: entity=%d script onEnter error: %v", ctx.ent, err)
	}
}

func (s *AISystem) getScriptRuntime(ent ecs.Entity, ai *component.AI) (*aiScriptRuntime, error) {
	if strings.TrimSpace(ai.ScriptPath) == "" {
		return nil, fmt.Errorf("no script path")
	}
	if s.scriptCache == nil {
		s.scriptCache = map[ecs.Entity]*aiScriptRuntime{}
	}

	if rt, ok := s.scriptCache[ent]; ok && rt != nil && rt.scriptPath == ai.ScriptPath {
		return rt, nil
	}

	scriptBytes, err := prefabs.LoadScript(ai.ScriptPath)
	if err != nil {
		return nil, err
	}

	src := string(scriptBytes) + "\n" + aiLifecycleDispatchScript
	script := tengo.NewScript([]byte(src))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__current_state", "")

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}

	rt := &aiScriptRuntime{
		scriptPath: ai.ScriptPath,
		compiled:   compiled,
		stateData:  &tengo.Map{Value: map[string]tengo.Object{}},
		initial:    "idle",
	}

	// Run once with no phase to evaluate globals such as initial_state.
	noop := &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	if err := rt.runPhase("noop", rt.initial, noop); err != nil {
		return nil, err
	}
	if compiled.IsDefined("initial_state") {
		if st := strings.TrimSpace(compiled.Get("initial_state").String()); st != "" {
			rt.initial = st
		}
	}

	s.scriptCache[ent] = rt
	return rt, nil
}

func (rt *aiScriptRuntime) runPhase(phase, current string, engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	if err := rt.compiled.Set("__current_state", current); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func vec2(x, y float64) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: x}, &tengo.Float{Value: y}}}
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func buildAIScriptEngine(ctx *aiContext, rt *aiScriptRuntime) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	self := ctx.self

	fn := func(name string, body func(args ...tengo.Object) tengo.Object) {
		values[name] = &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			return body(args...), nil
		}}
	}

	fn("transition", func(args ...tengo.Object) tengo.Object {
		if len(args) < 1 {
			return tengo.FalseValue
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue
		}
		rt.pending = name
		return tengo.TrueValue
	})

	fn("emit", func(args ...tengo.Object) tengo.Object {
		if len(args) < 1 {
			return tengo.FalseValue
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue
		}
		ctx.world.Events().Push(ecs.Event{Type: name, Entity: ctx.ent})
		return tengo.TrueValue
	})

	fn("dt", func(args ...tengo.Object) tengo.Object {
		return &tengo.Float{Value: ctx.dt}
	})

	fn("param", func(args ...tengo.Object) tengo.Object {
		if len(args) < 1 {
			return &tengo.Float{}
		}
		return &tengo.Float{Value: ctx.ai.Params[objectAsString(args[0])]}
	})

	fn("state", func(args ...tengo.Object) tengo.Object {
		if self == nil {
			return &tengo.String{}
		}
		return &tengo.String{Value: self.f.State().String()}
	})

	fn("position", func(args ...tengo.Object) tengo.Object {
		if self == nil || self.body == nil {
			return vec2(0, 0)
		}
		return vec2(self.body.Position.X, self.body.Position.Y)
	})

	fn("opponent_position", func(args ...tengo.Object) tengo.Object {
		if ctx.opp == nil || ctx.opp.body == nil {
			return vec2(0, 0)
		}
		return vec2(ctx.opp.body.Position.X, ctx.opp.body.Position.Y)
	})

	fn("opponent_down", func(args ...tengo.Object) tengo.Object {
		return boolObject(ctx.opp != nil && ctx.opp.f.IsDown())
	})

	fn("grappling", func(args ...tengo.Object) tengo.Object {
		return boolObject(self != nil && self.f.State() == fighter.GrappleAttacker)
	})

	fn("move", func(args ...tengo.Object) tengo.Object {
		if self == nil || len(args) < 1 {
			return tengo.FalseValue
		}
		x, _ := tengo.ToFloat64(args[0])
		self.f.Input.Move.X = x
		return tengo.TrueValue
	})

	fn("guard", func(args ...tengo.Object) tengo.Object {
		if self == nil {
			return tengo.FalseValue
		}
		held := len(args) == 0 || !args[0].IsFalsy()
		self.f.Input.GuardPressed = held && !self.f.Input.GuardHeld
		self.f.Input.GuardHeld = held
		return tengo.TrueValue
	})

	fn("attack", func(args ...tengo.Object) tengo.Object {
		if self == nil || len(args) < 1 {
			return tengo.FalseValue
		}
		return boolObject(pressAttack(&self.f.Input, objectAsString(args[0])))
	})

	fn("approach_grapple", func(args ...tengo.Object) tengo.Object {
		return boolObject(approachGrapple(ctx))
	})

	return &tengo.ImmutableMap{Value: values}
}

func pressAttack(in *fighter.Input, name string) bool {
	switch strings.TrimSpace(name) {
	case attack.RightPunch.String():
		in.RightPunch = true
	case attack.LeftPunch.String():
		in.LeftPunch = true
	case attack.RightKick.String():
		in.RightKick = true
	case attack.LeftKick.String():
		in.LeftKick = true
	default:
		return false
	}
	return true
}

// approachGrapple steps the AI's grapple approach and starts the grapple
// once the entry point is reached.
func approachGrapple(ctx *aiContext) bool {
	self, opp, ap := ctx.self, ctx.opp, ctx.ai.Approach
	if self == nil || self.body == nil || opp == nil || ap == nil {
		return false
	}
	in := grapple.ApproachInput{
		Self:       self.body.Position,
		FacingSign: self.body.Facing,
		TargetDown: opp.f.IsDown(),
	}
	if opp.body != nil {
		in.TargetOrigin = opp.body.Position
	}
	if opp.snap != nil {
		in.Target = *opp.snap
	}
	step := ap.Step(in)
	self.f.Input.Move.X = 0
	if step.Enter {
		entered := self.f.EnterGroundGrappleAsAttacker(opp.f, ap.Move)
		ap.Reset()
		return entered
	}
	if step.Steering && self.body.WalkSpeed > 0 {
		self.f.Input.Move.X = step.VelocityX / self.body.WalkSpeed
	}
	return false
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
