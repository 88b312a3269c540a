// Command sandbox runs a headless two-fighter bout through the full frame
// pipeline: the AI walks in and punches, the player is knocked down at a set
// frame and the AI takes the ground grapple.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/milk9111/grapplecore/config"
	"github.com/milk9111/grapplecore/ecs"
	"github.com/milk9111/grapplecore/ecs/component"
	"github.com/milk9111/grapplecore/ecs/entity"
	"github.com/milk9111/grapplecore/ecs/system"
	"github.com/milk9111/grapplecore/fighter"
	"github.com/milk9111/grapplecore/prefabs"
	"github.com/milk9111/grapplecore/trace"
)

func main() {
	configPath := flag.String("config", "", "engine ini layered over the defaults")
	rosterName := flag.String("roster", "", "fighter roster in prefabs/ (default fighters.yaml)")
	frames := flag.Int("frames", 0, "frames to simulate (0 uses [Frame] Frames)")
	watch := flag.Bool("watch", false, "run in real time and reload prefabs when they change")
	traceOn := flag.Bool("trace", false, "print a JSON line per frame and per event")
	every := flag.Uint64("every", 1, "trace every nth frame")
	downAt := flag.Int("down", 240, "frame the player is knocked down (-1 never)")
	downHP := flag.Float64("down-hp", 50, "player HP after the knockdown")
	hold := flag.Int("hold", 300, "frames a grapple lasts before both fighters get up (0 forever)")
	seed := flag.Int64("seed", 1, "seed for grapple transition rolls")
	flag.Parse()

	eng, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	roster, err := prefabs.LoadRoster(*rosterName)
	if err != nil {
		log.Fatal(err)
	}

	logger := log.New(os.Stderr, "", log.Ltime)
	w := ecs.NewWorld()
	ents, err := entity.NewBout(w, roster, entity.Options{
		Engine: eng,
		Logger: logger,
		Rand:   rand.New(rand.NewSource(*seed)),
	})
	if err != nil {
		log.Fatal(err)
	}

	s := &sandbox{
		w:      w,
		logger: logger,
		player: ents[0],
		rival:  ents[1],
		downAt: *downAt,
		downHP: *downHP,
		hold:   *hold,
		moves:  movesFiles(roster),
	}
	if *traceOn {
		s.rec = trace.NewRecorder(os.Stdout)
		s.rec.Every = *every
	}
	s.scripts = system.InstallPipeline(w, system.PipelineOptions{
		MoveDeadzone: eng.Locomotion.MoveDeadzone,
		IdleAnim:     "idle",
		WalkAnim:     "walk",
		Logger:       logger,
		Sink:         s.event,
	})

	if *watch {
		wt, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			logger.Printf("sandbox: watch disabled: %v", err)
		} else {
			defer wt.Close()
			s.watcher = wt
		}
	}

	n := *frames
	if n <= 0 {
		n = eng.Frame.Frames
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := s.run(ctx, n, eng.Frame.StepSeconds, *watch); err != nil {
		log.Fatal(err)
	}
}

func movesFiles(roster prefabs.RosterSpec) map[string]bool {
	out := map[string]bool{}
	for _, f := range roster.Fighters {
		name := f.Moves
		if name == "" {
			name = prefabs.MovesFile
		}
		out[name] = true
	}
	return out
}

type sandbox struct {
	w       *ecs.World
	logger  *log.Logger
	rec     *trace.Recorder
	scripts *system.AISystem
	watcher *prefabs.Watcher

	player ecs.Entity
	rival  ecs.Entity

	downAt int
	downHP float64
	hold   int
	moves  map[string]bool

	grappleFrames int
}

func (s *sandbox) run(ctx context.Context, frames int, dt float64, realtime bool) error {
	var tick <-chan time.Time
	if realtime {
		ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer ticker.Stop()
		tick = ticker.C
	}
	for i := 0; i < frames; i++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return nil
		}
		s.reload()
		s.direct(i)
		s.w.Step(dt)
		if s.rec != nil {
			if err := s.rec.Frame(s.w); err != nil {
				return err
			}
		}
	}
	s.logger.Printf("sandbox: %d frames, %.2fs simulated", s.w.Frame(), s.w.Elapsed())
	return nil
}

// direct plays the scripted part of the bout: the knockdown and, after hold
// frames of grappling, both fighters getting back up.
func (s *sandbox) direct(frame int) {
	player, ok := ecs.Get(s.w, s.player, component.FighterComponent.Kind())
	if !ok {
		return
	}
	rival, ok := ecs.Get(s.w, s.rival, component.FighterComponent.Kind())
	if !ok {
		return
	}

	if frame == s.downAt {
		player.EnterDown()
		if v, ok := ecs.Get(s.w, s.player, component.VitalsComponent.Kind()); ok {
			v.HP = s.downHP
		}
		s.logger.Printf("sandbox: frame %d: %s knocked down", frame, player.Name)
	}

	if rival.State() != fighter.GrappleAttacker {
		s.grappleFrames = 0
		return
	}
	s.grappleFrames++
	if s.hold <= 0 || s.grappleFrames < s.hold {
		return
	}
	rival.ExitGroundGrappleToDown()
	player.ExitGroundGrappleToDown()
	rival.StandUp()
	player.StandUp()
	s.grappleFrames = 0
	s.logger.Printf("sandbox: frame %d: grapple broken", frame)
}

func (s *sandbox) event(frame uint64, evt ecs.Event) {
	owner := ""
	if f, ok := ecs.Get(s.w, evt.Entity, component.FighterComponent.Kind()); ok {
		owner = f.Name
	}
	if s.rec != nil {
		if err := s.rec.Event(frame, owner, evt); err != nil {
			s.logger.Printf("sandbox: %v", err)
		}
		return
	}
	if evt.Type != system.EventTimeline {
		s.logger.Printf("sandbox: frame %d: %s %s", frame, owner, evt.Type)
	}
}

// reload applies pending prefab edits between frames.
func (s *sandbox) reload() {
	if s.watcher == nil {
		return
	}
	for {
		select {
		case ch, ok := <-s.watcher.Events:
			if !ok {
				s.watcher = nil
				return
			}
			s.apply(ch)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				s.watcher = nil
				return
			}
			s.logger.Printf("sandbox: watch: %v", err)
		default:
			return
		}
	}
}

func (s *sandbox) apply(ch prefabs.Change) {
	switch ch.Kind {
	case prefabs.ScriptChanged:
		s.scripts.Invalidate(ch.Name)
		s.logger.Printf("sandbox: reloading script %s", ch.Name)
	case prefabs.SpecChanged:
		if !s.moves[ch.Name] {
			s.logger.Printf("sandbox: %s changed, restart to apply", ch.Name)
			return
		}
		lib, err := prefabs.LoadLibrary(ch.Name)
		if err != nil {
			s.logger.Printf("sandbox: reload %s: %v", ch.Name, err)
			return
		}
		entity.ReloadMoves(s.w, lib)
		s.logger.Printf("sandbox: reloaded %s", ch.Name)
	}
}
