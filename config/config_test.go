package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/grapplecore/curve"
)

func TestDefault(t *testing.T) {
	e, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if e.Aim.HandRadius != 2.5 || e.Aim.FootRadius != 3.0 {
		t.Fatalf("radii = %v/%v", e.Aim.HandRadius, e.Aim.FootRadius)
	}
	if e.Attack.FallbackToAim != 0.08 || e.Attack.FallbackHold != 0.10 || e.Attack.FallbackReturn != 0.12 {
		t.Fatalf("fallback = %+v", e.Attack)
	}
	if e.Locomotion.MoveDeadzone != 0.05 || e.Frame.Frames != 600 || e.AI.StopDistanceX != 0.12 {
		t.Fatalf("unexpected defaults %+v", e)
	}
	if e.Source != "" {
		t.Fatalf("source = %q", e.Source)
	}

	cfg, err := e.IK()
	if err != nil {
		t.Fatalf("IK: %v", err)
	}
	if cfg.ToCurve.Name() != curve.EaseInOut || cfg.ReturnCurve.Name() != curve.EaseInOut {
		t.Fatalf("curves = %q/%q", cfg.ToCurve.Name(), cfg.ReturnCurve.Name())
	}
	if fb := e.Fallback(); fb.Mix != 1 || fb.LockOverride != 0 {
		t.Fatalf("fallback = %+v", fb)
	}
	if fc := e.Fighter(); fc.MoveDeadzone != 0.05 || fc.Animations.Down != "down" {
		t.Fatalf("fighter config = %+v", fc)
	}
}

func TestLoadLayersUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.ini")
	user := "[Aim]\nHandRadius = 1.75\nDefaultReturnCurve = out_quad\n\n[Frame]\nFrames = 120\n"
	if err := os.WriteFile(path, []byte(user), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	e, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if e.Aim.HandRadius != 1.75 || e.Aim.FootRadius != 3.0 {
		t.Fatalf("radii = %v/%v", e.Aim.HandRadius, e.Aim.FootRadius)
	}
	if e.Frame.Frames != 120 || e.Frame.StepSeconds <= 0 {
		t.Fatalf("frame = %+v", e.Frame)
	}
	cfg, _ := e.IK()
	if cfg.ReturnCurve.Name() != "out_quad" {
		t.Fatalf("return curve = %q", cfg.ReturnCurve.Name())
	}
	if e.Source != path {
		t.Fatalf("source = %q", e.Source)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.ini")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}
	cases := []struct {
		name string
		data string
	}{
		{"bad_curve", "[Aim]\nDefaultToAimCurve = wobble\n"},
		{"negative_radius", "[Aim]\nFootRadius = -1\n"},
		{"zero_step", "[Frame]\nStepSeconds = 0\n"},
		{"blend_range", "[Attack]\nFallbackBlend = 2\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Parse([]byte(c.data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
