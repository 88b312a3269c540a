// Package config loads engine tuning from ini files. The embedded defaults
// are always loaded first; a user file only needs the keys it changes.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/milk9111/grapplecore/attack"
	"github.com/milk9111/grapplecore/curve"
	"github.com/milk9111/grapplecore/fighter"
	"github.com/milk9111/grapplecore/ik"
	"gopkg.in/ini.v1"
)

//go:embed default.ini
var defaultIni []byte

type Aim struct {
	HandRadius         float64 `ini:"HandRadius"`
	FootRadius         float64 `ini:"FootRadius"`
	DefaultToAimCurve  string  `ini:"DefaultToAimCurve"`
	DefaultReturnCurve string  `ini:"DefaultReturnCurve"`
}

type Attack struct {
	FallbackToAim        float64 `ini:"FallbackToAim"`
	FallbackHold         float64 `ini:"FallbackHold"`
	FallbackReturn       float64 `ini:"FallbackReturn"`
	FallbackLockOverride float64 `ini:"FallbackLockOverride"`
	FallbackBlend        float64 `ini:"FallbackBlend"`
}

type Locomotion struct {
	MoveDeadzone float64 `ini:"MoveDeadzone"`
	WalkSpeed    float64 `ini:"WalkSpeed"`
}

type Frame struct {
	StepSeconds float64 `ini:"StepSeconds"`
	Frames      int     `ini:"Frames"`
}

type AI struct {
	ApproachDistance float64 `ini:"ApproachDistance"`
	AttackInterval   float64 `ini:"AttackInterval"`
	ApproachSpeed    float64 `ini:"ApproachSpeed"`
	StopDistanceX    float64 `ini:"StopDistanceX"`
	Script           string  `ini:"Script"`
}

type Engine struct {
	Aim        Aim        `ini:"Aim"`
	Attack     Attack     `ini:"Attack"`
	Locomotion Locomotion `ini:"Locomotion"`
	Frame      Frame      `ini:"Frame"`
	AI         AI         `ini:"AI"`

	// Source is the user file layered over the defaults, if any.
	Source string `ini:"-"`
}

var loadOptions = ini.LoadOptions{
	SkipUnrecognizableLines: true,
}

// Default returns the embedded defaults.
func Default() (*Engine, error) {
	return Load("")
}

// Load reads the defaults and, when path names an existing file, layers it
// on top.
func Load(path string) (*Engine, error) {
	sources := []interface{}{defaultIni}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		sources = append(sources, path)
	}
	return load(sources...)
}

// Parse layers raw ini data over the defaults.
func Parse(data []byte) (*Engine, error) {
	return load(defaultIni, data)
}

func load(sources ...interface{}) (*Engine, error) {
	f, err := ini.LoadSources(loadOptions, sources[0], sources[1:]...)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	var e Engine
	if err := f.MapTo(&e); err != nil {
		return nil, fmt.Errorf("config: map: %w", err)
	}
	if len(sources) > 1 {
		if p, ok := sources[len(sources)-1].(string); ok {
			e.Source = p
		}
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

func (e *Engine) Validate() error {
	switch {
	case e.Aim.HandRadius < 0 || e.Aim.FootRadius < 0:
		return fmt.Errorf("config: [Aim] radii must not be negative")
	case e.Frame.StepSeconds <= 0:
		return fmt.Errorf("config: [Frame] StepSeconds must be positive, got %v", e.Frame.StepSeconds)
	case e.Frame.Frames < 0:
		return fmt.Errorf("config: [Frame] Frames must not be negative")
	case e.Locomotion.MoveDeadzone < 0:
		return fmt.Errorf("config: [Locomotion] MoveDeadzone must not be negative")
	case e.Attack.FallbackBlend < 0 || e.Attack.FallbackBlend > 1:
		return fmt.Errorf("config: [Attack] FallbackBlend must be within [0, 1]")
	}
	if _, err := e.IK(); err != nil {
		return err
	}
	return nil
}

// IK builds the aimer defaults.
func (e *Engine) IK() (ik.Config, error) {
	cfg := ik.Config{HandRadius: e.Aim.HandRadius, FootRadius: e.Aim.FootRadius}
	var err error
	if cfg.ToCurve, err = namedOrDefault(e.Aim.DefaultToAimCurve); err != nil {
		return ik.Config{}, fmt.Errorf("config: [Aim] DefaultToAimCurve: %w", err)
	}
	if cfg.ReturnCurve, err = namedOrDefault(e.Aim.DefaultReturnCurve); err != nil {
		return ik.Config{}, fmt.Errorf("config: [Aim] DefaultReturnCurve: %w", err)
	}
	return cfg, nil
}

func namedOrDefault(name string) (curve.Curve, error) {
	if name == "" {
		return curve.Default(), nil
	}
	return curve.Named(name)
}

func (e *Engine) Fallback() attack.Fallback {
	return attack.Fallback{
		ToAim:        e.Attack.FallbackToAim,
		Hold:         e.Attack.FallbackHold,
		Return:       e.Attack.FallbackReturn,
		LockOverride: e.Attack.FallbackLockOverride,
		Mix:          e.Attack.FallbackBlend,
	}
}

func (e *Engine) Fighter() fighter.Config {
	cfg := fighter.DefaultConfig()
	cfg.MoveDeadzone = e.Locomotion.MoveDeadzone
	return cfg
}
