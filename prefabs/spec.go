package prefabs

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapplecore/attack"
	"github.com/milk9111/grapplecore/fighter"
	"github.com/milk9111/grapplecore/grapple"
	"github.com/milk9111/grapplecore/skeleton"
	"gopkg.in/yaml.v3"
)

const (
	MovesFile  = "moves.yaml"
	RosterFile = "fighters.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// MovesSpec is the authored move data: attacks keyed by limb name, attack
// animation names and the ground grapple holds.
type MovesSpec struct {
	Attacks        map[string]*attack.Move `yaml:"attacks"`
	Animations     *attack.Animations      `yaml:"animations"`
	Grapples       []grapple.Move          `yaml:"grapples"`
	DefaultGrapple string                  `yaml:"default_grapple"`
}

// FighterSpec places one fighter in a bout.
type FighterSpec struct {
	Name       string    `yaml:"name"`
	Rig        string    `yaml:"rig"`
	Moves      string    `yaml:"moves"`
	Position   cp.Vector `yaml:"position"`
	FacingLeft bool      `yaml:"facing_left"`

	// Script, when set, hands the fighter's input to a tengo AI script.
	Script string `yaml:"script"`

	AimBone    string              `yaml:"aim_bone"`
	HP         float64             `yaml:"hp"`
	Animations *fighter.Animations `yaml:"animations"`
}

type RosterSpec struct {
	Fighters []FighterSpec `yaml:"fighters"`
}

func LoadRigSpec(filename string) (skeleton.RigSpec, error) {
	return LoadSpec[skeleton.RigSpec](filename)
}

func LoadMovesSpec(filename string) (MovesSpec, error) {
	if filename == "" {
		filename = MovesFile
	}
	return LoadSpec[MovesSpec](filename)
}

func LoadRoster(filename string) (RosterSpec, error) {
	if filename == "" {
		filename = RosterFile
	}
	spec, err := LoadSpec[RosterSpec](filename)
	if err != nil {
		return RosterSpec{}, err
	}
	for i, f := range spec.Fighters {
		if f.Name == "" {
			return RosterSpec{}, fmt.Errorf("prefabs: %s: fighter %d has no name", filename, i)
		}
		if f.Rig == "" {
			return RosterSpec{}, fmt.Errorf("prefabs: %s: fighter %q has no rig", filename, f.Name)
		}
	}
	return spec, nil
}
