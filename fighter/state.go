package fighter

import "fmt"

// State is the behavioral mode of a fighter. Exactly one is active.
type State int

const (
	Idle State = iota
	Walk
	Guard
	Attack
	Down
	Grabbed
	GrappleAttacker
	GrappleDefender
)

var stateNames = [...]string{
	Idle:            "idle",
	Walk:            "walk",
	Guard:           "guard",
	Attack:          "attack",
	Down:            "down",
	Grabbed:         "grabbed",
	GrappleAttacker: "grapple_attacker",
	GrappleDefender: "grapple_defender",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func ParseState(s string) (State, error) {
	for i, n := range stateNames {
		if n == s {
			return State(i), nil
		}
	}
	return 0, fmt.Errorf("fighter: unknown state %q", s)
}

// neutral states read movement and attack input. Attacks start only here.
func (s State) neutral() bool {
	return s == Idle || s == Walk
}

func (s State) grappling() bool {
	return s == GrappleAttacker || s == GrappleDefender
}
