package component

import "github.com/milk9111/grapplecore/grapple"

// AI hands a fighter's input to a tengo script.
type AI struct {
	ScriptPath string
	// Params are exposed to the script through param(name).
	Params map[string]float64
	// Approach walks into grapple entry range once the opponent is down.
	Approach *grapple.Approach
	// Current is the script's state name.
	Current string
}

var AIComponent = NewComponent[AI]()
