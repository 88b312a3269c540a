package component

import "github.com/jakecoffman/cp"

// AimTarget is where attack channels aim. Bone is looked up on the
// opponent's pose snapshot; Point holds the last resolved scene position.
type AimTarget struct {
	Bone  string
	Point cp.Vector
	Valid bool
}

var AimTargetComponent = NewComponent[AimTarget]()
