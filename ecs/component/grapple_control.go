package component

import (
	"math/rand"

	"github.com/milk9111/grapplecore/grapple"
)

// GrappleControl picks follow-up grapple moves while a hold runs.
type GrappleControl struct {
	Lookup func(id string) (*grapple.Move, error)
	// CheckEvery is how often transitions are rolled, in seconds of hold time.
	CheckEvery float64
	Rand       *rand.Rand

	// Watching is the move NextCheck was armed for.
	Watching  *grapple.Move
	NextCheck float64
}

var GrappleControlComponent = NewComponent[GrappleControl]()
