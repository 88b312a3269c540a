package component

import "github.com/milk9111/grapplecore/timeline"

// Timeline plays attack event timelines into hit regions.
type Timeline struct {
	Player  *timeline.Player
	Regions *timeline.HitRegions
}

var TimelineComponent = NewComponent[Timeline]()
