package fighter

import "sort"

// TrackEntry is the animation playing on one track.
type TrackEntry struct {
	Name string
	Loop bool
	Time float64
	Mix  float64
}

// Playback is a minimal Animator that records what plays on each track and
// advances its clock. Bone poses are left to the rig's base pose.
type Playback struct {
	TimeScale float64

	tracks map[int]*TrackEntry
}

func NewPlayback() *Playback {
	return &Playback{TimeScale: 1, tracks: make(map[int]*TrackEntry)}
}

func (p *Playback) SetAnimation(track int, name string, loop bool) {
	p.tracks[track] = &TrackEntry{Name: name, Loop: loop}
}

func (p *Playback) CurrentAnimation(track int) string {
	if e, ok := p.tracks[track]; ok {
		return e.Name
	}
	return ""
}

func (p *Playback) SetTimeScale(scale float64) {
	p.TimeScale = scale
}

func (p *Playback) SetMixDuration(track int, seconds float64) {
	if e, ok := p.tracks[track]; ok {
		e.Mix = seconds
	}
}

func (p *Playback) Track(track int) (TrackEntry, bool) {
	e, ok := p.tracks[track]
	if !ok {
		return TrackEntry{}, false
	}
	return *e, true
}

// Tracks lists the occupied track numbers in order.
func (p *Playback) Tracks() []int {
	out := make([]int, 0, len(p.tracks))
	for t := range p.tracks {
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}

func (p *Playback) Update(dt float64) {
	for _, e := range p.tracks {
		e.Time += dt * p.TimeScale
	}
}
