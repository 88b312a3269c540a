package timeline

import "sort"

// Default hit-region event names, one per limb.
const (
	HitRightHand = "HB_RHand"
	HitLeftHand  = "HB_LHand"
	HitRightFoot = "HB_RKick"
	HitLeftFoot  = "HB_LKick"
)

// HitRegions tracks which named hit regions are switched on. Events with an
// unknown name are ignored.
type HitRegions struct {
	active map[string]bool
}

func NewHitRegions(names ...string) *HitRegions {
	if len(names) == 0 {
		names = []string{HitRightHand, HitLeftHand, HitRightFoot, HitLeftFoot}
	}
	h := &HitRegions{active: make(map[string]bool, len(names))}
	for _, n := range names {
		h.active[n] = false
	}
	return h
}

// Apply switches the region named by evt: on when Value >= 0.5.
func (h *HitRegions) Apply(evt Event) bool {
	if h == nil {
		return false
	}
	if _, ok := h.active[evt.Name]; !ok {
		return false
	}
	h.active[evt.Name] = evt.Value >= 0.5
	return true
}

// Handler adapts Apply to an Emitter handler.
func (h *HitRegions) Handler() Handler {
	return func(_ string, _ float64, evt Event) {
		h.Apply(evt)
	}
}

func (h *HitRegions) Active(name string) bool {
	if h == nil {
		return false
	}
	return h.active[name]
}

// ActiveNames lists the regions currently on, sorted.
func (h *HitRegions) ActiveNames() []string {
	if h == nil {
		return nil
	}
	var out []string
	for n, on := range h.active {
		if on {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Reset switches every region off.
func (h *HitRegions) Reset() {
	if h == nil {
		return
	}
	for n := range h.active {
		h.active[n] = false
	}
}
