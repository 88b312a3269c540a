// Package curve provides eased 0..1 progress curves for timed motions.
package curve

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

var ErrUnknownCurve = errors.New("curve: unknown curve")

// EaseInOut is the name of the default curve: a cubic hermite with flat
// tangents at both ends (smoothstep).
const EaseInOut = "ease_in_out"

var named = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in_quad":      ease.InQuad,
	"out_quad":     ease.OutQuad,
	"in_out_quad":  ease.InOutQuad,
	"in_cubic":     ease.InCubic,
	"out_cubic":    ease.OutCubic,
	"in_out_cubic": ease.InOutCubic,
	"in_sine":      ease.InSine,
	"out_sine":     ease.OutSine,
	"in_out_sine":  ease.InOutSine,
	"in_back":      ease.InBack,
	"out_back":     ease.OutBack,
	"out_bounce":   ease.OutBounce,
}

// Key is one keyframe of a piecewise-linear curve.
type Key struct {
	T float64 `yaml:"t"`
	V float64 `yaml:"v"`
}

// Curve maps normalized time to normalized progress. The zero value is
// linear; IsZero lets callers substitute their own default.
type Curve struct {
	name string
	fn   ease.TweenFunc
	keys []Key
}

// Named looks up a curve by name.
func Named(name string) (Curve, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == EaseInOut {
		return Curve{name: n}, nil
	}
	fn, ok := named[n]
	if !ok {
		return Curve{}, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
	return Curve{name: n, fn: fn}, nil
}

// Default returns the smoothstep ease-in-out curve.
func Default() Curve {
	return Curve{name: EaseInOut}
}

func Linear() Curve {
	return Curve{name: "linear", fn: ease.Linear}
}

// FromKeys builds a piecewise-linear curve. Keys are sorted by T.
func FromKeys(keys ...Key) Curve {
	sorted := append([]Key(nil), keys...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].T < sorted[j].T })
	return Curve{name: "keys", keys: sorted}
}

func (c Curve) Name() string {
	if c.name == "" {
		return "linear"
	}
	return c.name
}

func (c Curve) IsZero() bool {
	return c.name == "" && c.fn == nil && len(c.keys) == 0
}

// Evaluate returns the eased value at t. t is clamped into [0, 1].
func (c Curve) Evaluate(t float64) float64 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	switch {
	case len(c.keys) > 0:
		return evalKeys(c.keys, t)
	case c.name == EaseInOut:
		return t * t * (3 - 2*t)
	case c.fn != nil:
		return float64(c.fn(float32(t), 0, 1, 1))
	default:
		return t
	}
}

func evalKeys(keys []Key, t float64) float64 {
	if t <= keys[0].T {
		return keys[0].V
	}
	last := keys[len(keys)-1]
	if t >= last.T {
		return last.V
	}
	for i := 1; i < len(keys); i++ {
		a, b := keys[i-1], keys[i]
		if t > b.T {
			continue
		}
		span := b.T - a.T
		if span <= 0 {
			return b.V
		}
		return a.V + (t-a.T)/span*(b.V-a.V)
	}
	return last.V
}

// UnmarshalYAML accepts either a curve name or a list of {t, v} keys.
func (c *Curve) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if strings.TrimSpace(node.Value) == "" {
			*c = Curve{}
			return nil
		}
		parsed, err := Named(node.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case yaml.SequenceNode:
		var keys []Key
		if err := node.Decode(&keys); err != nil {
			return fmt.Errorf("curve: decode keys: %w", err)
		}
		if len(keys) == 0 {
			*c = Curve{}
			return nil
		}
		*c = FromKeys(keys...)
		return nil
	default:
		return fmt.Errorf("curve: unsupported yaml node kind %d", node.Kind)
	}
}
