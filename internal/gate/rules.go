// Package gate compares candidate metric datasets against a baseline under
// scale-relative tolerance and aggregates per-metric verdicts into a run
// report.
package gate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thebtf/nearly/pkg/near"
)

// Direction says which side of the baseline a metric is allowed to land on.
type Direction string

const (
	// DirectionEqual requires the candidate to match the baseline within
	// tolerance.
	DirectionEqual Direction = "equal"
	// DirectionNotLower tolerates improvement (higher-is-better metrics).
	DirectionNotLower Direction = "not-lower"
	// DirectionNotHigher tolerates improvement (lower-is-better metrics).
	DirectionNotHigher Direction = "not-higher"
)

// BoundKind selects which range predicate an absolute bound uses.
type BoundKind string

const (
	BoundClosed   BoundKind = "closed"    // [lo, hi]
	BoundHalfOpen BoundKind = "half-open" // [lo, hi)
	BoundFrom     BoundKind = "from"      // [lo, +inf)
	BoundUpTo     BoundKind = "up-to"     // (-inf, hi)
	BoundThrough  BoundKind = "through"   // (-inf, hi]
)

// Bound is an absolute range a candidate value must stay inside, checked
// independently of the baseline comparison.
type Bound struct {
	Kind BoundKind `yaml:"kind" json:"kind"`
	Lo   float64   `yaml:"lo" json:"lo"`
	Hi   float64   `yaml:"hi" json:"hi"`
}

// In reports whether v lies inside the bound under tolerance.
func (b *Bound) In(v float64) bool {
	switch b.Kind {
	case BoundHalfOpen:
		return near.InHalfOpen(v, b.Lo, b.Hi)
	case BoundFrom:
		return near.InFrom(v, b.Lo)
	case BoundUpTo:
		return near.InUpTo(v, b.Hi)
	case BoundThrough:
		return near.InThrough(v, b.Hi)
	default:
		return near.InClosed(v, b.Lo, b.Hi)
	}
}

// Out reports whether v lies strictly outside the bound. For closed bounds
// this is narrower than !In: a value inside the tolerance band around an
// endpoint is neither in nor out, and only In decides pass/fail.
func (b *Bound) Out(v float64) bool {
	switch b.Kind {
	case BoundHalfOpen:
		return near.OutOfHalfOpen(v, b.Lo, b.Hi)
	case BoundFrom:
		return near.OutOfFrom(v, b.Lo)
	case BoundUpTo:
		return near.OutOfUpTo(v, b.Hi)
	case BoundThrough:
		return near.OutOfThrough(v, b.Hi)
	default:
		return near.OutOfClosed(v, b.Lo, b.Hi)
	}
}

// Rule is the gate policy for one metric.
type Rule struct {
	Direction Direction `yaml:"direction" json:"direction"`
	Bound     *Bound    `yaml:"bound,omitempty" json:"bound,omitempty"`
}

// Rules is a rules file: a default policy plus per-metric overrides.
type Rules struct {
	Default Rule            `yaml:"default" json:"default"`
	Metrics map[string]Rule `yaml:"metrics" json:"metrics"`
}

// DefaultRules requires tolerance-equality for every metric.
func DefaultRules() *Rules {
	return &Rules{Default: Rule{Direction: DirectionEqual}}
}

// For returns the effective rule for a metric, falling back to the default
// policy and then to DirectionEqual.
func (r *Rules) For(name string) Rule {
	rule, ok := r.Metrics[name]
	if !ok {
		rule = r.Default
	}
	if rule.Direction == "" {
		rule.Direction = DirectionEqual
	}
	return rule
}

// Validate rejects unknown directions and bound kinds so typos in a rules
// file fail loudly instead of silently gating on the default policy.
func (r *Rules) Validate() error {
	check := func(name string, rule Rule) error {
		switch rule.Direction {
		case "", DirectionEqual, DirectionNotLower, DirectionNotHigher:
		default:
			return fmt.Errorf("rule %q: unknown direction %q", name, rule.Direction)
		}
		if rule.Bound != nil {
			switch rule.Bound.Kind {
			case "", BoundClosed, BoundHalfOpen, BoundFrom, BoundUpTo, BoundThrough:
			default:
				return fmt.Errorf("rule %q: unknown bound kind %q", name, rule.Bound.Kind)
			}
		}
		return nil
	}

	if err := check("default", r.Default); err != nil {
		return err
	}
	for name, rule := range r.Metrics {
		if err := check(name, rule); err != nil {
			return err
		}
	}
	return nil
}

// LoadRules reads and validates a YAML rules file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	rules := DefaultRules()
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("validate rules file: %w", err)
	}
	return rules, nil
}
