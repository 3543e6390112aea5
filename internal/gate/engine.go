package gate

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/nearly/pkg/dispatch"
	"github.com/thebtf/nearly/pkg/near"
)

// Verdict classifies one metric's candidate value against the baseline.
type Verdict string

const (
	VerdictEqual      Verdict = "equal"
	VerdictHigher     Verdict = "higher"
	VerdictLower      Verdict = "lower"
	VerdictOutOfRange Verdict = "out-of-range"
	VerdictMissing    Verdict = "missing"
)

// MetricResult is the gate outcome for a single metric.
type MetricResult struct {
	Name      string  `json:"name"`
	Baseline  float64 `json:"baseline"`
	Candidate float64 `json:"candidate"`
	Tolerance float64 `json:"tolerance"`
	Verdict   Verdict `json:"verdict"`
	Pass      bool    `json:"pass"`
}

// Report aggregates the per-metric results of one gate run.
type Report struct {
	Pass    bool           `json:"pass"`
	Total   int            `json:"total"`
	Passed  int            `json:"passed"`
	Failed  int            `json:"failed"`
	Results []MetricResult `json:"results"`
}

// Engine runs gate comparisons on a background dispatch pool. The rules are
// swappable at runtime so a file watcher can hot-reload them under a running
// server.
type Engine struct {
	pool  *dispatch.Pool
	qos   dispatch.QoS
	rules atomic.Pointer[Rules]
}

// NewEngine creates an Engine that fans comparisons out on pool under qos.
// Nil rules fall back to DefaultRules.
func NewEngine(pool *dispatch.Pool, qos dispatch.QoS, rules *Rules) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	e := &Engine{pool: pool, qos: qos}
	e.rules.Store(rules)
	return e
}

// SetRules swaps the active rules. In-flight runs keep the rules they
// started with.
func (e *Engine) SetRules(rules *Rules) {
	if rules == nil {
		return
	}
	e.rules.Store(rules)
	log.Info().Int("overrides", len(rules.Metrics)).Msg("Gate rules updated")
}

// Rules returns the active rules.
func (e *Engine) Rules() *Rules {
	return e.rules.Load()
}

// WithRules returns a new Engine sharing this engine's pool and class but
// gating with different rules, for one-off runs.
func (e *Engine) WithRules(rules *Rules) *Engine {
	return NewEngine(e.pool, e.qos, rules)
}

// Compare gates candidate against baseline. Every baseline metric is
// checked; metrics present only in the candidate are ignored. Results come
// back in baseline name order regardless of which pool worker produced them.
func (e *Engine) Compare(ctx context.Context, baseline, candidate Dataset) (*Report, error) {
	rules := e.Rules()

	names := make([]string, 0, len(baseline))
	for name := range baseline {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]MetricResult, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		i, name := i, name
		wg.Add(1)
		e.pool.SubmitQoS(e.qos, func() {
			defer wg.Done()
			base := baseline[name]
			cand, ok := candidate[name]
			if !ok {
				results[i] = MetricResult{Name: name, Baseline: base, Verdict: VerdictMissing}
				return
			}
			results[i] = classify(name, rules.For(name), base, cand)
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	report := &Report{Total: len(results), Results: results}
	for _, r := range results {
		if r.Pass {
			report.Passed++
		} else {
			report.Failed++
		}
	}
	report.Pass = report.Failed == 0

	log.Debug().
		Int("total", report.Total).
		Int("failed", report.Failed).
		Bool("pass", report.Pass).
		Msg("Gate run complete")
	return report, nil
}

// classify gates one candidate value.
func classify(name string, rule Rule, base, cand float64) MetricResult {
	result := MetricResult{
		Name:      name,
		Baseline:  base,
		Candidate: cand,
		Tolerance: near.Tolerance(cand),
	}

	// Strict exclusion trumps the baseline comparison; a value merely inside
	// the tolerance band of a bound keeps its direction verdict.
	if rule.Bound != nil && rule.Bound.Out(cand) {
		result.Verdict = VerdictOutOfRange
		return result
	}

	isEqual, isGreater := near.EqualAlsoGreater(cand, base)
	switch {
	case isEqual:
		result.Verdict = VerdictEqual
	case isGreater:
		result.Verdict = VerdictHigher
	default:
		result.Verdict = VerdictLower
	}

	switch rule.Direction {
	case DirectionNotLower:
		result.Pass = near.GreaterOrEqual(cand, base)
	case DirectionNotHigher:
		result.Pass = near.LessOrEqual(cand, base)
	default:
		result.Pass = isEqual
	}
	if rule.Bound != nil && !rule.Bound.In(cand) {
		result.Pass = false
	}
	return result
}
