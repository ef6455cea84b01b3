package harness

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ripplekit/ripple/internal/pipeline"
)

// TraceEvent is one sink delivery, in global delivery order.
type TraceEvent struct {
	Seq   int    `json:"seq"`
	Sink  string `json:"sink"`
	Value any    `json:"value"`
}

// Result holds the outcome of a scenario run. Failures lists every
// assertion that did not hold; an error from Run means the scenario
// could not be executed at all.
type Result struct {
	RunToken string
	Trace    []TraceEvent
	Failures []string
}

// Passed reports whether every assertion held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Run builds the scenario's pipeline, feeds it, and evaluates the
// assertions. The trace captures replay deliveries from graph
// construction as well as live ones, so activation behavior is under
// test too.
func Run(scenario *Scenario) (*Result, error) {
	cfg, errs := pipeline.Load(scenario.Pipeline)
	if len(errs) > 0 {
		return nil, fmt.Errorf("loading pipeline: %w", errors.Join(errs...))
	}

	trace := []TraceEvent{}
	g, err := pipeline.Build(cfg, func(e pipeline.Emission) error {
		trace = append(trace, TraceEvent{Seq: len(trace), Sink: e.Sink, Value: e.Value})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("building pipeline: %w", err)
	}
	defer g.Close()

	for i, step := range scenario.Feed {
		if err := g.Feed(step.Source, step.Value); err != nil {
			return nil, fmt.Errorf("feed[%d] into %q: %w", i, step.Source, err)
		}
	}

	token := scenario.RunToken
	if token == "" {
		token = uuid.NewString()
	}

	return &Result{
		RunToken: token,
		Trace:    trace,
		Failures: checkAssertions(scenario, g, trace),
	}, nil
}
