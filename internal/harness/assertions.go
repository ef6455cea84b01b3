package harness

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/ripplekit/ripple"
	"github.com/ripplekit/ripple/internal/pipeline"
)

// checkAssertions evaluates every assertion and returns the failures.
func checkAssertions(s *Scenario, g *pipeline.Graph, trace []TraceEvent) []string {
	var failures []string
	for i, a := range s.Assertions {
		if msg := checkAssertion(&a, g, trace); msg != "" {
			failures = append(failures, fmt.Sprintf("assertions[%d] (%s): %s", i, a.Type, msg))
		}
	}
	return failures
}

// checkAssertion returns an empty string when the assertion holds.
func checkAssertion(a *Assertion, g *pipeline.Graph, trace []TraceEvent) string {
	switch a.Type {
	case AssertEmissions:
		got := sinkValues(trace, a.Sink)
		if !traceEqual(got, a.Values) {
			return fmt.Sprintf("sink %q delivered %v, want %v", a.Sink, got, a.Values)
		}
	case AssertEmissionCount:
		got := len(sinkValues(trace, a.Sink))
		if got != a.Count {
			return fmt.Sprintf("sink %q delivered %d values, want %d", a.Sink, got, a.Count)
		}
	case AssertContains:
		for _, v := range sinkValues(trace, a.Sink) {
			if valueEqual(v, a.Value) {
				return ""
			}
		}
		return fmt.Sprintf("sink %q never delivered %v", a.Sink, a.Value)
	case AssertFinalValue:
		got := g.Hub().Topic(a.Topic).Get()
		if !valueEqual(got, a.Value) {
			return fmt.Sprintf("topic %q holds %v, want %v", a.Topic, got, a.Value)
		}
	}
	return ""
}

// sinkValues extracts one sink's deliveries in order.
func sinkValues(trace []TraceEvent, sink string) []any {
	var values []any
	for _, e := range trace {
		if e.Sink == sink {
			values = append(values, e.Value)
		}
	}
	return values
}

// traceEqual compares ordered deliveries against expected values.
func traceEqual(got, want []any) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !valueEqual(got[i], want[i]) {
			return false
		}
	}
	return true
}

// valueEqual compares an emitted value with a YAML-decoded expectation.
// Both sides pass through a JSON round-trip first: tuples become plain
// arrays and all numbers become float64, so int/float and
// Tuple/[]any representation differences do not produce false
// mismatches.
func valueEqual(got, want any) bool {
	return reflect.DeepEqual(normalize(got), normalize(want))
}

// normalize maps a value onto its JSON-decoded shape. The undefined
// sentinel maps to "<none>", matching the trace recorder.
func normalize(v any) any {
	if ripple.IsNone(v) {
		return "<none>"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("unencodable(%v)", v)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Sprintf("undecodable(%v)", v)
	}
	return out
}
