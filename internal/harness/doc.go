// Package harness runs declarative conformance scenarios against
// pipeline definitions.
//
// A scenario names a pipeline, a sequence of values to feed into its
// sources, and assertions over what the sinks delivered. Scenarios are
// YAML files with strict field checking, so typos fail loudly instead
// of silently passing.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	pipeline: path/to/pipeline.yaml
//	feed:
//	  - source: raw
//	    value: 21
//	assertions:
//	  - type: emissions
//	    sink: display
//	    values: [21]
//	  - type: final_value
//	    topic: changes
//	    value: 21
//
// Golden-file comparison captures the full delivery trace, making
// ordering regressions visible even when per-sink assertions would
// still hold.
package harness
