// Package pipeline loads declarative dataflow definitions and
// instantiates them as live ripple graphs.
//
// A definition is a YAML document naming sources, operator nodes, and
// sinks, wired together through hub topics. Documents are validated in
// two stages: a CUE schema rejects structural errors (unknown fields,
// wrong shapes), then semantic checks reject dangling references,
// duplicate names, and operator arguments that do not fit the operator
// kind. Only a definition that passes both stages is buildable.
//
// Built graphs are lazy like everything else in the engine: an operator
// chain subscribes to its topic only when a sink (or an external
// subscriber) creates demand downstream.
package pipeline
