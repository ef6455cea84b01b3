// Package record provides a SQLite-backed trace recorder for ripple
// graphs.
//
// A Recorder captures sink emissions as an append-only log, grouped
// into runs. It is a diagnostics sink, not part of the delivery path:
// delivery remains synchronous and in-memory, and a recorder failure
// surfaces like any other subscriber error. Traces are read back by
// the CLI for inspection.
//
// Ordering uses a per-run logical sequence number, never timestamps,
// so reading a trace back yields the exact delivery order regardless
// of wall-clock resolution.
package record
