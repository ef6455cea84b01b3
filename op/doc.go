// Package op provides the operator library for ripple pipelines.
//
// An operator is a graph node that is simultaneously publisher and
// subscriber. Operators activate their upstream publisher(s) lazily: the
// upstream subscription exists if and only if the operator itself has at
// least one subscriber. An operator with zero subscribers therefore
// receives no emissions, conserving resources and avoiding side effects
// in sources with subscribe-triggered behavior.
//
// Synchronous operators (Cache, Distinct, Filter, Map, SlidingWindow,
// CombineLatest) transform on the notifier's stack. The time-based
// operators (Delay, Debounce, Throttle) re-emit from their own timer or
// worker goroutines and carry a Close method for shutdown; they sit at
// the boundary of the otherwise synchronous core.
//
// Every operator has a Builder-returning counterpart (CacheOp, DistinctOp,
// ...) for use with ripple.Pipe.
package op
