// Package ripple implements a single-process, push-based publish/subscribe
// dataflow engine.
//
// The engine is a graph of publishers (event sources) and subscribers
// (event sinks) connected by explicit subscription edges. Operators (see
// the op subpackage) are graph nodes that are simultaneously publisher and
// subscriber and compose into pipelines. The hub subpackage provides
// name-based, late-bindable indirection between producers and consumers.
//
// ARCHITECTURE:
//
// Synchronous Fan-Out:
// Notify runs on the caller's control-flow stack. A publisher updates its
// cached state, then synchronously calls Emit on every subscriber present
// at call time, passing itself as origin. Subscribers that are themselves
// publishers re-notify downstream recursively within the same call stack.
// There is no implicit queueing or threading inside the core.
//
// Delivery Guarantees:
//  1. Subscribers are visited in subscription order (front-to-back,
//     respecting SubscribePrepend).
//  2. Fan-out iterates a snapshot of the subscriber list. Re-entrant
//     subscribe/unsubscribe during fan-out affects later Notify calls
//     only, never the one in progress.
//  3. A subscriber returning an error aborts the remainder of the fan-out
//     and the error propagates to the Notify caller (fail-fast).
//
// Replay-On-Subscribe:
// A publisher caches its last emitted value (None until the first Notify).
// Subscribing to a publisher with non-None state delivers that state to
// the new subscriber exactly once, synchronously, before Subscribe
// returns.
//
// Demand-Driven Activation:
// A publisher may carry one activation callback, invoked with true on the
// 0->1 subscriber transition and false on the 1->0 transition. The
// callback fires before the new subscriber is inserted, so lazily
// activated upstreams can establish derived state ahead of the replay.
// Operators use this to subscribe upstream only while downstream demand
// exists.
//
// Scheduling Domain:
// The engine assumes a single logical scheduling domain. Per-publisher
// locks guard the subscriber list and cached state so that bridge helpers
// (First, the time-based operators in op) may touch a publisher from
// another goroutine, but the locks are never held across Emit calls and
// do not make concurrent Notify fan-outs atomic. Drive the graph from one
// goroutine.
package ripple
