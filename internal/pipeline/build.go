package pipeline

import (
	"errors"
	"fmt"

	"github.com/ripplekit/ripple"
	"github.com/ripplekit/ripple/hub"
	"github.com/ripplekit/ripple/op"
)

// Emission is a value that reached a declared sink.
type Emission struct {
	Sink  string
	Value any
}

// EmitFunc receives sink emissions. A non-nil error aborts the fan-out
// that produced the emission and surfaces at the feeding call site.
type EmitFunc func(Emission) error

// Graph is a live pipeline instance. Feed drives sources by name;
// Close disposes sink subscriptions and stops time-based operators.
type Graph struct {
	cfg     *Config
	hub     *hub.Hub
	sources map[string]*ripple.Value
	closers []interface{ Close() }
	subs    []*ripple.Subscription
}

// Build instantiates cfg as a live graph. The config must have passed
// Check; Build trusts it and lets operator construction panics stand
// for violated preconditions.
//
// Wiring is order-independent: every element publishes to the hub
// topic carrying its name and consumes its inputs through topics, so a
// node may reference elements declared after it.
func Build(cfg *Config, emit EmitFunc) (*Graph, error) {
	g := &Graph{
		cfg:     cfg,
		hub:     hub.New(),
		sources: make(map[string]*ripple.Value, len(cfg.Sources)),
	}

	for _, src := range cfg.Sources {
		init := ripple.None
		if src.Initial != nil {
			init = *src.Initial
		}
		v := ripple.NewValue(init)
		if _, err := g.hub.Publish(src.Name, nil)(v); err != nil {
			return nil, fmt.Errorf("binding source %q: %w", src.Name, err)
		}
		g.sources[src.Name] = v
	}

	for _, node := range cfg.Nodes {
		head, err := g.nodeInput(node)
		if err != nil {
			return nil, err
		}
		cur := head
		for _, spec := range node.Ops {
			cur = builderFor(spec)(cur)
			if c, ok := cur.(interface{ Close() }); ok {
				g.closers = append(g.closers, c)
			}
		}
		if _, err := g.hub.Publish(node.Name, nil)(cur); err != nil {
			return nil, fmt.Errorf("binding node %q: %w", node.Name, err)
		}
	}

	for _, sink := range cfg.Sinks {
		name := sink.Name
		s := ripple.NewSink(func(v any) error {
			if emit == nil {
				return nil
			}
			return emit(Emission{Sink: name, Value: v})
		})
		sub, err := g.hub.Topic(sink.From).Subscribe(s)
		if err != nil {
			return nil, fmt.Errorf("attaching sink %q: %w", name, err)
		}
		g.subs = append(g.subs, sub)
	}

	return g, nil
}

// nodeInput resolves a node's input publisher: a single topic feeds
// the chain directly, several are merged by a latest-value combiner.
func (g *Graph) nodeInput(node Node) (ripple.Publisher, error) {
	if len(node.From) == 1 {
		return g.hub.Topic(node.From[0]), nil
	}
	topics := make([]ripple.Publisher, len(node.From))
	byName := make(map[string]ripple.Publisher, len(node.From))
	for i, from := range node.From {
		topics[i] = g.hub.Topic(from)
		byName[from] = topics[i]
	}
	var opts []op.CombineOption
	if len(node.EmitOn) > 0 {
		triggers := make([]ripple.Publisher, len(node.EmitOn))
		for i, name := range node.EmitOn {
			triggers[i] = byName[name]
		}
		opts = append(opts, op.EmitOn(triggers...))
	}
	return op.NewCombineLatest(topics, opts...), nil
}

// builderFor maps a checked OpSpec to its operator builder.
func builderFor(spec OpSpec) ripple.Builder {
	switch spec.Kind {
	case "cache":
		return op.CacheOp(*spec.Seed)
	case "distinct":
		if spec.Seed != nil {
			return op.DistinctOp(*spec.Seed)
		}
		return op.DistinctOp()
	case "sliding_window":
		return op.SlidingWindowOp(spec.Size, spec.EmitPartial)
	case "true":
		return op.TrueOp()
	case "false":
		return op.FalseOp()
	case "delay":
		return op.DelayOp(spec.Interval.Std())
	case "debounce":
		return op.DebounceOp(spec.Interval.Std())
	case "throttle":
		return op.ThrottleOp(spec.Interval.Std())
	default:
		panic(fmt.Sprintf("unchecked operator kind %q", spec.Kind))
	}
}

// Hub exposes the graph's topic registry, so callers can subscribe to
// intermediate topics or wait for assignments.
func (g *Graph) Hub() *hub.Hub {
	return g.hub
}

// Config returns the definition the graph was built from.
func (g *Graph) Config() *Config {
	return g.cfg
}

// Source returns the named root publisher.
func (g *Graph) Source(name string) (*ripple.Value, error) {
	v, ok := g.sources[name]
	if !ok {
		return nil, fmt.Errorf("no source named %q", name)
	}
	return v, nil
}

// Feed emits value on the named source. Delivery errors from the
// synchronous fan-out surface here.
func (g *Graph) Feed(source string, value any) error {
	v, err := g.Source(source)
	if err != nil {
		return err
	}
	return v.Emit(value, nil)
}

// Close disposes sink subscriptions and stops time-based operators.
// The graph must not be fed afterward.
func (g *Graph) Close() error {
	var errs []error
	for _, sub := range g.subs {
		if err := sub.Dispose(); err != nil && !ripple.IsNotSubscribed(err) {
			errs = append(errs, err)
		}
	}
	for _, c := range g.closers {
		c.Close()
	}
	return errors.Join(errs...)
}
