package hub

import (
	"sort"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/ripplekit/ripple"
)

// Hub is a registry mapping names to Topics, creating entries on first
// reference.
//
// Thread-safety: the registry itself is safe for concurrent use. Driving
// the topics (notify, subscribe) follows the engine's single scheduling
// domain rules.
type Hub struct {
	mu     sync.Mutex
	topics map[string]*Topic
}

// Binder installs a publisher as a topic's subject. It is consumed via
// pipeline composition: Publish("x", nil)(source).
type Binder func(subject ripple.Publisher) (*Topic, error)

// New returns an empty Hub.
func New() *Hub {
	return &Hub{topics: make(map[string]*Topic)}
}

// Topic returns the Topic registered under name, creating and registering
// an unbound one when the name is referenced for the first time. The
// created entry is permanent: Contains reports true afterward regardless
// of binding state.
func (h *Hub) Topic(name string) *Topic {
	name = canonicalName(name)
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.topics[name]
	if !ok {
		t = newTopic(name)
		h.topics[name] = t
	}
	return t
}

// Contains reports whether name has been referenced before.
func (h *Hub) Contains(name string) bool {
	name = canonicalName(name)
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.topics[name]
	return ok
}

// Publish returns a Binder for the topic registered under name. Binding
// fails when the topic already has a subject. On success, queued demand
// is flushed (the topic subscribes to the new subject when it already has
// subscribers), meta is attached, and pending assignment waits resolve.
func (h *Hub) Publish(name string, meta map[string]any) Binder {
	t := h.Topic(name)
	return func(subject ripple.Publisher) (*Topic, error) {
		if err := t.bind(subject, meta); err != nil {
			return nil, err
		}
		return t, nil
	}
}

// Names returns the registered topic names in sorted order.
func (h *Hub) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.topics))
	for name := range h.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// canonicalName normalizes a topic name to NFC so composed and
// decomposed spellings address the same topic.
func canonicalName(name string) string {
	return norm.NFC.String(name)
}
