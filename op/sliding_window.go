package op

import "github.com/ripplekit/ripple"

// SlidingWindow maintains a bounded FIFO buffer over upstream emissions.
// Each incoming value is appended, evicting the oldest once the buffer is
// over capacity. The full buffer snapshot is forwarded downstream as a
// tuple once the buffer is full; with emitPartial every append forwards
// the current, possibly partial, buffer.
type SlidingWindow struct {
	Operator
	size        int
	emitPartial bool
	buf         []any
}

// NewSlidingWindow wraps upstream with a SlidingWindow of the given
// capacity. A non-positive size is a contract violation and panics.
func NewSlidingWindow(upstream ripple.Publisher, size int, emitPartial bool) *SlidingWindow {
	if size <= 0 {
		panic("op: SlidingWindow size must be positive")
	}
	w := &SlidingWindow{size: size, emitPartial: emitPartial}
	w.Operator = NewOperator(w, upstream)
	w.buf = make([]any, 0, size)
	return w
}

// Emit implements ripple.Subscriber.
func (w *SlidingWindow) Emit(value any, from ripple.Publisher) error {
	if len(w.buf) == w.size {
		copy(w.buf, w.buf[1:])
		w.buf = w.buf[:w.size-1]
	}
	w.buf = append(w.buf, value)

	if len(w.buf) == w.size || w.emitPartial {
		snapshot := make(ripple.Tuple, len(w.buf))
		copy(snapshot, w.buf)
		return w.Notify(snapshot)
	}
	return nil
}

// Window returns a copy of the current buffer contents.
func (w *SlidingWindow) Window() []any {
	out := make([]any, len(w.buf))
	copy(out, w.buf)
	return out
}

// SlidingWindowOp returns a pipeline builder for SlidingWindow.
func SlidingWindowOp(size int, emitPartial bool) ripple.Builder {
	return func(p ripple.Publisher) ripple.Publisher {
		return NewSlidingWindow(p, size, emitPartial)
	}
}
