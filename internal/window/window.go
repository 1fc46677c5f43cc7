// Package window computes which top-level threads intersect the viewport.
//
// Each top-level thread is one block; its replies render inside it. Blocks
// take their last measured height, or the default height until measured.
// A block is visible when its [top, bottom) span overlaps the viewport
// extended by a fixed buffer on both sides. Everything before the first
// visible block is summed into OffscreenAbove and everything after the last
// one into OffscreenBelow, so the consumer can pad the hidden regions and
// keep the scroll position stable.
package window

import (
	"sync"
	"time"

	"github.com/atomicstack/threadview/internal/logging/events"
	"github.com/atomicstack/threadview/internal/thread"
)

const (
	// DefaultBuffer is how far beyond each viewport edge blocks are kept.
	DefaultBuffer = 900
	// DefaultHeight is assumed for a block until SetBlockHeight measures it.
	DefaultHeight = 200
	// DefaultDebounce is the quiet period after scroll or resize events
	// before the window recomputes.
	DefaultDebounce = 20 * time.Millisecond
)

// EventKind identifies a viewport notification.
type EventKind int

const (
	EventScroll EventKind = iota
	EventResize
)

func (k EventKind) String() string {
	switch k {
	case EventScroll:
		return "scroll"
	case EventResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Viewport supplies scroll metrics and change notifications. The function
// returned by AddListener removes the listener.
type Viewport interface {
	ScrollOffset() int
	Height() int
	AddListener(kind EventKind, fn func()) (remove func())
}

// Block is the rendered unit for one top-level thread.
type Block struct {
	ID     string
	Thread *thread.Node
}

// State is the result of a recompute.
type State struct {
	Visible        []Block
	OffscreenAbove int
	OffscreenBelow int
}

// VisibleIDs returns the ids of the visible blocks in order.
func (s State) VisibleIDs() []string {
	ids := make([]string, len(s.Visible))
	for idx, block := range s.Visible {
		ids[idx] = block.ID
	}
	return ids
}

// Option configures a Window.
type Option func(*Window)

// WithBuffer sets the margin added above and below the viewport.
func WithBuffer(n int) Option {
	return func(w *Window) {
		if n >= 0 {
			w.buffer = n
		}
	}
}

// WithDefaultHeight sets the height assumed for unmeasured blocks.
func WithDefaultHeight(n int) Option {
	return func(w *Window) {
		if n >= 0 {
			w.defaultHeight = n
		}
	}
}

// WithDebounce sets the quiet period after scroll and resize bursts.
func WithDebounce(d time.Duration) Option {
	return func(w *Window) {
		w.debounce = d
	}
}

type subscriber struct {
	fn func(State)
}

// Window tracks the block list, the height cache and the last computed
// state. Debounced recomputes run on a timer goroutine, so the fields are
// guarded by mu and subscribers are called without it held.
type Window struct {
	viewport      Viewport
	buffer        int
	defaultHeight int
	debounce      time.Duration
	debouncer     *debouncer

	mu          sync.Mutex
	blocks      []Block
	heights     map[string]int
	state       State
	detached    bool
	removers    []func()
	subscribers []*subscriber
}

// New attaches a window to vp and starts listening for scroll and resize
// notifications.
func New(vp Viewport, opts ...Option) *Window {
	w := &Window{
		viewport:      vp,
		buffer:        DefaultBuffer,
		defaultHeight: DefaultHeight,
		debounce:      DefaultDebounce,
		heights:       make(map[string]int),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = newDebouncer(w.debounce)
	if vp != nil {
		for _, kind := range []EventKind{EventScroll, EventResize} {
			kind := kind
			w.removers = append(w.removers, vp.AddListener(kind, func() { w.onViewportEvent(kind) }))
		}
	}
	return w
}

func (w *Window) onViewportEvent(kind EventKind) {
	w.mu.Lock()
	detached := w.detached
	w.mu.Unlock()
	if detached {
		return
	}
	events.Window.Debounce(kind.String())
	w.debouncer.trigger(w.recomputeIfAttached)
}

func (w *Window) recomputeIfAttached() {
	w.mu.Lock()
	detached := w.detached
	w.mu.Unlock()
	if detached {
		return
	}
	w.Recompute()
}

// SetRootThread replaces the block list with the root's top-level threads
// and recomputes immediately.
func (w *Window) SetRootThread(root *thread.Node) State {
	w.mu.Lock()
	w.blocks = w.blocks[:0]
	if root != nil {
		for _, child := range root.Children {
			w.blocks = append(w.blocks, Block{ID: child.ID, Thread: child})
		}
	}
	w.mu.Unlock()
	return w.Recompute()
}

// SetBlockHeight records a measured height. It does not recompute; the
// measurement takes effect with the next recompute.
func (w *Window) SetBlockHeight(id string, height int) {
	if height < 0 {
		height = 0
	}
	w.mu.Lock()
	w.heights[id] = height
	w.mu.Unlock()
}

// Height returns the cached or default height for a block.
func (w *Window) Height(id string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.heightLocked(id)
}

func (w *Window) heightLocked(id string) int {
	if h, ok := w.heights[id]; ok {
		return h
	}
	return w.defaultHeight
}

// Recompute derives a new State from the current blocks, heights and
// viewport, stores it and notifies subscribers.
func (w *Window) Recompute() State {
	w.mu.Lock()
	offset, height := 0, 0
	if w.viewport != nil {
		offset = w.viewport.ScrollOffset()
		height = w.viewport.Height()
	}
	state := w.computeLocked(offset, height)
	w.state = state
	blocks := len(w.blocks)
	subs := make([]*subscriber, len(w.subscribers))
	copy(subs, w.subscribers)
	w.mu.Unlock()

	events.Window.Recompute(blocks, len(state.Visible), state.OffscreenAbove, state.OffscreenBelow)
	for _, sub := range subs {
		sub.fn(state)
	}
	return state
}

func (w *Window) computeLocked(offset, height int) State {
	if height < 0 {
		height = 0
	}
	lo := offset - w.buffer
	hi := offset + height + w.buffer

	first, last := -1, -1
	total, beforeLo := 0, 0
	for idx, block := range w.blocks {
		top := total
		bottom := top + w.heightLocked(block.ID)
		if top < hi && bottom > lo {
			if first < 0 {
				first = idx
			}
			last = idx
		}
		if bottom <= lo {
			beforeLo = bottom
		}
		total = bottom
	}

	if first < 0 {
		return State{OffscreenAbove: beforeLo, OffscreenBelow: total - beforeLo}
	}

	state := State{Visible: make([]Block, 0, last-first+1)}
	for idx, block := range w.blocks {
		h := w.heightLocked(block.ID)
		switch {
		case idx < first:
			state.OffscreenAbove += h
		case idx > last:
			state.OffscreenBelow += h
		default:
			state.Visible = append(state.Visible, block)
		}
	}
	return state
}

// State returns the most recently computed state.
func (w *Window) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// TotalHeight sums the heights of all blocks.
func (w *Window) TotalHeight() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	total := 0
	for _, block := range w.blocks {
		total += w.heightLocked(block.ID)
	}
	return total
}

// BlockOffset returns the top offset of a block.
func (w *Window) BlockOffset(id string) (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	top := 0
	for _, block := range w.blocks {
		if block.ID == id {
			return top, true
		}
		top += w.heightLocked(block.ID)
	}
	return 0, false
}

// BlockIDs lists the current blocks in order.
func (w *Window) BlockIDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]string, len(w.blocks))
	for idx, block := range w.blocks {
		ids[idx] = block.ID
	}
	return ids
}

// Subscribe registers fn to receive every recomputed state.
func (w *Window) Subscribe(fn func(State)) (unsubscribe func()) {
	sub := &subscriber{fn: fn}
	w.mu.Lock()
	w.subscribers = append(w.subscribers, sub)
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		for idx, existing := range w.subscribers {
			if existing == sub {
				w.subscribers = append(w.subscribers[:idx], w.subscribers[idx+1:]...)
				return
			}
		}
	}
}

// Detach removes the viewport listeners and cancels a pending recompute.
// Later viewport notifications are ignored. Calling it again is a no-op.
func (w *Window) Detach() {
	w.mu.Lock()
	if w.detached {
		w.mu.Unlock()
		return
	}
	w.detached = true
	removers := w.removers
	w.removers = nil
	w.mu.Unlock()

	for _, remove := range removers {
		if remove != nil {
			remove()
		}
	}
	w.debouncer.stop()
	events.Window.Detach()
}
