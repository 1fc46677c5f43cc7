package ui

import (
	"sync"

	"github.com/atomicstack/threadview/internal/window"
)

// scrollView is the terminal body measured in rows. It satisfies
// window.Viewport; the window reads it from its debounce timer goroutine, so
// the fields are guarded.
type scrollView struct {
	mu        sync.Mutex
	offset    int
	height    int
	nextID    int
	listeners map[window.EventKind]map[int]func()
}

func newScrollView(height int) *scrollView {
	if height < 0 {
		height = 0
	}
	return &scrollView{height: height, listeners: make(map[window.EventKind]map[int]func())}
}

func (v *scrollView) ScrollOffset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.offset
}

func (v *scrollView) Height() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.height
}

func (v *scrollView) AddListener(kind window.EventKind, fn func()) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.listeners[kind] == nil {
		v.listeners[kind] = make(map[int]func())
	}
	id := v.nextID
	v.nextID++
	v.listeners[kind][id] = fn
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.listeners[kind], id)
	}
}

// ScrollTo moves to offset clamped into [0, maxOffset] and reports whether
// the offset changed.
func (v *scrollView) ScrollTo(offset, maxOffset int) bool {
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	v.mu.Lock()
	changed := v.offset != offset
	v.offset = offset
	v.mu.Unlock()
	if changed {
		v.fire(window.EventScroll)
	}
	return changed
}

// SetHeight resizes the body and reports whether the height changed.
func (v *scrollView) SetHeight(height int) bool {
	if height < 0 {
		height = 0
	}
	v.mu.Lock()
	changed := v.height != height
	v.height = height
	v.mu.Unlock()
	if changed {
		v.fire(window.EventResize)
	}
	return changed
}

func (v *scrollView) fire(kind window.EventKind) {
	v.mu.Lock()
	fns := make([]func(), 0, len(v.listeners[kind]))
	for _, fn := range v.listeners[kind] {
		fns = append(fns, fn)
	}
	v.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
