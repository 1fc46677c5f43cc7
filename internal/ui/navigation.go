package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/threadview/internal/logging/events"
	"github.com/atomicstack/threadview/internal/thread"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.searching {
		return m.handleSearchKey(keyMsg)
	}
	switch keyMsg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "esc":
		m.clearSearch()
	case "/":
		return m.openSearch()
	case "j", "down":
		m.scrollBy(1)
	case "k", "up":
		m.scrollBy(-1)
	case "pgdown", "ctrl+f":
		m.scrollPage(m.bodyHeight())
	case "pgup", "ctrl+b":
		m.scrollPage(-m.bodyHeight())
	case "g", "home":
		m.scrollTo(0)
		m.recordFocus(m.threads.MoveCursorHome())
	case "G", "end":
		m.scrollTo(m.maxScroll())
		m.recordFocus(m.threads.MoveCursorEnd())
	case "n", "tab":
		m.moveFocus(1)
	case "p", "shift+tab":
		m.moveFocus(-1)
	case "enter", " ":
		m.toggleFocused()
	case "v":
		m.revealHidden()
	case "x":
		m.toggleSelection()
	case "X":
		m.clearSelection()
	case "s":
		m.cycleSort()
	}
	return nil
}

func (m *Model) moveFocus(delta int) {
	var moved bool
	if delta > 0 {
		moved = m.threads.MoveCursorDown()
	} else {
		moved = m.threads.MoveCursorUp()
	}
	m.recordFocus(moved)
	if id, ok := m.threads.Current(); ok {
		m.revealBlock(id)
	}
}

// recordFocus mirrors a cursor move into the store.
func (m *Model) recordFocus(moved bool) {
	id, ok := m.threads.Current()
	if !ok || !moved {
		return
	}
	events.UI.Focus(id, m.threads.Cursor)
	m.store.SetFocused([]string{id})
}

// scrollPage scrolls by delta rows and focuses the thread at the new top
// of the body.
func (m *Model) scrollPage(delta int) {
	m.scrollBy(delta)
	id, ok := m.blockAt(m.view.ScrollOffset())
	if !ok {
		return
	}
	old := m.threads.Cursor
	m.recordFocus(m.threads.SetCurrent(id) && m.threads.Cursor != old)
}

// blockAt returns the first block that ends below offset.
func (m *Model) blockAt(offset int) (string, bool) {
	for _, id := range m.window.BlockIDs() {
		top, ok := m.window.BlockOffset(id)
		if ok && top+m.window.Height(id) > offset {
			return id, true
		}
	}
	return "", false
}

// revealBlock scrolls the least distance that brings the block into view,
// preferring its top edge when it is taller than the body. Heights of newly
// rendered blocks can change the offsets, so the adjustment repeats.
func (m *Model) revealBlock(id string) {
	for pass := 0; pass < maxMeasurePasses; pass++ {
		top, ok := m.window.BlockOffset(id)
		if !ok {
			return
		}
		bottom := top + m.window.Height(id)
		offset := m.view.ScrollOffset()
		body := m.bodyHeight()
		switch {
		case top < offset:
			m.scrollTo(top)
		case bottom > offset+body:
			target := bottom - body
			if target > top {
				target = top
			}
			m.scrollTo(target)
		default:
			return
		}
	}
}

func (m *Model) toggleFocused() {
	id, ok := m.threads.Current()
	if !ok || m.root == nil {
		return
	}
	node := m.root.Find(id)
	if node == nil {
		return
	}
	expand := node.Collapsed
	events.UI.Toggle(id, expand)
	m.store.SetExpanded(id, expand)
	m.revealBlock(id)
}

// revealHidden shows the replies of the focused thread that the search or
// selection hides. A new search drops the overrides.
func (m *Model) revealHidden() {
	id, ok := m.threads.Current()
	if !ok || m.root == nil {
		return
	}
	node := m.root.Find(id)
	if node == nil {
		return
	}
	var hidden []string
	node.Walk(func(n *thread.Node) bool {
		if !n.Visible {
			hidden = append(hidden, n.ID)
		}
		return true
	})
	if len(hidden) == 0 {
		return
	}
	m.controller.Reveal(hidden)
	m.revealBlock(id)
}

func (m *Model) toggleSelection() {
	if !m.threads.ToggleCurrentSelection() {
		return
	}
	m.applySelection()
}

func (m *Model) clearSelection() {
	if !m.threads.ClearSelection() {
		return
	}
	m.applySelection()
}

func (m *Model) applySelection() {
	ids := m.threads.SelectedIDs()
	if len(ids) == 0 {
		m.store.ClearSelection()
		return
	}
	m.store.SelectAnnotations(ids)
}

func (m *Model) cycleSort() {
	next := m.controller.SortMode().Next()
	if err := m.controller.SortBy(next); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	if id, ok := m.threads.Current(); ok {
		m.revealBlock(id)
	}
}
