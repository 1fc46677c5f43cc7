package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/threadview/internal/logging"
	"github.com/atomicstack/threadview/internal/source"
	"github.com/atomicstack/threadview/internal/window"
)

func waitForSourceEvent(w *source.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return sourceDoneMsg{}
		}
		return sourceEventMsg{event: evt}
	}
}

type sourceEventMsg struct {
	event source.Event
}

type sourceDoneMsg struct{}

func (m *Model) handleSourceEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(sourceEventMsg)
	if !ok {
		return nil
	}
	m.applySourceEvent(eventMsg.event)
	if m.source != nil && m.pumps {
		return waitForSourceEvent(m.source)
	}
	return nil
}

func (m *Model) handleSourceDoneMsg(msg tea.Msg) tea.Cmd {
	m.source = nil
	return nil
}

// applySourceEvent hands item changes to the controller. A failed read keeps
// the last good tree and surfaces the error in the status line.
func (m *Model) applySourceEvent(evt source.Event) {
	res := m.dispatcher.Handle(evt)
	if res.Err != nil {
		logging.Error(res.Err)
		m.errMsg = res.Err.Error()
		return
	}
	if res.Updated {
		m.errMsg = ""
	}
}

// waitForWindowState delivers window states computed on the debounce timer
// goroutine into the update loop.
func waitForWindowState(ch <-chan window.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return nil
		}
		return windowStateMsg{state: state}
	}
}

type windowStateMsg struct {
	state window.State
}

// offerWindowState keeps only the newest pending state. It may run on any
// goroutine and must not touch the model.
func (m *Model) offerWindowState(state window.State) {
	for {
		select {
		case m.windowStates <- state:
			return
		default:
		}
		select {
		case <-m.windowStates:
		default:
		}
	}
}

func (m *Model) handleWindowStateMsg(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(windowStateMsg); !ok {
		return nil
	}
	// The message may trail a synchronous recompute; the window's current
	// state is always at least as new.
	m.windowState = m.window.State()
	m.measureVisible()
	m.clampScroll()
	if m.pumps {
		return waitForWindowState(m.windowStates)
	}
	return nil
}
