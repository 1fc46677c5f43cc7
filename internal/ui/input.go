package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/threadview/internal/logging/events"
)

func newSearchInput() textinput.Model {
	input := textinput.New()
	input.Prompt = searchPromptSymbol
	input.Placeholder = "search: user: tag: text: quote:"
	input.CharLimit = 256
	if styles.SearchPrompt != nil {
		input.PromptStyle = *styles.SearchPrompt
	}
	if styles.SearchText != nil {
		input.TextStyle = *styles.SearchText
	}
	if styles.SearchPlaceholder != nil {
		input.PlaceholderStyle = *styles.SearchPlaceholder
	}
	if styles.Cursor != nil {
		input.Cursor.Style = *styles.Cursor
	}
	return input
}

func (m *Model) openSearch() tea.Cmd {
	query := m.controller.SearchQuery()
	m.searching = true
	m.search.SetValue(query)
	m.search.CursorEnd()
	events.Search.Open(query)
	return m.search.Focus()
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "enter":
		m.submitSearch(m.search.Value())
		return nil
	case "esc":
		events.Search.Cancel(m.search.Value())
		m.closeSearch()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

func (m *Model) submitSearch(raw string) {
	query := strings.TrimSpace(raw)
	m.closeSearch()
	events.Search.Submit(query)
	if query == m.controller.SearchQuery() {
		return
	}
	m.controller.SetSearchQuery(query)
	m.scrollTo(0)
}

func (m *Model) clearSearch() {
	if m.controller.SearchQuery() == "" {
		return
	}
	events.Search.Cleared()
	m.controller.SetSearchQuery("")
	if id, ok := m.threads.Current(); ok {
		m.revealBlock(id)
	}
}

func (m *Model) closeSearch() {
	m.searching = false
	m.search.Blur()
}
