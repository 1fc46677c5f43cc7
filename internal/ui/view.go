package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/threadview/internal/logging/events"
)

const footerHint = "j/k scroll  n/p thread  enter expand  v reveal  x select  s sort  / search  q quit"

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.contentWidth()
	header := applyWidth([]styledLine{{text: m.headerText(), style: styles.Header}}, width)
	out := []string{renderLines(header)}
	out = append(out, m.bodyLines()...)
	out = append(out, m.statusLine())
	return strings.Join(out, "\n")
}

func (m *Model) headerText() string {
	parts := []string{fmt.Sprintf("sort: %s", m.controller.SortMode())}
	if m.root != nil {
		shown, total := len(m.root.Children), m.root.TotalChildren
		if shown == total {
			parts = append(parts, fmt.Sprintf("%d threads", shown))
		} else {
			parts = append(parts, fmt.Sprintf("%d of %d threads", shown, total))
		}
	}
	if q := m.controller.SearchQuery(); q != "" {
		parts = append(parts, fmt.Sprintf("search %q", q))
	}
	if n := len(m.threads.Selected); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	return strings.Join(parts, " · ")
}

// bodyLines renders the visible blocks and crops them to the body rows at
// the current scroll offset. The visible run starts OffscreenAbove rows into
// the content.
func (m *Model) bodyLines() []string {
	height := m.bodyHeight()
	out := make([]string, 0, height)
	if m.root == nil || len(m.root.Children) == 0 {
		msg := "(no annotations)"
		if q := m.controller.SearchQuery(); q != "" {
			msg = fmt.Sprintf("No matches for %q", q)
		}
		out = append(out, renderLines(applyWidth([]styledLine{{text: msg, style: styles.Info}}, m.contentWidth())))
		for len(out) < height {
			out = append(out, "")
		}
		return out
	}

	var content []string
	for _, block := range m.windowState.Visible {
		content = append(content, strings.Split(m.renderBlockString(block.Thread), "\n")...)
	}
	skip := m.view.ScrollOffset() - m.windowState.OffscreenAbove
	for row := 0; row < height; row++ {
		idx := skip + row
		if idx >= 0 && idx < len(content) {
			out = append(out, content[idx])
		} else {
			out = append(out, "")
		}
	}
	return out
}

func (m *Model) statusLine() string {
	width := m.contentWidth()
	if m.searching {
		return m.search.View()
	}
	if m.errMsg != "" {
		return renderLines(applyWidth([]styledLine{{text: "Error: " + m.errMsg, style: styles.Error}}, width))
	}
	return renderLines(applyWidth([]styledLine{{text: footerHint, style: styles.Footer}}, width))
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	widthChanged := false
	if !m.fixedWidth && m.width != resize.Width {
		m.width = resize.Width
		widthChanged = true
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.search.Width = m.contentWidth() - len(searchPromptSymbol) - 1
	heightChanged := m.view.SetHeight(m.bodyHeight())
	if widthChanged || heightChanged {
		m.windowState = m.window.Recompute()
		m.measureVisible()
		m.clampScroll()
	}
	return nil
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	if m.searching || mouse.Action != tea.MouseActionPress {
		return nil
	}
	switch mouse.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-3)
	case tea.MouseButtonWheelDown:
		m.scrollBy(3)
	}
	return nil
}

func (m *Model) maxScroll() int {
	if limit := m.window.TotalHeight() - m.bodyHeight(); limit > 0 {
		return limit
	}
	return 0
}

func (m *Model) scrollTo(offset int) {
	if m.view.ScrollTo(offset, m.maxScroll()) {
		events.UI.Scroll(m.view.ScrollOffset(), m.bodyHeight())
	}
	m.ensureRendered()
}

func (m *Model) scrollBy(delta int) {
	m.scrollTo(m.view.ScrollOffset() + delta)
}

func (m *Model) clampScroll() {
	m.view.ScrollTo(m.view.ScrollOffset(), m.maxScroll())
}

// ensureRendered recomputes at once when the body has moved past the rows
// the last window state covers, instead of waiting for the debounced
// recompute. Measuring can shrink the content and pull the offset back, so
// it repeats until the body is covered.
func (m *Model) ensureRendered() {
	for pass := 0; pass < maxMeasurePasses; pass++ {
		if m.bodyCovered() {
			return
		}
		m.windowState = m.window.Recompute()
		m.measureVisible()
		m.clampScroll()
	}
}

func (m *Model) bodyCovered() bool {
	offset := m.view.ScrollOffset()
	if offset < m.windowState.OffscreenAbove {
		return false
	}
	if m.windowState.OffscreenBelow == 0 {
		return true
	}
	covered := m.window.TotalHeight() - m.windowState.OffscreenBelow
	return offset+m.bodyHeight() <= covered
}

// applyWidth cuts lines wider than width terminal cells so the terminal
// never wraps a row the window counted as one.
func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		result[i] = line
		result[i].text = fitWidth(line.text, width)
	}
	return result
}

func fitWidth(text string, width int) string {
	if lipgloss.Width(text) <= width {
		return text
	}
	if width == 1 {
		return truncate.String(text, 1)
	}
	return truncate.StringWithTail(text, uint(width-1), "…")
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}
