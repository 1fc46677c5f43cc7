package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"github.com/atomicstack/threadview/internal/annotation"
	"github.com/atomicstack/threadview/internal/logging/events"
	"github.com/atomicstack/threadview/internal/thread"
)

const (
	indentUnit       = "  "
	gutterWidth      = 2
	focusMarker      = "▌ "
	selectedMarker   = "● "
	hiddenReplyLabel = "· hidden reply"
)

// renderBlock draws one top-level thread: each displayed node as a header
// line and its wrapped body, indented by depth, followed by a blank
// separator row.
func (m *Model) renderBlock(node *thread.Node) []styledLine {
	if node == nil {
		return nil
	}
	width := m.contentWidth()
	focusedID, _ := m.threads.Current()
	focused := node.ID == focusedID
	selected := m.threads.IsSelected(node.ID)

	lines := make([]styledLine, 0, 4)
	for idx, row := range thread.Rows(node) {
		gutter := strings.Repeat(" ", gutterWidth)
		gutterStyle := styles.FocusIndicator
		if idx == 0 {
			switch {
			case focused:
				gutter = focusMarker
			case selected:
				gutter = selectedMarker
				gutterStyle = styles.SelectedIndicator
			}
		}
		indent := gutter + strings.Repeat(indentUnit, row.Depth)
		if !row.Node.Visible {
			lines = append(lines, styledLine{text: indent + hiddenReplyLabel, style: styles.Placeholder})
			continue
		}
		authorStyle := styles.Author
		if idx == 0 && focused {
			authorStyle = styles.FocusedAuthor
		}
		lines = append(lines, styledLine{
			text:          indent + headerText(row.Node),
			style:         authorStyle,
			prefixStyle:   gutterStyle,
			highlightFrom: len([]rune(gutter)),
		})
		lines = append(lines, itemBodyLines(row.Node.Item, indent, width, row.Depth == 0)...)
		if row.Node.Collapsed && row.Node.ReplyCount > 0 {
			lines = append(lines, styledLine{text: indent + indentUnit + repliesLabel(row.Node.ReplyCount), style: styles.Replies})
		}
	}
	lines = append(lines, styledLine{})
	return applyWidth(lines, width)
}

// renderBlockString renders and measures a block the way View draws it.
func (m *Model) renderBlockString(node *thread.Node) string {
	return renderLines(m.renderBlock(node))
}

func headerText(node *thread.Node) string {
	item := node.Item
	if item == nil {
		return ""
	}
	parts := []string{item.Username()}
	if stamp := item.Updated; !stamp.IsZero() {
		parts = append(parts, humanize.Time(stamp))
	} else if !item.Created.IsZero() {
		parts = append(parts, humanize.Time(item.Created))
	}
	if item.Location != nil && !item.IsReply() {
		parts = append(parts, fmt.Sprintf("@%s", humanize.Comma(int64(*item.Location))))
	}
	return strings.Join(parts, " · ")
}

func itemBodyLines(item *annotation.Item, indent string, width int, head bool) []styledLine {
	if item == nil {
		return nil
	}
	avail := width - lipgloss.Width(indent) - len(indentUnit)
	if avail < 10 {
		avail = 10
	}
	prefix := indent + indentUnit
	var lines []styledLine
	if head && strings.TrimSpace(item.Quote) != "" {
		for _, line := range wrapLines(item.Quote, avail-2) {
			lines = append(lines, styledLine{text: prefix + "> " + line, style: styles.Quote})
		}
	}
	for _, line := range wrapLines(item.Text, avail) {
		lines = append(lines, styledLine{text: prefix + line, style: styles.Body})
	}
	if len(item.Tags) > 0 {
		tags := make([]string, len(item.Tags))
		for i, tag := range item.Tags {
			tags[i] = "#" + tag
		}
		lines = append(lines, styledLine{text: prefix + strings.Join(tags, " "), style: styles.Tags})
	}
	return lines
}

func wrapLines(text string, width int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return strings.Split(wordwrap.String(text, width), "\n")
}

func repliesLabel(n int) string {
	if n == 1 {
		return "1 reply"
	}
	return fmt.Sprintf("%s replies", humanize.Comma(int64(n)))
}

// measureVisible renders the visible blocks, feeds their heights into the
// window and recomputes until no measurement changes.
func (m *Model) measureVisible() {
	for pass := 0; pass < maxMeasurePasses; pass++ {
		changed := false
		for _, block := range m.windowState.Visible {
			height := lipgloss.Height(m.renderBlockString(block.Thread))
			if height == m.window.Height(block.ID) {
				continue
			}
			m.window.SetBlockHeight(block.ID, height)
			events.UI.Measure(block.ID, height)
			changed = true
		}
		if !changed {
			return
		}
		m.windowState = m.window.Recompute()
	}
}
