package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Header            *lipgloss.Style
	Footer            *lipgloss.Style
	Error             *lipgloss.Style
	Info              *lipgloss.Style
	Author            *lipgloss.Style
	FocusedAuthor     *lipgloss.Style
	Meta              *lipgloss.Style
	Body              *lipgloss.Style
	Quote             *lipgloss.Style
	Tags              *lipgloss.Style
	Replies           *lipgloss.Style
	Placeholder       *lipgloss.Style
	FocusIndicator    *lipgloss.Style
	SelectedIndicator *lipgloss.Style
	SearchPrompt      *lipgloss.Style
	SearchText        *lipgloss.Style
	SearchPlaceholder *lipgloss.Style
	Cursor            *lipgloss.Style
}

var defaultStyles = Styles{
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Author: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	FocusedAuthor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Meta: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	),
	Body: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	Quote: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("137")).Italic(true),
	),
	Tags: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("66")),
	),
	Replies: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	),
	Placeholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Italic(true),
	),
	FocusIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	SelectedIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	),
	SearchPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	SearchText: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	SearchPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
