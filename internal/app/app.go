package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/threadview/internal/annotation"
	"github.com/atomicstack/threadview/internal/logging/events"
	"github.com/atomicstack/threadview/internal/source"
	"github.com/atomicstack/threadview/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	ItemsPath     string
	Width         int
	Height        int
	SortMode      annotation.SortMode
	Query         string
	SelectIDs     []string
	Buffer        int
	DefaultHeight int
	Debounce      time.Duration
	Watch         bool
	List          bool

	// TerminalWidth and TerminalHeight seed the viewer size until the
	// first resize.
	TerminalWidth  int
	TerminalHeight int
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) (err error) {
	defer func() { events.App.Exit(err) }()

	if _, err := os.Stat(cfg.ItemsPath); err != nil {
		return fmt.Errorf("open items: %w", err)
	}
	watcher := source.NewWatcher(cfg.ItemsPath, source.WithWatch(cfg.Watch))
	defer watcher.Stop()

	model := ui.NewModel(ui.Options{
		Width:         cfg.Width,
		Height:        cfg.Height,
		SortMode:      cfg.SortMode,
		Query:         cfg.Query,
		SelectIDs:     cfg.SelectIDs,
		Buffer:        cfg.Buffer,
		DefaultHeight: cfg.DefaultHeight,
		Debounce:      cfg.Debounce,
		Source:        watcher,

		TerminalWidth:  cfg.TerminalWidth,
		TerminalHeight: cfg.TerminalHeight,
	})
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
