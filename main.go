package main

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/atomicstack/threadview/internal/app"
	"github.com/atomicstack/threadview/internal/config"
	"github.com/atomicstack/threadview/internal/logging"
	"github.com/atomicstack/threadview/internal/logging/events"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(&runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	terminal := probeTerminal()
	seedTerminalSize(&runtimeCfg.App, terminal)
	events.App.Start(startupTracePayload(runtimeCfg, terminal))

	var err error
	if runtimeCfg.App.List {
		err = app.List(runtimeCfg.App, os.Stdout)
	} else {
		err = app.Run(runtimeCfg.App)
	}
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// seedTerminalSize hands the detected size to the viewer so the first
// window pass covers the real body instead of a guessed one.
func seedTerminalSize(cfg *app.Config, info terminalInfo) {
	if info.Size == nil {
		return
	}
	cfg.TerminalWidth = info.Size.Width
	cfg.TerminalHeight = info.Size.Height
}

// startupTracePayload describes what is about to be shown and where.
func startupTracePayload(cfg config.Config, info terminalInfo) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath

	mode := "viewer"
	if cfg.App.List {
		mode = "list"
	}
	items := map[string]interface{}{"path": cfg.App.ItemsPath, "watch": cfg.App.Watch}
	if abs, err := filepath.Abs(cfg.App.ItemsPath); err == nil {
		items["abs"] = abs
	}
	return map[string]interface{}{
		"argv":  cfg.Args,
		"flags": flags,
		"mode":  mode,
		"items": items,
		"threads": map[string]interface{}{
			"sort":   string(cfg.App.SortMode),
			"query":  cfg.App.Query,
			"select": cfg.App.SelectIDs,
		},
		"window": map[string]interface{}{
			"buffer":        cfg.App.Buffer,
			"defaultHeight": cfg.App.DefaultHeight,
			"debounce":      cfg.App.Debounce.String(),
		},
		"terminal": info,
	}
}

type terminalInfo struct {
	Size        *terminalSize     `json:"size,omitempty"`
	Descriptors []descriptorState `json:"descriptors"`
}

type terminalSize struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type descriptorState struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// probeTerminal checks stdout first because the viewer draws there.
func probeTerminal() terminalInfo {
	descriptors := []struct {
		name string
		file *os.File
	}{
		{"stdout", os.Stdout},
		{"stdin", os.Stdin},
		{"stderr", os.Stderr},
	}
	info := terminalInfo{Descriptors: make([]descriptorState, 0, len(descriptors))}
	for _, d := range descriptors {
		state := probeDescriptor(d.name, int(d.file.Fd()))
		if info.Size == nil && state.IsTerminal && state.Error == "" && state.Width > 0 && state.Height > 0 {
			info.Size = &terminalSize{Source: d.name, Width: state.Width, Height: state.Height}
		}
		info.Descriptors = append(info.Descriptors, state)
	}
	return info
}

func probeDescriptor(name string, fd int) descriptorState {
	state := descriptorState{Name: name}
	if fd < 0 || !term.IsTerminal(fd) {
		return state
	}
	state.IsTerminal = true
	width, height, err := term.GetSize(fd)
	if err != nil {
		state.Error = err.Error()
		return state
	}
	state.Width, state.Height = width, height
	return state
}
