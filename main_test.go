package main

import (
	"testing"
	"time"

	"github.com/atomicstack/threadview/internal/annotation"
	"github.com/atomicstack/threadview/internal/app"
	"github.com/atomicstack/threadview/internal/config"
)

func TestProbeTerminalChecksStdoutFirst(t *testing.T) {
	info := probeTerminal()
	expected := []string{"stdout", "stdin", "stderr"}
	if len(info.Descriptors) != len(expected) {
		t.Fatalf("expected %d descriptors, got %d", len(expected), len(info.Descriptors))
	}
	for i, name := range expected {
		if info.Descriptors[i].Name != name {
			t.Fatalf("expected descriptor %d name %q, got %q", i, name, info.Descriptors[i].Name)
		}
	}
	if info.Size != nil && (info.Size.Width <= 0 || info.Size.Height <= 0) {
		t.Fatalf("expected a positive detected size, got %+v", info.Size)
	}
}

func TestSeedTerminalSize(t *testing.T) {
	var cfg app.Config
	seedTerminalSize(&cfg, terminalInfo{})
	if cfg.TerminalWidth != 0 || cfg.TerminalHeight != 0 {
		t.Fatalf("expected no size without a terminal, got %dx%d", cfg.TerminalWidth, cfg.TerminalHeight)
	}
	seedTerminalSize(&cfg, terminalInfo{Size: &terminalSize{Source: "stdout", Width: 120, Height: 40}})
	if cfg.TerminalWidth != 120 || cfg.TerminalHeight != 40 {
		t.Fatalf("expected 120x40, got %dx%d", cfg.TerminalWidth, cfg.TerminalHeight)
	}
	if cfg.Width != 0 || cfg.Height != 0 {
		t.Fatalf("expected fixed size untouched, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestStartupTracePayloadDescribesItemsAndWindow(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			ItemsPath:     "notes.json",
			SortMode:      annotation.SortNewest,
			Query:         "tag:typo",
			SelectIDs:     []string{"a"},
			Buffer:        40,
			DefaultHeight: 4,
			Debounce:      20 * time.Millisecond,
			Watch:         true,
			List:          true,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"items": "notes.json",
			"sort":  "Newest",
		},
		Args: []string{"--items", "notes.json"},
	}
	info := terminalInfo{Size: &terminalSize{Source: "stdout", Width: 100, Height: 30}}

	payload := startupTracePayload(cfg, info)

	flags, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flags["sort"] != "Newest" || flags["trace"] != true || flags["logFile"] != "trace.log" {
		t.Fatalf("expected flags with logging settings, got %v", flags)
	}
	if payload["mode"] != "list" {
		t.Fatalf("expected list mode, got %v", payload["mode"])
	}
	items, ok := payload["items"].(map[string]interface{})
	if !ok || items["path"] != "notes.json" || items["watch"] != true {
		t.Fatalf("expected item source details, got %v", payload["items"])
	}
	if _, ok := items["abs"].(string); !ok {
		t.Fatalf("expected absolute item path, got %v", items["abs"])
	}
	threads, ok := payload["threads"].(map[string]interface{})
	if !ok || threads["sort"] != "Newest" || threads["query"] != "tag:typo" {
		t.Fatalf("expected thread options, got %v", payload["threads"])
	}
	window, ok := payload["window"].(map[string]interface{})
	if !ok || window["buffer"] != 40 || window["defaultHeight"] != 4 || window["debounce"] != "20ms" {
		t.Fatalf("expected window options, got %v", payload["window"])
	}
	if got, ok := payload["terminal"].(terminalInfo); !ok || got.Size == nil || got.Size.Width != 100 {
		t.Fatalf("expected terminal details, got %v", payload["terminal"])
	}
}
