package config

import (
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/threadview/internal/annotation"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs([]string{"--items", "notes.json"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.ItemsPath != "notes.json" {
		t.Fatalf("expected items path notes.json, got %q", cfg.App.ItemsPath)
	}
	if cfg.App.Buffer != DefaultBuffer || cfg.App.DefaultHeight != DefaultBlockHeight {
		t.Fatalf("expected default buffer/height, got %d/%d", cfg.App.Buffer, cfg.App.DefaultHeight)
	}
	if cfg.App.Debounce != DefaultDebounce {
		t.Fatalf("expected default debounce, got %s", cfg.App.Debounce)
	}
	if !cfg.App.Watch {
		t.Fatalf("expected watch enabled by default")
	}
	if cfg.App.SortMode != annotation.SortLocation {
		t.Fatalf("expected Location sort, got %q", cfg.App.SortMode)
	}
}

func TestLoadArgsFlagsOverrideEnv(t *testing.T) {
	env := []string{
		"THREADVIEW_ITEMS=env.json",
		"THREADVIEW_SORT=oldest",
		"THREADVIEW_BUFFER=12",
		"THREADVIEW_DEBOUNCE=50ms",
		"THREADVIEW_WATCH=false",
		"THREADVIEW_SELECT=a, b,,c",
	}
	cfg, err := LoadArgs([]string{"--items", "flag.json", "--trace", "--log-file", "out.log"}, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.ItemsPath != "flag.json" {
		t.Fatalf("expected flag to win, got %q", cfg.App.ItemsPath)
	}
	if cfg.App.Buffer != 12 || cfg.App.Debounce != 50*time.Millisecond || cfg.App.Watch {
		t.Fatalf("expected env values, got %+v", cfg.App)
	}
	if len(cfg.App.SelectIDs) != 3 || cfg.App.SelectIDs[1] != "b" {
		t.Fatalf("expected select ids [a b c], got %v", cfg.App.SelectIDs)
	}
	if !cfg.Logging.Trace || cfg.Logging.FilePath != "out.log" {
		t.Fatalf("expected logging flags, got %+v", cfg.Logging)
	}
	if cfg.Flags["sort"] != "oldest" {
		t.Fatalf("expected raw sort flag oldest, got %q", cfg.Flags["sort"])
	}
	if err := Validate(&cfg); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if cfg.App.SortMode != annotation.SortOldest {
		t.Fatalf("expected normalised sort mode Oldest, got %q", cfg.App.SortMode)
	}
}

func TestLoadArgsPositionalItems(t *testing.T) {
	cfg, err := LoadArgs([]string{"--sort", "Newest", "thread.yaml"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.ItemsPath != "thread.yaml" {
		t.Fatalf("expected positional items path, got %q", cfg.App.ItemsPath)
	}
}

func TestLoadArgsRejectsNegativeSizes(t *testing.T) {
	for _, args := range [][]string{
		{"--width", "-1"},
		{"--height", "-1"},
		{"--buffer", "-5"},
		{"--default-height", "-2"},
		{"--debounce", "-1s"},
	} {
		if _, err := LoadArgs(args, nil); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(&cfg); !errors.Is(err, ErrMissingItems) {
		t.Fatalf("expected ErrMissingItems, got %v", err)
	}

	cfg, err = LoadArgs([]string{"--items", "x.json", "--sort", "sideways"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(&cfg); !errors.Is(err, annotation.ErrUnknownSortMode) {
		t.Fatalf("expected ErrUnknownSortMode, got %v", err)
	}
}

func TestEnvFallbacksIgnoreGarbage(t *testing.T) {
	cfg, err := LoadArgs([]string{"x.json"}, []string{"THREADVIEW_BUFFER=lots", "THREADVIEW_WATCH=maybe", "NOEQUALS"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Buffer != DefaultBuffer || !cfg.App.Watch {
		t.Fatalf("expected defaults for unparsable env, got %+v", cfg.App)
	}
}

func TestLoadArgsListFlag(t *testing.T) {
	cfg, err := LoadArgs([]string{"--list", "items.json"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.App.List || cfg.Flags["list"] != "true" {
		t.Fatalf("expected list mode, got %+v", cfg.App)
	}
}
