package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/threadview/internal/annotation"
	"github.com/atomicstack/threadview/internal/app"
)

// ErrMissingItems is returned by Validate when no item file was given.
var ErrMissingItems = errors.New("an item file is required (--items or first argument)")

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envItems         = "THREADVIEW_ITEMS"
	envWidth         = "THREADVIEW_WIDTH"
	envHeight        = "THREADVIEW_HEIGHT"
	envSort          = "THREADVIEW_SORT"
	envQuery         = "THREADVIEW_QUERY"
	envSelect        = "THREADVIEW_SELECT"
	envBuffer        = "THREADVIEW_BUFFER"
	envDefaultHeight = "THREADVIEW_DEFAULT_HEIGHT"
	envDebounce      = "THREADVIEW_DEBOUNCE"
	envWatch         = "THREADVIEW_WATCH"
	envList          = "THREADVIEW_LIST"
	envTrace         = "THREADVIEW_TRACE"
	envLogFile       = "THREADVIEW_LOG_FILE"
)

const (
	DefaultBuffer        = 40
	DefaultBlockHeight   = 4
	DefaultDebounce      = 20 * time.Millisecond
	defaultSortModeLabel = string(annotation.SortLocation)
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("threadview", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	items := fs.String("items", envOrDefault(env, envItems, ""), "path to a JSON or YAML annotation file")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	sortMode := fs.String("sort", envOrDefault(env, envSort, defaultSortModeLabel), "top-level thread order: Location, Newest or Oldest")
	query := fs.String("query", envOrDefault(env, envQuery, ""), "initial search query")
	selectIDs := fs.String("select", envOrDefault(env, envSelect, ""), "comma separated annotation ids to show exclusively")
	buffer := fs.Int("buffer", envOrInt(env, envBuffer, DefaultBuffer), "rows rendered beyond each edge of the viewport")
	defaultHeight := fs.Int("default-height", envOrInt(env, envDefaultHeight, DefaultBlockHeight), "rows assumed for a thread before it is measured")
	debounce := fs.Duration("debounce", envOrDuration(env, envDebounce, DefaultDebounce), "quiet period before recomputing after scroll or resize")
	watch := fs.Bool("watch", envOrBool(env, envWatch, true), "reload the item file when it changes")
	list := fs.Bool("list", envOrBool(env, envList, false), "print the threads as a table and exit")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	itemsPath := *items
	if itemsPath == "" && fs.NArg() > 0 {
		itemsPath = fs.Arg(0)
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *buffer < 0 {
		return Config{}, fmt.Errorf("buffer must be >= 0 (got %d)", *buffer)
	}
	if *defaultHeight < 0 {
		return Config{}, fmt.Errorf("default-height must be >= 0 (got %d)", *defaultHeight)
	}
	if *debounce < 0 {
		return Config{}, fmt.Errorf("debounce must be >= 0 (got %s)", *debounce)
	}

	cfg := Config{
		App: app.Config{
			ItemsPath:     itemsPath,
			Width:         *width,
			Height:        *height,
			SortMode:      annotation.SortMode(*sortMode),
			Query:         *query,
			SelectIDs:     splitList(*selectIDs),
			Buffer:        *buffer,
			DefaultHeight: *defaultHeight,
			Debounce:      *debounce,
			Watch:         *watch,
			List:          *list,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"items":         itemsPath,
			"width":         strconv.Itoa(*width),
			"height":        strconv.Itoa(*height),
			"sort":          *sortMode,
			"query":         *query,
			"select":        *selectIDs,
			"buffer":        strconv.Itoa(*buffer),
			"defaultHeight": strconv.Itoa(*defaultHeight),
			"debounce":      debounce.String(),
			"watch":         strconv.FormatBool(*watch),
			"list":          strconv.FormatBool(*list),
			"trace":         strconv.FormatBool(*trace),
			"logFile":       *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks the item path and normalises the sort mode.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.App.ItemsPath) == "" {
		return ErrMissingItems
	}
	mode, err := annotation.ParseSortMode(string(cfg.App.SortMode))
	if err != nil {
		return err
	}
	cfg.App.SortMode = mode
	return nil
}
