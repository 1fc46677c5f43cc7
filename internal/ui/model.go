package ui

import (
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/threadview/internal/annotation"
	"github.com/atomicstack/threadview/internal/data/dispatcher"
	"github.com/atomicstack/threadview/internal/rootthread"
	"github.com/atomicstack/threadview/internal/source"
	"github.com/atomicstack/threadview/internal/state"
	"github.com/atomicstack/threadview/internal/theme"
	"github.com/atomicstack/threadview/internal/thread"
	uistate "github.com/atomicstack/threadview/internal/ui/state"
	"github.com/atomicstack/threadview/internal/window"
)

type level = uistate.Level

const (
	defaultWidth       = 80
	defaultBodyHeight  = 22
	defaultBlockRows   = 4
	chromeRows         = 2 // header + status line
	maxMeasurePasses   = 4
	threadListLevelID  = "threads"
	searchPromptSymbol = "/"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Width         int
	Height        int
	SortMode      annotation.SortMode
	Query         string
	SelectIDs     []string
	Items         []annotation.Item
	Buffer        int
	DefaultHeight int
	Debounce      time.Duration
	Source        *source.Watcher

	// TerminalWidth and TerminalHeight are the terminal size known at
	// startup. Unlike Width and Height they are replaced on resize.
	TerminalWidth  int
	TerminalHeight int
}

// Model implements the Bubble Tea model for the thread viewer.
type Model struct {
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	errMsg      string

	store      state.Store
	controller *rootthread.Controller
	dispatcher *dispatcher.Dispatcher
	source     *source.Watcher
	window     *window.Window
	view       *scrollView
	root       *thread.Node
	threads    *level

	windowState  window.State
	windowStates chan window.State
	pumps        bool
	closers      []func()

	search    textinput.Model
	searching bool

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the thread tree from opts and attaches the virtual window
// to the terminal body.
func NewModel(opts Options) *Model {
	m := &Model{
		source:       opts.Source,
		windowStates: make(chan window.State, 1),
		pumps:        true,
		threads:      uistate.NewLevel(threadListLevelID, nil),
	}
	switch {
	case opts.Width > 0:
		m.width = opts.Width
		m.fixedWidth = true
	case opts.TerminalWidth > 0:
		m.width = opts.TerminalWidth
	}
	switch {
	case opts.Height > 0:
		m.height = opts.Height
		m.fixedHeight = true
	case opts.TerminalHeight > 0:
		m.height = opts.TerminalHeight
	}

	initial := state.State{SortMode: opts.SortMode, SearchQuery: opts.Query}
	if len(opts.SelectIDs) > 0 {
		initial.SelectedIDs = make(map[string]bool, len(opts.SelectIDs))
		for _, id := range opts.SelectIDs {
			initial.SelectedIDs[id] = true
			m.threads.ToggleSelection(id)
		}
	}
	m.store = state.NewStore(initial)
	if len(opts.Items) > 0 {
		m.store.AddAnnotations(opts.Items)
	}
	m.controller = rootthread.New(m.store)
	m.dispatcher = dispatcher.New(m.controller)

	defaultHeight := opts.DefaultHeight
	if defaultHeight <= 0 {
		defaultHeight = defaultBlockRows
	}
	m.view = newScrollView(m.bodyHeight())
	m.window = window.New(m.view,
		window.WithBuffer(opts.Buffer),
		window.WithDefaultHeight(defaultHeight),
		window.WithDebounce(opts.Debounce),
	)
	m.closers = append(m.closers, m.window.Subscribe(m.offerWindowState))
	m.closers = append(m.closers, m.controller.Subscribe(m.onThread))

	m.search = newSearchInput()
	m.onThread(m.controller.Thread())
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForWindowState(m.windowStates)}
	if m.source != nil {
		cmds = append(cmds, waitForSourceEvent(m.source))
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Close detaches the window and stops following the store.
func (m *Model) Close() {
	for _, fn := range m.closers {
		fn()
	}
	m.closers = nil
	m.window.Detach()
	m.controller.Close()
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(windowStateMsg{}):    m.handleWindowStateMsg,
		reflect.TypeOf(sourceEventMsg{}):    m.handleSourceEventMsg,
		reflect.TypeOf(sourceDoneMsg{}):     m.handleSourceDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// onThread runs for every rebuilt tree, always on the update goroutine.
func (m *Model) onThread(root *thread.Node) {
	m.root = root
	m.windowState = m.window.SetRootThread(root)
	m.threads.UpdateItems(m.window.BlockIDs())
	m.measureVisible()
	m.clampScroll()
	m.ensureRendered()
}

func (m *Model) contentWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultWidth
}

func (m *Model) bodyHeight() int {
	if m.height <= 0 {
		return defaultBodyHeight
	}
	if h := m.height - chromeRows; h > 0 {
		return h
	}
	return 1
}
