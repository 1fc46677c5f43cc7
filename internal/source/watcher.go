package source

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atomicstack/threadview/internal/annotation"
	"github.com/atomicstack/threadview/internal/logging/events"
)

const (
	DefaultPollInterval = time.Second
	DefaultMinInterval  = 250 * time.Millisecond

	stopGrace = 500 * time.Millisecond
)

// Kind identifies an item lifecycle event.
type Kind int

const (
	KindLoaded Kind = iota
	KindCreated
	KindDeleted
	KindUnloaded
)

func (k Kind) String() string {
	switch k {
	case KindLoaded:
		return "loaded"
	case KindCreated:
		return "created"
	case KindDeleted:
		return "deleted"
	case KindUnloaded:
		return "unloaded"
	default:
		return "unknown"
	}
}

// Event carries a lifecycle change or a read error. Created and deleted
// events hold exactly one item.
type Event struct {
	Kind  Kind
	Items []annotation.Item
	Err   error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithPollInterval sets the stat interval used when fsnotify is unavailable.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithMinInterval sets the minimum time between two reloads.
func WithMinInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.minInterval = d
	}
}

// WithForcePoll skips fsnotify and stats the file on every poll interval.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

// WithWatch controls whether changes are followed after the first load.
func WithWatch(enabled bool) Option {
	return func(w *Watcher) {
		w.watch = enabled
	}
}

// Watcher loads the item file once and then reloads it whenever it changes,
// publishing the differences between snapshots.
type Watcher struct {
	path         string
	pollInterval time.Duration
	minInterval  time.Duration
	forcePoll    bool
	watch        bool

	ctx    context.Context
	cancel context.CancelFunc

	events  chan Event
	changes chan struct{}
	wg      sync.WaitGroup

	known  []annotation.Item
	loaded bool
}

// NewWatcher starts watching path.
func NewWatcher(path string, opts ...Option) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:         path,
		pollInterval: DefaultPollInterval,
		minInterval:  DefaultMinInterval,
		watch:        true,
		ctx:          ctx,
		cancel:       cancel,
		events:       make(chan Event, 16),
		changes:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.watch {
		w.startChangeSource()
	}
	w.wg.Add(1)
	go w.run()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns the channel of item events. It is closed after Stop once
// the final unloaded batch has been delivered.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. An unloaded batch of every known item is
// published before the channel closes.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the watcher goroutines have exited and the events
// channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startChangeSource() {
	if !w.forcePoll {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			// Watch the directory so atomic renames are seen.
			if err = fsw.Add(filepath.Dir(w.path)); err == nil {
				w.wg.Add(1)
				go w.watchFsnotify(fsw)
				return
			}
			fsw.Close()
		}
		events.Source.Fallback(w.path, err.Error())
	}
	w.wg.Add(1)
	go w.watchPolling()
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer w.emitUnloaded()

	limiter := newThrottle(w.minInterval)
	if !limiter.wait(w.ctx) {
		return
	}
	w.reload()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.changes:
			if !limiter.wait(w.ctx) {
				return
			}
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	items, err := Load(w.path)
	if err != nil {
		events.Source.Error(err)
		w.send(Event{Kind: KindLoaded, Err: err})
		return
	}
	if !w.loaded {
		w.loaded = true
		w.known = items
		w.send(Event{Kind: KindLoaded, Items: annotation.CloneItems(items)})
		return
	}
	for _, evt := range Diff(w.known, items) {
		if !w.send(evt) {
			break
		}
	}
	w.known = items
}

func (w *Watcher) send(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		events.Source.Event(evt.Kind.String(), len(evt.Items))
		return true
	}
}

func (w *Watcher) emitUnloaded() {
	if len(w.known) == 0 {
		return
	}
	evt := Event{Kind: KindUnloaded, Items: annotation.CloneItems(w.known)}
	w.known = nil
	timer := time.NewTimer(stopGrace)
	defer timer.Stop()
	select {
	case w.events <- evt:
		events.Source.Event(evt.Kind.String(), len(evt.Items))
	case <-timer.C:
	}
}

func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

func (w *Watcher) watchFsnotify(fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer fsw.Close()

	target := filepath.Base(w.path)
	for {
		select {
		case <-w.ctx.Done():
			return
		case evt, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(evt.Name) != target {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.notify()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			events.Source.Error(err)
			w.send(Event{Kind: KindLoaded, Err: err})
		}
	}
}

func (w *Watcher) watchPolling() {
	defer w.wg.Done()

	var lastMod time.Time
	var lastSize int64 = -1
	if info, err := os.Stat(w.path); err == nil {
		lastMod, lastSize = info.ModTime(), info.Size()
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				if lastSize >= 0 {
					lastMod, lastSize = time.Time{}, -1
					w.notify()
				}
				continue
			}
			if !info.ModTime().Equal(lastMod) || info.Size() != lastSize {
				lastMod, lastSize = info.ModTime(), info.Size()
				w.notify()
			}
		}
	}
}
