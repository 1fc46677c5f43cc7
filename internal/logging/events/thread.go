package events

import "github.com/atomicstack/threadview/internal/logging"

type ThreadTracer struct{}

var Thread = ThreadTracer{}

func (ThreadTracer) Rebuild(items, threads int, sortMode, query string) {
	logging.Trace("thread.rebuild", map[string]interface{}{
		"items":   items,
		"threads": threads,
		"sort":    sortMode,
		"query":   query,
	})
}

func (ThreadTracer) Sort(mode string) {
	logging.Trace("thread.sort", map[string]interface{}{"mode": mode})
}

func (ThreadTracer) SortRejected(mode string) {
	logging.Trace("thread.sort.rejected", map[string]interface{}{"mode": mode})
}

func (ThreadTracer) Search(query string) {
	logging.Trace("thread.search", map[string]interface{}{"query": query})
}

func (ThreadTracer) Reveal(ids []string) {
	logging.Trace("thread.reveal", map[string]interface{}{"ids": ids})
}

func (ThreadTracer) ExpandAncestors(id string, ancestors []string) {
	logging.Trace("thread.expand.ancestors", map[string]interface{}{"id": id, "ancestors": ancestors})
}

func (ThreadTracer) Lifecycle(kind string, ids []string) {
	logging.Trace("thread.lifecycle", map[string]interface{}{"kind": kind, "ids": ids})
}
