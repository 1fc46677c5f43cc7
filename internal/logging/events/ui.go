package events

import "github.com/atomicstack/threadview/internal/logging"

type UITracer struct{}

type SearchTracer struct{}

var (
	UI     = UITracer{}
	Search = SearchTracer{}
)

func (UITracer) Focus(id string, index int) {
	logging.Trace("ui.focus", map[string]interface{}{"id": id, "index": index})
}

func (UITracer) Scroll(offset, height int) {
	logging.Trace("ui.scroll", map[string]interface{}{"offset": offset, "height": height})
}

func (UITracer) Toggle(id string, expanded bool) {
	logging.Trace("ui.toggle", map[string]interface{}{"id": id, "expanded": expanded})
}

func (UITracer) Measure(id string, height int) {
	logging.Trace("ui.measure", map[string]interface{}{"id": id, "height": height})
}

func (SearchTracer) Open(query string) {
	logging.Trace("search.open", map[string]interface{}{"query": query})
}

func (SearchTracer) Submit(query string) {
	logging.Trace("search.submit", map[string]interface{}{"query": query})
}

func (SearchTracer) Cancel(query string) {
	logging.Trace("search.cancel", map[string]interface{}{"query": query})
}

func (SearchTracer) Cleared() {
	logging.Trace("search.clear", nil)
}
