package events

import "github.com/atomicstack/threadview/internal/logging"

type WindowTracer struct{}

var Window = WindowTracer{}

func (WindowTracer) Recompute(blocks, visible, above, below int) {
	logging.Trace("window.recompute", map[string]interface{}{
		"blocks":  blocks,
		"visible": visible,
		"above":   above,
		"below":   below,
	})
}

func (WindowTracer) Debounce(kind string) {
	logging.Trace("window.debounce", map[string]interface{}{"kind": kind})
}

func (WindowTracer) Detach() {
	logging.Trace("window.detach", nil)
}
