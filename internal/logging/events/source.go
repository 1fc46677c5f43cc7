package events

import "github.com/atomicstack/threadview/internal/logging"

type SourceTracer struct{}

var Source = SourceTracer{}

func (SourceTracer) Load(path string, count int) {
	logging.Trace("source.load", map[string]interface{}{"path": path, "count": count})
}

func (SourceTracer) Event(kind string, count int) {
	logging.Trace("source.event", map[string]interface{}{"kind": kind, "count": count})
}

func (SourceTracer) Fallback(path string, reason string) {
	logging.Trace("source.poll", map[string]interface{}{"path": path, "reason": reason})
}

func (SourceTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("source.error", map[string]interface{}{"error": err.Error()})
}
