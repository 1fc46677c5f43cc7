package dispatcher

import (
	"github.com/atomicstack/threadview/internal/annotation"
	"github.com/atomicstack/threadview/internal/source"
)

// Lifecycle receives item changes. rootthread.Controller implements it.
type Lifecycle interface {
	OnLoaded(items []annotation.Item)
	OnCreated(item annotation.Item)
	OnDeleted(item annotation.Item)
	OnUnloaded(items []annotation.Item)
}

type Result struct {
	Kind    source.Kind
	Items   int
	Err     error
	Updated bool
}

type Dispatcher struct {
	target Lifecycle
}

func New(target Lifecycle) *Dispatcher {
	return &Dispatcher{target: target}
}

func (d *Dispatcher) Handle(evt source.Event) Result {
	res := Result{Kind: evt.Kind, Items: len(evt.Items), Err: evt.Err}
	if evt.Err != nil || d.target == nil {
		return res
	}
	switch evt.Kind {
	case source.KindLoaded:
		d.target.OnLoaded(evt.Items)
		res.Updated = true
	case source.KindCreated:
		for _, item := range evt.Items {
			d.target.OnCreated(item)
			res.Updated = true
		}
	case source.KindDeleted:
		for _, item := range evt.Items {
			d.target.OnDeleted(item)
			res.Updated = true
		}
	case source.KindUnloaded:
		d.target.OnUnloaded(evt.Items)
		res.Updated = true
	}
	return res
}
