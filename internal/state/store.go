package state

import (
	"maps"

	"github.com/atomicstack/threadview/internal/annotation"
)

// State is the selection, focus and expansion input consumed when threads
// are built.
type State struct {
	SelectedIDs  map[string]bool
	FocusedIDs   map[string]bool
	Expanded     map[string]bool
	ForceVisible map[string]bool
	SortMode     annotation.SortMode
	SearchQuery  string
}

// Clone returns a copy whose maps can be modified freely.
func (s State) Clone() State {
	return State{
		SelectedIDs:  cloneFlags(s.SelectedIDs),
		FocusedIDs:   cloneFlags(s.FocusedIDs),
		Expanded:     cloneFlags(s.Expanded),
		ForceVisible: cloneFlags(s.ForceVisible),
		SortMode:     s.SortMode,
		SearchQuery:  s.SearchQuery,
	}
}

type Store interface {
	State() State
	Subscribe(fn func()) (unsubscribe func())
	Annotations() []annotation.Item
	AddAnnotations([]annotation.Item)
	RemoveAnnotations([]annotation.Item)
	SelectAnnotations(ids []string)
	ClearSelection()
	SetFocused(ids []string)
	SetExpanded(id string, expanded bool)
	SetForceVisible(id string, visible bool)
	ClearForceVisible()
	SetSortMode(annotation.SortMode)
	SetSearchQuery(string)
}

type subscriber struct {
	fn func()
}

type store struct {
	state       State
	annotations []annotation.Item
	subscribers []*subscriber
}

func NewStore(initial State) Store {
	s := &store{state: initial.Clone()}
	if s.state.SortMode == "" {
		s.state.SortMode = annotation.SortLocation
	}
	return s
}

func (s *store) State() State {
	return s.state.Clone()
}

func (s *store) Subscribe(fn func()) func() {
	sub := &subscriber{fn: fn}
	s.subscribers = append(s.subscribers, sub)
	return func() {
		for idx, existing := range s.subscribers {
			if existing == sub {
				s.subscribers = append(s.subscribers[:idx], s.subscribers[idx+1:]...)
				return
			}
		}
	}
}

func (s *store) notify() {
	subs := make([]*subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	for _, sub := range subs {
		sub.fn()
	}
}

func (s *store) Annotations() []annotation.Item {
	return annotation.CloneItems(s.annotations)
}

// AddAnnotations appends new items and replaces existing ones in place.
func (s *store) AddAnnotations(items []annotation.Item) {
	if len(items) == 0 {
		return
	}
	positions := make(map[string]int, len(s.annotations))
	for idx, item := range s.annotations {
		positions[item.Key()] = idx
	}
	for _, item := range items {
		key := item.Key()
		if idx, ok := positions[key]; ok {
			s.annotations[idx] = item.Clone()
			continue
		}
		positions[key] = len(s.annotations)
		s.annotations = append(s.annotations, item.Clone())
	}
	s.notify()
}

func (s *store) RemoveAnnotations(items []annotation.Item) {
	if len(items) == 0 || len(s.annotations) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(items))
	for _, item := range items {
		drop[item.Key()] = struct{}{}
	}
	kept := s.annotations[:0]
	for _, item := range s.annotations {
		if _, ok := drop[item.Key()]; ok {
			continue
		}
		kept = append(kept, item)
	}
	if len(kept) == len(s.annotations) {
		return
	}
	clear(s.annotations[len(kept):])
	s.annotations = kept
	s.notify()
}

func (s *store) SelectAnnotations(ids []string) {
	next := make(map[string]bool, len(ids))
	for _, id := range ids {
		next[id] = true
	}
	if maps.Equal(next, s.state.SelectedIDs) {
		return
	}
	s.state.SelectedIDs = next
	s.notify()
}

func (s *store) ClearSelection() {
	if len(s.state.SelectedIDs) == 0 {
		return
	}
	s.state.SelectedIDs = nil
	s.notify()
}

func (s *store) SetFocused(ids []string) {
	next := make(map[string]bool, len(ids))
	for _, id := range ids {
		next[id] = true
	}
	if maps.Equal(next, s.state.FocusedIDs) {
		return
	}
	s.state.FocusedIDs = next
	s.notify()
}

func (s *store) SetExpanded(id string, expanded bool) {
	if current, ok := s.state.Expanded[id]; ok && current == expanded {
		return
	}
	if s.state.Expanded == nil {
		s.state.Expanded = make(map[string]bool)
	}
	s.state.Expanded[id] = expanded
	s.notify()
}

func (s *store) SetForceVisible(id string, visible bool) {
	if s.state.ForceVisible[id] == visible {
		return
	}
	if s.state.ForceVisible == nil {
		s.state.ForceVisible = make(map[string]bool)
	}
	if visible {
		s.state.ForceVisible[id] = true
	} else {
		delete(s.state.ForceVisible, id)
	}
	s.notify()
}

func (s *store) ClearForceVisible() {
	if len(s.state.ForceVisible) == 0 {
		return
	}
	s.state.ForceVisible = nil
	s.notify()
}

func (s *store) SetSortMode(mode annotation.SortMode) {
	if s.state.SortMode == mode {
		return
	}
	s.state.SortMode = mode
	s.notify()
}

func (s *store) SetSearchQuery(query string) {
	if s.state.SearchQuery == query {
		return
	}
	s.state.SearchQuery = query
	s.notify()
}

func cloneFlags(flags map[string]bool) map[string]bool {
	if len(flags) == 0 {
		return nil
	}
	return maps.Clone(flags)
}
