package state

import "sort"

// IsSelected reports whether the given id is selected.
func (l *Level) IsSelected(id string) bool {
	if l.Selected == nil {
		return false
	}
	_, ok := l.Selected[id]
	return ok
}

// ToggleSelection toggles selection membership for the supplied id.
func (l *Level) ToggleSelection(id string) {
	if l.Selected == nil {
		l.Selected = make(map[string]struct{})
	}
	if _, ok := l.Selected[id]; ok {
		delete(l.Selected, id)
	} else {
		l.Selected[id] = struct{}{}
	}
}

// ToggleCurrentSelection toggles the selection state of the focused thread.
func (l *Level) ToggleCurrentSelection() bool {
	id, ok := l.Current()
	if !ok {
		return false
	}
	l.ToggleSelection(id)
	return true
}

// ClearSelection clears all selected threads.
func (l *Level) ClearSelection() bool {
	if len(l.Selected) == 0 {
		return false
	}
	for id := range l.Selected {
		delete(l.Selected, id)
	}
	return true
}

// SelectedIDs returns the selected ids in sorted order. Selected threads
// stay selected while they are off the list.
func (l *Level) SelectedIDs() []string {
	if len(l.Selected) == 0 {
		return nil
	}
	ids := make([]string, 0, len(l.Selected))
	for id := range l.Selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
