package state

// Level tracks the focused top-level thread and the thread selection for the
// thread list currently on screen.
type Level struct {
	ID       string
	Items    []string
	Cursor   int
	Selected map[string]struct{}
}

// NewLevel constructs a Level over the provided thread ids.
func NewLevel(id string, items []string) *Level {
	l := &Level{
		ID:       id,
		Cursor:   -1,
		Selected: make(map[string]struct{}),
	}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the index for a given thread id.
func (l *Level) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item == id {
			return i
		}
	}
	return -1
}

// Current returns the focused thread id.
func (l *Level) Current() (string, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return "", false
	}
	return l.Items[l.Cursor], true
}

// SetCurrent focuses id when it is present.
func (l *Level) SetCurrent(id string) bool {
	idx := l.IndexOf(id)
	if idx < 0 {
		return false
	}
	l.Cursor = idx
	return true
}

// UpdateItems replaces the thread list. Focus stays on the same thread when
// it is still listed, otherwise the cursor is clamped into range.
func (l *Level) UpdateItems(items []string) {
	focused, hadFocus := l.Current()
	l.Items = CloneIDs(items)
	if len(l.Items) == 0 {
		l.Cursor = -1
		return
	}
	if hadFocus {
		if idx := l.IndexOf(focused); idx >= 0 {
			l.Cursor = idx
			return
		}
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if l.Cursor >= len(l.Items) {
		l.Cursor = len(l.Items) - 1
	}
}
