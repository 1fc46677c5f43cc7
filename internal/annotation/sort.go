package annotation

import (
	"errors"
	"fmt"
	"strings"
)

// SortMode names an ordering for top-level threads.
type SortMode string

const (
	SortNewest   SortMode = "Newest"
	SortOldest   SortMode = "Oldest"
	SortLocation SortMode = "Location"
)

// ErrUnknownSortMode is returned for sort modes outside SortModes.
var ErrUnknownSortMode = errors.New("unknown sort mode")

// Less is a strict less-than predicate over two items.
type Less func(a, b *Item) bool

var sortModes = []SortMode{SortLocation, SortNewest, SortOldest}

// SortModes lists the known sort modes in display order.
func SortModes() []SortMode {
	out := make([]SortMode, len(sortModes))
	copy(out, sortModes)
	return out
}

// ParseSortMode resolves a case-insensitive sort mode name.
func ParseSortMode(name string) (SortMode, error) {
	trimmed := strings.TrimSpace(name)
	for _, mode := range sortModes {
		if strings.EqualFold(string(mode), trimmed) {
			return mode, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortMode, name)
}

// Valid reports whether m is a known sort mode.
func (m SortMode) Valid() bool {
	for _, mode := range sortModes {
		if mode == m {
			return true
		}
	}
	return false
}

// Next returns the sort mode following m, wrapping around.
func (m SortMode) Next() SortMode {
	for idx, mode := range sortModes {
		if mode == m {
			return sortModes[(idx+1)%len(sortModes)]
		}
	}
	return sortModes[0]
}

// Comparator returns the sibling ordering for mode.
func Comparator(mode SortMode) (Less, error) {
	switch mode {
	case SortNewest:
		return newest, nil
	case SortOldest:
		return oldest, nil
	case SortLocation:
		return byLocation, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortMode, string(mode))
	}
}

func newest(a, b *Item) bool {
	return a.Updated.After(b.Updated)
}

func oldest(a, b *Item) bool {
	return a.Updated.Before(b.Updated)
}

// byLocation orders anchored items by document offset; page notes without a
// location follow every anchored item.
func byLocation(a, b *Item) bool {
	switch {
	case a.Location != nil && b.Location != nil:
		return *a.Location < *b.Location
	case a.Location != nil:
		return true
	default:
		return false
	}
}
