package source

import "github.com/atomicstack/threadview/internal/annotation"

// Diff compares two snapshots keyed by Item.Key. Removed items become one
// deleted event each, items whose content changed are gathered into a
// single loaded batch and new items become one created event each, in that
// order.
func Diff(prev, next []annotation.Item) []Event {
	prevByKey := make(map[string]annotation.Item, len(prev))
	for _, item := range prev {
		prevByKey[item.Key()] = item
	}
	nextByKey := make(map[string]annotation.Item, len(next))
	for _, item := range next {
		nextByKey[item.Key()] = item
	}

	var out []Event
	seen := make(map[string]bool, len(prev))
	for _, item := range prev {
		key := item.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := nextByKey[key]; !ok {
			out = append(out, Event{Kind: KindDeleted, Items: []annotation.Item{item.Clone()}})
		}
	}

	var changed []annotation.Item
	var created []Event
	seen = make(map[string]bool, len(next))
	for _, item := range next {
		key := item.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		latest := nextByKey[key]
		old, ok := prevByKey[key]
		switch {
		case !ok:
			created = append(created, Event{Kind: KindCreated, Items: []annotation.Item{latest.Clone()}})
		case !old.Equal(latest):
			changed = append(changed, latest.Clone())
		}
	}
	if len(changed) > 0 {
		out = append(out, Event{Kind: KindLoaded, Items: changed})
	}
	return append(out, created...)
}
