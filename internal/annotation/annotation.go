// Package annotation defines the discussion items that threadview arranges
// into threads, together with the sort orders and search predicates applied
// to them.
package annotation

import (
	"slices"
	"strings"
	"time"
)

// Item is a single annotation or reply.
type Item struct {
	ID         string    `json:"id,omitempty" yaml:"id,omitempty"`
	Tag        string    `json:"$tag,omitempty" yaml:"$tag,omitempty"`
	References []string  `json:"references,omitempty" yaml:"references,omitempty"`
	Created    time.Time `json:"created" yaml:"created"`
	Updated    time.Time `json:"updated" yaml:"updated"`
	User       string    `json:"user,omitempty" yaml:"user,omitempty"`
	Text       string    `json:"text,omitempty" yaml:"text,omitempty"`
	Quote      string    `json:"quote,omitempty" yaml:"quote,omitempty"`
	Tags       []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Location   *int      `json:"location,omitempty" yaml:"location,omitempty"`
}

// Key returns the identifier used for threading: the server id when present,
// otherwise the client-local tag.
func (i Item) Key() string {
	if i.ID != "" {
		return i.ID
	}
	return i.Tag
}

// IsReply reports whether the item names at least one ancestor.
func (i Item) IsReply() bool {
	return len(i.References) > 0
}

// Username strips the account scheme from User. Items without a user report
// "anonymous".
func (i Item) Username() string {
	if user := strings.TrimPrefix(i.User, "acct:"); user != "" {
		return user
	}
	return "anonymous"
}

// Clone returns a copy that shares no slices or pointers with i.
func (i Item) Clone() Item {
	dup := i
	dup.References = slices.Clone(i.References)
	dup.Tags = slices.Clone(i.Tags)
	if i.Location != nil {
		loc := *i.Location
		dup.Location = &loc
	}
	return dup
}

// Equal reports whether two items carry identical content.
func (i Item) Equal(o Item) bool {
	if i.ID != o.ID || i.Tag != o.Tag || i.User != o.User || i.Text != o.Text || i.Quote != o.Quote {
		return false
	}
	if !i.Created.Equal(o.Created) || !i.Updated.Equal(o.Updated) {
		return false
	}
	if !slices.Equal(i.References, o.References) || !slices.Equal(i.Tags, o.Tags) {
		return false
	}
	switch {
	case i.Location == nil && o.Location == nil:
		return true
	case i.Location == nil || o.Location == nil:
		return false
	default:
		return *i.Location == *o.Location
	}
}

// CloneItems produces a deep copy of the provided items.
func CloneItems(items []Item) []Item {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Item, len(items))
	for idx, item := range items {
		dup[idx] = item.Clone()
	}
	return dup
}

// Keys returns the resolved identifiers of items in order.
func Keys(items []Item) []string {
	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.Key())
	}
	return keys
}
