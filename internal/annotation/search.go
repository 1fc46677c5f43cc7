package annotation

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Predicate reports whether an item matches a search.
type Predicate func(*Item) bool

const maxUserDistance = 1

type term struct {
	field string
	value string
}

// ParseQuery turns a search query into a predicate. Terms are separated by
// whitespace and all of them must match. A term may be scoped with one of
// the prefixes user:, tag:, text: or quote:. An empty query yields nil.
func ParseQuery(query string) Predicate {
	terms := parseTerms(query)
	if len(terms) == 0 {
		return nil
	}
	return func(item *Item) bool {
		if item == nil {
			return false
		}
		for _, t := range terms {
			if !t.matches(item) {
				return false
			}
		}
		return true
	}
}

func parseTerms(query string) []term {
	fields := strings.Fields(query)
	terms := make([]term, 0, len(fields))
	for _, field := range fields {
		t := term{value: field}
		if idx := strings.Index(field, ":"); idx > 0 {
			prefix := strings.ToLower(field[:idx])
			switch prefix {
			case "user", "tag", "text", "quote":
				t.field = prefix
				t.value = field[idx+1:]
			}
		}
		if t.value == "" {
			continue
		}
		terms = append(terms, t)
	}
	return terms
}

func (t term) matches(item *Item) bool {
	switch t.field {
	case "user":
		return matchUser(t.value, item)
	case "tag":
		for _, tag := range item.Tags {
			if strings.EqualFold(tag, t.value) {
				return true
			}
		}
		return false
	case "text":
		return containsFold(item.Text, t.value)
	case "quote":
		return containsFold(item.Quote, t.value)
	}
	if containsFold(item.Text, t.value) || containsFold(item.Quote, t.value) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.EqualFold(tag, t.value) {
			return true
		}
	}
	return item.User != "" && containsFold(item.Username(), t.value)
}

// matchUser accepts a substring of the username, or the account name before
// the @ with at most maxUserDistance letters left out.
func matchUser(value string, item *Item) bool {
	if item.User == "" {
		return false
	}
	user := item.Username()
	if containsFold(user, value) {
		return true
	}
	local, _, _ := strings.Cut(user, "@")
	rank := fuzzy.RankMatchNormalizedFold(value, local)
	return rank >= 0 && rank <= maxUserDistance
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
