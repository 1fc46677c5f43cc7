package state

// CloneIDs produces a copy of the provided thread ids.
func CloneIDs(ids []string) []string {
	dup := make([]string, len(ids))
	copy(dup, ids)
	return dup
}
