package model

// ConflictItem is one entry of a conflict set: a production together with
// the token deltas the matcher reports for it since the last cycle.
type ConflictItem struct {
	Production *Production
	ToAdd      []*Token
	ToRemove   []*Token
}

// IsEmpty reports whether the item carries no token delta at all — such
// items are filtered out of build_conflict_set (§4.4).
func (c ConflictItem) IsEmpty() bool {
	return len(c.ToAdd) == 0 && len(c.ToRemove) == 0
}
