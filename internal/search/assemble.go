package search

// Assemble caps sorted results at limit. A limit of zero or less keeps
// everything. It must run after filtering and sorting.
func Assemble(items []ScoredListing, limit int) []ScoredListing {
	return Page(items, 0, limit)
}

// Page returns items[offset:offset+limit] as a new slice, clamped to bounds.
func Page(items []ScoredListing, offset, limit int) []ScoredListing {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []ScoredListing{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]ScoredListing, end-offset)
	copy(out, items[offset:end])
	return out
}
