package model

import "sort"

// SortByCompletionTime stably orders records by completion time ascending.
// Records without a completion time sort last.
func SortByCompletionTime(records []PenanceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].CompletionTime, records[j].CompletionTime
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

// SortByProgressDiff stably orders records by remaining progress ascending.
func SortByProgressDiff(records []PenanceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ProgressDiff < records[j].ProgressDiff
	})
}

// Clone returns a shallow copy of records that can be re-sorted freely.
func Clone(records []PenanceRecord) []PenanceRecord {
	out := make([]PenanceRecord, len(records))
	copy(out, records)
	return out
}
