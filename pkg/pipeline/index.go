package pipeline

import (
	"sort"

	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
)

// BuildIndex assembles every processed election's summary into a
// ReportIndex, sorted descending by (date, path) per spec §4.H. Pure
// projection: no I/O.
func BuildIndex(entries []model.ElectionIndexEntry) model.ReportIndex {
	sorted := make([]model.ElectionIndexEntry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, k int) bool {
		if sorted[i].Date != sorted[k].Date {
			return sorted[i].Date > sorted[k].Date
		}
		return sorted[i].Path > sorted[k].Path
	})

	return model.ReportIndex{Elections: sorted}
}
