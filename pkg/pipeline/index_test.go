package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
)

func TestBuildIndex_SortsDescendingByDateThenPath(t *testing.T) {
	entries := []model.ElectionIndexEntry{
		{Path: "a/2023", Date: "2023-11-07"},
		{Path: "b/2024-general", Date: "2024-11-05"},
		{Path: "a/2024-general", Date: "2024-11-05"},
	}

	index := BuildIndex(entries)

	assert.Equal(t, []string{"b/2024-general", "a/2024-general", "a/2023"}, pathsOf(index))
}

func TestBuildIndex_DoesNotMutateInput(t *testing.T) {
	entries := []model.ElectionIndexEntry{
		{Path: "a", Date: "2024-01-01"},
		{Path: "b", Date: "2025-01-01"},
	}
	_ = BuildIndex(entries)
	assert.Equal(t, "a", entries[0].Path)
}

func pathsOf(index model.ReportIndex) []string {
	out := make([]string, len(index.Elections))
	for i, e := range index.Elections {
		out[i] = e.Path
	}
	return out
}
