package nistsp1500

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
)

func testCandidates() *model.CandidateMap[int] {
	m := model.NewCandidateMap[int]()
	m.Add(1, model.NewCandidate("Alice", model.Regular))
	m.Add(2, model.NewCandidate("Bob", model.Regular))
	m.Add(3, model.NewCandidate("Charlie", model.Regular))
	m.Add(99, model.NewCandidate("Write-in", model.WriteIn))
	return m
}

func rm(candidateID, rank int, ambiguous bool) rankedMark {
	return rankedMark{candidateID: candidateID, rank: rank, isAmbiguous: ambiguous}
}

func TestMarksToChoices_SingleVotePerRank(t *testing.T) {
	candidates := testCandidates()
	marks := []rankedMark{rm(1, 1, false), rm(2, 2, false), rm(3, 3, false)}

	choices := marksToChoices(marks, candidates, nil)

	require.Len(t, choices, 3)
	assert.Equal(t, model.Vote(0), choices[0])
	assert.Equal(t, model.Vote(1), choices[1])
	assert.Equal(t, model.Vote(2), choices[2])
}

func TestMarksToChoices_Overvote(t *testing.T) {
	candidates := testCandidates()
	marks := []rankedMark{rm(1, 1, false), rm(2, 1, false)}

	choices := marksToChoices(marks, candidates, nil)

	require.Len(t, choices, 1)
	assert.Equal(t, model.Overvote(), choices[0])
}

func TestMarksToChoices_Empty(t *testing.T) {
	choices := marksToChoices(nil, testCandidates(), nil)
	assert.Empty(t, choices)
}

func TestMarksToChoices_DroppedWriteIn(t *testing.T) {
	candidates := testCandidates()
	dropped := 99
	marks := []rankedMark{rm(1, 1, false), rm(99, 2, false), rm(2, 3, false)}

	choices := marksToChoices(marks, candidates, &dropped)

	require.Len(t, choices, 3)
	assert.Equal(t, model.Vote(0), choices[0])
	assert.Equal(t, model.Undervote(), choices[1])
	assert.Equal(t, model.Vote(1), choices[2])
}

func TestMarksToChoices_UnsortedInput(t *testing.T) {
	candidates := testCandidates()
	marks := []rankedMark{rm(3, 3, false), rm(1, 1, false), rm(2, 2, false)}

	choices := marksToChoices(marks, candidates, nil)

	require.Len(t, choices, 3)
	assert.Equal(t, model.Vote(0), choices[0])
	assert.Equal(t, model.Vote(1), choices[1])
	assert.Equal(t, model.Vote(2), choices[2])
}

// TestMarksFromCVR_AmbiguousRankBecomesUndervote matches the "NIST
// ambiguous filter" scenario: a rank whose only mark is ambiguous still
// produces an explicit Undervote choice, it does not disappear.
func TestMarksFromCVR_AmbiguousRankBecomesUndervote(t *testing.T) {
	candidates := testCandidates()
	marks := []Mark{
		{CandidateID: 1, Rank: 1, IsAmbiguous: false},
		{CandidateID: 2, Rank: 2, IsAmbiguous: true},
		{CandidateID: 3, Rank: 3, IsAmbiguous: false},
	}

	choices := marksFromCVR(marks, candidates, nil)

	require.Len(t, choices, 3)
	assert.Equal(t, model.Vote(0), choices[0])
	assert.Equal(t, model.Undervote(), choices[1])
	assert.Equal(t, model.Vote(2), choices[2])
}

func TestMarksFromCVR_OvervoteAtFirstRank(t *testing.T) {
	candidates := testCandidates()
	marks := []Mark{
		{CandidateID: 1, Rank: 1, IsAmbiguous: false},
		{CandidateID: 2, Rank: 1, IsAmbiguous: false},
		{CandidateID: 3, Rank: 2, IsAmbiguous: false},
	}

	choices := marksFromCVR(marks, candidates, nil)

	require.Len(t, choices, 2)
	assert.Equal(t, model.Overvote(), choices[0])
	assert.Equal(t, model.Vote(2), choices[1])
}
