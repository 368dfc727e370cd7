package nistsp1500

import (
	"sort"

	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
)

// rankedMark is a mark reduced to the fields that matter for
// rank-grouping, independent of which source format produced it.
type rankedMark struct {
	candidateID int
	rank        int
	isAmbiguous bool
}

// marksToChoices groups marks by rank (every rank position that appears
// in the data produces exactly one Choice, even if every mark at that
// rank turns out to be ambiguous) and reduces each group by first
// dropping its ambiguous marks, then: zero surviving marks is an
// Undervote, one surviving mark naming the dropped write-in is also an
// Undervote, one surviving mark otherwise is a Vote, and two or more is
// an Overvote.
func marksToChoices(marks []rankedMark, candidates *model.CandidateMap[int], droppedWriteIn *int) []model.Choice {
	if len(marks) == 0 {
		return nil
	}

	sorted := make([]rankedMark, len(marks))
	copy(sorted, marks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].rank < sorted[j].rank })

	var choices []model.Choice
	i := 0
	for i < len(sorted) {
		j := i
		for j < len(sorted) && sorted[j].rank == sorted[i].rank {
			j++
		}
		choices = append(choices, reduceRankGroup(sorted[i:j], candidates, droppedWriteIn))
		i = j
	}
	return choices
}

func reduceRankGroup(group []rankedMark, candidates *model.CandidateMap[int], droppedWriteIn *int) model.Choice {
	surviving := make([]rankedMark, 0, len(group))
	for _, m := range group {
		if m.isAmbiguous {
			continue
		}
		surviving = append(surviving, m)
	}

	switch len(surviving) {
	case 0:
		return model.Undervote()
	case 1:
		if droppedWriteIn != nil && surviving[0].candidateID == *droppedWriteIn {
			return model.Undervote()
		}
		return candidates.IDToChoice(surviving[0].candidateID)
	default:
		return model.Overvote()
	}
}

// marksFromCVR converts a contest-marks block's raw Mark sequence into the
// reduced per-rank Choice sequence.
func marksFromCVR(marks []Mark, candidates *model.CandidateMap[int], droppedWriteIn *int) []model.Choice {
	ranked := make([]rankedMark, len(marks))
	for i, m := range marks {
		ranked[i] = rankedMark{candidateID: m.CandidateID, rank: m.Rank, isAmbiguous: m.IsAmbiguous}
	}
	return marksToChoices(ranked, candidates, droppedWriteIn)
}
