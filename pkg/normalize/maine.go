package normalize

import "github.com/jihwankim/rcv-report-pipeline/pkg/model"

// Maine normalizes like Simple (dedupe, stop on overvote) but treats two
// consecutive undervotes as exhausting the ballot instead of merely
// skipping them: the ranking stops there, unmarked as overvoted, which
// has the side effect of trimming a ballot's trailing undervotes. A lone
// undervote between two votes is still skipped, not treated as exhaust.
//
// This policy's source file was not present in the retrieved original
// implementation (only simple's and nyc's normalizers survived
// retrieval), so its exact rule is this package's own design decision
// rather than a port, made directly from the specification's prose
// description ("trim trailing undervotes, exhaust on repeated
// undervote"). See the design ledger for the full reasoning.
func Maine(b model.Ballot) model.NormalizedBallot {
	seen := make(map[model.CandidateID]bool)
	var choices []model.CandidateID
	overvoted := false
	lastWasUndervote := false

	for _, c := range b.Choices {
		exhausted := false
		switch {
		case c.IsVote():
			lastWasUndervote = false
			if !seen[c.Candidate] {
				seen[c.Candidate] = true
				choices = append(choices, c.Candidate)
			}
		case c.IsOvervote():
			overvoted = true
		default: // undervote
			if lastWasUndervote {
				exhausted = true
				break
			}
			lastWasUndervote = true
		}
		if overvoted || exhausted {
			break
		}
	}

	return model.NewNormalizedBallot(b.ID, choices, overvoted)
}
