// Package normalize applies a jurisdiction's ballot-normalization policy,
// reducing a raw model.Election's model.Ballots into a
// model.NormalizedElection.
package normalize

import (
	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
)

// Simple is the baseline normalization policy: walk a ballot's choices in
// rank order, keep the first vote for each distinct candidate (later
// repeats of an already-seen candidate are dropped), ignore undervotes,
// and stop entirely at the first overvote (marking the ballot overvoted,
// keeping whatever valid votes were already collected).
func Simple(b model.Ballot) model.NormalizedBallot {
	seen := make(map[model.CandidateID]bool)
	var choices []model.CandidateID
	overvoted := false

	for _, c := range b.Choices {
		switch {
		case c.IsVote():
			if !seen[c.Candidate] {
				seen[c.Candidate] = true
				choices = append(choices, c.Candidate)
			}
		case c.IsOvervote():
			overvoted = true
		default: // undervote
		}
		if overvoted {
			break
		}
	}

	return model.NewNormalizedBallot(b.ID, choices, overvoted)
}
