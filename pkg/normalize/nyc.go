package normalize

import "github.com/jihwankim/rcv-report-pipeline/pkg/model"

// NYC is the same reduction as Simple, but ballots with no valid votes —
// pure undervotes, or an overvote before any vote was recorded — are
// dropped entirely rather than kept as an inactive ballot. Formally this
// is a filter-map: the returned bool is false when the ballot should be
// excluded.
func NYC(b model.Ballot) (model.NormalizedBallot, bool) {
	seen := make(map[model.CandidateID]bool)
	var choices []model.CandidateID
	overvoted := false
	hasValidVotes := false

	for _, c := range b.Choices {
		switch {
		case c.IsVote():
			if !seen[c.Candidate] {
				seen[c.Candidate] = true
				choices = append(choices, c.Candidate)
				hasValidVotes = true
			}
		case c.IsOvervote():
			overvoted = true
		default: // undervote: ignored
		}
		if overvoted {
			break
		}
	}

	if !hasValidVotes {
		return model.NormalizedBallot{}, false
	}
	return model.NewNormalizedBallot(b.ID, choices, overvoted), true
}
