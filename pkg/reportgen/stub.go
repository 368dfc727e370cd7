package reportgen

import "github.com/jihwankim/rcv-report-pipeline/pkg/model"

// PluralityStub is a wiring stand-in, not a tabulator: it reports the
// first-choice vote leader as the winner and never computes a Condorcet
// winner or more than one round. It exists so the orchestrator and its
// tests have something concrete to call; it is not a candidate for
// correctness review against any real ranked-choice method.
type PluralityStub struct{}

// Generate implements Generator.
func (PluralityStub) Generate(pre model.ElectionPreprocessed) (model.Report, error) {
	counts := make(map[model.CandidateID]int, len(pre.Ballots.Candidates))
	exhausted := 0

	for _, b := range pre.Ballots.Ballots {
		if len(b.Choices) == 0 {
			exhausted++
			continue
		}
		counts[b.Choices[0]]++
	}

	var winner *model.CandidateID
	best := 0
	for id := 0; id < len(pre.Ballots.Candidates); id++ {
		cid := model.CandidateID(id)
		if c := counts[cid]; c > best {
			best = c
			w := cid
			winner = &w
		}
	}

	return model.Report{
		Info:           pre.Info,
		Candidates:     pre.Ballots.Candidates,
		NumCandidates:  len(pre.Ballots.Candidates),
		Rounds:         []model.RoundTally{{Counts: counts}},
		WinnerID:       winner,
		ExhaustedVotes: exhausted,
		TotalBallots:   len(pre.Ballots.Ballots),
	}, nil
}
