package normalize

import (
	"fmt"

	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
)

const (
	PolicySimple = "simple"
	PolicyMaine  = "maine"
	PolicyNYC    = "nyc"
)

// NormalizeElection applies the named policy to every ballot in e and
// returns the resulting NormalizedElection. "nyc" is the one policy that
// can drop ballots outright; the others always emit exactly one output
// ballot per input ballot.
func NormalizeElection(policy string, e model.Election) (model.NormalizedElection, error) {
	switch policy {
	case PolicySimple:
		return applyRequired(e, Simple), nil
	case PolicyMaine:
		return applyRequired(e, Maine), nil
	case PolicyNYC:
		return applyOptional(e, NYC), nil
	default:
		return model.NormalizedElection{}, fmt.Errorf("unknown ballot normalizer %q", policy)
	}
}

func applyRequired(e model.Election, fn func(model.Ballot) model.NormalizedBallot) model.NormalizedElection {
	ballots := make([]model.NormalizedBallot, len(e.Ballots))
	for i, b := range e.Ballots {
		ballots[i] = fn(b)
	}
	return model.NewNormalizedElection(e.Candidates, ballots)
}

func applyOptional(e model.Election, fn func(model.Ballot) (model.NormalizedBallot, bool)) model.NormalizedElection {
	ballots := make([]model.NormalizedBallot, 0, len(e.Ballots))
	for _, b := range e.Ballots {
		if nb, ok := fn(b); ok {
			ballots = append(ballots, nb)
		}
	}
	return model.NewNormalizedElection(e.Candidates, ballots)
}
