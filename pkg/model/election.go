// Package model defines the core ballot and election data types shared by
// every format adapter, normalizer, and pipeline stage.
package model

import "fmt"

// CandidateID is a dense, zero-based identifier assigned in first-seen
// order by a CandidateMap. It has no meaning outside the election it was
// assigned for.
type CandidateID int

// CandidateType distinguishes write-in candidates from regular ones so
// downstream stages (and tabulators) can treat them differently.
type CandidateType int

const (
	Regular CandidateType = iota
	WriteIn
	QualifiedWriteIn
)

func (t CandidateType) String() string {
	switch t {
	case Regular:
		return "regular"
	case WriteIn:
		return "write-in"
	case QualifiedWriteIn:
		return "qualified-write-in"
	default:
		return "unknown"
	}
}

// Candidate is the normalized name and type of a single contest candidate.
type Candidate struct {
	Name string        `json:"name"`
	Type CandidateType `json:"type"`
}

func NewCandidate(name string, t CandidateType) Candidate {
	return Candidate{Name: name, Type: t}
}

// ChoiceKind discriminates the closed set of ranking outcomes a voter can
// express on a single ranking position.
type ChoiceKind int

const (
	ChoiceVote ChoiceKind = iota
	ChoiceUndervote
	ChoiceOvervote
)

// Choice is the outcome recorded at one ranking position on a ballot. Only
// Candidate is meaningful when Kind is ChoiceVote.
type Choice struct {
	Kind      ChoiceKind
	Candidate CandidateID
}

func Vote(id CandidateID) Choice { return Choice{Kind: ChoiceVote, Candidate: id} }
func Undervote() Choice          { return Choice{Kind: ChoiceUndervote} }
func Overvote() Choice           { return Choice{Kind: ChoiceOvervote} }

func (c Choice) IsVote() bool      { return c.Kind == ChoiceVote }
func (c Choice) IsUndervote() bool { return c.Kind == ChoiceUndervote }
func (c Choice) IsOvervote() bool  { return c.Kind == ChoiceOvervote }

func (c Choice) String() string {
	switch c.Kind {
	case ChoiceVote:
		return fmt.Sprintf("vote(%d)", c.Candidate)
	case ChoiceUndervote:
		return "undervote"
	case ChoiceOvervote:
		return "overvote"
	default:
		return "unknown"
	}
}

// Ballot is a single voter's raw ranking as read from a source format,
// before any normalization policy has been applied.
type Ballot struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
}

func NewBallot(id string, choices []Choice) Ballot {
	return Ballot{ID: id, Choices: choices}
}

// Election is the raw output of a format adapter: the candidate roster for
// one contest plus every ballot cast in it.
type Election struct {
	Candidates []Candidate `json:"candidates"`
	Ballots    []Ballot    `json:"ballots"`
}

func NewElection(candidates []Candidate, ballots []Ballot) Election {
	return Election{Candidates: candidates, Ballots: ballots}
}

// Validate checks the single cross-cutting invariant every adapter must
// uphold: every Vote choice in every ballot must reference a candidate
// index that actually exists in Candidates.
func (e Election) Validate() error {
	for _, b := range e.Ballots {
		for _, c := range b.Choices {
			if c.Kind != ChoiceVote {
				continue
			}
			if c.Candidate < 0 || int(c.Candidate) >= len(e.Candidates) {
				return fmt.Errorf("ballot %q: choice references candidate id %d, but election has %d candidates", b.ID, c.Candidate, len(e.Candidates))
			}
		}
	}
	return nil
}

// NormalizedBallot is the output of a ballot normalizer: a ranking reduced
// to a deduplicated, skip-resolved sequence of candidate preferences, plus
// an overvoted flag recording whether ranking was cut short by an overvote.
type NormalizedBallot struct {
	ID        string        `json:"id"`
	Choices   []CandidateID `json:"choices"`
	Overvoted bool          `json:"overvoted"`
}

func NewNormalizedBallot(id string, choices []CandidateID, overvoted bool) NormalizedBallot {
	return NormalizedBallot{ID: id, Choices: choices, Overvoted: overvoted}
}

// NormalizedElection is a candidate roster plus every ballot that survived
// the normalization policy for this contest.
type NormalizedElection struct {
	Candidates []Candidate        `json:"candidates"`
	Ballots    []NormalizedBallot `json:"ballots"`
}

func NewNormalizedElection(candidates []Candidate, ballots []NormalizedBallot) NormalizedElection {
	return NormalizedElection{Candidates: candidates, Ballots: ballots}
}
