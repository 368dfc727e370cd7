package model

// ContestIndexEntry summarizes one contest's report for the top-level
// index, without requiring a reader to open the full report document.
type ContestIndexEntry struct {
	Office                string `json:"office"`
	OfficeName            string `json:"office_name"`
	Name                  string `json:"name"`
	Winner                string `json:"winner"`
	NumCandidates         int    `json:"num_candidates"`
	NumRounds             int    `json:"num_rounds"`
	CondorcetWinner       string `json:"condorcet_winner,omitempty"`
	HasNonCondorcetWinner bool   `json:"has_non_condorcet_winner"`
}

// ElectionIndexEntry summarizes one election across all of its contests.
type ElectionIndexEntry struct {
	Path             string              `json:"path"`
	JurisdictionName string              `json:"jurisdiction_name"`
	ElectionName     string              `json:"election_name"`
	Date             string              `json:"date"`
	Contests         []ContestIndexEntry `json:"contests"`
}

// ReportIndex is the single top-level document written to
// report_dir/index.json, listing every election processed in a run.
type ReportIndex struct {
	Elections []ElectionIndexEntry `json:"elections"`
}

// ContestInfo identifies the office and contest a Report belongs to,
// carried through from metadata so a report document is self-describing
// without a back-reference to the jurisdiction bundle that produced it.
type ContestInfo struct {
	Office     string `json:"office"`
	OfficeName string `json:"office_name"`
	Name       string `json:"name"`
}

// RoundTally is one round of elimination in an instant-runoff tabulation:
// the vote count each surviving candidate held going into the round, and
// which candidate (if any) was eliminated at its end.
type RoundTally struct {
	Counts     map[CandidateID]int `json:"counts"`
	Eliminated *CandidateID        `json:"eliminated,omitempty"`
}

// Report is the full per-contest tabulation document written to
// report_dir/.../report.json.
type Report struct {
	Info           ContestInfo  `json:"info"`
	Candidates     []Candidate  `json:"candidates"`
	NumCandidates  int          `json:"num_candidates"`
	Rounds         []RoundTally `json:"rounds"`
	WinnerID       *CandidateID `json:"winner_id,omitempty"`
	CondorcetID    *CandidateID `json:"condorcet_id,omitempty"`
	ExhaustedVotes int          `json:"exhausted_votes"`
	TotalBallots   int          `json:"total_ballots"`
}

// Winner returns the name of the winning candidate, if the tabulation
// produced one.
func (r Report) Winner() (string, bool) {
	if r.WinnerID == nil {
		return "", false
	}
	id := int(*r.WinnerID)
	if id < 0 || id >= len(r.Candidates) {
		return "", false
	}
	return r.Candidates[id].Name, true
}

// Condorcet returns the name of the Condorcet winner, if the tabulation
// identified one.
func (r Report) Condorcet() (string, bool) {
	if r.CondorcetID == nil {
		return "", false
	}
	id := int(*r.CondorcetID)
	if id < 0 || id >= len(r.Candidates) {
		return "", false
	}
	return r.Candidates[id].Name, true
}
