// Package nistsp1500 adapts the NIST-SP-1500-style CVR interchange format
// (a CandidateManifest plus one or more CvrExport session files, packaged
// as a directory or ZIP archive) into model.Election.
package nistsp1500

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// CandidateManifest mirrors the subset of the NIST CandidateManifest.json
// document this adapter relies on.
type CandidateManifest struct {
	List []ManifestCandidate `json:"List"`
}

// ManifestCandidate is one entry in a CandidateManifest.
type ManifestCandidate struct {
	ID            int    `json:"Id"`
	Description   string `json:"Description"`
	ContestID     int    `json:"ContestId"`
	CandidateType string `json:"Type"`
}

// ContestManifest mirrors the optional ContestManifest.json document, used
// only to log contest names during batch discovery.
type ContestManifest struct {
	List []ManifestContest `json:"List"`
}

// ManifestContest is one entry in a ContestManifest.
type ManifestContest struct {
	ID          int    `json:"Id"`
	Description string `json:"Description"`
}

// Mark is a single cast mark within a contest-marks block.
type Mark struct {
	CandidateID int  `json:"CandidateId"`
	Rank        int  `json:"Rank"`
	IsAmbiguous bool `json:"IsAmbiguous"`
}

// ContestMarks is the marks recorded for one contest within one session.
type ContestMarks struct {
	ID    int    `json:"Id"`
	Marks []Mark `json:"Marks"`
}

// Session is one cast-vote record within a CvrExport file.
type Session struct {
	RecordID int            `json:"RecordId"`
	Contests []ContestMarks `json:"Contests"`
}

// CvrExport is the top-level document of a CvrExport*.json file.
type CvrExport struct {
	Sessions []Session `json:"Sessions"`
}

func mapCandidateType(raw string) model.CandidateType {
	switch raw {
	case "WriteIn":
		return model.WriteIn
	case "QualifiedWriteIn":
		return model.QualifiedWriteIn
	default:
		return model.Regular
	}
}
