// Package reportgen defines the boundary between the preprocessing
// pipeline and the tabulation algorithm that actually produces a report.
// Tabulation itself (IRV round simulation, Condorcet computation) is
// treated as an opaque collaborator; this package only fixes the
// interface the orchestrator depends on.
package reportgen

import "github.com/jihwankim/rcv-report-pipeline/pkg/model"

// Generator turns a preprocessed, normalized ballot set into a report.
// Real tabulation rules are out of scope here; production
// implementations of Generator live outside this repo.
type Generator interface {
	Generate(pre model.ElectionPreprocessed) (model.Report, error)
}
