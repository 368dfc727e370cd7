// Package preprocess turns a contest's raw ballots into the normalized,
// labeled ballot set a report generator consumes.
package preprocess

import (
	"context"
	"fmt"

	"github.com/jihwankim/rcv-report-pipeline/pkg/formats"
	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
	"github.com/jihwankim/rcv-report-pipeline/pkg/normalize"
)

// PreprocessElection resolves the contest's adapter by the election's
// data format, reads the raw ballots, applies the contest's normalizer,
// and attaches contest metadata. It validates the raw election before
// normalizing so a malformed adapter fails loudly instead of silently
// producing a garbage report.
func PreprocessElection(
	ctx context.Context,
	registry *formats.Registry,
	rawBase string,
	meta *model.ElectionMetadata,
	jurisdiction *model.Jurisdiction,
	contest *model.Contest,
) (model.ElectionPreprocessed, error) {
	adapter, err := registry.Get(meta.DataFormat)
	if err != nil {
		return model.ElectionPreprocessed{}, err
	}

	raw, err := adapter.Read(ctx, rawBase, contest.LoaderParams)
	if err != nil {
		return model.ElectionPreprocessed{}, fmt.Errorf("reading %s: %w", meta.DataFormat, err)
	}

	return PreprocessElectionFromData(raw, meta, jurisdiction, contest)
}

// PreprocessElectionFromData applies normalization to an already-loaded
// raw Election. It exists so the NIST batch adapter, which reads every
// contest sharing a CVR file in one pass, can reuse the same
// normalize-and-label path as the single-contest case.
func PreprocessElectionFromData(
	raw model.Election,
	meta *model.ElectionMetadata,
	jurisdiction *model.Jurisdiction,
	contest *model.Contest,
) (model.ElectionPreprocessed, error) {
	if err := raw.Validate(); err != nil {
		return model.ElectionPreprocessed{}, fmt.Errorf("validating raw election: %w", err)
	}

	normalized, err := normalize.NormalizeElection(contest.Normalizer, raw)
	if err != nil {
		return model.ElectionPreprocessed{}, err
	}

	office, ok := jurisdiction.Offices[contest.Office]
	if !ok {
		return model.ElectionPreprocessed{}, fmt.Errorf("office %q not found in jurisdiction %q", contest.Office, jurisdiction.Path)
	}

	info := model.ContestInfo{
		Office:     contest.Office,
		OfficeName: office.Name,
		Name:       meta.Name,
	}

	return model.NewElectionPreprocessed(info, normalized), nil
}
