package preprocess

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jihwankim/rcv-report-pipeline/pkg/formats"
	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
	"github.com/jihwankim/rcv-report-pipeline/pkg/normalize"
)

type fakeAdapter struct {
	election model.Election
	err      error
}

func (f fakeAdapter) Read(ctx context.Context, path string, params map[string]string) (model.Election, error) {
	return f.election, f.err
}

func testElection() model.Election {
	candidates := []model.Candidate{{Name: "Alice", Type: model.Regular}, {Name: "Bob", Type: model.Regular}}
	ballots := []model.Ballot{
		model.NewBallot("1", []model.Choice{model.Vote(0), model.Vote(1)}),
		model.NewBallot("2", []model.Choice{model.Vote(1)}),
	}
	return model.NewElection(candidates, ballots)
}

func testJurisdiction() *model.Jurisdiction {
	return &model.Jurisdiction{
		Path:    "example-county",
		Name:    "Example County",
		Offices: map[string]model.Office{"mayor": {Name: "Mayor"}},
	}
}

func TestPreprocessElection_WiresAdapterNormalizerAndMetadata(t *testing.T) {
	registry := formats.NewRegistry()
	registry.Register("fake", fakeAdapter{election: testElection()})

	meta := &model.ElectionMetadata{Path: "2024", Name: "2024 General", Date: "2024-11-05", DataFormat: "fake"}
	contest := &model.Contest{Office: "mayor", Normalizer: normalize.PolicySimple}

	pre, err := PreprocessElection(context.Background(), registry, "/raw/example-county/2024", meta, testJurisdiction(), contest)
	require.NoError(t, err)

	assert.Equal(t, "mayor", pre.Info.Office)
	assert.Equal(t, "Mayor", pre.Info.OfficeName)
	assert.Equal(t, "2024 General", pre.Info.Name)
	require.Len(t, pre.Ballots.Ballots, 2)
	assert.Equal(t, []model.CandidateID{0, 1}, pre.Ballots.Ballots[0].Choices)
}

func TestPreprocessElection_UnknownOfficeErrors(t *testing.T) {
	registry := formats.NewRegistry()
	registry.Register("fake", fakeAdapter{election: testElection()})

	meta := &model.ElectionMetadata{Path: "2024", Name: "2024 General", DataFormat: "fake"}
	contest := &model.Contest{Office: "governor", Normalizer: normalize.PolicySimple}

	_, err := PreprocessElection(context.Background(), registry, "/raw", meta, testJurisdiction(), contest)
	assert.Error(t, err)
}

func TestPreprocessElection_UnknownDataFormatErrors(t *testing.T) {
	registry := formats.NewRegistry()
	meta := &model.ElectionMetadata{Path: "2024", DataFormat: "nonexistent"}
	contest := &model.Contest{Office: "mayor", Normalizer: normalize.PolicySimple}

	_, err := PreprocessElection(context.Background(), registry, "/raw", meta, testJurisdiction(), contest)
	assert.Error(t, err)
}

func TestPreprocessElectionFromData_InvalidElectionErrors(t *testing.T) {
	bad := model.NewElection(nil, []model.Ballot{model.NewBallot("1", []model.Choice{model.Vote(0)})})
	meta := &model.ElectionMetadata{Name: "bad"}
	contest := &model.Contest{Office: "mayor", Normalizer: normalize.PolicySimple}

	_, err := PreprocessElectionFromData(bad, meta, testJurisdiction(), contest)
	assert.Error(t, err)
}
