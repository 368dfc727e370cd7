package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jihwankim/rcv-report-pipeline/pkg/cache"
	"github.com/jihwankim/rcv-report-pipeline/pkg/formats"
	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
	"github.com/jihwankim/rcv-report-pipeline/pkg/reportgen"
)

// countingAdapter is a stand-in format adapter that counts how many times
// it is invoked, so tests can assert on cache-hit behavior.
type countingAdapter struct {
	calls atomic.Int32
}

func (a *countingAdapter) Read(ctx context.Context, path string, params map[string]string) (model.Election, error) {
	a.calls.Add(1)
	return model.NewElection(
		[]model.Candidate{model.NewCandidate("Alice", model.Regular), model.NewCandidate("Bob", model.Regular)},
		[]model.Ballot{
			model.NewBallot("1", []model.Choice{model.Vote(0), model.Vote(1)}),
			model.NewBallot("2", []model.Choice{model.Vote(0)}),
			model.NewBallot("3", []model.Choice{model.Vote(1)}),
		},
	), nil
}

const jurisdictionYAML = `
path: springfield
name: City of Springfield
offices:
  mayor:
    name: Mayor
elections:
  - path: 2024-general
    name: 2024 General Election
    date: "2024-11-05"
    data_format: fake
    contests:
      - office: mayor
        normalizer: simple
        loader_params:
          id: "1"
`

func writeMetaBundle(t *testing.T, metaDir string) {
	t.Helper()
	dir := filepath.Join(metaDir, "springfield")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jurisdiction.yaml"), []byte(jurisdictionYAML), 0644))
}

func newTestOrchestrator(adapter formats.Adapter) *Orchestrator {
	registry := formats.NewRegistry()
	registry.Register("fake", adapter)
	return New(registry, nil, reportgen.PluralityStub{}, nil, 2)
}

func TestReport_WritesReportAndIndex(t *testing.T) {
	root := t.TempDir()
	metaDir := filepath.Join(root, "meta")
	writeMetaBundle(t, metaDir)

	adapter := &countingAdapter{}
	orch := newTestOrchestrator(adapter)

	opts := ReportOptions{
		MetaDir:         metaDir,
		RawDir:          filepath.Join(root, "raw"),
		ReportDir:       filepath.Join(root, "reports"),
		PreprocessedDir: filepath.Join(root, "preprocessed"),
	}

	require.NoError(t, orch.Report(context.Background(), opts))
	assert.EqualValues(t, 1, adapter.calls.Load())

	reportPath := filepath.Join(opts.ReportDir, "springfield", "2024-general", "mayor", "report.json")
	preprocPath := filepath.Join(opts.PreprocessedDir, "springfield", "2024-general", "mayor", "normalized.json.gz")
	assert.True(t, cache.Exists(reportPath))
	assert.True(t, cache.Exists(preprocPath))

	index, err := cache.ReadJSON[model.ReportIndex](filepath.Join(opts.ReportDir, "index.json"))
	require.NoError(t, err)
	require.Len(t, index.Elections, 1)
	require.Len(t, index.Elections[0].Contests, 1)

	contest := index.Elections[0].Contests[0]
	assert.Equal(t, "mayor", contest.Office)
	assert.Equal(t, "Mayor", contest.OfficeName)
	assert.Equal(t, "Alice", contest.Winner)
	assert.Equal(t, 2, contest.NumCandidates)
}

func TestReport_SecondRunReusesCacheWithoutReReading(t *testing.T) {
	root := t.TempDir()
	metaDir := filepath.Join(root, "meta")
	writeMetaBundle(t, metaDir)

	adapter := &countingAdapter{}
	orch := newTestOrchestrator(adapter)

	opts := ReportOptions{
		MetaDir:         metaDir,
		RawDir:          filepath.Join(root, "raw"),
		ReportDir:       filepath.Join(root, "reports"),
		PreprocessedDir: filepath.Join(root, "preprocessed"),
	}

	require.NoError(t, orch.Report(context.Background(), opts))
	require.NoError(t, orch.Report(context.Background(), opts))

	// The second run reuses the report cached by the first; the adapter
	// should only have been invoked once across both.
	assert.EqualValues(t, 1, adapter.calls.Load())
}

func TestReport_ForceReportRegeneratesFromPreprocessedCache(t *testing.T) {
	root := t.TempDir()
	metaDir := filepath.Join(root, "meta")
	writeMetaBundle(t, metaDir)

	adapter := &countingAdapter{}
	orch := newTestOrchestrator(adapter)

	opts := ReportOptions{
		MetaDir:         metaDir,
		RawDir:          filepath.Join(root, "raw"),
		ReportDir:       filepath.Join(root, "reports"),
		PreprocessedDir: filepath.Join(root, "preprocessed"),
	}
	require.NoError(t, orch.Report(context.Background(), opts))

	opts.ForceReport = true
	require.NoError(t, orch.Report(context.Background(), opts))

	// Forcing the report alone should not re-invoke the format adapter:
	// the preprocessed cache is reused.
	assert.EqualValues(t, 1, adapter.calls.Load())
}

func TestReport_JurisdictionFilterExcludesOthers(t *testing.T) {
	root := t.TempDir()
	metaDir := filepath.Join(root, "meta")
	writeMetaBundle(t, metaDir)

	adapter := &countingAdapter{}
	orch := newTestOrchestrator(adapter)

	opts := ReportOptions{
		MetaDir:            metaDir,
		RawDir:             filepath.Join(root, "raw"),
		ReportDir:          filepath.Join(root, "reports"),
		PreprocessedDir:    filepath.Join(root, "preprocessed"),
		JurisdictionFilter: "nonexistent",
	}

	require.NoError(t, orch.Report(context.Background(), opts))
	assert.EqualValues(t, 0, adapter.calls.Load())

	index, err := cache.ReadJSON[model.ReportIndex](filepath.Join(opts.ReportDir, "index.json"))
	require.NoError(t, err)
	assert.Empty(t, index.Elections)
}

func TestNistBatchEligible(t *testing.T) {
	orch := New(formats.NewRegistry(), nil, reportgen.PluralityStub{}, nil, 1)

	eligible := model.ElectionMetadata{
		DataFormat: "nist_sp_1500",
		Contests: []model.Contest{
			{Office: "mayor", LoaderParams: map[string]string{"cvr": "."}},
			{Office: "council", LoaderParams: map[string]string{"cvr": "."}},
		},
	}
	assert.True(t, orch.nistBatchEligible(eligible))

	differentCVR := eligible
	differentCVR.Contests = []model.Contest{
		{Office: "mayor", LoaderParams: map[string]string{"cvr": "a"}},
		{Office: "council", LoaderParams: map[string]string{"cvr": "b"}},
	}
	assert.False(t, orch.nistBatchEligible(differentCVR))

	singleContest := eligible
	singleContest.Contests = eligible.Contests[:1]
	assert.False(t, orch.nistBatchEligible(singleContest))

	notNIST := eligible
	notNIST.DataFormat = "dominion_rcr"
	assert.False(t, orch.nistBatchEligible(notNIST))
}
