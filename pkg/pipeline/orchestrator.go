// Package pipeline implements the batch orchestrator: it walks every
// jurisdiction/election/contest a metadata bundle describes, dispatches
// each contest to the right format adapter and normalizer, caches
// preprocessed ballots and reports on disk, and assembles the global
// report index. Built the way the teacher's
// pkg/core/orchestrator.Orchestrator is built: a struct holding its
// collaborators, constructed via New, with one exported entry point
// driving the run through small unexported per-level helpers.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/jihwankim/rcv-report-pipeline/pkg/cache"
	"github.com/jihwankim/rcv-report-pipeline/pkg/formats"
	"github.com/jihwankim/rcv-report-pipeline/pkg/metaload"
	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
	"github.com/jihwankim/rcv-report-pipeline/pkg/preprocess"
	"github.com/jihwankim/rcv-report-pipeline/pkg/reportgen"
	"github.com/jihwankim/rcv-report-pipeline/pkg/telemetry"
)

const nistDataFormat = "nist_sp_1500"

// Orchestrator is the pipeline's top-level driver. It holds no per-run
// state itself; every run's working set lives on the stack of Report and
// is released contest by contest as §3's "Lifecycle" discipline
// requires.
type Orchestrator struct {
	registry       *formats.Registry
	nistBatch      formats.BatchAdapter
	generator      reportgen.Generator
	log            *telemetry.Logger
	maxConcurrency int
}

// New constructs an Orchestrator. nistBatch may be nil, in which case
// NIST elections are always processed contest-by-contest even when
// batch-eligible. maxConcurrency bounds how many jurisdictions are
// processed at once; values below 1 are treated as 1.
func New(registry *formats.Registry, nistBatch formats.BatchAdapter, generator reportgen.Generator, log *telemetry.Logger, maxConcurrency int) *Orchestrator {
	if log == nil {
		log = telemetry.Noop()
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Orchestrator{
		registry:       registry,
		nistBatch:      nistBatch,
		generator:      generator,
		log:            log,
		maxConcurrency: maxConcurrency,
	}
}

// ReportOptions parameterizes one Report run.
type ReportOptions struct {
	MetaDir            string
	RawDir             string
	ReportDir          string
	PreprocessedDir    string
	ForcePreprocess    bool
	ForceReport        bool
	JurisdictionFilter string
}

// Report drives the full pipeline: load metadata, filter jurisdictions,
// process them in parallel, and write the consolidated index.
func (o *Orchestrator) Report(ctx context.Context, opts ReportOptions) error {
	jurisdictions, err := metaload.Load(opts.MetaDir)
	if err != nil {
		return fmt.Errorf("loading metadata: %w", err)
	}

	if opts.JurisdictionFilter != "" {
		jurisdictions = filterJurisdictions(jurisdictions, opts.JurisdictionFilter)
		if len(jurisdictions) == 0 {
			o.log.Warn("jurisdiction filter matched nothing", "filter", opts.JurisdictionFilter)
		}
	}

	entries, err := o.processJurisdictionsParallel(ctx, jurisdictions, opts)
	if err != nil {
		return err
	}

	index := BuildIndex(entries)

	indexPath := filepath.Join(opts.ReportDir, "index.json")
	if err := cache.WriteJSON(indexPath, index); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}

func filterJurisdictions(jurisdictions []model.Jurisdiction, path string) []model.Jurisdiction {
	var out []model.Jurisdiction
	for _, j := range jurisdictions {
		if j.Path == path {
			out = append(out, j)
		}
	}
	return out
}

// processJurisdictionsParallel runs processJurisdiction for every
// jurisdiction, bounded to o.maxConcurrency concurrent workers. Each
// worker writes only to its own slot in results, so no lock is needed
// around the write itself, matching the teacher's executeInject
// fire-then-collect shape.
func (o *Orchestrator) processJurisdictionsParallel(ctx context.Context, jurisdictions []model.Jurisdiction, opts ReportOptions) ([]model.ElectionIndexEntry, error) {
	type outcome struct {
		entries []model.ElectionIndexEntry
		err     error
	}

	results := make([]outcome, len(jurisdictions))
	sem := make(chan struct{}, o.maxConcurrency)
	var wg sync.WaitGroup

	for i, j := range jurisdictions {
		i, j := i, j
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			entries, err := o.processJurisdiction(ctx, j, opts)
			results[i] = outcome{entries: entries, err: err}
		}()
	}
	wg.Wait()

	var all []model.ElectionIndexEntry
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		all = append(all, r.entries...)
	}
	return all, nil
}

// processJurisdiction processes every election in j sequentially, per
// spec §5's "within a jurisdiction, elections are sequential" rule.
func (o *Orchestrator) processJurisdiction(ctx context.Context, j model.Jurisdiction, opts ReportOptions) ([]model.ElectionIndexEntry, error) {
	entries := make([]model.ElectionIndexEntry, 0, len(j.Elections))

	for _, election := range j.Elections {
		entry, err := o.processElection(ctx, j, election, opts)
		if err != nil {
			return nil, fmt.Errorf("jurisdiction %s, election %s: %w", j.Path, election.Path, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// processElection decides whether election qualifies for the NIST batch
// shortcut and dispatches accordingly, then projects every contest's
// report into one ElectionIndexEntry.
func (o *Orchestrator) processElection(ctx context.Context, j model.Jurisdiction, election model.ElectionMetadata, opts ReportOptions) (model.ElectionIndexEntry, error) {
	rawBase := filepath.Join(opts.RawDir, j.Path, election.Path)

	var contests []model.ContestIndexEntry
	var err error

	if o.nistBatchEligible(election) {
		o.log.WithPath(rawBase).WithPhase(telemetry.PhaseBatch).Debug("processing election")
		contests, err = o.processNISTElectionBatch(ctx, rawBase, j, election, opts)
	} else {
		o.log.WithPath(rawBase).WithPhase(telemetry.PhaseSequential).Debug("processing election")
		contests, err = o.processElectionSequential(ctx, rawBase, j, election, opts)
	}
	if err != nil {
		return model.ElectionIndexEntry{}, err
	}

	return model.ElectionIndexEntry{
		Path:             filepath.Join(j.Path, election.Path),
		JurisdictionName: j.Name,
		ElectionName:     election.Name,
		Date:             election.Date,
		Contests:         contests,
	}, nil
}

// nistBatchEligible implements spec §4.G step 4's batch-eligibility
// test: NIST format, more than one contest, and every contest shares an
// identical, non-empty "cvr" loader param.
func (o *Orchestrator) nistBatchEligible(election model.ElectionMetadata) bool {
	if election.DataFormat != nistDataFormat || len(election.Contests) <= 1 {
		return false
	}
	cvr := election.Contests[0].LoaderParams["cvr"]
	if cvr == "" {
		return false
	}
	for _, c := range election.Contests[1:] {
		if c.LoaderParams["cvr"] != cvr {
			return false
		}
	}
	return true
}

func (o *Orchestrator) processElectionSequential(ctx context.Context, rawBase string, j model.Jurisdiction, election model.ElectionMetadata, opts ReportOptions) ([]model.ContestIndexEntry, error) {
	entries := make([]model.ContestIndexEntry, 0, len(election.Contests))
	for i := range election.Contests {
		contest := election.Contests[i]
		entry, err := o.processContest(ctx, rawBase, j, election, contest, opts, nil)
		if err != nil {
			return nil, fmt.Errorf("contest %s: %w", contest.Office, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// processNISTElectionBatch reads every contest's ballots out of the
// shared CVR directory in a single pass, then threads each contest's
// pre-loaded raw Election through the normal preprocess/cache/report
// path sequentially, per spec §4.D.2/§4.G.
func (o *Orchestrator) processNISTElectionBatch(ctx context.Context, rawBase string, j model.Jurisdiction, election model.ElectionMetadata, opts ReportOptions) ([]model.ContestIndexEntry, error) {
	if o.nistBatch == nil {
		return o.processElectionSequential(ctx, rawBase, j, election, opts)
	}

	requests := make([]formats.ContestParams, 0, len(election.Contests))
	for _, contest := range election.Contests {
		id, err := strconv.Atoi(contest.LoaderParams["contest"])
		if err != nil {
			return nil, fmt.Errorf("contest %s: contest loader param must be numeric: %w", contest.Office, err)
		}
		requests = append(requests, formats.ContestParams{ContestID: id, Params: contest.LoaderParams})
	}

	raw, err := o.nistBatch.BatchRead(ctx, rawBase, requests)
	if err != nil {
		return nil, fmt.Errorf("batch reading NIST CVR files: %w", err)
	}

	entries := make([]model.ContestIndexEntry, 0, len(election.Contests))
	for _, contest := range election.Contests {
		id, _ := strconv.Atoi(contest.LoaderParams["contest"])
		rawElection := raw[id]
		entry, err := o.processContest(ctx, rawBase, j, election, contest, opts, &rawElection)
		if err != nil {
			return nil, fmt.Errorf("contest %s: %w", contest.Office, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// processContest resolves the contest's cache files, applies spec
// §4.G step 5's cache policy, and projects the resulting report into a
// ContestIndexEntry. If preloaded is non-nil, its Election is used
// instead of invoking a format adapter (the NIST batch path).
func (o *Orchestrator) processContest(ctx context.Context, rawBase string, j model.Jurisdiction, election model.ElectionMetadata, contest model.Contest, opts ReportOptions, preloaded *model.Election) (model.ContestIndexEntry, error) {
	reportPath := filepath.Join(opts.ReportDir, j.Path, election.Path, contest.Office, "report.json")
	preprocPath := filepath.Join(opts.PreprocessedDir, j.Path, election.Path, contest.Office, "normalized.json.gz")

	var report model.Report

	switch {
	case cache.Exists(reportPath) && cache.Exists(preprocPath) && !opts.ForcePreprocess && !opts.ForceReport:
		cached, err := cache.ReadJSON[model.Report](reportPath)
		if err != nil {
			return model.ContestIndexEntry{}, fmt.Errorf("reading cached report: %w", err)
		}
		report = cached

	case cache.Exists(preprocPath) && !opts.ForcePreprocess:
		pre, err := cache.ReadGzipJSON[model.ElectionPreprocessed](preprocPath)
		if err != nil {
			return model.ContestIndexEntry{}, fmt.Errorf("reading cached preprocessed ballots: %w", err)
		}
		generated, err := o.generator.Generate(pre)
		if err != nil {
			return model.ContestIndexEntry{}, fmt.Errorf("generating report: %w", err)
		}
		if err := cache.WriteJSON(reportPath, generated); err != nil {
			return model.ContestIndexEntry{}, fmt.Errorf("writing report: %w", err)
		}
		report = generated

	default:
		pre, err := o.preprocessContest(ctx, rawBase, &election, j, &contest, preloaded)
		if err != nil {
			return model.ContestIndexEntry{}, fmt.Errorf("preprocessing: %w", err)
		}
		if err := cache.WriteGzipJSON(preprocPath, pre); err != nil {
			return model.ContestIndexEntry{}, fmt.Errorf("writing preprocessed ballots: %w", err)
		}

		generated, err := o.generator.Generate(pre)
		if err != nil {
			return model.ContestIndexEntry{}, fmt.Errorf("generating report: %w", err)
		}
		if err := cache.WriteJSON(reportPath, generated); err != nil {
			return model.ContestIndexEntry{}, fmt.Errorf("writing report: %w", err)
		}
		report = generated
	}

	return projectContestIndexEntry(j, contest, report), nil
}

func (o *Orchestrator) preprocessContest(ctx context.Context, rawBase string, election *model.ElectionMetadata, j model.Jurisdiction, contest *model.Contest, preloaded *model.Election) (model.ElectionPreprocessed, error) {
	if preloaded != nil {
		return preprocess.PreprocessElectionFromData(*preloaded, election, &j, contest)
	}
	return preprocess.PreprocessElection(ctx, o.registry, rawBase, election, &j, contest)
}

// projectContestIndexEntry turns a generated Report into the summary
// carried in the top-level index, per spec §4.G step 6.
func projectContestIndexEntry(j model.Jurisdiction, contest model.Contest, report model.Report) model.ContestIndexEntry {
	winnerName := "No Winner"
	if name, ok := report.Winner(); ok {
		winnerName = name
	}

	var condorcetName string
	hasNonCondorcetWinner := false
	if report.CondorcetID != nil {
		if name, ok := report.Condorcet(); ok {
			condorcetName = name
		}
		hasNonCondorcetWinner = report.WinnerID == nil || *report.CondorcetID != *report.WinnerID
	}

	return model.ContestIndexEntry{
		Office:                contest.Office,
		OfficeName:            j.Offices[contest.Office].Name,
		Name:                  report.Info.Name,
		Winner:                winnerName,
		NumCandidates:         report.NumCandidates,
		NumRounds:             len(report.Rounds),
		CondorcetWinner:       condorcetName,
		HasNonCondorcetWinner: hasNonCondorcetWinner,
	}
}
