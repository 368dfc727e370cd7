// Package usme adapts Maine's ranked-choice XLSX ballot export.
//
// Uses github.com/xuri/excelize/v2, the idiomatic Go choice for reading
// XLSX workbooks — playing the same role the original implementation's
// `xl` crate plays there. No repo in the retrieval pack touches XLSX, so
// this dependency is named rather than grounded on a pack example; it is
// the natural Go equivalent of the original's own spreadsheet library.
package usme

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
	"github.com/jihwankim/rcv-report-pipeline/pkg/namenorm"
	"github.com/jihwankim/rcv-report-pipeline/pkg/telemetry"
)

var candidateRx = regexp.MustCompile(`(?:DEM |REP )?([^(]*[^ (])(?: +\(\d+\))?`)

// Reader implements the Maine XLSX adapter.
type Reader struct {
	log *telemetry.Logger
}

func NewReader(log *telemetry.Logger) *Reader {
	if log == nil {
		log = telemetry.Noop()
	}
	return &Reader{log: log}
}

// ParseChoice classifies a single raw cell string against the per-file
// candidate map. "overvote" and "undervote" are sentinel strings; anything
// else has party-prefix and ballot-position-suffix stripped via
// candidateRx, is name-normalized aggressively, and registered in
// candidateMap.
func ParseChoice(raw string, candidateMap *model.CandidateMap[string]) model.Choice {
	switch raw {
	case "overvote":
		return model.Overvote()
	case "undervote":
		return model.Undervote()
	}

	name := raw
	if m := candidateRx.FindStringSubmatch(raw); m != nil {
		name = m[1]
	}

	return candidateMap.AddIDToChoice(name, model.NewCandidate(namenorm.Normalize(name, true), model.Regular))
}

type fileResult struct {
	ballots        []model.Ballot
	candidateNames []string
}

// Read implements the multi-file formats.Adapter contract: params["files"]
// is a semicolon-separated list of workbook paths, relative to path, each
// processed concurrently.
//
// Faithful quirk preservation: each file builds its own local
// CandidateMap while scanning its rows, but the ballots it emits
// reference that local map's dense ids. After every file finishes, the
// candidate *names* (not ids) from every file are flattened in
// file-processing order and re-inserted into one fresh global
// CandidateMap. This only produces a self-consistent Election when
// candidate names are unique and appear in the same relative order across
// files — the source format guarantees this in practice (every file is a
// scan of the same ballot layout), but it is not independently verified
// here, matching the original adapter's own observable behavior.
func (r *Reader) Read(ctx context.Context, path string, params map[string]string) (model.Election, error) {
	filesParam, ok := params["files"]
	if !ok {
		return model.Election{}, fmt.Errorf("maine elections require a files parameter")
	}
	files := strings.Split(filesParam, ";")

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := r.readFile(path, file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.Election{}, err
	}

	var ballots []model.Ballot
	var allNames []string
	for _, res := range results {
		ballots = append(ballots, res.ballots...)
		allNames = append(allNames, res.candidateNames...)
	}

	candidateMap := model.NewCandidateMap[string]()
	for _, name := range allNames {
		candidateMap.Add(name, model.NewCandidate(name, model.Regular))
	}

	return model.NewElection(candidateMap.IntoSlice(), ballots), nil
}

func (r *Reader) readFile(basePath, file string) (fileResult, error) {
	r.log.Info("reading maine workbook", "file", file)

	f, err := excelize.OpenFile(filepath.Join(basePath, file))
	if err != nil {
		return fileResult{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) < 2 {
		return fileResult{}, fmt.Errorf("workbook %s does not have a second sheet", file)
	}
	// Matches the original adapter's observed behavior (get(1) on a
	// 0-indexed sheet list), not its comment (which claims 1-based).
	sheetName := sheets[1]

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fileResult{}, err
	}
	if len(rows) > 0 {
		rows = rows[1:] // header row
	}

	localMap := model.NewCandidateMap[string]()
	var ballots []model.Ballot

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		idCell := cellAt(row, 0)
		id, err := strconv.Atoi(strings.TrimSpace(idCell))
		if err != nil {
			return fileResult{}, fmt.Errorf("expected a numeric ballot id, got %q", idCell)
		}

		choices := make([]model.Choice, 0, 7)
		for i := 3; i < 10; i++ {
			var cellValue string
			if i < 6 {
				cellValue = cellAt(row, i)
				if cellValue == "" || looksNumeric(cellValue) {
					cellValue = "undervote"
				}
			} else {
				cellValue = "undervote"
			}
			choices = append(choices, ParseChoice(cellValue, localMap))
		}

		ballots = append(ballots, model.NewBallot(strconv.Itoa(id), choices))
	}

	names := make([]string, 0, localMap.Len())
	for _, c := range localMap.IntoSlice() {
		names = append(names, c.Name)
	}

	return fileResult{ballots: ballots, candidateNames: names}, nil
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
