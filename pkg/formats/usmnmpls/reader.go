// Package usmnmpls adapts Minneapolis's ranked-choice CSV/XLSX ballot
// export.
package usmnmpls

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
	"github.com/jihwankim/rcv-report-pipeline/pkg/telemetry"
)

// Reader implements the Minneapolis CSV/XLSX adapter.
type Reader struct {
	log *telemetry.Logger
}

func NewReader(log *telemetry.Logger) *Reader {
	if log == nil {
		log = telemetry.Noop()
	}
	return &Reader{log: log}
}

// ParseChoice classifies a single raw choice cell. Matching is
// case-insensitive for the "undervote"/"overvote"/"uwi" sentinels; "uwi"
// (Minneapolis's ballot-initialed Undeclared Write-In marker) resolves to
// a single shared WriteIn candidate regardless of how it's cased.
func ParseChoice(raw string, candidateMap *model.CandidateMap[string]) model.Choice {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(trimmed, "undervote"), trimmed == "":
		return model.Undervote()
	case strings.EqualFold(trimmed, "overvote"):
		return model.Overvote()
	case strings.EqualFold(trimmed, "uwi"):
		return candidateMap.AddIDToChoice(strings.ToLower(trimmed), model.NewCandidate("Undeclared Write-ins", model.WriteIn))
	default:
		return candidateMap.AddIDToChoice(trimmed, model.NewCandidate(trimmed, model.Regular))
	}
}

// parseCountCell interprets a raw count column value, defaulting to 1 for
// anything unparseable, non-positive, or absent.
func parseCountCell(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 1
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		n := int(f)
		if n <= 0 {
			return 1
		}
		return n
	}
	return 1
}

// appendBallots reduces three raw choice columns to a ballot's choice
// sequence: if any of the three columns is literally "overvote"
// (case-insensitive), the entire ballot collapses to a single Overvote
// choice; otherwise each column is resolved independently. The resulting
// ballot is appended count times with ids "<precinct>:<n>", where n comes
// from a single counter shared by every row of the file.
func appendBallots(candidateMap *model.CandidateMap[string], ballots *[]model.Ballot, precinct, choice1, choice2, choice3 string, count int, ballotID *int) {
	var choices []model.Choice

	if strings.EqualFold(strings.TrimSpace(choice1), "overvote") ||
		strings.EqualFold(strings.TrimSpace(choice2), "overvote") ||
		strings.EqualFold(strings.TrimSpace(choice3), "overvote") {
		choices = []model.Choice{model.Overvote()}
	} else {
		choices = []model.Choice{
			ParseChoice(choice1, candidateMap),
			ParseChoice(choice2, candidateMap),
			ParseChoice(choice3, candidateMap),
		}
	}

	for i := 0; i < count; i++ {
		*ballotID++
		*ballots = append(*ballots, model.NewBallot(fmt.Sprintf("%s:%d", precinct, *ballotID), choices))
	}
}

// Read implements the single-file formats.Adapter contract: params["file"]
// names the CSV or XLSX file to read, relative to path. Dispatch is by
// file extension: xlsx/xlsm/xls go through excelize, anything else is
// read as CSV.
func (r *Reader) Read(ctx context.Context, path string, params map[string]string) (model.Election, error) {
	file, ok := params["file"]
	if !ok {
		return model.Election{}, fmt.Errorf("minneapolis elections require a file parameter")
	}
	filePath := filepath.Join(path, file)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
	r.log.Debug("reading minneapolis export", "file", filePath, "format", ext)

	switch ext {
	case "xlsx", "xlsm", "xls":
		return readXLSX(filePath)
	default:
		return readCSV(filePath)
	}
}

func readCSV(filePath string) (model.Election, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return model.Election{}, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return model.Election{}, err
	}
	if len(records) > 0 {
		records = records[1:] // header
	}

	candidateMap := model.NewCandidateMap[string]()
	var ballots []model.Ballot
	ballotID := 0

	for _, record := range records {
		if len(record) < 5 {
			continue
		}
		count := parseCountCell(record[4])
		appendBallots(candidateMap, &ballots, record[0], record[1], record[2], record[3], count, &ballotID)
	}

	return model.NewElection(candidateMap.IntoSlice(), ballots), nil
}

func readXLSX(filePath string) (model.Election, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return model.Election{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return model.Election{}, fmt.Errorf("workbook %s has no sheets", filePath)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return model.Election{}, err
	}
	if len(rows) > 0 {
		rows = rows[1:] // header
	}

	candidateMap := model.NewCandidateMap[string]()
	var ballots []model.Ballot
	ballotID := 0

	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		count := parseCountCell(row[4])
		appendBallots(candidateMap, &ballots, strings.TrimSpace(row[0]), row[1], row[2], row[3], count, &ballotID)
	}

	return model.NewElection(candidateMap.IntoSlice(), ballots), nil
}
