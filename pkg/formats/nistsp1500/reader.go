package nistsp1500

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
	"github.com/jihwankim/rcv-report-pipeline/pkg/namenorm"
	"github.com/jihwankim/rcv-report-pipeline/pkg/telemetry"
)

// options holds the parsed loader params for one contest read.
type options struct {
	cvr                    string
	contest                int
	dropUnqualifiedWriteIn bool
}

func optionsFromParams(params map[string]string) (options, error) {
	cvr, ok := params["cvr"]
	if !ok {
		return options{}, fmt.Errorf("nist_sp_1500 elections require a cvr parameter")
	}
	contestStr, ok := params["contest"]
	if !ok {
		return options{}, fmt.Errorf("nist_sp_1500 elections require a contest parameter")
	}
	contest, err := strconv.Atoi(contestStr)
	if err != nil {
		return options{}, fmt.Errorf("contest parameter must be a number: %w", err)
	}
	drop := false
	if v, ok := params["dropUnqualifiedWriteIn"]; ok {
		drop, err = strconv.ParseBool(v)
		if err != nil {
			return options{}, fmt.Errorf("dropUnqualifiedWriteIn parameter must be a bool: %w", err)
		}
	}
	return options{cvr: cvr, contest: contest, dropUnqualifiedWriteIn: drop}, nil
}

// Reader implements the NIST-SP-1500-style adapter.
type Reader struct {
	log *telemetry.Logger
}

// NewReader returns a Reader that logs recoverable errors to log.
func NewReader(log *telemetry.Logger) *Reader {
	if log == nil {
		log = telemetry.Noop()
	}
	return &Reader{log: log}
}

// Read implements the single-contest formats.Adapter contract.
func (r *Reader) Read(ctx context.Context, path string, params map[string]string) (model.Election, error) {
	opts, err := optionsFromParams(params)
	if err != nil {
		return model.Election{}, err
	}

	cvrPath := ResolveCvrPath(path, opts.cvr)

	if DetectCvrSource(cvrPath) == SourceDirectory {
		return r.readFromDirectory(ctx, cvrPath, opts)
	}
	return r.readFromZip(ctx, cvrPath, opts)
}

func getCandidates(manifest CandidateManifest, contestID int, dropUnqualifiedWriteIn bool) (*model.CandidateMap[int], *int) {
	m := model.NewCandidateMap[int]()
	var droppedWriteIn *int

	for _, c := range manifest.List {
		if c.ContestID != contestID {
			continue
		}
		ctype := mapCandidateType(c.CandidateType)

		if dropUnqualifiedWriteIn && ctype == model.WriteIn {
			id := c.ID
			droppedWriteIn = &id
			continue
		}

		m.Add(c.ID, model.NewCandidate(namenorm.Normalize(c.Description, false), ctype))
	}

	return m, droppedWriteIn
}

func readCandidateManifest(r io.Reader) (CandidateManifest, error) {
	var manifest CandidateManifest
	dec := jsonAPI.NewDecoder(r)
	if err := dec.Decode(&manifest); err != nil {
		return CandidateManifest{}, err
	}
	return manifest, nil
}

// streamProcessCVRFile parses one CvrExport file and appends ballots for
// the target contest to ballots. Returns the number of ballots emitted.
func streamProcessCVRFile(r io.Reader, filename string, contestID int, candidates *model.CandidateMap[int], droppedWriteIn *int, ballots *[]model.Ballot) (int, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}

	var cvr CvrExport
	if err := jsonAPI.Unmarshal(content, &cvr); err != nil {
		return 0, fmt.Errorf("failed to parse JSON: %w", err)
	}

	count := 0
	for _, session := range cvr.Sessions {
		for _, contest := range session.Contests {
			if contest.ID != contestID {
				continue
			}
			choices := marksFromCVR(contest.Marks, candidates, droppedWriteIn)
			*ballots = append(*ballots, model.NewBallot(fmt.Sprintf("%s:%d", filename, session.RecordID), choices))
			count++
		}
	}
	return count, nil
}

func listCVRFiles(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "CvrExport") && strings.HasSuffix(name, ".json") {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (r *Reader) readFromDirectory(ctx context.Context, dirPath string, opts options) (model.Election, error) {
	contestLog := r.log.WithContest(opts.contest)

	manifestPath := filepath.Join(dirPath, "CandidateManifest.json")
	f, err := os.Open(manifestPath)
	if err != nil {
		contestLog.WithPath(manifestPath).Warn("could not open CandidateManifest.json, skipping contest", "error", err.Error())
		return model.NewElection(nil, nil), nil
	}
	manifest, err := readCandidateManifest(f)
	f.Close()
	if err != nil {
		return model.Election{}, fmt.Errorf("parsing %s: %w", manifestPath, err)
	}

	candidates, droppedWriteIn := getCandidates(manifest, opts.contest, opts.dropUnqualifiedWriteIn)

	files, err := listCVRFiles(dirPath)
	if err != nil {
		return model.Election{}, fmt.Errorf("listing CVR files in %s: %w", dirPath, err)
	}

	var ballots []model.Ballot
	for _, name := range files {
		select {
		case <-ctx.Done():
			return model.Election{}, ctx.Err()
		default:
		}

		filePath := filepath.Join(dirPath, name)
		fileLog := contestLog.WithPath(filePath)
		file, err := os.Open(filePath)
		if err != nil {
			fileLog.Warn("could not open CVR file, skipping", "error", err.Error())
			continue
		}
		_, err = streamProcessCVRFile(file, name, opts.contest, candidates, droppedWriteIn, &ballots)
		file.Close()
		if err != nil {
			fileLog.Warn("error processing CVR file, skipping", "error", err.Error())
		}
	}

	return model.NewElection(candidates.IntoSlice(), ballots), nil
}

func (r *Reader) readFromZip(ctx context.Context, zipPath string, opts options) (model.Election, error) {
	contestLog := r.log.WithContest(opts.contest).WithPath(zipPath)

	archive, err := zip.OpenReader(zipPath)
	if err != nil {
		contestLog.Warn("could not open CVR zip, skipping contest", "error", err.Error())
		return model.NewElection(nil, nil), nil
	}
	defer archive.Close()

	manifestFile, err := archive.Open("CandidateManifest.json")
	if err != nil {
		contestLog.Warn("could not open CandidateManifest.json, skipping contest", "error", err.Error())
		return model.NewElection(nil, nil), nil
	}
	manifest, err := readCandidateManifest(manifestFile)
	manifestFile.Close()
	if err != nil {
		return model.Election{}, fmt.Errorf("parsing CandidateManifest.json in %s: %w", zipPath, err)
	}

	candidates, droppedWriteIn := getCandidates(manifest, opts.contest, opts.dropUnqualifiedWriteIn)

	var cvrFiles []string
	for _, f := range archive.File {
		if strings.HasPrefix(f.Name, "CvrExport") {
			cvrFiles = append(cvrFiles, f.Name)
		}
	}
	sort.Strings(cvrFiles)

	var ballots []model.Ballot
	for _, name := range cvrFiles {
		select {
		case <-ctx.Done():
			return model.Election{}, ctx.Err()
		default:
		}

		zf, err := archive.Open(name)
		if err != nil {
			contestLog.Warn("could not read CVR entry from zip, skipping", "entry", name, "error", err.Error())
			continue
		}
		_, err = streamProcessCVRFile(zf, name, opts.contest, candidates, droppedWriteIn, &ballots)
		zf.Close()
		if err != nil {
			contestLog.Warn("error processing CVR entry, skipping", "entry", name, "error", err.Error())
		}
	}

	return model.NewElection(candidates.IntoSlice(), ballots), nil
}
