package nistsp1500

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jihwankim/rcv-report-pipeline/pkg/formats"
	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
)

// var _ documents that Reader satisfies formats.BatchAdapter.
var _ formats.BatchAdapter = (*Reader)(nil)

// BatchRead reads every CvrExport file in the shared CVR directory exactly
// once and distributes ballots to every requested contest, instead of
// re-reading the same files once per contest. All requests must share the
// same "cvr" param; the caller is responsible for verifying eligibility
// before calling this (see the orchestrator's NIST-batch detection).
func (r *Reader) BatchRead(ctx context.Context, path string, requests []formats.ContestParams) (map[int]model.Election, error) {
	if len(requests) == 0 {
		return map[int]model.Election{}, nil
	}

	cvrName, ok := requests[0].Params["cvr"]
	if !ok {
		return nil, fmt.Errorf("nist_sp_1500 elections require a cvr parameter")
	}
	cvrPath := filepath.Join(path, cvrName)

	info, err := os.Stat(cvrPath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("batch processing only supports directory format, got %s", cvrPath)
	}

	manifestPath := filepath.Join(cvrPath, "CandidateManifest.json")
	f, err := os.Open(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("could not open CandidateManifest.json in %s: %w", cvrPath, err)
	}
	manifest, err := readCandidateManifest(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", manifestPath, err)
	}

	r.logBatchContestNames(cvrPath, requests)

	type contestBucket struct {
		candidates     *model.CandidateMap[int]
		droppedWriteIn *int
		ballots        []model.Ballot
	}

	buckets := make(map[int]*contestBucket, len(requests))
	for _, req := range requests {
		drop := false
		if v, ok := req.Params["dropUnqualifiedWriteIn"]; ok {
			drop = v == "true"
		}
		candidates, droppedWriteIn := getCandidates(manifest, req.ContestID, drop)
		buckets[req.ContestID] = &contestBucket{candidates: candidates, droppedWriteIn: droppedWriteIn}
	}

	files, err := listCVRFiles(cvrPath)
	if err != nil {
		return nil, fmt.Errorf("listing CVR files in %s: %w", cvrPath, err)
	}

	for _, name := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		filePath := filepath.Join(cvrPath, name)
		fileLog := r.log.WithPath(filePath)
		file, err := os.Open(filePath)
		if err != nil {
			fileLog.Warn("could not open CVR file, skipping", "error", err.Error())
			continue
		}

		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			fileLog.Warn("could not read CVR file, skipping", "error", err.Error())
			continue
		}

		var cvr CvrExport
		if err := jsonAPI.Unmarshal(content, &cvr); err != nil {
			fileLog.Warn("could not parse CVR file, skipping", "error", err.Error())
			continue
		}

		for _, session := range cvr.Sessions {
			for _, contest := range session.Contests {
				bucket, ok := buckets[contest.ID]
				if !ok {
					continue
				}
				choices := marksFromCVR(contest.Marks, bucket.candidates, bucket.droppedWriteIn)
				bucket.ballots = append(bucket.ballots, model.NewBallot(fmt.Sprintf("%s:%d", name, session.RecordID), choices))
			}
		}
	}

	results := make(map[int]model.Election, len(buckets))
	for contestID, bucket := range buckets {
		results[contestID] = model.NewElection(bucket.candidates.IntoSlice(), bucket.ballots)
	}
	return results, nil
}

// logBatchContestNames reads the optional ContestManifest.json, if
// present, purely to log the contest names a batch run is about to
// process. It does not affect ballot output; a missing or unparseable
// manifest is silently skipped since spec §6 lists ContestManifest.json
// as recognized but not required.
func (r *Reader) logBatchContestNames(cvrPath string, requests []formats.ContestParams) {
	manifestPath := filepath.Join(cvrPath, "ContestManifest.json")
	f, err := os.Open(manifestPath)
	if err != nil {
		return
	}
	defer f.Close()

	var manifest ContestManifest
	if err := jsonAPI.NewDecoder(f).Decode(&manifest); err != nil {
		return
	}

	names := make(map[int]string, len(manifest.List))
	for _, c := range manifest.List {
		names[c.ID] = c.Description
	}

	for _, req := range requests {
		if name, ok := names[req.ContestID]; ok {
			r.log.WithContest(req.ContestID).Info("batch processing contest", "name", name)
		}
	}
}
