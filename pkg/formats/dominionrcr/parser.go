// Package dominionrcr adapts Dominion's RCR tab-separated ballot format.
//
// No example repo or other_examples/ file in the retrieval pack imports a
// parser-combinator library (the original's grammar was built on `nom`),
// so this is a hand-written line/field scanner over stdlib strings and
// strconv, matching the stdlib-only convention the pack itself uses for
// text formats (see the pack's own encoding/csv usage).
package dominionrcr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
	"github.com/jihwankim/rcv-report-pipeline/pkg/namenorm"
)

// lineScanner walks a document one \n-terminated line at a time.
type lineScanner struct {
	lines []string
	pos   int
}

func newLineScanner(content string) *lineScanner {
	content = strings.TrimSuffix(content, "\n")
	return &lineScanner{lines: strings.Split(content, "\n")}
}

func (s *lineScanner) next() (string, bool) {
	if s.pos >= len(s.lines) {
		return "", false
	}
	line := s.lines[s.pos]
	s.pos++
	return line, true
}

func (s *lineScanner) done() bool {
	return s.pos >= len(s.lines)
}

type header struct {
	numCandidates  int
	numPrecincts   int
	numCountGroups int
}

func parseHeader(line string) (header, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 4 {
		return header{}, fmt.Errorf("header line must have 4 tab-separated fields, got %d", len(fields))
	}
	// fields[0] is num_seats, unused beyond validation of shape.
	numCandidates, err := strconv.Atoi(fields[1])
	if err != nil {
		return header{}, fmt.Errorf("invalid candidate count: %w", err)
	}
	numPrecincts, err := strconv.Atoi(fields[2])
	if err != nil {
		return header{}, fmt.Errorf("invalid precinct count: %w", err)
	}
	numCountGroups, err := strconv.Atoi(fields[3])
	if err != nil {
		return header{}, fmt.Errorf("invalid counting group count: %w", err)
	}
	return header{numCandidates: numCandidates, numPrecincts: numPrecincts, numCountGroups: numCountGroups}, nil
}

func parseChoiceToken(token string) (model.Choice, error) {
	n, err := strconv.Atoi(token)
	if err != nil {
		return model.Choice{}, fmt.Errorf("invalid candidate id %q: %w", token, err)
	}
	if n == 0 {
		return model.Undervote(), nil
	}
	return model.Vote(model.CandidateID(n - 1)), nil
}

// parseEntry parses one tab-delimited ballot entry, which may itself be an
// "="-joined list of candidate ids signaling an overvote.
func parseEntry(token string) (model.Choice, error) {
	parts := strings.Split(token, "=")
	if len(parts) > 1 {
		return model.Overvote(), nil
	}
	return parseChoiceToken(parts[0])
}

// ParseFile parses a complete Dominion RCR document into an Election.
func ParseFile(content string) (model.Election, error) {
	s := newLineScanner(content)

	headerLine, ok := s.next()
	if !ok {
		return model.Election{}, fmt.Errorf("empty RCR file")
	}
	h, err := parseHeader(headerLine)
	if err != nil {
		return model.Election{}, err
	}

	// Election name line, discarded.
	if _, ok := s.next(); !ok {
		return model.Election{}, fmt.Errorf("missing election name line")
	}

	candidates := make([]model.Candidate, 0, h.numCandidates)
	for i := 0; i < h.numCandidates; i++ {
		line, ok := s.next()
		if !ok {
			return model.Election{}, fmt.Errorf("expected %d candidate lines, ran out after %d", h.numCandidates, i)
		}
		candidates = append(candidates, model.NewCandidate(namenorm.Normalize(line, false), model.Regular))
	}

	for i := 0; i < h.numPrecincts; i++ {
		if _, ok := s.next(); !ok {
			return model.Election{}, fmt.Errorf("expected %d precinct lines, ran out after %d", h.numPrecincts, i)
		}
	}
	for i := 0; i < h.numCountGroups; i++ {
		if _, ok := s.next(); !ok {
			return model.Election{}, fmt.Errorf("expected %d counting group lines, ran out after %d", h.numCountGroups, i)
		}
	}

	var ballots []model.Ballot
	for !s.done() {
		line, ok := s.next()
		if !ok {
			break
		}
		count, choices, err := parseBallotLine(line)
		if err != nil {
			return model.Election{}, err
		}
		for i := 0; i < count; i++ {
			ballots = append(ballots, model.NewBallot(strconv.Itoa(len(ballots)), choices))
		}
	}

	return model.NewElection(candidates, ballots), nil
}

func parseBallotLine(line string) (int, []model.Choice, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 4 {
		return 0, nil, fmt.Errorf("ballot line must have at least 4 tab-separated fields, got %d: %q", len(fields), line)
	}
	// fields[0] = precinct, fields[1] = counting group, both unused beyond shape.
	count, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, nil, fmt.Errorf("invalid ballot count %q: %w", fields[2], err)
	}

	entries := fields[3:]
	choices := make([]model.Choice, 0, len(entries))
	for _, entry := range entries {
		choice, err := parseEntry(entry)
		if err != nil {
			return 0, nil, err
		}
		choices = append(choices, choice)
	}
	return count, choices, nil
}
