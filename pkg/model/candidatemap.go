package model

// CandidateMap assigns dense CandidateIDs to external keys in first-seen
// order. The insertion order is the ID: the Nth distinct key added becomes
// CandidateID(N-1). This mirrors the bidirectional map every format
// adapter builds while streaming ballots, so the same external id (an
// integer from a CVR manifest, a name string from a spreadsheet column)
// always resolves to the same dense id within one contest.
type CandidateMap[K comparable] struct {
	index      map[K]CandidateID
	candidates []Candidate
}

// NewCandidateMap returns an empty map ready for use.
func NewCandidateMap[K comparable]() *CandidateMap[K] {
	return &CandidateMap[K]{index: make(map[K]CandidateID)}
}

// Add registers key with the given candidate, assigning it the next dense
// id if it has not been seen before. Calling Add again with a key already
// present is a no-op; the original candidate registered for that key is
// kept.
func (m *CandidateMap[K]) Add(key K, c Candidate) CandidateID {
	if id, ok := m.index[key]; ok {
		return id
	}
	id := CandidateID(len(m.candidates))
	m.index[key] = id
	m.candidates = append(m.candidates, c)
	return id
}

// AddIDToChoice is a convenience wrapper for the common adapter pattern of
// registering a candidate and immediately turning it into a Choice.
func (m *CandidateMap[K]) AddIDToChoice(key K, c Candidate) Choice {
	return Vote(m.Add(key, c))
}

// Lookup returns the dense id assigned to key, if any.
func (m *CandidateMap[K]) Lookup(key K) (CandidateID, bool) {
	id, ok := m.index[key]
	return id, ok
}

// IDToChoice turns an already-known key into a Vote choice. Keys that were
// never registered resolve to Undervote rather than panicking: every
// adapter that calls IDToChoice does so only after filtering marks against
// the candidate roster it just built (e.g. the dropped-write-in path in
// the NIST adapter), so an unknown key here means the mark was already
// excluded upstream, not an error condition worth failing the whole file
// over.
func (m *CandidateMap[K]) IDToChoice(key K) Choice {
	id, ok := m.index[key]
	if !ok {
		return Undervote()
	}
	return Vote(id)
}

// Len reports how many distinct candidates have been registered.
func (m *CandidateMap[K]) Len() int {
	return len(m.candidates)
}

// IntoSlice returns the registered candidates in id order. The returned
// slice is owned by the caller.
func (m *CandidateMap[K]) IntoSlice() []Candidate {
	out := make([]Candidate, len(m.candidates))
	copy(out, m.candidates)
	return out
}
