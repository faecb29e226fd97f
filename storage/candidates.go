package storage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agoravote/agora-node/types"
)

// AddCandidate registers a new candidate with a zero vote counter. Fails with
// ErrKeyAlreadyExists if the candidate ID is taken.
func (s *Storage) AddCandidate(id uint64, name, party string) (*types.Candidate, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	key := uint64Key(id)
	if s.hasArtifact(candidatePrefix, key) {
		return nil, fmt.Errorf("candidate %d: %w", id, ErrKeyAlreadyExists)
	}
	seq, err := s.nextCounter(candidateSeqKey, 0)
	if err != nil {
		return nil, fmt.Errorf("allocate candidate sequence: %w", err)
	}
	candidate := &types.Candidate{
		ID:    id,
		Name:  name,
		Party: party,
		Seq:   seq,
	}
	if err := s.setArtifact(candidatePrefix, key, candidate); err != nil {
		return nil, fmt.Errorf("store candidate %d: %w", id, err)
	}
	return candidate, nil
}

// Candidate retrieves a candidate by ID. Returns ErrNotFound if it does not
// exist.
func (s *Storage) Candidate(id uint64) (*types.Candidate, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	return s.candidateUnsafe(id)
}

func (s *Storage) candidateUnsafe(id uint64) (*types.Candidate, error) {
	candidate := &types.Candidate{}
	if err := s.getArtifact(candidatePrefix, uint64Key(id), candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

// candidatesUnsafe returns all candidates in registration order. Callers must
// hold a lock that excludes candidate writers.
func (s *Storage) candidatesUnsafe() ([]*types.Candidate, error) {
	candidates := []*types.Candidate{}
	if err := iterateArtifacts(s, candidatePrefix, func(c *types.Candidate) bool {
		candidates = append(candidates, c)
		return true
	}); err != nil {
		return nil, err
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Seq < candidates[j].Seq })
	return candidates, nil
}

// ListCandidates returns the public view of all candidates in registration
// order. If party is non-empty, only candidates with a case-insensitive
// exact party match are returned.
func (s *Storage) ListCandidates(party string) ([]types.CandidateSummary, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	candidates, err := s.candidatesUnsafe()
	if err != nil {
		return nil, err
	}
	list := []types.CandidateSummary{}
	for _, c := range candidates {
		if party != "" && !strings.EqualFold(c.Party, party) {
			continue
		}
		list = append(list, types.CandidateSummary{ID: c.ID, Name: c.Name, Party: c.Party})
	}
	return list, nil
}

// CandidateVotes returns the vote counter of a candidate.
func (s *Storage) CandidateVotes(id uint64) (uint64, error) {
	candidate, err := s.Candidate(id)
	if err != nil {
		return 0, err
	}
	return candidate.Votes, nil
}
