package storage

import (
	"fmt"
	"time"

	"github.com/agoravote/agora-node/types"
)

// CastVote records a vote for a candidate. The whole sequence (voter lookup,
// has-voted check, flag set, candidate counter increment, ledger append) runs
// under the global lock, so concurrent casts for the same voter cannot both
// succeed. Vote IDs are allocated monotonically starting at
// types.FirstVoteID and are never reused.
func (s *Storage) CastVote(voterID, candidateID uint64) (*types.Vote, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	voter, err := s.voterUnsafe(voterID)
	if err != nil {
		return nil, fmt.Errorf("voter %d: %w", voterID, err)
	}
	if voter.HasVoted {
		return nil, ErrAlreadyVoted
	}
	candidate, err := s.candidateUnsafe(candidateID)
	if err != nil {
		return nil, fmt.Errorf("candidate %d: %w", candidateID, err)
	}

	voteID, err := s.nextCounter(nextVoteIDKey, types.FirstVoteID)
	if err != nil {
		return nil, fmt.Errorf("allocate vote id: %w", err)
	}
	vote := &types.Vote{
		ID:          voteID,
		VoterID:     voterID,
		CandidateID: candidateID,
		Timestamp:   time.Now().UTC(),
	}

	if err := s.setArtifact(votePrefix, uint64Key(voteID), vote); err != nil {
		return nil, fmt.Errorf("store vote %d: %w", voteID, err)
	}
	voter.HasVoted = true
	if err := s.setArtifact(voterPrefix, uint64Key(voterID), voter); err != nil {
		return nil, fmt.Errorf("mark voter %d as voted: %w", voterID, err)
	}
	candidate.Votes++
	if err := s.setArtifact(candidatePrefix, uint64Key(candidateID), candidate); err != nil {
		return nil, fmt.Errorf("increment candidate %d votes: %w", candidateID, err)
	}
	return vote, nil
}

// Timeline returns all ledger votes of a candidate as (vote_id, timestamp)
// pairs in vote_id order. Returns ErrNotFound if the candidate does not
// exist.
func (s *Storage) Timeline(candidateID uint64) ([]types.VoteEvent, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	if _, err := s.candidateUnsafe(candidateID); err != nil {
		return nil, err
	}
	events := []types.VoteEvent{}
	if err := iterateArtifacts(s, votePrefix, func(v *types.Vote) bool {
		if v.CandidateID == candidateID {
			events = append(events, types.VoteEvent{VoteID: v.ID, Timestamp: v.Timestamp})
		}
		return true
	}); err != nil {
		return nil, err
	}
	return events, nil
}

// RangeCount returns how many of a candidate's votes fall in the closed
// interval [from, to]. Returns ErrNotFound if the candidate does not exist
// and ErrInvalidInterval if from is after to.
func (s *Storage) RangeCount(candidateID uint64, from, to time.Time) (int, error) {
	if from.After(to) {
		return 0, ErrInvalidInterval
	}

	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	if _, err := s.candidateUnsafe(candidateID); err != nil {
		return 0, err
	}
	count := 0
	if err := iterateArtifacts(s, votePrefix, func(v *types.Vote) bool {
		if v.CandidateID == candidateID && !v.Timestamp.Before(from) && !v.Timestamp.After(to) {
			count++
		}
		return true
	}); err != nil {
		return 0, err
	}
	return count, nil
}

// TotalVotes returns the number of votes in the ledger.
func (s *Storage) TotalVotes() (int, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	count := 0
	if err := iterateArtifacts(s, votePrefix, func(*types.Vote) bool {
		count++
		return true
	}); err != nil {
		return 0, err
	}
	return count, nil
}
