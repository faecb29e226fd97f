package storage

import (
	"fmt"
	"time"

	"github.com/agoravote/agora-node/types"
)

// SubmitRankedBallot stores a preferential ballot for (election, voter).
// At most one ballot per pair is accepted; a second submission fails with
// ErrDuplicateBallot regardless of its ranking. The ranking is stored as
// given: no dedup or completeness check is performed on its contents, and no
// ranked-choice tally is computed over the store.
func (s *Storage) SubmitRankedBallot(electionID string, voterID uint64, ranking []uint64, timestamp time.Time) (*types.RankedBallot, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	key := rankedKey(electionID, voterID)
	if s.hasArtifact(rankedPrefix, key) {
		return nil, ErrDuplicateBallot
	}
	ballot := &types.RankedBallot{
		BallotID:   tokenFromContent([]byte(electionID), uint64Key(voterID)),
		ElectionID: electionID,
		VoterID:    voterID,
		Ranking:    ranking,
		Timestamp:  timestamp,
	}
	if err := s.setArtifact(rankedPrefix, key, ballot); err != nil {
		return nil, fmt.Errorf("store ranked ballot: %w", err)
	}
	return ballot, nil
}

// RankedBallot retrieves the stored ballot of (election, voter).
func (s *Storage) RankedBallot(electionID string, voterID uint64) (*types.RankedBallot, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	ballot := &types.RankedBallot{}
	if err := s.getArtifact(rankedPrefix, rankedKey(electionID, voterID), ballot); err != nil {
		return nil, err
	}
	return ballot, nil
}
