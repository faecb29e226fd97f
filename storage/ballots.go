package storage

import (
	"time"

	"github.com/agoravote/agora-node/crypto/ballotproof"
	"github.com/agoravote/agora-node/types"
)

// EncryptedBallotRequest carries the fields of an anonymous encrypted ballot
// submission. No voter identity is attached; the nullifier is the sole
// double-vote defense.
type EncryptedBallotRequest struct {
	ElectionID  string
	Ciphertext  types.HexBytes
	ZKProof     types.HexBytes
	VoterPubKey types.HexBytes
	Nullifier   types.HexBytes
	Signature   types.HexBytes
}

// SubmitEncryptedBallot verifies and stores an anonymous encrypted ballot.
// The nullifier check and the insert run under the same lock, so two
// concurrent submissions with the same nullifier can never both be accepted.
// Returns ErrDuplicateNullifier if the nullifier was already spent and
// ErrInvalidProof if the verifier rejects the submission.
func (s *Storage) SubmitEncryptedBallot(req EncryptedBallotRequest, verifier ballotproof.Verifier) (*types.EncryptedBallot, error) {
	s.ballotsLock.Lock()
	defer s.ballotsLock.Unlock()

	if s.hasArtifact(ballotPrefix, req.Nullifier) {
		return nil, ErrDuplicateNullifier
	}
	if !verifier.Verify(req.Ciphertext, req.ZKProof, req.VoterPubKey, req.Nullifier, req.Signature) {
		return nil, ErrInvalidProof
	}

	ballot := &types.EncryptedBallot{
		BallotID:   tokenFromContent([]byte(req.ElectionID), req.Nullifier),
		ElectionID: req.ElectionID,
		Status:     types.EncryptedBallotStatusAccepted,
		Ciphertext: req.Ciphertext,
		Nullifier:  req.Nullifier,
		AnchoredAt: time.Now().UTC(),
	}
	if err := s.setArtifact(ballotPrefix, req.Nullifier, ballot); err != nil {
		return nil, err
	}
	return ballot, nil
}

// EncryptedBallotByNullifier retrieves a stored ballot by its nullifier.
func (s *Storage) EncryptedBallotByNullifier(nullifier types.HexBytes) (*types.EncryptedBallot, error) {
	s.ballotsLock.Lock()
	defer s.ballotsLock.Unlock()

	ballot := &types.EncryptedBallot{}
	if err := s.getArtifact(ballotPrefix, nullifier, ballot); err != nil {
		return nil, err
	}
	return ballot, nil
}

// CountEncryptedBallots returns the number of stored encrypted ballots.
func (s *Storage) CountEncryptedBallots() (int, error) {
	s.ballotsLock.Lock()
	defer s.ballotsLock.Unlock()

	count := 0
	if err := iterateArtifacts(s, ballotPrefix, func(*types.EncryptedBallot) bool {
		count++
		return true
	}); err != nil {
		return 0, err
	}
	return count, nil
}
