package storage

import (
	"fmt"
	"sort"

	"github.com/agoravote/agora-node/types"
)

// AddVoter registers a new voter with has_voted unset. It fails with
// ErrUnderage if age is below MinVoterAge and with ErrKeyAlreadyExists if the
// voter ID is taken.
func (s *Storage) AddVoter(id uint64, name string, age int) (*types.Voter, error) {
	if age < MinVoterAge {
		return nil, ErrUnderage
	}

	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	key := uint64Key(id)
	if s.hasArtifact(voterPrefix, key) {
		return nil, fmt.Errorf("voter %d: %w", id, ErrKeyAlreadyExists)
	}
	seq, err := s.nextCounter(voterSeqKey, 0)
	if err != nil {
		return nil, fmt.Errorf("allocate voter sequence: %w", err)
	}
	voter := &types.Voter{
		ID:   id,
		Name: name,
		Age:  age,
		Seq:  seq,
	}
	if err := s.setArtifact(voterPrefix, key, voter); err != nil {
		return nil, fmt.Errorf("store voter %d: %w", id, err)
	}
	return voter, nil
}

// Voter retrieves a voter by ID. Returns ErrNotFound if it does not exist.
func (s *Storage) Voter(id uint64) (*types.Voter, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	return s.voterUnsafe(id)
}

func (s *Storage) voterUnsafe(id uint64) (*types.Voter, error) {
	voter := &types.Voter{}
	if err := s.getArtifact(voterPrefix, uint64Key(id), voter); err != nil {
		return nil, err
	}
	return voter, nil
}

// ListVoters returns the public view of all voters in registration order.
func (s *Storage) ListVoters() ([]types.VoterSummary, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	voters := []*types.Voter{}
	if err := iterateArtifacts(s, voterPrefix, func(v *types.Voter) bool {
		voters = append(voters, v)
		return true
	}); err != nil {
		return nil, err
	}
	sort.Slice(voters, func(i, j int) bool { return voters[i].Seq < voters[j].Seq })

	list := make([]types.VoterSummary, len(voters))
	for i, v := range voters {
		list[i] = types.VoterSummary{ID: v.ID, Name: v.Name, Age: v.Age}
	}
	return list, nil
}

// VoterUpdate holds the optional fields of a voter update. Nil fields are
// left untouched.
type VoterUpdate struct {
	Name           *string
	Age            *int
	ProfileUpdated *bool
}

// UpdateVoter applies a partial update to a voter. An age below MinVoterAge
// fails with ErrUnderage without mutating the record.
func (s *Storage) UpdateVoter(id uint64, update VoterUpdate) (*types.Voter, error) {
	if update.Age != nil && *update.Age < MinVoterAge {
		return nil, ErrUnderage
	}

	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	voter, err := s.voterUnsafe(id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		voter.Name = *update.Name
	}
	if update.Age != nil {
		voter.Age = *update.Age
	}
	if update.ProfileUpdated != nil {
		voter.ProfileUpdated = *update.ProfileUpdated
	}
	if err := s.setArtifact(voterPrefix, uint64Key(id), voter); err != nil {
		return nil, fmt.Errorf("store voter %d: %w", id, err)
	}
	return voter, nil
}

// DeleteVoter removes a voter record entirely. Votes already recorded in the
// ledger are kept and simply become orphaned.
func (s *Storage) DeleteVoter(id uint64) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	return s.deleteArtifact(voterPrefix, uint64Key(id))
}
