/*
Package storage implements the election ledger over a key-value database with
prefixed namespaces:

  - v/  : voterID → Voter
  - c/  : candidateID → Candidate
  - vt/ : voteID → Vote (ledger, immutable)
  - eb/ : nullifier → EncryptedBallot
  - ht/ : electionID → TallyRecord
  - dp/ : electionID → DPBudget
  - rb/ : electionID + voterID → RankedBallot
  - ap/ : auditID → AuditPlan
  - m/  : counters (next vote id, registration sequences, audit sequence)

Integer entity keys are encoded as big-endian uint64 so that iteration order
matches numeric order; in particular iterating vt/ yields votes in vote_id
(and therefore allocation) order.

Writers are serialized per concern: globalLock covers the registries, the
vote ledger and the whole cast sequence (has-voted check, flag set, counter
increment, ledger append), ballotsLock covers nullifier insertion and
budgetLock covers DP spend accounting. Two concurrent casts for the same
voter, or two submissions of the same nullifier, can therefore never both
succeed.
*/
package storage

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agoravote/agora-node/db"
	"github.com/agoravote/agora-node/db/prefixeddb"
	"github.com/agoravote/agora-node/log"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrKeyAlreadyExists   = errors.New("key already exists")
	ErrUnderage           = errors.New("voter is underage")
	ErrAlreadyVoted       = errors.New("voter has already voted")
	ErrDuplicateNullifier = errors.New("nullifier already spent")
	ErrInvalidProof       = errors.New("ballot proof verification failed")
	ErrMalformedShare     = errors.New("malformed trustee share")
	ErrInvalidShareProof  = errors.New("trustee share proof verification failed")
	ErrInvalidEpsilon     = errors.New("epsilon must be a positive number")
	ErrInvalidDelta       = errors.New("delta must lie in [0,1]")
	ErrBudgetExceeded     = errors.New("differential privacy budget exceeded")
	ErrDuplicateBallot    = errors.New("ranked ballot already submitted")
	ErrInvalidInterval    = errors.New("interval lower bound is after upper bound")
	ErrInvalidAlpha       = errors.New("risk limit alpha must lie in (0,1)")
	ErrUnsupportedAudit   = errors.New("unsupported audit type")

	// Prefixes
	voterPrefix     = []byte("v/")
	candidatePrefix = []byte("c/")
	votePrefix      = []byte("vt/")
	ballotPrefix    = []byte("eb/")
	tallyPrefix     = []byte("ht/")
	budgetPrefix    = []byte("dp/")
	rankedPrefix    = []byte("rb/")
	auditPrefix     = []byte("ap/")
	counterPrefix   = []byte("m/")

	// Counter keys under counterPrefix
	nextVoteIDKey   = []byte("next_vote_id")
	voterSeqKey     = []byte("voter_seq")
	candidateSeqKey = []byte("candidate_seq")
	auditSeqKey     = []byte("audit_seq")

	maxKeySize = 12
)

// MinVoterAge is the registration age floor, enforced on create and update.
const MinVoterAge = 18

// Storage owns the entity stores of the election ledger.
type Storage struct {
	db          db.Database
	globalLock  sync.Mutex                 // registries, vote ledger, tallies, audits
	ballotsLock sync.Mutex                 // nullifier check-and-insert
	budgetLock  sync.Mutex                 // DP spend accounting
	cache       *lru.Cache[string, []byte] // encoded artifacts, hot read path
}

// New creates a new Storage instance over the given database.
func New(database db.Database) *Storage {
	cache, err := lru.New[string, []byte](1000)
	if err != nil {
		log.Fatalf("failed to create LRU cache: %v", err)
	}
	return &Storage{
		db:    database,
		cache: cache,
	}
}

// Close closes the underlying database.
func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		log.Warnw("failed to close storage", "error", err)
	}
}

// uint64Key encodes an integer entity key as 8 big-endian bytes.
func uint64Key(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// hashKey derives a fixed-size key from arbitrary bytes (election IDs are
// free-form strings).
func hashKey(data []byte) []byte {
	hash := sha256.Sum256(data)
	return hash[:maxKeySize]
}

// electionKey returns the storage key for an election-scoped artifact.
func electionKey(electionID string) []byte {
	return hashKey([]byte(electionID))
}

// rankedKey returns the storage key of the ranked ballot of (election, voter).
func rankedKey(electionID string, voterID uint64) []byte {
	return append(electionKey(electionID), uint64Key(voterID)...)
}

func cacheKey(prefix, key []byte) string {
	return string(prefix) + string(key)
}

// setArtifact stores an artifact under prefix/key, overwriting any previous
// value, and refreshes the cache entry.
func (s *Storage) setArtifact(prefix, key []byte, artifact any) error {
	data, err := EncodeArtifact(artifact)
	if err != nil {
		return err
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	defer wTx.Discard()
	if err := wTx.Set(key, data); err != nil {
		return err
	}
	if err := wTx.Commit(); err != nil {
		return err
	}
	s.cache.Add(cacheKey(prefix, key), data)
	return nil
}

// getArtifact retrieves an artifact from cache or database, decoding it into
// out. Returns ErrNotFound if the key does not exist.
func (s *Storage) getArtifact(prefix, key []byte, out any) error {
	if data, ok := s.cache.Get(cacheKey(prefix, key)); ok {
		return DecodeArtifact(data, out)
	}
	data, err := prefixeddb.NewPrefixedReader(s.db, prefix).Get(key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.cache.Add(cacheKey(prefix, key), data)
	return DecodeArtifact(data, out)
}

// hasArtifact reports whether an artifact exists without decoding it.
func (s *Storage) hasArtifact(prefix, key []byte) bool {
	if _, ok := s.cache.Get(cacheKey(prefix, key)); ok {
		return true
	}
	_, err := prefixeddb.NewPrefixedReader(s.db, prefix).Get(key)
	return err == nil
}

// deleteArtifact removes an artifact and its cache entry. Returns ErrNotFound
// if the key does not exist.
func (s *Storage) deleteArtifact(prefix, key []byte) error {
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	defer wTx.Discard()
	if _, err := wTx.Get(key); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := wTx.Delete(key); err != nil {
		return err
	}
	if err := wTx.Commit(); err != nil {
		return err
	}
	s.cache.Remove(cacheKey(prefix, key))
	return nil
}

// iterateArtifacts decodes every artifact under prefix into a fresh value
// produced by newFn and passes it to callback, in key order.
func iterateArtifacts[T any](s *Storage, prefix []byte, callback func(*T) bool) error {
	var decodeErr error
	err := prefixeddb.NewPrefixedReader(s.db, prefix).Iterate(nil, func(_, value []byte) bool {
		item := new(T)
		if err := DecodeArtifact(value, item); err != nil {
			decodeErr = fmt.Errorf("could not decode artifact: %w", err)
			return false
		}
		return callback(item)
	})
	if err != nil {
		return err
	}
	return decodeErr
}

// nextCounter atomically allocates the next value of a named counter. The
// first allocation returns start. Callers must hold the lock guarding the
// counter's concern.
func (s *Storage) nextCounter(name []byte, start uint64) (uint64, error) {
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), counterPrefix)
	defer wTx.Discard()
	next := start
	if data, err := wTx.Get(name); err == nil {
		next = binary.BigEndian.Uint64(data)
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		return 0, err
	}
	if err := wTx.Set(name, uint64Key(next+1)); err != nil {
		return 0, err
	}
	if err := wTx.Commit(); err != nil {
		return 0, err
	}
	return next, nil
}
