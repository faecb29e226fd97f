package storage

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/agoravote/agora-node/crypto/ballotproof"
	"github.com/agoravote/agora-node/types"
)

var acceptAll = ballotproof.VerifierFunc(func(_, _, _, _, _ []byte) bool { return true })

func TestSubmitEncryptedBallot(t *testing.T) {
	c := qt.New(t)
	stg := newTestStorage(t)

	req := EncryptedBallotRequest{
		ElectionID:  "election-1",
		Ciphertext:  []byte{0x01, 0x02},
		ZKProof:     []byte{0x03},
		VoterPubKey: []byte{0x04},
		Nullifier:   []byte{0xaa, 0xbb},
		Signature:   []byte{0x05},
	}
	ballot, err := stg.SubmitEncryptedBallot(req, acceptAll)
	c.Assert(err, qt.IsNil)
	c.Assert(ballot.Status, qt.Equals, types.EncryptedBallotStatusAccepted)
	c.Assert(ballot.BallotID, qt.Not(qt.Equals), "")

	// spent nullifier is rejected even with a different ciphertext
	req.Ciphertext = []byte{0xff}
	_, err = stg.SubmitEncryptedBallot(req, acceptAll)
	c.Assert(errors.Is(err, ErrDuplicateNullifier), qt.IsTrue)

	got, err := stg.EncryptedBallotByNullifier(ballot.Nullifier)
	c.Assert(err, qt.IsNil)
	c.Assert(got.BallotID, qt.Equals, ballot.BallotID)

	count, err := stg.CountEncryptedBallots()
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, 1)
}

func TestSubmitEncryptedBallotRejectedProof(t *testing.T) {
	c := qt.New(t)
	stg := newTestStorage(t)

	rejectAll := ballotproof.VerifierFunc(func(_, _, _, _, _ []byte) bool { return false })
	req := EncryptedBallotRequest{
		ElectionID: "election-1",
		Ciphertext: []byte{0x01},
		Nullifier:  []byte{0xaa},
	}
	_, err := stg.SubmitEncryptedBallot(req, rejectAll)
	c.Assert(errors.Is(err, ErrInvalidProof), qt.IsTrue)

	// a rejected submission does not burn the nullifier
	_, err = stg.SubmitEncryptedBallot(req, acceptAll)
	c.Assert(err, qt.IsNil)
}

func TestSubmitEncryptedBallotEthereumVerifier(t *testing.T) {
	c := qt.New(t)
	stg := newTestStorage(t)

	ciphertext := []byte("ciphertext")
	nullifier := []byte("nullifier-1")
	sig, pubKey, err := ballotproof.Sign(ciphertext, nullifier,
		"fad9c8855b740a0b7ed4c221dbad0f33a83a49cad6b3fe8d5817ac83d38b6a19")
	c.Assert(err, qt.IsNil)

	req := EncryptedBallotRequest{
		ElectionID:  "election-1",
		Ciphertext:  ciphertext,
		ZKProof:     []byte{0x01},
		VoterPubKey: pubKey,
		Nullifier:   nullifier,
		Signature:   sig,
	}
	_, err = stg.SubmitEncryptedBallot(req, &ballotproof.EthereumVerifier{})
	c.Assert(err, qt.IsNil)

	// tampered ciphertext breaks the signature
	req.Nullifier = []byte("nullifier-2")
	req.Ciphertext = []byte("tampered")
	_, err = stg.SubmitEncryptedBallot(req, &ballotproof.EthereumVerifier{})
	c.Assert(errors.Is(err, ErrInvalidProof), qt.IsTrue)
}
