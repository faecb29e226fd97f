package api

import (
	"encoding/json"
	"net/http"
	"time"

	stg "github.com/agoravote/agora-node/storage"
)

// submitEncryptedBallot handles POST /api/ballots/encrypted. Success status
// is 236. No voter identity is checked: the nullifier is the sole double-vote
// defense.
func (a *API) submitEncryptedBallot(w http.ResponseWriter, r *http.Request) {
	req := EncryptedBallotRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	for _, field := range []struct {
		name  string
		empty bool
	}{
		{"election_id", req.ElectionID == ""},
		{"ciphertext", len(req.Ciphertext) == 0},
		{"zk_proof", len(req.ZKProof) == 0},
		{"voter_pubkey", len(req.VoterPubKey) == 0},
		{"nullifier", len(req.Nullifier) == 0},
		{"signature", len(req.Signature) == 0},
	} {
		if field.empty {
			ErrMissingField.With(field.name).Write(w)
			return
		}
	}
	ballot, err := a.storage.SubmitEncryptedBallot(stg.EncryptedBallotRequest{
		ElectionID:  req.ElectionID,
		Ciphertext:  req.Ciphertext,
		ZKProof:     req.ZKProof,
		VoterPubKey: req.VoterPubKey,
		Nullifier:   req.Nullifier,
		Signature:   req.Signature,
	}, a.ballotVerifier)
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSONStatus(w, 236, ballot)
}

// submitRankedBallot handles POST /api/ballots/ranked. Success status is 200.
func (a *API) submitRankedBallot(w http.ResponseWriter, r *http.Request) {
	req := RankedBallotRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if req.ElectionID == "" {
		ErrMissingField.With("election_id").Write(w)
		return
	}
	if req.VoterID == nil {
		ErrMissingField.With("voter_id").Write(w)
		return
	}
	if len(req.Ranking) == 0 {
		ErrMissingField.With("ranking").Write(w)
		return
	}
	if req.Timestamp == "" {
		ErrMissingField.With("timestamp").Write(w)
		return
	}
	timestamp, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		ErrInvalidTimestamp.Withf("%q", req.Timestamp).Write(w)
		return
	}
	ballot, err := a.storage.SubmitRankedBallot(req.ElectionID, *req.VoterID, req.Ranking, timestamp)
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSON(w, ballot)
}
