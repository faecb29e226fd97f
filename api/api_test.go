package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/agoravote/agora-node/crypto/ballotproof"
	"github.com/agoravote/agora-node/crypto/homomorphic"
	"github.com/agoravote/agora-node/crypto/noise"
	"github.com/agoravote/agora-node/db/metadb"
	stg "github.com/agoravote/agora-node/storage"
	"github.com/agoravote/agora-node/types"
)

type testAggregator struct{}

func (testAggregator) Aggregate(shares [][]byte) ([]byte, error) {
	out := []byte{}
	for _, s := range shares {
		out = append(out, s...)
	}
	return out, nil
}

func (testAggregator) Prove(aggregated []byte, _ [][]byte) ([]byte, error) { return aggregated, nil }

func (testAggregator) Scheme() string { return "concat-test" }

// newTestAPI builds an API over a fresh test database without binding a
// listener. The capabilities accept everything and add no noise so handlers
// can be asserted on exactly.
func newTestAPI(t *testing.T, verifier ballotproof.Verifier) *API {
	t.Helper()
	if verifier == nil {
		verifier = ballotproof.VerifierFunc(func(_, _, _, _, _ []byte) bool { return true })
	}
	a := &API{
		storage:        stg.New(metadb.NewTest(t)),
		ballotVerifier: verifier,
		shareVerifier:  homomorphic.ShareVerifierFunc(func(_ string, _, _ []byte) bool { return true }),
		aggregator:     testAggregator{},
		noise:          noise.MechanismFunc(func(count int64, _, _ float64) int64 { return count }),
	}
	a.initRouter()
	return a
}

func doRequest(t *testing.T, a *API, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

type errBody struct {
	Message string `json:"message"`
}

func registerVoterReq(id uint64, name string, age int) RegisterVoterRequest {
	return RegisterVoterRequest{VoterID: &id, Name: name, Age: &age}
}

func registerCandidateReq(id uint64, name, party string) RegisterCandidateRequest {
	return RegisterCandidateRequest{CandidateID: &id, Name: name, Party: party}
}

func castVoteReq(voterID, candidateID uint64) CastVoteRequest {
	return CastVoteRequest{VoterID: &voterID, CandidateID: &candidateID}
}

func TestVoterEndpoints(t *testing.T) {
	c := qt.New(t)
	a := newTestAPI(t, nil)

	// register: 218
	w := doRequest(t, a, http.MethodPost, VotersEndpoint, registerVoterReq(1, "ada", 30))
	c.Assert(w.Code, qt.Equals, 218, qt.Commentf("body: %s", w.Body))
	voter := decodeBody[types.Voter](t, w)
	c.Assert(voter.ID, qt.Equals, uint64(1))

	// duplicate: 409
	w = doRequest(t, a, http.MethodPost, VotersEndpoint, registerVoterReq(1, "bob", 40))
	c.Assert(w.Code, qt.Equals, http.StatusConflict)

	// underage: 417
	w = doRequest(t, a, http.MethodPost, VotersEndpoint, registerVoterReq(2, "kid", 17))
	c.Assert(w.Code, qt.Equals, http.StatusExpectationFailed)

	// missing field: 400 with a message body
	w = doRequest(t, a, http.MethodPost, VotersEndpoint, map[string]any{"name": "nameless"})
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(decodeBody[errBody](t, w).Message, qt.Contains, "missing required field")

	// fetch: 222
	w = doRequest(t, a, http.MethodGet, VotersEndpoint+"/1", nil)
	c.Assert(w.Code, qt.Equals, 222)

	// fetch unknown: 404
	w = doRequest(t, a, http.MethodGet, VotersEndpoint+"/99", nil)
	c.Assert(w.Code, qt.Equals, http.StatusNotFound)

	// list: 223
	w = doRequest(t, a, http.MethodGet, VotersEndpoint, nil)
	c.Assert(w.Code, qt.Equals, 223)
	list := decodeBody[[]types.VoterSummary](t, w)
	c.Assert(len(list), qt.Equals, 1)

	// update: 200
	w = doRequest(t, a, http.MethodPut, VotersEndpoint+"/1", map[string]any{"name": "ada lovelace"})
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(decodeBody[types.Voter](t, w).Name, qt.Equals, "ada lovelace")

	// underage update: 417
	w = doRequest(t, a, http.MethodPut, VotersEndpoint+"/1", map[string]any{"age": 10})
	c.Assert(w.Code, qt.Equals, http.StatusExpectationFailed)

	// delete: 225, then 404
	w = doRequest(t, a, http.MethodDelete, VotersEndpoint+"/1", nil)
	c.Assert(w.Code, qt.Equals, 225)
	w = doRequest(t, a, http.MethodDelete, VotersEndpoint+"/1", nil)
	c.Assert(w.Code, qt.Equals, http.StatusNotFound)
}

func TestCandidateEndpoints(t *testing.T) {
	c := qt.New(t)
	a := newTestAPI(t, nil)

	w := doRequest(t, a, http.MethodPost, CandidatesEndpoint, registerCandidateReq(10, "alice", "Greens"))
	c.Assert(w.Code, qt.Equals, 226, qt.Commentf("body: %s", w.Body))
	w = doRequest(t, a, http.MethodPost, CandidatesEndpoint, registerCandidateReq(20, "bob", "Reds"))
	c.Assert(w.Code, qt.Equals, 226)

	// duplicate: 409
	w = doRequest(t, a, http.MethodPost, CandidatesEndpoint, registerCandidateReq(10, "other", "Blues"))
	c.Assert(w.Code, qt.Equals, http.StatusConflict)
	c.Assert(decodeBody[errBody](t, w).Message, qt.Contains, "candidate already registered")

	// plain list: 227
	w = doRequest(t, a, http.MethodGet, CandidatesEndpoint, nil)
	c.Assert(w.Code, qt.Equals, 227)
	c.Assert(len(decodeBody[[]types.CandidateSummary](t, w)), qt.Equals, 2)

	// filtered list: 230, case-insensitive
	w = doRequest(t, a, http.MethodGet, CandidatesEndpoint+"?party=greens", nil)
	c.Assert(w.Code, qt.Equals, 230)
	filtered := decodeBody[[]types.CandidateSummary](t, w)
	c.Assert(len(filtered), qt.Equals, 1)
	c.Assert(filtered[0].ID, qt.Equals, uint64(10))

	// vote count: 229
	w = doRequest(t, a, http.MethodGet, CandidatesEndpoint+"/10/votes", nil)
	c.Assert(w.Code, qt.Equals, 229)
	c.Assert(decodeBody[CandidateVotesResponse](t, w).Votes, qt.Equals, uint64(0))

	w = doRequest(t, a, http.MethodGet, CandidatesEndpoint+"/99/votes", nil)
	c.Assert(w.Code, qt.Equals, http.StatusNotFound)
}

func TestVoteEndpoints(t *testing.T) {
	c := qt.New(t)
	a := newTestAPI(t, nil)

	doRequest(t, a, http.MethodPost, VotersEndpoint, registerVoterReq(1, "ada", 30))
	doRequest(t, a, http.MethodPost, CandidatesEndpoint, registerCandidateReq(10, "alice", "Greens"))

	// cast: 228, first vote id is 101
	w := doRequest(t, a, http.MethodPost, VotesEndpoint, castVoteReq(1, 10))
	c.Assert(w.Code, qt.Equals, 228, qt.Commentf("body: %s", w.Body))
	vote := decodeBody[types.Vote](t, w)
	c.Assert(vote.ID, qt.Equals, uint64(types.FirstVoteID))

	// second cast: 403
	w = doRequest(t, a, http.MethodPost, VotesEndpoint, castVoteReq(1, 10))
	c.Assert(w.Code, qt.Equals, http.StatusForbidden)

	// timeline: 233
	w = doRequest(t, a, http.MethodGet, VotesTimelineEndpoint+"?candidate_id=10", nil)
	c.Assert(w.Code, qt.Equals, 233)
	timeline := decodeBody[TimelineResponse](t, w)
	c.Assert(len(timeline.Events), qt.Equals, 1)
	c.Assert(timeline.Events[0].VoteID, qt.Equals, vote.ID)

	// timeline without candidate_id: 400
	w = doRequest(t, a, http.MethodGet, VotesTimelineEndpoint, nil)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	// weighted receipt: 234
	w = doRequest(t, a, http.MethodPost, VotesWeightedEndpoint+"?voter_id=1&candidate_id=10", nil)
	c.Assert(w.Code, qt.Equals, 234)
	receipt := decodeBody[types.WeightedVoteReceipt](t, w)
	c.Assert(receipt.Weight, qt.Equals, 1)

	// range: 235
	at := vote.Timestamp.Format("2006-01-02T15:04:05.999999999Z07:00")
	w = doRequest(t, a, http.MethodGet, fmt.Sprintf(
		"%s?candidate_id=10&from=%s&to=%s", VotesRangeEndpoint, at, at), nil)
	c.Assert(w.Code, qt.Equals, 235, qt.Commentf("body: %s", w.Body))
	c.Assert(decodeBody[RangeCountResponse](t, w).Count, qt.Equals, 1)

	// unparsable bound: 400
	w = doRequest(t, a, http.MethodGet,
		VotesRangeEndpoint+"?candidate_id=10&from=yesterday&to="+at, nil)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	// inverted interval: 400
	w = doRequest(t, a, http.MethodGet, fmt.Sprintf(
		"%s?candidate_id=10&from=2030-01-01T00:00:00Z&to=%s", VotesRangeEndpoint, at), nil)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(decodeBody[errBody](t, w).Message, qt.Contains, "invalid interval")
}

func TestResultsEndpoints(t *testing.T) {
	c := qt.New(t)
	a := newTestAPI(t, nil)

	doRequest(t, a, http.MethodPost, CandidatesEndpoint, registerCandidateReq(10, "alice", "Greens"))
	doRequest(t, a, http.MethodPost, CandidatesEndpoint, registerCandidateReq(20, "bob", "Reds"))
	for i := uint64(1); i <= 3; i++ {
		doRequest(t, a, http.MethodPost, VotersEndpoint, registerVoterReq(i, "v", 30))
	}
	doRequest(t, a, http.MethodPost, VotesEndpoint, castVoteReq(1, 20))
	doRequest(t, a, http.MethodPost, VotesEndpoint, castVoteReq(2, 20))
	doRequest(t, a, http.MethodPost, VotesEndpoint, castVoteReq(3, 10))

	// results: 231, descending
	w := doRequest(t, a, http.MethodGet, ResultsEndpoint, nil)
	c.Assert(w.Code, qt.Equals, 231)
	results := decodeBody[[]types.CandidateResult](t, w)
	c.Assert(results[0].ID, qt.Equals, uint64(20))
	c.Assert(results[1].ID, qt.Equals, uint64(10))

	// winner: 232
	w = doRequest(t, a, http.MethodGet, ResultsWinnerEndpoint, nil)
	c.Assert(w.Code, qt.Equals, 232)
	winners := decodeBody[WinnerResponse](t, w)
	c.Assert(len(winners.Winners), qt.Equals, 1)
	c.Assert(winners.Winners[0].ID, qt.Equals, uint64(20))
}

func TestWinnerEmptyRegistry(t *testing.T) {
	c := qt.New(t)
	a := newTestAPI(t, nil)

	w := doRequest(t, a, http.MethodGet, ResultsWinnerEndpoint, nil)
	c.Assert(w.Code, qt.Equals, http.StatusNotFound)
}

func encryptedBallotReq(nullifier string) EncryptedBallotRequest {
	return EncryptedBallotRequest{
		ElectionID:  "election-1",
		Ciphertext:  []byte{0x01},
		ZKProof:     []byte{0x02},
		VoterPubKey: []byte{0x03},
		Nullifier:   []byte(nullifier),
		Signature:   []byte{0x04},
	}
}

func TestEncryptedBallotEndpoint(t *testing.T) {
	c := qt.New(t)
	a := newTestAPI(t, nil)

	// submit: 236
	w := doRequest(t, a, http.MethodPost, BallotsEncryptedEndpoint, encryptedBallotReq("n1"))
	c.Assert(w.Code, qt.Equals, 236, qt.Commentf("body: %s", w.Body))
	ballot := decodeBody[types.EncryptedBallot](t, w)
	c.Assert(ballot.Status, qt.Equals, types.EncryptedBallotStatusAccepted)

	// spent nullifier: 423
	w = doRequest(t, a, http.MethodPost, BallotsEncryptedEndpoint, encryptedBallotReq("n1"))
	c.Assert(w.Code, qt.Equals, http.StatusLocked)
	c.Assert(decodeBody[errBody](t, w).Message, qt.Contains, "nullifier already spent")

	// missing field: 400
	req := encryptedBallotReq("n2")
	req.Signature = nil
	w = doRequest(t, a, http.MethodPost, BallotsEncryptedEndpoint, req)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
}

func TestEncryptedBallotRejectedProof(t *testing.T) {
	c := qt.New(t)
	a := newTestAPI(t, ballotproof.VerifierFunc(func(_, _, _, _, _ []byte) bool { return false }))

	w := doRequest(t, a, http.MethodPost, BallotsEncryptedEndpoint, encryptedBallotReq("n1"))
	c.Assert(w.Code, qt.Equals, http.StatusFailedDependency)
	c.Assert(decodeBody[errBody](t, w).Message, qt.Contains, "invalid ballot proof")
}

func TestHomomorphicTallyEndpoints(t *testing.T) {
	c := qt.New(t)
	a := newTestAPI(t, nil)

	doRequest(t, a, http.MethodPost, CandidatesEndpoint, registerCandidateReq(10, "alice", "Greens"))

	shares := []types.TrusteeShare{
		{TrusteeID: "t1", Share: []byte{0x01}, Proof: []byte{0x0a}},
		{TrusteeID: "t2", Share: []byte{0x02}, Proof: []byte{0x0b}},
	}
	w := doRequest(t, a, http.MethodPost, ResultsHomomorphicEndpoint, TallyRequest{
		ElectionID: "election-1",
		Shares:     shares,
	})
	c.Assert(w.Code, qt.Equals, 237, qt.Commentf("body: %s", w.Body))
	record := decodeBody[types.TallyRecord](t, w)
	c.Assert(record.Transparency.TrusteeScheme, qt.Equals, "concat-test")
	c.Assert(len(record.Tallies), qt.Equals, 1)

	// retrieval
	w = doRequest(t, a, http.MethodGet, ResultsHomomorphicEndpoint+"/election-1", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	// empty share array: 400
	w = doRequest(t, a, http.MethodPost, ResultsHomomorphicEndpoint, TallyRequest{ElectionID: "e"})
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	// malformed share: 424
	w = doRequest(t, a, http.MethodPost, ResultsHomomorphicEndpoint, TallyRequest{
		ElectionID: "election-1",
		Shares:     []types.TrusteeShare{{TrusteeID: "t1", Share: []byte{0x01}}},
	})
	c.Assert(w.Code, qt.Equals, http.StatusFailedDependency)
}

func dpQueryReq(electionID string, epsilon float64) DPQueryRequest {
	return DPQueryRequest{
		ElectionID: electionID,
		Query:      types.DPQuery{Type: "histogram", Dimension: "candidate", Buckets: []string{"10"}},
		Epsilon:    &epsilon,
	}
}

func TestDPAnalyticsEndpoint(t *testing.T) {
	c := qt.New(t)
	a := newTestAPI(t, nil)

	// 0.6 accepted
	w := doRequest(t, a, http.MethodPost, AnalyticsDPEndpoint, dpQueryReq("election-1", 0.6))
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body))
	res := decodeBody[DPQueryResponse](t, w)
	c.Assert(res.EpsilonSpent, qt.Equals, 0.6)

	// 0.5 exceeds the remaining budget: 425
	w = doRequest(t, a, http.MethodPost, AnalyticsDPEndpoint, dpQueryReq("election-1", 0.5))
	c.Assert(w.Code, qt.Equals, http.StatusTooEarly)
	c.Assert(decodeBody[errBody](t, w).Message, qt.Contains, "privacy budget exceeded")

	// 0.4 still fits
	w = doRequest(t, a, http.MethodPost, AnalyticsDPEndpoint, dpQueryReq("election-1", 0.4))
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	// invalid epsilon: 400
	w = doRequest(t, a, http.MethodPost, AnalyticsDPEndpoint, dpQueryReq("election-2", 0))
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	// invalid delta: 400
	req := dpQueryReq("election-2", 0.1)
	req.Delta = 1.5
	w = doRequest(t, a, http.MethodPost, AnalyticsDPEndpoint, req)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
}

func rankedBallotReq(electionID string, voterID uint64, ranking []uint64) RankedBallotRequest {
	return RankedBallotRequest{
		ElectionID: electionID,
		VoterID:    &voterID,
		Ranking:    ranking,
		Timestamp:  "2026-08-01T10:00:00Z",
	}
}

func TestRankedBallotEndpoint(t *testing.T) {
	c := qt.New(t)
	a := newTestAPI(t, nil)

	w := doRequest(t, a, http.MethodPost, BallotsRankedEndpoint, rankedBallotReq("election-1", 1, []uint64{20, 10}))
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body))

	// duplicate (election, voter): 409 even with a different ranking
	w = doRequest(t, a, http.MethodPost, BallotsRankedEndpoint, rankedBallotReq("election-1", 1, []uint64{10}))
	c.Assert(w.Code, qt.Equals, http.StatusConflict)

	// bad timestamp: 400
	req := rankedBallotReq("election-1", 2, []uint64{10})
	req.Timestamp = "not-a-time"
	w = doRequest(t, a, http.MethodPost, BallotsRankedEndpoint, req)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(decodeBody[errBody](t, w).Message, qt.Contains, "invalid timestamp")

	// empty ranking: 400
	w = doRequest(t, a, http.MethodPost, BallotsRankedEndpoint, rankedBallotReq("election-1", 2, nil))
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
}

func TestAuditEndpoints(t *testing.T) {
	c := qt.New(t)
	a := newTestAPI(t, nil)

	alpha := 0.05
	req := AuditPlanRequest{
		ElectionID:      "election-1",
		ReportedTallies: []types.ReportedTally{{CandidateID: 10, Votes: 6000}, {CandidateID: 20, Votes: 4000}},
		RiskLimitAlpha:  &alpha,
		AuditType:       types.AuditTypeBallotPolling,
	}
	w := doRequest(t, a, http.MethodPost, AuditsPlanEndpoint, req)
	c.Assert(w.Code, qt.Equals, 240, qt.Commentf("body: %s", w.Body))
	plan := decodeBody[types.AuditPlan](t, w)
	c.Assert(plan.InitialSampleSize, qt.Equals, uint64(300))
	c.Assert(plan.Method, qt.Equals, types.AuditMethodKaplanMarkov)
	c.Assert(plan.Status, qt.Equals, types.AuditStatusPlanned)

	// retrieval
	w = doRequest(t, a, http.MethodGet, "/api/audits/"+plan.AuditID, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	// out-of-range alpha: 400
	badAlpha := 1.5
	req.RiskLimitAlpha = &badAlpha
	w = doRequest(t, a, http.MethodPost, AuditsPlanEndpoint, req)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	// unsupported audit type: 400
	req.RiskLimitAlpha = &alpha
	req.AuditType = "comparison"
	w = doRequest(t, a, http.MethodPost, AuditsPlanEndpoint, req)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(decodeBody[errBody](t, w).Message, qt.Contains, "unsupported audit type")
}

func TestUnmatchedRoute(t *testing.T) {
	c := qt.New(t)
	a := newTestAPI(t, nil)

	w := doRequest(t, a, http.MethodGet, "/api/nope", nil)
	c.Assert(w.Code, qt.Equals, http.StatusNotFound)
	c.Assert(decodeBody[errBody](t, w).Message, qt.Equals, "resource not found")
}
