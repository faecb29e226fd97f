package api

import (
	"fmt"
	"net/url"
	"strings"
)

// Route constants for the API endpoints

const (
	// Health endpoint
	PingEndpoint = "/ping" // GET: Health check

	// Voter endpoints
	VoterIDURLParam = "voterId"                                     // URL parameter for voter ID
	VotersEndpoint  = "/api/voters"                                 // POST: Register voter, GET: List voters
	VoterEndpoint   = VotersEndpoint + "/{" + VoterIDURLParam + "}" // GET/PUT/DELETE: Single voter

	// Candidate endpoints
	CandidateIDURLParam    = "candidateId"                                               // URL parameter for candidate ID
	CandidatesEndpoint     = "/api/candidates"                                           // POST: Register candidate, GET: List candidates
	CandidateVotesEndpoint = CandidatesEndpoint + "/{" + CandidateIDURLParam + "}/votes" // GET: Candidate vote count
	PartyQueryParam        = "party"                                                     // URL query param for party filter

	// Vote endpoints
	VotesEndpoint         = "/api/votes"                // POST: Cast a vote
	VotesTimelineEndpoint = VotesEndpoint + "/timeline" // GET: Candidate vote timeline
	VotesWeightedEndpoint = VotesEndpoint + "/weighted" // POST: Issue weighted vote receipt
	VotesRangeEndpoint    = VotesEndpoint + "/range"    // GET: Count votes in a time interval

	CandidateIDQueryParam = "candidate_id" // URL query param for candidate ID
	VoterIDQueryParam     = "voter_id"     // URL query param for voter ID
	FromQueryParam        = "from"         // URL query param for interval start
	ToQueryParam          = "to"           // URL query param for interval end

	// Results endpoints
	ResultsEndpoint            = "/api/results"                  // GET: Ranked results
	ResultsWinnerEndpoint      = ResultsEndpoint + "/winner"     // GET: Winner(s), ties included
	ResultsHomomorphicEndpoint = ResultsEndpoint + "/homomorphic" // POST: Aggregate homomorphic tally
	ElectionIDURLParam         = "electionId"                    // URL parameter for election ID
	// TallyEndpoint retrieves a stored tally record.
	TallyEndpoint = ResultsHomomorphicEndpoint + "/{" + ElectionIDURLParam + "}"

	// Ballot endpoints
	BallotsEncryptedEndpoint = "/api/ballots/encrypted" // POST: Submit encrypted ballot
	BallotsRankedEndpoint    = "/api/ballots/ranked"    // POST: Submit ranked ballot

	// Analytics endpoints
	AnalyticsDPEndpoint = "/api/analytics/dp" // POST: Differential-privacy histogram query

	// Audit endpoints
	AuditIDURLParam    = "auditId"                               // URL parameter for audit ID
	AuditsPlanEndpoint = "/api/audits/plan"                      // POST: Compute audit plan
	AuditEndpoint      = "/api/audits/{" + AuditIDURLParam + "}" // GET: Stored audit plan
)

// EndpointWithParam creates an endpoint URL by replacing the parameter
// placeholder with the actual value. Used to build fully qualified
// endpoint URLs.
func EndpointWithParam(path, key, param string) string {
	rawKey := fmt.Sprintf("{%s}", key)

	// Always try to replace the placeholder, even if it's after the '?'
	if strings.Contains(path, rawKey) {
		return strings.Replace(path, rawKey, url.PathEscape(param), 1)
	}

	// Fallback: add as query param
	escapedKey := url.QueryEscape(key)
	escapedVal := url.QueryEscape(param)

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	return fmt.Sprintf("%s%s%s=%s", path, sep, escapedKey, escapedVal)
}

// LogExcludedPrefixes defines URL prefixes to exclude from request logging
var LogExcludedPrefixes = []string{
	PingEndpoint,
}
