package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/agoravote/agora-node/crypto/ballotproof"
	"github.com/agoravote/agora-node/crypto/homomorphic"
	"github.com/agoravote/agora-node/crypto/noise"
	"github.com/agoravote/agora-node/log"
	stg "github.com/agoravote/agora-node/storage"
)

const (
	maxRequestBodyLog = 512 // Maximum length of request body to log
)

// APIConfig type represents the configuration for the API HTTP server. It
// includes the host, port, the storage instance and the pluggable
// capabilities the handlers delegate to.
type APIConfig struct {
	Host    string
	Port    int
	Storage *stg.Storage

	// Capabilities. All of them are required.
	BallotVerifier ballotproof.Verifier
	ShareVerifier  homomorphic.ShareVerifier
	Aggregator     homomorphic.Aggregator
	Noise          noise.Mechanism
}

// API type represents the API HTTP server.
type API struct {
	router  *chi.Mux
	storage *stg.Storage

	ballotVerifier ballotproof.Verifier
	shareVerifier  homomorphic.ShareVerifier
	aggregator     homomorphic.Aggregator
	noise          noise.Mechanism
}

// New creates a new API instance with the given configuration and starts the
// HTTP server.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Storage == nil {
		return nil, fmt.Errorf("missing storage instance")
	}
	if conf.BallotVerifier == nil || conf.ShareVerifier == nil || conf.Aggregator == nil || conf.Noise == nil {
		return nil, fmt.Errorf("missing capability configuration")
	}
	a := &API{
		storage:        conf.Storage,
		ballotVerifier: conf.BallotVerifier,
		shareVerifier:  conf.ShareVerifier,
		aggregator:     conf.Aggregator,
		noise:          conf.Noise,
	}

	// Initialize router
	a.initRouter()
	go func() {
		log.Infow("starting API server", "host", conf.Host, "port", conf.Port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", conf.Host, conf.Port), a.router); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// registerHandlers registers all the HTTP handlers for the API endpoints.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteJSON(w, map[string]string{"status": "ok"})
	})
	// voter endpoints
	log.Infow("register handler", "endpoint", VotersEndpoint, "method", "POST")
	a.router.Post(VotersEndpoint, a.registerVoter)
	log.Infow("register handler", "endpoint", VotersEndpoint, "method", "GET")
	a.router.Get(VotersEndpoint, a.listVoters)
	log.Infow("register handler", "endpoint", VoterEndpoint, "method", "GET")
	a.router.Get(VoterEndpoint, a.voter)
	log.Infow("register handler", "endpoint", VoterEndpoint, "method", "PUT")
	a.router.Put(VoterEndpoint, a.updateVoter)
	log.Infow("register handler", "endpoint", VoterEndpoint, "method", "DELETE")
	a.router.Delete(VoterEndpoint, a.deleteVoter)
	// candidate endpoints
	log.Infow("register handler", "endpoint", CandidatesEndpoint, "method", "POST")
	a.router.Post(CandidatesEndpoint, a.registerCandidate)
	log.Infow("register handler", "endpoint", CandidatesEndpoint, "method", "GET", "parameters", PartyQueryParam)
	a.router.Get(CandidatesEndpoint, a.listCandidates)
	log.Infow("register handler", "endpoint", CandidateVotesEndpoint, "method", "GET")
	a.router.Get(CandidateVotesEndpoint, a.candidateVotes)
	// vote endpoints
	log.Infow("register handler", "endpoint", VotesEndpoint, "method", "POST")
	a.router.Post(VotesEndpoint, a.castVote)
	log.Infow("register handler", "endpoint", VotesTimelineEndpoint, "method", "GET", "parameters", CandidateIDQueryParam)
	a.router.Get(VotesTimelineEndpoint, a.voteTimeline)
	log.Infow("register handler", "endpoint", VotesWeightedEndpoint, "method", "POST")
	a.router.Post(VotesWeightedEndpoint, a.weightedVote)
	log.Infow("register handler", "endpoint", VotesRangeEndpoint, "method", "GET")
	a.router.Get(VotesRangeEndpoint, a.voteRangeCount)
	// results endpoints
	log.Infow("register handler", "endpoint", ResultsEndpoint, "method", "GET")
	a.router.Get(ResultsEndpoint, a.results)
	log.Infow("register handler", "endpoint", ResultsWinnerEndpoint, "method", "GET")
	a.router.Get(ResultsWinnerEndpoint, a.winners)
	log.Infow("register handler", "endpoint", ResultsHomomorphicEndpoint, "method", "POST")
	a.router.Post(ResultsHomomorphicEndpoint, a.aggregateTally)
	log.Infow("register handler", "endpoint", TallyEndpoint, "method", "GET")
	a.router.Get(TallyEndpoint, a.tally)
	// ballot endpoints
	log.Infow("register handler", "endpoint", BallotsEncryptedEndpoint, "method", "POST")
	a.router.Post(BallotsEncryptedEndpoint, a.submitEncryptedBallot)
	log.Infow("register handler", "endpoint", BallotsRankedEndpoint, "method", "POST")
	a.router.Post(BallotsRankedEndpoint, a.submitRankedBallot)
	// analytics endpoints
	log.Infow("register handler", "endpoint", AnalyticsDPEndpoint, "method", "POST")
	a.router.Post(AnalyticsDPEndpoint, a.dpQuery)
	// audit endpoints
	log.Infow("register handler", "endpoint", AuditsPlanEndpoint, "method", "POST")
	a.router.Post(AuditsPlanEndpoint, a.planAudit)
	log.Infow("register handler", "endpoint", AuditEndpoint, "method", "GET")
	a.router.Get(AuditEndpoint, a.auditPlan)

	// unmatched routes are normalized into the error taxonomy
	a.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		ErrResourceNotFound.Write(w)
	})
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	a.router.Use(loggingMiddleware(maxRequestBodyLog))
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))

	a.registerHandlers()
}
