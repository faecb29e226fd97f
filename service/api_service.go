// Package service wraps the node's long-running components with a common
// Start/Stop lifecycle.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/agoravote/agora-node/api"
	"github.com/agoravote/agora-node/crypto/ballotproof"
	"github.com/agoravote/agora-node/crypto/homomorphic"
	"github.com/agoravote/agora-node/crypto/noise"
	"github.com/agoravote/agora-node/log"
	"github.com/agoravote/agora-node/storage"
)

// Capabilities bundles the pluggable implementations the API handlers
// delegate to.
type Capabilities struct {
	BallotVerifier ballotproof.Verifier
	ShareVerifier  homomorphic.ShareVerifier
	Aggregator     homomorphic.Aggregator
	Noise          noise.Mechanism
}

// APIService represents a service that manages the HTTP API server.
type APIService struct {
	storage      *storage.Storage
	API          *api.API
	mu           sync.Mutex
	cancel       context.CancelFunc
	host         string
	port         int
	capabilities Capabilities
}

// NewAPI creates a new APIService instance.
func NewAPI(storage *storage.Storage, host string, port int, caps Capabilities, disableLogging bool) *APIService {
	if disableLogging {
		api.DisabledLogging = disableLogging
		log.Debugw("API logging is disabled")
	}
	return &APIService{
		storage:      storage,
		host:         host,
		port:         port,
		capabilities: caps,
	}
}

// Start begins the API server. It returns an error if the service
// is already running or if it fails to start.
func (as *APIService) Start(ctx context.Context) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		return fmt.Errorf("service already running")
	}

	_, as.cancel = context.WithCancel(ctx)

	// Create API instance with existing storage
	var err error
	as.API, err = api.New(&api.APIConfig{
		Host:           as.host,
		Port:           as.port,
		Storage:        as.storage,
		BallotVerifier: as.capabilities.BallotVerifier,
		ShareVerifier:  as.capabilities.ShareVerifier,
		Aggregator:     as.capabilities.Aggregator,
		Noise:          as.capabilities.Noise,
	})
	if err != nil {
		as.cancel = nil
		return fmt.Errorf("failed to start API server: %w", err)
	}

	return nil
}

// Stop halts the API server.
func (as *APIService) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		as.cancel()
		as.cancel = nil
	}
}

// HostPort returns the host and port of the API server.
func (as *APIService) HostPort() (string, int) {
	return as.host, as.port
}
