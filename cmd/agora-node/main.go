package main

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agoravote/agora-node/crypto/ballotproof"
	"github.com/agoravote/agora-node/crypto/homomorphic"
	"github.com/agoravote/agora-node/crypto/noise"
	"github.com/agoravote/agora-node/db/metadb"
	"github.com/agoravote/agora-node/log"
	"github.com/agoravote/agora-node/service"
	"github.com/agoravote/agora-node/storage"
	"github.com/agoravote/agora-node/util"
)

// Services holds all the running services
type Services struct {
	Storage *storage.Storage
	API     *service.APIService
}

func main() {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging
	log.Init(cfg.Log.Level, cfg.Log.Output, nil)
	log.Infow("starting agora-node", "version", Version)

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup services
	services, err := setupServices(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to setup services: %v", err)
	}
	defer shutdownServices(services)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Infow("received signal, shutting down", "signal", sig.String())
}

// setupServices initializes and starts all required services
func setupServices(ctx context.Context, cfg *Config) (*Services, error) {
	services := &Services{}

	// Initialize storage database
	log.Infow("initializing storage", "datadir", cfg.Datadir, "type", cfg.DB.Type)
	storagedb, err := metadb.New(cfg.DB.Type, cfg.Datadir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	services.Storage = storage.New(storagedb)

	// Build the pluggable capabilities
	caps, err := buildCapabilities(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build capabilities: %w", err)
	}

	// Start API service
	log.Infow("starting API service", "host", cfg.API.Host, "port", cfg.API.Port)
	services.API = service.NewAPI(services.Storage, cfg.API.Host, cfg.API.Port, caps, false)
	if err := services.API.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start API service: %w", err)
	}

	log.Info("agora-node is running, ready to process votes!")
	return services, nil
}

// buildCapabilities constructs the verifier, aggregator and noise mechanism
// from the configuration.
func buildCapabilities(cfg *Config) (service.Capabilities, error) {
	aggregator, err := homomorphic.NewPaillierAggregator(cfg.Crypto.PaillierBits)
	if err != nil {
		return service.Capabilities{}, err
	}
	log.Infow("paillier aggregation key generated", "scheme", aggregator.Scheme())

	trustees, err := loadTrustees(cfg.Crypto.TrusteesFile)
	if err != nil {
		return service.Capabilities{}, err
	}
	log.Infow("trustee registry loaded", "trustees", len(trustees))

	seed := util.RandomBytes(16)
	var mechanism noise.Mechanism
	switch cfg.Crypto.Noise {
	case "gaussian":
		mechanism = noise.NewGaussian(binary.BigEndian.Uint64(seed[:8]), binary.BigEndian.Uint64(seed[8:]))
	default:
		mechanism = noise.NewLaplace(binary.BigEndian.Uint64(seed[:8]), binary.BigEndian.Uint64(seed[8:]))
	}

	return service.Capabilities{
		BallotVerifier: &ballotproof.EthereumVerifier{},
		ShareVerifier:  homomorphic.NewSignatureShareVerifier(trustees),
		Aggregator:     aggregator,
		Noise:          mechanism,
	}, nil
}

// loadTrustees reads the trustee public key registry from a JSON file mapping
// trustee IDs to hex-encoded uncompressed secp256k1 public keys. Without a
// file the registry is empty and every share proof is rejected.
func loadTrustees(path string) (map[string][]byte, error) {
	trustees := map[string][]byte{}
	if path == "" {
		return trustees, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trustees file: %w", err)
	}
	hexKeys := map[string]string{}
	if err := json.Unmarshal(data, &hexKeys); err != nil {
		return nil, fmt.Errorf("parse trustees file: %w", err)
	}
	for id, hexKey := range hexKeys {
		key, err := hex.DecodeString(util.TrimHex(hexKey))
		if err != nil {
			return nil, fmt.Errorf("trustee %s: malformed public key: %w", id, err)
		}
		trustees[id] = key
	}
	return trustees, nil
}

// shutdownServices gracefully shuts down all services
func shutdownServices(services *Services) {
	if services == nil {
		return
	}

	if services.API != nil {
		services.API.Stop()
	}
	if services.Storage != nil {
		services.Storage.Close()
	}
}
