package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agoravote/agora-node/db"
)

const (
	defaultAPIHost        = "0.0.0.0"
	defaultAPIPort        = 9090
	defaultLogLevel       = "info"
	defaultLogOutput      = "stdout"
	defaultDatadir        = ".agora" // Will be prefixed with user's home directory
	defaultDBType         = db.TypePebble
	defaultPaillierBits   = 2048
	defaultNoiseMechanism = "laplace"
)

// Version is the build version, set at build time with -ldflags
var Version = "dev"

// Config holds the application configuration
type Config struct {
	API     APIConfig
	DB      DBConfig
	Crypto  CryptoConfig
	Log     LogConfig
	Datadir string
}

// APIConfig holds the API-specific configuration
type APIConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DBConfig holds database configuration
type DBConfig struct {
	Type string `mapstructure:"type"`
}

// CryptoConfig holds the capability configuration
type CryptoConfig struct {
	PaillierBits int    `mapstructure:"paillierbits"`
	Noise        string `mapstructure:"noise"`
	TrusteesFile string `mapstructure:"trustees"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// loadConfig loads configuration from flags, environment variables, and defaults
func loadConfig() (*Config, error) {
	v := viper.New()

	// Set up default values
	// Get user's home directory for default datadir
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		userHomeDir = "."
	}
	defaultDatadirPath := filepath.Join(userHomeDir, defaultDatadir)

	v.SetDefault("api.host", defaultAPIHost)
	v.SetDefault("api.port", defaultAPIPort)
	v.SetDefault("db.type", defaultDBType)
	v.SetDefault("crypto.paillierbits", defaultPaillierBits)
	v.SetDefault("crypto.noise", defaultNoiseMechanism)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.output", defaultLogOutput)
	v.SetDefault("datadir", defaultDatadirPath)

	// Configure flags
	flag.StringP("api.host", "a", defaultAPIHost, "API host")
	flag.IntP("api.port", "p", defaultAPIPort, "API port")
	flag.String("db.type", defaultDBType, fmt.Sprintf("database backend (%s or %s)", db.TypePebble, db.TypeInMem))
	flag.Int("crypto.paillierbits", defaultPaillierBits, "paillier aggregation key size in bits")
	flag.String("crypto.noise", defaultNoiseMechanism, "analytics noise mechanism (laplace or gaussian)")
	flag.String("crypto.trustees", "", "path to a JSON file mapping trustee IDs to hex public keys")
	flag.StringP("log.level", "l", defaultLogLevel, "log level (debug, info, warn, error, fatal)")
	flag.StringP("log.output", "o", defaultLogOutput, "log output (stdout, stderr or filepath)")
	flag.StringP("datadir", "d", defaultDatadirPath, "data directory for database files")

	// Configure usage information
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "agora-node v%s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: agora-node [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables are also available with the same name as flags,\n")
		fmt.Fprintf(os.Stderr, "  except for dashes (-) and dots (.) which are replaced by underscores (_).\n")
		fmt.Fprintf(os.Stderr, "  For example, AGORA_API_HOST or AGORA_LOG_LEVEL\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Start with default settings\n")
		fmt.Fprintf(os.Stderr, "  agora-node\n\n")
		fmt.Fprintf(os.Stderr, "  # Start with an in-memory database on a custom port\n")
		fmt.Fprintf(os.Stderr, "  agora-node --db.type=inmem --api.port=8080\n")
	}

	// Parse flags
	flag.CommandLine.SortFlags = false
	flag.Parse()

	// Configure Viper to use environment variables
	v.SetEnvPrefix("AGORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind flags to Viper
	if err := v.BindPFlags(flag.CommandLine); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	// Create config struct
	cfg := &Config{}

	// Unmarshal configuration into struct
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return cfg, nil
}

// validateConfig validates the loaded configuration
func validateConfig(cfg *Config) error {
	if cfg.DB.Type != db.TypePebble && cfg.DB.Type != db.TypeInMem {
		return fmt.Errorf("invalid db type %q, available types: %s, %s", cfg.DB.Type, db.TypePebble, db.TypeInMem)
	}
	if cfg.Crypto.Noise != "laplace" && cfg.Crypto.Noise != "gaussian" {
		return fmt.Errorf("invalid noise mechanism %q, available: laplace, gaussian", cfg.Crypto.Noise)
	}
	if cfg.Crypto.PaillierBits < 1024 {
		return fmt.Errorf("paillier key size must be at least 1024 bits")
	}
	return nil
}
