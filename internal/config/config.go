package config

import (
	"os"
	"strconv"
	"time"
)

// Scorer modes, selected once at startup.
const (
	ScorerHeuristic = "heuristic"
	ScorerExternal  = "external"
)

type Config struct {
	DatabaseURL string // MySQL DSN; empty means local SQLite file
	SQLitePath  string
	Port        string
	Environment string

	// Evaluation pipeline
	ScorerMode    string // heuristic | external
	ScorerURL     string // external scorer endpoint
	ScorerAPIKey  string
	EvalBatchSize int
	EvalEmptyWait time.Duration // backoff when no pending listings
	EvalMinDelay  time.Duration // randomized inter-evaluation delay bounds
	EvalMaxDelay  time.Duration

	// Browser daemon
	MarketplaceURL   string
	DiscoveryInterval time.Duration
	PresentInterval   time.Duration
	Headless          bool
	UserDataDir       string
}

func Load() *Config {
	mode := getEnv("SCORER_MODE", "")
	if mode == "" {
		// No explicit flag: external scoring only when a key is configured.
		if getEnv("SCORER_API_KEY", "") != "" {
			mode = ScorerExternal
		} else {
			mode = ScorerHeuristic
		}
	}

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", "marketplace.db"),
		Port:        getEnv("PORT", "8765"),
		Environment: getEnv("ENVIRONMENT", "development"),

		ScorerMode:    mode,
		ScorerURL:     getEnv("SCORER_URL", ""),
		ScorerAPIKey:  getEnv("SCORER_API_KEY", ""),
		EvalBatchSize: getEnvInt("EVAL_BATCH_SIZE", 5),
		EvalEmptyWait: getEnvDuration("EVAL_EMPTY_WAIT", 30*time.Second),
		EvalMinDelay:  getEnvDuration("EVAL_MIN_DELAY", 30*time.Second),
		EvalMaxDelay:  getEnvDuration("EVAL_MAX_DELAY", 300*time.Second),

		MarketplaceURL:    getEnv("MARKETPLACE_URL", "https://www.facebook.com/marketplace"),
		DiscoveryInterval: getEnvDuration("DISCOVERY_INTERVAL", 2*time.Second),
		PresentInterval:   getEnvDuration("PRESENT_INTERVAL", 1*time.Second),
		Headless:          getEnv("HEADLESS", "false") == "true",
		UserDataDir:       getEnv("USER_DATA_DIR", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
