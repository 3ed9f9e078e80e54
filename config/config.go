package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// PayerDelay is the inclusive [min, max] adjudication delay for one payer.
type PayerDelay struct {
	MinSecs int
	MaxSecs int
}

// Config holds all simulation configuration values.
type Config struct {
	// Positional CLI args (spec.md §6): [file_path] [ingest_rate_seconds] [verbose]
	FilePath   string
	IngestRate time.Duration
	Verbose    bool

	// TotalClaims is the biller's completion target (spec.md §4.1).
	TotalClaims int

	// Env toggles console-vs-JSON logging, as the teacher's config does.
	Env string

	// RedisURL, if set, enables the Redis-backed duplicate-claim-id guard
	// (SPEC_FULL.md "Domain Stack"). Empty disables it (in-memory guard only).
	RedisURL string

	// ReportAddr, if set, starts the read-only HTTP reporting surface
	// (SPEC_FULL.md). Empty disables it — stdout reporting is unaffected.
	ReportAddr string

	// RulesJSON, if set, is a JSON array of clearinghouse.Rule
	// overriding the default payer_id routing (SPEC_FULL.md "Domain
	// Stack"). Empty yields the default empty rule set.
	RulesJSON string

	// GracefulTimeout bounds how long main waits for the HTTP reporting
	// server to shut down after a shutdown signal.
	GracefulTimeout time.Duration

	// PayerDelays gives the adjudication delay range per payer identity.
	PayerDelays map[string]PayerDelay
}

// DefaultPayers is the preconfigured payer set from spec.md §6.
var DefaultPayers = map[string]PayerDelay{
	"medicare":            {MinSecs: 1, MaxSecs: 3},
	"united_health_group": {MinSecs: 2, MaxSecs: 5},
	"anthem":              {MinSecs: 1, MaxSecs: 4},
}

// Load reads configuration from CLI positional args, then environment
// variables, then built-in defaults — the same precedence the teacher's
// config.Load() uses for its GATEWAY_* variables, extended with the
// positional args spec.md §6 requires. args excludes the program name.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	filePath := getEnv("CLAIMFLOW_FILE_PATH", "fake_claims.jsonl")
	if len(args) >= 1 && args[0] != "" {
		filePath = args[0]
	}

	ingestRateSec := getEnvInt("CLAIMFLOW_INGEST_RATE_SEC", 1)
	if len(args) >= 2 && args[1] != "" {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("config: ingest_rate %q is not an integer: %w", args[1], err)
		}
		ingestRateSec = v
	}
	if ingestRateSec < 0 {
		return nil, fmt.Errorf("config: ingest_rate must be non-negative, got %d", ingestRateSec)
	}

	verbose := getEnvBool("CLAIMFLOW_VERBOSE", false)
	for _, a := range args[minInt(2, len(args)):] {
		if a == "verbose" || a == "v" {
			verbose = true
		}
	}

	payerDelays := make(map[string]PayerDelay, len(DefaultPayers))
	for name, d := range DefaultPayers {
		envName := envSafe(name)
		payerDelays[name] = PayerDelay{
			MinSecs: getEnvInt("PAYER_"+envName+"_MIN_SECS", d.MinSecs),
			MaxSecs: getEnvInt("PAYER_"+envName+"_MAX_SECS", d.MaxSecs),
		}
	}

	cfg := &Config{
		FilePath:        filePath,
		IngestRate:      time.Duration(ingestRateSec) * time.Second,
		Verbose:         verbose,
		TotalClaims:     getEnvInt("CLAIMFLOW_TOTAL_CLAIMS", 100),
		Env:             getEnv("ENV", "development"),
		RedisURL:        getEnv("REDIS_URL", ""),
		ReportAddr:      getEnv("REPORT_ADDR", ""),
		RulesJSON:       getEnv("CLAIMFLOW_RULES", ""),
		GracefulTimeout: time.Duration(getEnvInt("CLAIMFLOW_GRACEFUL_TIMEOUT_SEC", 5)) * time.Second,
		PayerDelays:     payerDelays,
	}
	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func envSafe(payerID string) string {
	out := make([]rune, 0, len(payerID))
	for _, r := range payerID {
		if r == '-' {
			r = '_'
		}
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
