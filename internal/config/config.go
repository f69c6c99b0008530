package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

type Config struct {
	ListenPort      string        // ex: ":3000"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline enforced by the router

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Storage
	StoreBackend string // "memory" | "redis" | "sqlite"
	SQLitePath   string // database file for the sqlite backend (":memory:" allowed)

	// Generative model
	GeminiAPIKey          string        // empty => offline keyword generator
	GeminiModel           string        // ex: gemini-1.5-flash-latest
	GeminiBaseURL         string        // REST base, overridable for tests/proxies
	LLMTimeout            time.Duration // deadline for a single generate call
	CategorizeConcurrency int           // max parallel categorize calls per batch
	SuggestionTTL         time.Duration // lifetime of the cached suggestions

	// Page content enrichment
	FetchContent    bool          // fetch page text when a bookmark arrives without content
	FetchTimeout    time.Duration // timeout per page fetch
	FetchMaxContent int           // max characters kept from a page

	// Background jobs
	AutoArchive     bool          // archive bookmarks older than ArchiveAfter
	ArchiveAfter    time.Duration // ex: 4320h (180 days)
	ArchiveSchedule string        // cron spec, ex: "@daily"
	ImportFile      string        // optional Homepage-style bookmarks.yaml to import
	ReloadInterval  time.Duration // interval between imports of ImportFile

	// HTTP surface
	CORSOrigins     []string      // allowed origins for the extension
	RateLimitMax    int           // requests allowed per client per window
	RateLimitWindow time.Duration // ex: 15m
	AllowedCIDRS    []string      // optional, restrict probes, /api/reload and /api/infra to these IPs/CIDRs
	AllowedHosts    []string      // optional, Host headers accepted by the API ("*.example.com" allowed)
	MaxBodyBytes    int64         // request body limit (JSON imports included)
	TrustProxy      bool          // true => trust X-Forwarded-For headers

	// Redis (only read when StoreBackend == "redis")
	RedisAddr             string
	RedisUser             string
	RedisPassword         string
	RedisPasswordRequired bool
	RedisDB               int
	RedisDT               time.Duration // dial timeout
	RedisRT               time.Duration // read timeout
	RedisWT               time.Duration // write timeout
	RedisMaxWait          time.Duration // max wait between retries
	RedisPingTimeout      time.Duration // timeout for each ping attempt
	RedisPoolSize         int
	RedisConnectTimeout   time.Duration // total time to retry connecting
	RedisRetryInterval    time.Duration // initial wait between retries, doubles each attempt
	RedisWarnThreshold    int           // warn after this many attempts
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ListenPort:      getenv("TIDYMARK_LISTEN_PORT", ":3000"),
		ShutdownTimeout: mustDuration("TIDYMARK_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("TIDYMARK_REQUEST_TIMEOUT", 60*time.Second),

		LogLevel:  getenv("TIDYMARK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TIDYMARK_PRETTY_LOG", true),

		StoreBackend: strings.ToLower(getenv("TIDYMARK_STORE", StoreMemory)),
		SQLitePath:   getenv("TIDYMARK_SQLITE_PATH", "tidymark.db"),

		GeminiAPIKey:          getenv("GEMINI_API_KEY", ""),
		GeminiModel:           getenv("TIDYMARK_GEMINI_MODEL", "gemini-1.5-flash-latest"),
		GeminiBaseURL:         getenv("TIDYMARK_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		LLMTimeout:            mustDuration("TIDYMARK_LLM_TIMEOUT", 20*time.Second),
		CategorizeConcurrency: getenvInt("TIDYMARK_CATEGORIZE_CONCURRENCY", 4),
		SuggestionTTL:         mustDuration("TIDYMARK_SUGGESTION_TTL", 24*time.Hour),

		FetchContent:    mustBool("TIDYMARK_FETCH_CONTENT", false),
		FetchTimeout:    mustDuration("TIDYMARK_FETCH_TIMEOUT", 10*time.Second),
		FetchMaxContent: getenvInt("TIDYMARK_FETCH_MAX_CONTENT", 4000),

		AutoArchive:     mustBool("TIDYMARK_AUTO_ARCHIVE", true),
		ArchiveAfter:    mustDuration("TIDYMARK_ARCHIVE_AFTER", 180*24*time.Hour),
		ArchiveSchedule: getenv("TIDYMARK_ARCHIVE_SCHEDULE", "@daily"),
		ImportFile:      getenv("TIDYMARK_IMPORT_FILE", ""),
		ReloadInterval:  mustDuration("TIDYMARK_RELOAD_INTERVAL", 24*time.Hour),

		CORSOrigins:     splitAndTrim(getenv("TIDYMARK_CORS_ORIGINS", "chrome-extension://*")),
		RateLimitMax:    getenvInt("TIDYMARK_RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow: mustDuration("TIDYMARK_RATE_LIMIT_WINDOW", 15*time.Minute),
		AllowedCIDRS:    parseAllowedIPs(getenv("TIDYMARK_ALLOWED_CIDRS", "")),
		AllowedHosts:    splitAndTrim(getenv("TIDYMARK_ALLOWED_HOSTS", "")),
		MaxBodyBytes:    int64(getenvInt("TIDYMARK_MAX_BODY_BYTES", 10<<20)),
		TrustProxy:      mustBool("TIDYMARK_TRUST_PROXY", false),
	}

	switch cfg.StoreBackend {
	case StoreMemory, StoreSQLite:
	case StoreRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: unknown TIDYMARK_STORE %q (want memory, redis or sqlite)", cfg.StoreBackend))
	}

	if cfg.CategorizeConcurrency < 1 {
		cfg.CategorizeConcurrency = 1
	}

	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.GeminiAPIKey != "" {
			cfgCopy.GeminiAPIKey = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("TIDYMARK_REDIS_ADDR")
	cfg.RedisUser = getenv("TIDYMARK_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("TIDYMARK_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("TIDYMARK_REDIS_PASSWORD", "")
	cfg.RedisDB = requireEnvInt("TIDYMARK_REDIS_DB")
	cfg.RedisDT = mustDuration("TIDYMARK_REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("TIDYMARK_REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("TIDYMARK_REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("TIDYMARK_REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("TIDYMARK_REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("TIDYMARK_REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("TIDYMARK_REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("TIDYMARK_REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("TIDYMARK_REDIS_WARN_THRESHOLD", 3)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: TIDYMARK_REDIS_PASSWORD is required when TIDYMARK_REDIS_PASSWORD_REQUIRED=true")
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
