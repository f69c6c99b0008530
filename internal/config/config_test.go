package config

import (
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{name: "variable set", key: "TIDYMARK_TEST_VAR", value: "test_value"},
		{name: "variable not set", key: "TIDYMARK_TEST_VAR_MISSING", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestRequireEnvInt(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		expected  int
		wantPanic bool
	}{
		{name: "valid integer", key: "TIDYMARK_TEST_INT", value: "42", expected: 42},
		{name: "invalid integer", key: "TIDYMARK_TEST_INT_INVALID", value: "not_a_number", wantPanic: true},
		{name: "missing variable", key: "TIDYMARK_TEST_INT_MISSING", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnvInt() should have panicked")
					}
				}()
			}

			result := requireEnvInt(tt.key)
			if !tt.wantPanic && result != tt.expected {
				t.Errorf("requireEnvInt() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", key: "TIDYMARK_TEST_DURATION", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration uses default", key: "TIDYMARK_TEST_DURATION_INVALID", value: "invalid", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "missing variable uses default", key: "TIDYMARK_TEST_DURATION_MISSING", def: 15 * time.Second, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", key: "TIDYMARK_TEST_BOOL", value: "true", expected: true},
		{name: "false value", key: "TIDYMARK_TEST_BOOL_FALSE", value: "false", def: true, expected: false},
		{name: "invalid value uses default", key: "TIDYMARK_TEST_BOOL_INVALID", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", key: "TIDYMARK_TEST_BOOL_MISSING", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single", input: "chrome-extension://*", expected: []string{"chrome-extension://*"}},
		{name: "quoted and spaced", input: ` "a" , 'b',, c `, expected: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() length = %v, want %v", len(result), len(tt.expected))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TIDYMARK_STORE", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg := Load()

	if cfg.StoreBackend != StoreMemory {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, StoreMemory)
	}
	if cfg.SuggestionTTL != 24*time.Hour {
		t.Errorf("SuggestionTTL = %v, want 24h", cfg.SuggestionTTL)
	}
	if cfg.ArchiveAfter != 180*24*time.Hour {
		t.Errorf("ArchiveAfter = %v, want 180 days", cfg.ArchiveAfter)
	}
	if cfg.RateLimitMax != 100 || cfg.RateLimitWindow != 15*time.Minute {
		t.Errorf("rate limit = %d per %v, want 100 per 15m", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.MaxBodyBytes != 10<<20 {
		t.Errorf("MaxBodyBytes = %d, want 10MiB", cfg.MaxBodyBytes)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "chrome-extension://*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadClampsConcurrency(t *testing.T) {
	t.Setenv("TIDYMARK_CATEGORIZE_CONCURRENCY", "0")

	cfg := Load()
	if cfg.CategorizeConcurrency != 1 {
		t.Errorf("CategorizeConcurrency = %d, want 1", cfg.CategorizeConcurrency)
	}
}

func TestLoadRedisRequiresAddr(t *testing.T) {
	t.Setenv("TIDYMARK_STORE", "redis")
	t.Setenv("TIDYMARK_REDIS_ADDR", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked without TIDYMARK_REDIS_ADDR")
		}
	}()
	Load()
}

func TestLoadRedisPasswordRequired(t *testing.T) {
	t.Setenv("TIDYMARK_STORE", "redis")
	t.Setenv("TIDYMARK_REDIS_ADDR", "localhost:6379")
	t.Setenv("TIDYMARK_REDIS_DB", "0")
	t.Setenv("TIDYMARK_REDIS_PASSWORD", "")
	t.Setenv("TIDYMARK_REDIS_PASSWORD_REQUIRED", "true")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked without a redis password")
		}
	}()
	Load()
}

func TestLoadUnknownStore(t *testing.T) {
	t.Setenv("TIDYMARK_STORE", "postgres")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked on unknown store")
		}
	}()
	Load()
}

func TestLoadRedisTuningIsPrefixed(t *testing.T) {
	t.Setenv("TIDYMARK_STORE", "redis")
	t.Setenv("TIDYMARK_REDIS_ADDR", "localhost:6379")
	t.Setenv("TIDYMARK_REDIS_DB", "2")
	t.Setenv("TIDYMARK_REDIS_PASSWORD_REQUIRED", "false")
	t.Setenv("TIDYMARK_REDIS_POOL_SIZE", "25")
	t.Setenv("TIDYMARK_REDIS_DIAL_TIMEOUT", "7s")
	t.Setenv("REDIS_POOL_SIZE", "99")

	cfg := Load()
	if cfg.RedisPoolSize != 25 {
		t.Errorf("RedisPoolSize = %d, want 25", cfg.RedisPoolSize)
	}
	if cfg.RedisDT != 7*time.Second {
		t.Errorf("RedisDT = %v, want 7s", cfg.RedisDT)
	}
	if cfg.RedisDB != 2 {
		t.Errorf("RedisDB = %d, want 2", cfg.RedisDB)
	}
}
