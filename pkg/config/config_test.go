package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"parsifly/pkg/profile"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Cache.TTL != 30*time.Minute {
		t.Errorf("Expected default cache TTL to be 30m, got %s", config.Cache.TTL)
	}

	if config.Cache.KeyPrefix != "parsifly" {
		t.Errorf("Expected default key prefix to be parsifly, got %s", config.Cache.KeyPrefix)
	}

	if config.Alternative.BaseURL != "https://api.github.com" {
		t.Errorf("Expected default alternative URL to be https://api.github.com, got %s", config.Alternative.BaseURL)
	}

	if config.Alternative.CacheResults {
		t.Error("Expected alternative results not to be cached by default")
	}

	for _, p := range profile.Platforms() {
		if config.Platforms.HasAPIKey(p) {
			t.Errorf("Expected no default API key for %s", p)
		}
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestPlatformsConfig(t *testing.T) {
	var platforms PlatformsConfig

	if !platforms.SetAPIKey(profile.YouTube, "yt-key") {
		t.Fatal("Expected SetAPIKey to accept YouTube")
	}
	if platforms.SetAPIKey(profile.Platform("Snapchat"), "x") {
		t.Error("Expected SetAPIKey to reject an unknown platform")
	}

	if !platforms.HasAPIKey(profile.YouTube) {
		t.Error("Expected YouTube to have an API key")
	}
	if platforms.HasAPIKey(profile.TikTok) {
		t.Error("Expected TikTok to have no API key")
	}

	platforms.Instagram.APIKey = "   "
	if platforms.HasAPIKey(profile.Instagram) {
		t.Error("Expected a blank API key to count as absent")
	}

	if _, ok := platforms.For(profile.Platform("Snapchat")); ok {
		t.Error("Expected For to report an unknown platform")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PARSIFLY_TIKTOK_API_KEY", "tt-key")
	t.Setenv("PARSIFLY_ALTERNATIVE_URL", "http://localhost:9999")
	t.Setenv("PARSIFLY_CACHE_BACKEND", "FILE")
	t.Setenv("PARSIFLY_CACHE_TTL", "5m")
	t.Setenv("PARSIFLY_CACHE_DIR", "/tmp/parsifly-test")
	t.Setenv("PARSIFLY_REQUESTS_PER_MINUTE", "12")
	t.Setenv("PARSIFLY_LOG_LEVEL", "debug")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Platforms.TikTok.APIKey != "tt-key" {
		t.Errorf("Expected TikTok API key to be tt-key, got %s", config.Platforms.TikTok.APIKey)
	}
	if config.Alternative.BaseURL != "http://localhost:9999" {
		t.Errorf("Expected alternative URL override, got %s", config.Alternative.BaseURL)
	}
	if config.Cache.Backend != BackendFile {
		t.Errorf("Expected cache backend to be file, got %s", config.Cache.Backend)
	}
	if config.Cache.TTL != 5*time.Minute {
		t.Errorf("Expected cache TTL to be 5m, got %s", config.Cache.TTL)
	}
	if config.Cache.Directory != "/tmp/parsifly-test" {
		t.Errorf("Expected cache directory override, got %s", config.Cache.Directory)
	}
	if config.RateLimit.RequestsPerMinute != 12 {
		t.Errorf("Expected requests per minute to be 12, got %d", config.RateLimit.RequestsPerMinute)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	t.Setenv("PARSIFLY_CACHE_TTL", "half an hour")
	t.Setenv("PARSIFLY_REQUESTS_PER_MINUTE", "lots")

	config := DefaultConfig()
	err := config.LoadFromEnv()
	if err == nil {
		t.Fatal("Expected an error for malformed environment values")
	}
	if !strings.Contains(err.Error(), "PARSIFLY_CACHE_TTL") || !strings.Contains(err.Error(), "PARSIFLY_REQUESTS_PER_MINUTE") {
		t.Errorf("Expected both variables to be reported, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"file backend without directory", func(c *Config) {
			c.Cache.Backend = BackendFile
			c.Cache.Directory = ""
		}, true},
		{"redis backend without address", func(c *Config) {
			c.Cache.Backend = BackendRedis
			c.Cache.RedisAddr = ""
		}, true},
		{"zero TTL", func(c *Config) { c.Cache.TTL = 0 }, true},
		{"zero rate limit", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }, true},
		{"missing alternative URL", func(c *Config) { c.Alternative.BaseURL = "" }, true},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	flags := map[string]interface{}{
		"log-level":           "error",
		"cache-backend":       "file",
		"cache-dir":           "/flag/cache",
		"requests-per-minute": 7,
		"cache-alternative":   true,
	}

	config.MergeCommandLineFlags(flags)

	if config.Logging.Level != "error" {
		t.Errorf("Expected log level to be error, got %s", config.Logging.Level)
	}
	if config.Cache.Backend != "file" {
		t.Errorf("Expected cache backend to be file, got %s", config.Cache.Backend)
	}
	if config.Cache.Directory != "/flag/cache" {
		t.Errorf("Expected cache directory to be /flag/cache, got %s", config.Cache.Directory)
	}
	if config.RateLimit.RequestsPerMinute != 7 {
		t.Errorf("Expected requests per minute to be 7, got %d", config.RateLimit.RequestsPerMinute)
	}
	if !config.Alternative.CacheResults {
		t.Error("Expected alternative results to be cached")
	}
}

func TestSaveAndLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "parsifly.yaml")

	config := DefaultConfig()
	config.Platforms.Instagram.APIKey = "ig-key"
	config.Cache.TTL = 10 * time.Minute
	config.Alternative.CacheResults = true

	if err := config.Save(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat saved config: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected config permissions 0600, got %o", info.Mode().Perm())
	}

	loaded := DefaultConfig()
	if err := loaded.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Platforms.Instagram.APIKey != "ig-key" {
		t.Errorf("Expected loaded Instagram key to be ig-key, got %s", loaded.Platforms.Instagram.APIKey)
	}
	if loaded.Cache.TTL != 10*time.Minute {
		t.Errorf("Expected loaded TTL to be 10m, got %s", loaded.Cache.TTL)
	}
	if !loaded.Alternative.CacheResults {
		t.Error("Expected loaded cache_results to be true")
	}
}

func TestLoadFromFileYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "parsifly.yaml")
	content := `
platforms:
  youtube:
    api_key: "yt-from-file"
cache:
  backend: redis
  redis_addr: "cache:6379"
  ttl: 45m
logging:
  level: warn
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := Load(configPath, map[string]interface{}{"log-level": "debug"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !config.Platforms.HasAPIKey(profile.YouTube) {
		t.Error("Expected YouTube API key from file")
	}
	if config.Cache.Backend != BackendRedis || config.Cache.RedisAddr != "cache:6379" {
		t.Errorf("Expected redis backend at cache:6379, got %s at %s", config.Cache.Backend, config.Cache.RedisAddr)
	}
	if config.Cache.TTL != 45*time.Minute {
		t.Errorf("Expected TTL 45m, got %s", config.Cache.TTL)
	}
	// flags win over the file
	if config.Logging.Level != "debug" {
		t.Errorf("Expected flag log level debug, got %s", config.Logging.Level)
	}
	// untouched defaults survive
	if config.Cache.KeyPrefix != "parsifly" {
		t.Errorf("Expected default key prefix, got %s", config.Cache.KeyPrefix)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	config := DefaultConfig()
	if err := config.LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected an error for a missing explicit config file")
	}
}
