package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"parsifly/pkg/profile"
)

// Config holds all configuration options for the profile data layer
type Config struct {
	// First-party platform APIs
	Platforms PlatformsConfig `yaml:"platforms" json:"platforms"`

	// Public fallback API
	Alternative AlternativeConfig `yaml:"alternative" json:"alternative"`

	// Profile cache
	Cache CacheConfig `yaml:"cache" json:"cache"`

	// Outbound rate limiting for the fallback API
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// PlatformConfig holds one first-party API endpoint and its key
type PlatformConfig struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
	APIKey  string `yaml:"api_key" json:"api_key"`
}

// PlatformsConfig holds the per-platform API configuration
type PlatformsConfig struct {
	TikTok    PlatformConfig `yaml:"tiktok" json:"tiktok"`
	Instagram PlatformConfig `yaml:"instagram" json:"instagram"`
	YouTube   PlatformConfig `yaml:"youtube" json:"youtube"`
}

// AlternativeConfig holds the public, unauthenticated fallback API settings
type AlternativeConfig struct {
	BaseURL         string        `yaml:"base_url" json:"base_url"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent       string        `yaml:"user_agent" json:"user_agent"`
	BreakerFailures uint32        `yaml:"breaker_failures" json:"breaker_failures"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout" json:"breaker_timeout"`
	CacheResults    bool          `yaml:"cache_results" json:"cache_results"`
}

// CacheConfig holds profile cache configuration
type CacheConfig struct {
	Backend       string        `yaml:"backend" json:"backend"`
	TTL           time.Duration `yaml:"ttl" json:"ttl"`
	KeyPrefix     string        `yaml:"key_prefix" json:"key_prefix"`
	Directory     string        `yaml:"directory" json:"directory"`
	RedisAddr     string        `yaml:"redis_addr" json:"redis_addr"`
	RedisPassword string        `yaml:"redis_password" json:"redis_password"`
	RedisDB       int           `yaml:"redis_db" json:"redis_db"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int `yaml:"burst_size" json:"burst_size"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// Cache backends
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// For returns the configuration of a single platform
func (p *PlatformsConfig) For(platform profile.Platform) (PlatformConfig, bool) {
	switch platform {
	case profile.TikTok:
		return p.TikTok, true
	case profile.Instagram:
		return p.Instagram, true
	case profile.YouTube:
		return p.YouTube, true
	default:
		return PlatformConfig{}, false
	}
}

// SetAPIKey sets the API key of a single platform
func (p *PlatformsConfig) SetAPIKey(platform profile.Platform, key string) bool {
	switch platform {
	case profile.TikTok:
		p.TikTok.APIKey = key
	case profile.Instagram:
		p.Instagram.APIKey = key
	case profile.YouTube:
		p.YouTube.APIKey = key
	default:
		return false
	}
	return true
}

// HasAPIKey reports whether a first-party credential is configured for platform
func (p *PlatformsConfig) HasAPIKey(platform profile.Platform) bool {
	cfg, ok := p.For(platform)
	return ok && strings.TrimSpace(cfg.APIKey) != ""
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Platforms: PlatformsConfig{
			TikTok:    PlatformConfig{BaseURL: "https://api.tiktok.com/v1/"},
			Instagram: PlatformConfig{BaseURL: "https://graph.instagram.com/v13.0/"},
			YouTube:   PlatformConfig{BaseURL: "https://www.googleapis.com/youtube/v3/"},
		},
		Alternative: AlternativeConfig{
			BaseURL:         "https://api.github.com",
			Timeout:         10 * time.Second,
			UserAgent:       "parsifly/1.0",
			BreakerFailures: 3,
			BreakerTimeout:  time.Minute,
			CacheResults:    false,
		},
		Cache: CacheConfig{
			Backend:   BackendMemory,
			TTL:       30 * time.Minute,
			KeyPrefix: "parsifly",
			Directory: defaultCacheDir(),
			RedisAddr: "localhost:6379",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 30,
			BurstSize:         5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "parsifly")
	}
	return filepath.Join(os.TempDir(), "parsifly")
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	// Platform credentials
	for _, p := range profile.Platforms() {
		prefix := "PARSIFLY_" + strings.ToUpper(p.Lower())
		if key := os.Getenv(prefix + "_API_KEY"); key != "" {
			c.Platforms.SetAPIKey(p, key)
		}
	}

	if url := os.Getenv("PARSIFLY_ALTERNATIVE_URL"); url != "" {
		c.Alternative.BaseURL = url
	}
	if v := os.Getenv("PARSIFLY_ALTERNATIVE_CACHE_RESULTS"); v != "" {
		c.Alternative.CacheResults = strings.ToLower(v) == "true"
	}

	// Cache
	if backend := os.Getenv("PARSIFLY_CACHE_BACKEND"); backend != "" {
		c.Cache.Backend = strings.ToLower(backend)
	}
	if ttl := os.Getenv("PARSIFLY_CACHE_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			errs = append(errs, fmt.Errorf("PARSIFLY_CACHE_TTL: %w", err))
		} else {
			c.Cache.TTL = d
		}
	}
	if dir := os.Getenv("PARSIFLY_CACHE_DIR"); dir != "" {
		c.Cache.Directory = dir
	}
	if addr := os.Getenv("PARSIFLY_REDIS_ADDR"); addr != "" {
		c.Cache.RedisAddr = addr
	}
	if pass := os.Getenv("PARSIFLY_REDIS_PASSWORD"); pass != "" {
		c.Cache.RedisPassword = pass
	}

	// Rate limiting
	if rpm := os.Getenv("PARSIFLY_REQUESTS_PER_MINUTE"); rpm != "" {
		val, err := strconv.Atoi(rpm)
		if err != nil {
			errs = append(errs, fmt.Errorf("PARSIFLY_REQUESTS_PER_MINUTE: %w", err))
		} else if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	// Logging
	if level := os.Getenv("PARSIFLY_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("PARSIFLY_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		"parsifly.yaml",
		".parsifly.yaml",
		".parsifly.yml",
		filepath.Join(home, ".config", "parsifly", "config.yaml"),
		filepath.Join(home, ".parsifly.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Alternative.BaseURL == "" {
		errs = append(errs, errors.New("alternative base URL is required"))
	}
	if c.Alternative.Timeout <= 0 {
		errs = append(errs, errors.New("alternative timeout must be positive"))
	}
	if c.Alternative.BreakerFailures == 0 {
		errs = append(errs, errors.New("breaker failures must be positive"))
	}

	switch c.Cache.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Cache.Directory == "" {
			errs = append(errs, errors.New("cache directory is required for the file backend"))
		}
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("redis address is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid cache backend: %q", c.Cache.Backend))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache TTL must be positive"))
	}
	if c.Cache.KeyPrefix == "" {
		errs = append(errs, errors.New("cache key prefix is required"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level: %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format: %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// API keys may be in here
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat, ok := flags["log-format"].(string); ok && logFormat != "" {
		c.Logging.Format = logFormat
	}
	if backend, ok := flags["cache-backend"].(string); ok && backend != "" {
		c.Cache.Backend = backend
	}
	if cacheDir, ok := flags["cache-dir"].(string); ok && cacheDir != "" {
		c.Cache.Directory = cacheDir
	}
	if rpm, ok := flags["requests-per-minute"].(int); ok && rpm > 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if cacheAlt, ok := flags["cache-alternative"].(bool); ok {
		c.Alternative.CacheResults = cacheAlt
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".parsifly.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
