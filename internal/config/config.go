package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "SCRAWL_CONFIG"

type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ChallengeConfig struct {
	Length       int           `yaml:"length"`
	SuccessDelay time.Duration `yaml:"success_delay"`
	FailureDelay time.Duration `yaml:"failure_delay"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`

	// RequestsPerMinute applies to the Redis limiter when stats.store is redis.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

type StatsConfig struct {
	// Store is one of none, memory or redis.
	Store     string `yaml:"store"`
	RedisAddr string `yaml:"redis_addr"`

	// TTL bounds how long a snapshot outlives its last save, in memory or Redis.
	TTL time.Duration `yaml:"ttl"`
}

type TokenConfig struct {
	Secret       string        `yaml:"secret"`
	TTL          time.Duration `yaml:"ttl"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

type Config struct {
	Addr       string          `yaml:"addr"`
	StaticDir  string          `yaml:"static_dir"`
	SessionTTL time.Duration   `yaml:"session_ttl"`
	GeoIPPath  string          `yaml:"geoip_path"`
	Canvas     CanvasConfig    `yaml:"canvas"`
	Challenge  ChallengeConfig `yaml:"challenge"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
	Stats      StatsConfig     `yaml:"stats"`
	Token      TokenConfig     `yaml:"token"`

	// Upstream, when set, is proxied for sessions holding a pass token.
	Upstream string `yaml:"upstream"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:       ":8080",
		StaticDir:  "static",
		SessionTTL: 15 * time.Minute,
		Canvas:     CanvasConfig{Width: 300, Height: 100},
		Challenge: ChallengeConfig{
			Length:       5,
			SuccessDelay: 1500 * time.Millisecond,
			FailureDelay: 3 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
			RequestsPerMinute: 60,
		},
		Stats: StatsConfig{
			Store:     "memory",
			RedisAddr: "localhost:6379",
			TTL:       30 * time.Minute,
		},
		Token: TokenConfig{TTL: 24 * time.Hour},
	}
}

// LoadConfig reads YAML over the defaults. When the file cannot be read or
// parsed the defaults are returned together with the error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("LoadConfig: Failed to read config file %s: %v", path, err)
		return cfg, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Printf("LoadConfig: Failed to unmarshal config: %v", err)
		return DefaultConfig(), err
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Path returns the config path from the environment or fallback.
func Path(fallback string) string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return fallback
}

func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("config: canvas must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Challenge.Length <= 0 {
		return fmt.Errorf("config: challenge length must be positive, got %d", c.Challenge.Length)
	}
	switch c.Stats.Store {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("config: unknown stats store %q", c.Stats.Store)
	}
	return nil
}
