// Package config loads housesketch settings.
//
// Settings are layered, later layers winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file, by default ~/.config/housesketch/config.toml
//  3. Variables from a .env file in the working directory (existing
//     environment variables are never overwritten)
//  4. Environment variables such as REPLICATE_API_TOKEN
//
// Credentials are read once at startup and passed explicitly to the
// components that need them.
//
// Example config.toml:
//
//	[server]
//	addr = ":8080"
//
//	[imagegen]
//	provider = "replicate"
//	poll_interval = "2s"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[ratelimit]
//	rps = 0.5
//	burst = 3
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	herrors "github.com/matzehuels/housesketch/pkg/errors"
)

const appName = "housesketch"

// Image providers.
const (
	ProviderNone      = "none"
	ProviderReplicate = "replicate"
	ProviderStability = "stability"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Model defaults for the Replicate SDXL deployment.
const (
	DefaultModel   = "stability-ai/sdxl"
	DefaultVersion = "5fca5cf47f7a7cf6e48a72f3aa7b50bcf6d888af34c0485e2290a99046b6f9e7"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	ImageGen  ImageGenConfig  `toml:"imagegen"`
	Cache     CacheConfig     `toml:"cache"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
}

// ServerConfig configures `housesketch serve`.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// ImageGenConfig selects and tunes the text-to-image provider.
type ImageGenConfig struct {
	Provider       string        `toml:"provider"`
	ReplicateToken string        `toml:"replicate_token"`
	StabilityKey   string        `toml:"stability_key"`
	BaseURL        string        `toml:"base_url"`
	Model          string        `toml:"model"`
	Version        string        `toml:"version"`
	Width          int           `toml:"width"`
	Height         int           `toml:"height"`
	Steps          int           `toml:"steps"`
	Guidance       float64       `toml:"guidance"`
	PollInterval   time.Duration `toml:"poll_interval"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	RedisTLS      bool          `toml:"redis_tls"`
	Prefix        string        `toml:"prefix"`
	TTL           time.Duration `toml:"ttl"`
}

// RateLimitConfig limits image generation requests on the server.
type RateLimitConfig struct {
	RPS   float64 `toml:"rps"`
	Burst int     `toml:"burst"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		ImageGen: ImageGenConfig{
			Provider:       ProviderReplicate,
			Model:          DefaultModel,
			Version:        DefaultVersion,
			Width:          1024,
			Height:         1024,
			Steps:          30,
			Guidance:       7.5,
			PollInterval:   2 * time.Second,
			RequestTimeout: 60 * time.Second,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RPS:   0.5,
			Burst: 3,
		},
	}
}

// DefaultPath returns ~/.config/housesketch/config.toml, honoring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load builds the configuration. An empty path reads the default file if it
// exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.loadFile(path, explicit); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, herrors.Wrap(herrors.ErrCodeInvalidConfig, err, "read .env")
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, mustExist bool) error {
	md, err := toml.DecodeFile(path, c)
	if errors.Is(err, fs.ErrNotExist) && !mustExist {
		return nil
	}
	if err != nil {
		return herrors.Wrap(herrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return herrors.New(herrors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// applyEnv overlays environment variables read through getenv.
func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Server.Addr, "HOUSESKETCH_ADDR")
	setString(&c.ImageGen.Provider, "HOUSESKETCH_PROVIDER")
	setString(&c.ImageGen.ReplicateToken, "REPLICATE_API_TOKEN")
	setString(&c.ImageGen.StabilityKey, "STABILITY_API_KEY")
	setString(&c.ImageGen.Version, "REPLICATE_MODEL_VERSION")
	setString(&c.Cache.Backend, "HOUSESKETCH_CACHE")
	setString(&c.Cache.RedisAddr, "REDIS_ADDR")
	setString(&c.Cache.RedisPassword, "REDIS_PASSWORD")

	if v := getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return herrors.New(herrors.ErrCodeInvalidConfig, "REDIS_DB must be an integer, got %q", v)
		}
		c.Cache.RedisDB = n
	}
	if v := getenv("REDIS_TLS"); v != "" {
		c.Cache.RedisTLS = strings.EqualFold(v, "true") || v == "1"
	}
	return nil
}

// Validate checks enumerations and numeric ranges. Missing credentials are
// not an error here; see [ImageGenConfig.Credentials].
func (c *Config) Validate() error {
	switch c.ImageGen.Provider {
	case ProviderNone, ProviderReplicate, ProviderStability:
	default:
		return herrors.New(herrors.ErrCodeInvalidConfig, "unknown image provider %q", c.ImageGen.Provider)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile, CacheRedis:
	default:
		return herrors.New(herrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.ImageGen.Width <= 0 || c.ImageGen.Height <= 0 {
		return herrors.New(herrors.ErrCodeInvalidConfig, "image size must be positive, got %dx%d", c.ImageGen.Width, c.ImageGen.Height)
	}
	if c.ImageGen.Steps <= 0 {
		return herrors.New(herrors.ErrCodeInvalidConfig, "steps must be positive, got %d", c.ImageGen.Steps)
	}
	if c.ImageGen.PollInterval <= 0 {
		return herrors.New(herrors.ErrCodeInvalidConfig, "poll_interval must be positive")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return herrors.New(herrors.ErrCodeInvalidConfig, "rate limit values must not be negative")
	}
	return nil
}

// Credentials returns the token for the selected provider. It fails with
// ErrCodeMissingCredentials when the provider needs a token that is unset.
func (c ImageGenConfig) Credentials() (string, error) {
	switch c.Provider {
	case ProviderReplicate:
		if c.ReplicateToken == "" {
			return "", herrors.New(herrors.ErrCodeMissingCredentials, "REPLICATE_API_TOKEN is not set")
		}
		return c.ReplicateToken, nil
	case ProviderStability:
		if c.StabilityKey == "" {
			return "", herrors.New(herrors.ErrCodeMissingCredentials, "STABILITY_API_KEY is not set")
		}
		return c.StabilityKey, nil
	default:
		return "", herrors.New(herrors.ErrCodeUnsupported, "image generation is disabled")
	}
}
