// Package cli implements the housesketch command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/housesketch/pkg/buildinfo"
	"github.com/matzehuels/housesketch/pkg/cache"
	"github.com/matzehuels/housesketch/pkg/config"
	"github.com/matzehuels/housesketch/pkg/imagegen"
	"github.com/matzehuels/housesketch/pkg/observability"
	"github.com/matzehuels/housesketch/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "housesketch"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline,
// cache and HTTP hooks log through the CLI logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Register()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "housesketch draws site plans and floor plans for a house lot",
		Long: `housesketch turns lot dimensions and a list of outdoor features into a
site plan, simple floor plans, a room-by-room area estimate and a prompt for
text-to-image models. It can also call an image provider and serve
everything over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default ~/.config/housesketch/config.toml)")

	root.AddCommand(c.planCommand())
	root.AddCommand(c.roomsCommand())
	root.AddCommand(c.promptCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration on first use.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Image generation is not
// wired; see withGenerator.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}

	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Cache.Prefix)
	}

	runner := pipeline.NewRunner(store, keyer, c.Logger)
	runner.Image = imagegen.RequestFromConfig(cfg.ImageGen, "", "")
	return runner, nil
}

// withGenerator attaches the configured image provider to runner, with
// results cached like artifacts.
func (c *CLI) withGenerator(runner *pipeline.Runner) error {
	gen, err := imagegen.New(c.cfg.ImageGen)
	if err != nil {
		return err
	}
	runner.Generator = imagegen.NewCached(gen, runner.Cache, runner.Keyer, c.cfg.Cache.TTL)
	return nil
}

// newCache opens the configured backend. An unreachable Redis falls back to
// the file cache.
func (c *CLI) newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == config.CacheRedis {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TLS:      cfg.RedisTLS,
		})
		if err == nil {
			return rc, nil
		}
		c.Logger.Warn("redis unavailable, using file cache", "addr", cfg.RedisAddr, "err", err)
	}

	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/housesketch/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
