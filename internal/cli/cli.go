package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/offpack/pkg/buildinfo"
	"github.com/matzehuels/offpack/pkg/cache"
	"github.com/matzehuels/offpack/pkg/deps"
	"github.com/matzehuels/offpack/pkg/deps/javascript"
	"github.com/matzehuels/offpack/pkg/httputil"
	"github.com/matzehuels/offpack/pkg/integrations/npm"
	"github.com/matzehuels/offpack/pkg/observability/prom"
)

// appName is the application name used for directories and display.
const appName = "offpack"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ErrUnresolved is returned under --strict when some requests could not
// be resolved.
var ErrUnresolved = errors.New("some requests could not be resolved")

// retryDelay is the first backoff delay for registry requests.
var retryDelay = httputil.DefaultDelay

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg         Config
	configFile  string
	registry    string
	backend     string
	workers     int
	refresh     bool
	metricsFile string
	metrics     *prom.Metrics
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "offpack resolves npm dependency trees and bundles them for offline use",
		Long: `offpack resolves the transitive dependencies of npm packages against a registry,
reports every version an installer would fetch together with who requested it,
and bundles the tarballs into a single archive for air-gapped installs.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/offpack/config.toml)")
	pf.StringVar(&c.registry, "registry", "", "registry URL")
	pf.StringVar(&c.backend, "cache", "", "document cache backend: file, redis or none")
	pf.IntVar(&c.workers, "workers", 0, "concurrent registry fetches (1 resolves sequentially)")
	pf.BoolVar(&c.refresh, "refresh", false, "ignore cached registry documents")
	pf.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.downloadCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// setup loads the config file and applies flag overrides.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))

	path := c.configFile
	if path == "" {
		var err error
		if path, err = configPath(); err != nil {
			c.Logger.Debug("no config location", "err", err)
			return c.applyFlags(cmd)
		}
	}
	cfg, unknown, err := loadConfig(path)
	if err != nil {
		return err
	}
	for _, k := range unknown {
		c.Logger.Warn("unknown config key", "key", k, "file", path)
	}
	c.cfg = cfg
	return c.applyFlags(cmd)
}

func (c *CLI) applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("registry") {
		c.cfg.Registry = c.registry
	}
	if flags.Changed("cache") {
		c.cfg.Cache.Backend = strings.ToLower(c.backend)
	}
	if flags.Changed("workers") {
		c.cfg.Workers = c.workers
	}
	if c.metricsFile != "" {
		c.metrics = prom.New()
		c.metrics.Register()
	}
	return c.cfg.validate()
}

// flushMetrics writes collected metrics when --metrics-file is set.
func (c *CLI) flushMetrics() {
	if c.metrics == nil {
		return
	}
	if err := c.metrics.WriteTextfile(c.metricsFile); err != nil {
		c.Logger.Warn("write metrics", "file", c.metricsFile, "err", err)
		return
	}
	c.Logger.Debug("metrics written", "file", c.metricsFile)
}

// =============================================================================
// Factories
// =============================================================================

func (c *CLI) newClient() *npm.Client {
	return npm.NewClient(npm.Options{BaseURL: c.cfg.Registry})
}

// newStore opens the configured document cache. An unusable file cache
// degrades to no caching; an unreachable Redis is an error.
func (c *CLI) newStore(ctx context.Context) (cache.Cache, error) {
	switch c.cfg.Cache.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		rc, err := cache.NewRedisCache(ctx, c.cfg.Cache.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return rc, nil
	}
	dir, err := c.fileCacheDir()
	if err != nil {
		c.Logger.Warn("document cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("document cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// newResolver stacks the document cache over retries over the registry.
func (c *CLI) newResolver(client *npm.Client, store cache.Cache, events chan<- deps.Event) *deps.Resolver {
	f := javascript.NewFetcher(client)
	var fetcher deps.Fetcher = deps.WithRetry(f, c.cfg.Retries, retryDelay)
	fetcher = deps.WithDocumentCache(fetcher, store, deps.DocumentCacheOptions{
		Namespace: f.Namespace(),
		TTL:       c.cfg.CacheTTL,
		Refresh:   c.refresh,
	})
	return deps.NewResolver(fetcher, deps.Options{
		Workers: c.cfg.Workers,
		Events:  events,
		Logger:  c.Logger.Debugf,
	})
}
