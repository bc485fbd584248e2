package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/offpack/pkg/deps"
	errs "github.com/matzehuels/offpack/pkg/errors"
	"github.com/matzehuels/offpack/pkg/httputil"
	"github.com/matzehuels/offpack/pkg/integrations/npm"
)

// Cache backends selectable in the config file or with --cache.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the on-disk configuration. Flags override file values.
type Config struct {
	Registry string        `toml:"registry"`
	Workers  int           `toml:"workers"`
	Retries  int           `toml:"retries"`
	CacheTTL time.Duration `toml:"cache_ttl"`
	Cache    CacheConfig   `toml:"cache"`
}

// CacheConfig selects where registry documents are cached.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{
		Registry: npm.DefaultRegistry,
		Workers:  deps.DefaultWorkers,
		Retries:  httputil.DefaultAttempts,
		CacheTTL: deps.DefaultCacheTTL,
		Cache: CacheConfig{
			Backend:   backendFile,
			RedisAddr: "localhost:6379",
		},
	}
}

// loadConfig reads path on top of the defaults. A missing file is not an
// error; unknown keys are returned so the caller can warn about them.
func loadConfig(path string) (Config, []string, error) {
	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultConfig(), nil, nil
	}
	if err != nil {
		return cfg, nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read config %s", path)
	}

	var unknown []string
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}
	return cfg, unknown, cfg.validate()
}

func (c Config) validate() error {
	if err := errs.ValidateURL(c.Registry); err != nil {
		return err
	}
	if c.Workers < 1 {
		return errs.New(errs.ErrCodeInvalidInput, "workers must be at least 1, got %d", c.Workers)
	}
	if c.Retries < 1 {
		return errs.New(errs.ErrCodeInvalidInput, "retries must be at least 1, got %d", c.Retries)
	}
	switch strings.ToLower(c.Cache.Backend) {
	case backendFile, backendRedis, backendNone:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown cache backend %q (want %s, %s or %s)",
			c.Cache.Backend, backendFile, backendRedis, backendNone)
	}
	return nil
}

// configPath returns the config file location using XDG standard
// (~/.config/offpack/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate config: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/offpack/).
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
