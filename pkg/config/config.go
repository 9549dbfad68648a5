// Package config loads kintree's TOML configuration.
//
// A configuration file has one table per concern:
//
//	[layout]
//	orientation = "horizontal"
//	card_width  = 180
//
//	[suggest]
//	min_parent_age_gap = 14
//
//	[cache]
//	backend = "redis"
//	ttl     = "24h"
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[storage]
//	backend   = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//
// Every key is optional. Missing keys keep the values of [Default], and
// unknown keys are rejected so typos do not go unnoticed.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/kintree/pkg/cache"
	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/storage"
	"github.com/matzehuels/kintree/pkg/suggest"
)

// AppName names the configuration, cache and data directories.
const AppName = "kintree"

// Backend names.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"

	StorageFile  = "file"
	StorageMongo = "mongo"
)

// Config is the complete configuration.
type Config struct {
	Layout  layout.Settings `toml:"layout"`
	Suggest suggest.Options `toml:"suggest"`
	Cache   CacheConfig     `toml:"cache"`
	Storage StorageConfig   `toml:"storage"`
	Server  ServerConfig    `toml:"server"`
}

// CacheConfig selects where derived views are memoized.
type CacheConfig struct {
	Backend string      `toml:"backend"` // none, file or redis
	Dir     string      `toml:"dir"`     // file backend; empty uses CacheDir()
	TTL     Duration    `toml:"ttl"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// StorageConfig selects where trees are persisted.
type StorageConfig struct {
	Backend  string `toml:"backend"` // file or mongo
	Dir      string `toml:"dir"`     // file backend; empty uses DataDir()/trees
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	HistoryLimit    int      `toml:"history_limit"` // undo depth per tree; 0 uses the editor default
}

// Duration is a time.Duration written as a string ("24h", "90s").
type Duration struct{ time.Duration }

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Layout:  layout.DefaultSettings(),
		Suggest: suggest.DefaultOptions(),
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     Duration{cache.TTLDerive},
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: AppName + ":"},
		},
		Storage: StorageConfig{
			Backend:  StorageFile,
			Database: AppName,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{30 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
	}
}

// Load reads the file at path over the defaults and validates the result.
// An empty path reads Path(), where a missing file is not an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, kerrors.Wrap(kerrors.ErrCodeInvalidSettings, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, kerrors.New(kerrors.ErrCodeInvalidSettings, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	// A file that only switches orientation gets that orientation's forward
	// direction rather than the vertical default.
	if md.IsDefined("layout", "orientation") && !md.IsDefined("layout", "direction") {
		cfg.Layout.Direction = ""
	}
	cfg.Layout = cfg.Layout.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the layout settings, thresholds and backend names.
func (c Config) Validate() error {
	if err := c.Layout.WithDefaults().Validate(); err != nil {
		return err
	}
	if c.Suggest.MinParentAgeGap < 0 || c.Suggest.MaxSpouseAgeGap < 0 {
		return kerrors.New(kerrors.ErrCodeInvalidSettings, "suggestion thresholds must not be negative")
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return kerrors.New(kerrors.ErrCodeInvalidSettings, "cache.redis.addr is required for the redis backend")
		}
	default:
		return kerrors.New(kerrors.ErrCodeInvalidSettings, "invalid cache backend %q (use %s)", c.Cache.Backend, strings.Join([]string{CacheNone, CacheFile, CacheRedis}, ", "))
	}
	if c.Cache.TTL.Duration < 0 {
		return kerrors.New(kerrors.ErrCodeInvalidSettings, "cache.ttl must not be negative")
	}
	if !slices.Contains([]string{StorageFile, StorageMongo}, c.Storage.Backend) {
		return kerrors.New(kerrors.ErrCodeInvalidSettings, "invalid storage backend %q (use %s or %s)", c.Storage.Backend, StorageFile, StorageMongo)
	}
	if c.Storage.Backend == StorageMongo && c.Storage.MongoURI == "" {
		return kerrors.New(kerrors.ErrCodeInvalidSettings, "storage.mongo_uri is required for the mongo backend")
	}
	if c.Server.Addr == "" {
		return kerrors.New(kerrors.ErrCodeInvalidSettings, "server.addr must not be empty")
	}
	if c.Server.HistoryLimit < 0 {
		return kerrors.New(kerrors.ErrCodeInvalidSettings, "server.history_limit must not be negative")
	}
	return nil
}

// =============================================================================
// Backends
// =============================================================================

// Open creates the configured cache.
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		})
	}
	dir := c.Dir
	if dir == "" {
		d, err := CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// Open creates the configured tree store.
func (s StorageConfig) Open(ctx context.Context, logger *log.Logger) (storage.Store, error) {
	if s.Backend == StorageMongo {
		return storage.NewMongoStore(ctx, storage.MongoOptions{URI: s.MongoURI, Database: s.Database, Logger: logger})
	}
	dir := s.Dir
	if dir == "" {
		d, err := DataDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(d, "trees")
	}
	return storage.NewFileStore(dir)
}

// =============================================================================
// Paths
// =============================================================================

// Path returns the default config file, $XDG_CONFIG_HOME/kintree/config.toml.
func Path() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/kintree/).
func CacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns the data directory using XDG standard (~/.local/share/kintree/).
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}
