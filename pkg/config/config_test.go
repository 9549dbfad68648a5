package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/kintree/pkg/cache"
	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/storage"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Layout != layout.DefaultSettings() {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Cache.TTL.Duration != cache.TTLDerive {
		t.Errorf("cache ttl = %v", cfg.Cache.TTL)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[layout]
card_width = 180
horizontal_spacing = 1.5

[suggest]
min_parent_age_gap = 14

[cache]
backend = "redis"
ttl = "24h"
[cache.redis]
addr = "redis:6379"

[storage]
backend = "mongo"
mongo_uri = "mongodb://mongo:27017"

[server]
addr = ":9000"
read_timeout = "5s"
history_limit = 50
`)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.CardWidth != 180 || cfg.Layout.HorizontalSpacing != 1.5 || cfg.Layout.CardHeight != layout.DefaultCardHeight {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Suggest.MinParentAgeGap != 14 || cfg.Suggest.MaxSpouseAgeGap != 30 {
		t.Errorf("suggest = %+v", cfg.Suggest)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.TTL.Duration != 24*time.Hour || cfg.Cache.Redis.Addr != "redis:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Redis.Prefix != "kintree:" {
		t.Errorf("redis prefix default lost: %q", cfg.Cache.Redis.Prefix)
	}
	if cfg.Storage.Backend != StorageMongo || cfg.Storage.Database != "kintree" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.ReadTimeout.Duration != 5*time.Second || cfg.Server.HistoryLimit != 50 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout.Duration != 30*time.Second {
		t.Errorf("write timeout default lost: %v", cfg.Server.WriteTimeout)
	}
}

func TestParseOrientationPicksDirection(t *testing.T) {
	cfg, err := Parse("[layout]\norientation = \"horizontal\"\n")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.Direction != layout.LeftToRight {
		t.Errorf("direction = %q, want %q", cfg.Layout.Direction, layout.LeftToRight)
	}

	cfg, err = Parse("[layout]\norientation = \"horizontal\"\ndirection = \"right-to-left\"\n")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.Direction != layout.RightToLeft {
		t.Errorf("direction = %q", cfg.Layout.Direction)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"syntax", "[layout\n", "parse config"},
		{"unknown key", "[layout]\ncard_widht = 10\n", "layout.card_widht"},
		{"bad duration", "[cache]\nttl = \"soon\"\n", "parse config"},
		{"bad direction", "[layout]\ndirection = \"left-to-right\"\n", "direction"},
		{"bad cache backend", "[cache]\nbackend = \"memcached\"\n", "memcached"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n[cache.redis]\naddr = \"\"\n", "cache.redis.addr"},
		{"mongo without uri", "[storage]\nbackend = \"mongo\"\n", "mongo_uri"},
		{"negative gap", "[suggest]\nmax_spouse_age_gap = -1\n", "thresholds"},
		{"empty addr", "[server]\naddr = \"\"\n", "server.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			if !kerrors.Is(err, kerrors.ErrCodeInvalidSettings) {
				t.Errorf("code = %s, want %s", kerrors.GetCode(err), kerrors.ErrCodeInvalidSettings)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kintree.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":7000\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Load(explicit missing file) should fail")
	}
}

func TestLoadDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") without a file = %+v, want defaults", cfg)
	}

	path, _ := Path()
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	_ = os.WriteFile(path, []byte("[cache]\nbackend = \"none\"\n"), 0644)
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Backend != CacheNone {
		t.Errorf("backend = %q, want none", cfg.Cache.Backend)
	}
}

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")

	if dir, _ := CacheDir(); dir != filepath.Join("/tmp/custom-cache", AppName) {
		t.Errorf("CacheDir() = %q", dir)
	}
	if path, _ := Path(); path != filepath.Join("/tmp/custom-config", AppName, "config.toml") {
		t.Errorf("Path() = %q", path)
	}
	home, _ := os.UserHomeDir()
	if dir, _ := DataDir(); dir != filepath.Join(home, ".local", "share", AppName) {
		t.Errorf("DataDir() = %q", dir)
	}
}

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := CacheConfig{Backend: CacheNone}.Open(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("none backend = %T", c)
	}

	c, err = CacheConfig{Backend: CacheFile, Dir: filepath.Join(dir, "cache")}.Open(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fc, ok := c.(*cache.FileCache); !ok || fc.Dir() != filepath.Join(dir, "cache") {
		t.Errorf("file backend = %T", c)
	}

	s, err := StorageConfig{Backend: StorageFile, Dir: filepath.Join(dir, "trees")}.Open(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if fs, ok := s.(*storage.FileStore); !ok || fs.Path() != filepath.Join(dir, "trees") {
		t.Errorf("file store = %T", s)
	}
}
