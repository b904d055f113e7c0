package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/repopulse/repopulse/pkg/cache"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("got backend %q, want %q", cfg.Cache.Backend, BackendFile)
	}
	ttl, err := cfg.TTL()
	if err != nil {
		t.Fatalf("TTL() failed: %v", err)
	}
	if ttl != cache.DefaultTTL {
		t.Errorf("got ttl %v, want %v", ttl, cache.DefaultTTL)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("got listen %q, want :8080", cfg.Server.Listen)
	}
}

func TestLoad_ParsesFile(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	path := writeConfig(t, `
token = "file-token"

[cache]
backend = "redis"
ttl = "5m"

[redis]
addr = "redis.internal:6379"
db = 2

[server]
listen = ":9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Token != "file-token" {
		t.Errorf("got token %q", cfg.Token)
	}
	if cfg.Cache.Backend != BackendRedis {
		t.Errorf("got backend %q, want redis", cfg.Cache.Backend)
	}
	ttl, _ := cfg.TTL()
	if ttl != 5*time.Minute {
		t.Errorf("got ttl %v, want 5m", ttl)
	}
	if cfg.Redis.Addr != "redis.internal:6379" || cfg.Redis.DB != 2 {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.Server.Listen != ":9090" {
		t.Errorf("got listen %q, want :9090", cfg.Server.Listen)
	}
}

func TestLoad_EnvTokenWins(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")
	path := writeConfig(t, `token = "file-token"`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Token != "env-token" {
		t.Errorf("got token %q, want env-token", cfg.Token)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	tests := []struct {
		name    string
		content string
	}{
		{"unknown backend", "[cache]\nbackend = \"dynamo\""},
		{"bad ttl", "[cache]\nttl = \"forever\""},
		{"history without uri", "[history]\nenabled = true"},
		{"malformed toml", "token = "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() should have failed")
			}
		})
	}
}

func TestCacheDir_Explicit(t *testing.T) {
	cfg := Config{Cache: CacheConfig{Dir: "/tmp/custom"}}
	dir, err := cfg.CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() failed: %v", err)
	}
	if dir != "/tmp/custom" {
		t.Errorf("got %q, want /tmp/custom", dir)
	}
}
