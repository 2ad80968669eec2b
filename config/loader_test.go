package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLoader(t *testing.T) (*Loader, string, string) {
	t.Helper()
	home := t.TempDir()
	work := filepath.Join(t.TempDir(), "project", "sub")
	if err := os.MkdirAll(work, 0755); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil)))
	l.home = home
	l.workDir = work
	return l, home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoader_Precedence(t *testing.T) {
	l, home, work := testLoader(t)

	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
export:
  format: jsonld
redis:
  addr: "user:6379"
`)
	// Found in a parent of the working directory
	writeFile(t, filepath.Join(filepath.Dir(work), ProjectConfigFile), `
redis:
  addr: "project:6379"
`)
	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	writeFile(t, explicit, `
namespace:
  base: "http://example.org/id/"
`)

	cfg, err := l.Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Export.Format != "jsonld" {
		t.Errorf("user format should survive a project file that does not set it, got %s", cfg.Export.Format)
	}
	if cfg.Redis.Addr != "project:6379" {
		t.Errorf("project config should override user config, got %s", cfg.Redis.Addr)
	}
	if cfg.Namespace.Base != "http://example.org/id/" {
		t.Errorf("explicit config should apply last, got %s", cfg.Namespace.Base)
	}
}

func TestLoader_Defaults(t *testing.T) {
	l, _, _ := testLoader(t)

	cfg, err := l.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Export.Format != "turtle" {
		t.Errorf("expected defaults, got format %s", cfg.Export.Format)
	}
}

func TestLoader_InvalidConfig(t *testing.T) {
	l, _, _ := testLoader(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "storage:\n  backend: sqlite\n")

	if _, err := l.Load(path); err == nil {
		t.Error("expected validation error")
	}
	if _, err := l.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit file")
	}
}

func TestLoader_EnsureUserConfig(t *testing.T) {
	l, home, _ := testLoader(t)

	if err := l.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}
	path := filepath.Join(home, UserConfigDir, UserConfigFile)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("user config not created: %v", err)
	}
	// Second call leaves the file alone
	if err := l.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() second call error = %v", err)
	}
}

func TestLoader_Watch(t *testing.T) {
	l, _, _ := testLoader(t)
	path := filepath.Join(t.TempDir(), "semrdf.yaml")
	writeFile(t, path, "export:\n  format: turtle\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	if err := l.Watch(ctx, path, func(c *Config) { changes <- c }); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// An invalid edit is skipped
	writeFile(t, path, "export:\n  format: rdfxml\n")
	time.Sleep(3 * watchDebounce)
	writeFile(t, path, "export:\n  format: jsonld\n")

	select {
	case c := <-changes:
		if c.Export.Format != "jsonld" {
			t.Errorf("expected reloaded format jsonld, got %s", c.Export.Format)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestLoader_ProjectConfigPath(t *testing.T) {
	l, _, work := testLoader(t)
	if got := l.ProjectConfigPath(); got != "" {
		t.Errorf("ProjectConfigPath() = %q, want empty", got)
	}

	want := filepath.Join(filepath.Dir(work), ProjectConfigFile)
	writeFile(t, want, "export:\n  format: ntriples\n")
	if got := l.ProjectConfigPath(); got != want {
		t.Errorf("ProjectConfigPath() = %q, want %q", got, want)
	}
}

func TestLoader_WatchKeepsLayers(t *testing.T) {
	l, home, _ := testLoader(t)
	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), "redis:\n  addr: \"user:6379\"\n")
	path := filepath.Join(t.TempDir(), "semrdf.yaml")
	writeFile(t, path, "export:\n  format: turtle\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	if err := l.Watch(ctx, path, func(c *Config) { changes <- c }); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	writeFile(t, path, "export:\n  format: ntriples\n")

	select {
	case c := <-changes:
		if c.Export.Format != "ntriples" {
			t.Errorf("expected reloaded format ntriples, got %s", c.Export.Format)
		}
		if c.Redis.Addr != "user:6379" {
			t.Errorf("reload dropped the user layer, redis.addr = %s", c.Redis.Addr)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
