package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lukasmeier/depscope/pkg/engine"
	"github.com/lukasmeier/depscope/pkg/errors"
	"github.com/lukasmeier/depscope/pkg/layout"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg.Frame.Width != engine.DefaultWidth || cfg.Frame.Height != engine.DefaultHeight {
		t.Errorf("frame defaults = %gx%g", cfg.Frame.Width, cfg.Frame.Height)
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("serve addr default = %q", cfg.Serve.Addr)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[frame]
width = 1200
height = 900

[physics]
iterations = 100
repulsion = 8000.0

[serve]
addr = ":9000"

[redis]
addr = "localhost:6379"

[mongo]
uri = "mongodb://db:27017"
database = "graphs"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Frame.Width != 1200 || cfg.Frame.Height != 900 {
		t.Errorf("frame = %gx%g", cfg.Frame.Width, cfg.Frame.Height)
	}
	if cfg.Serve.Addr != ":9000" {
		t.Errorf("serve addr = %q", cfg.Serve.Addr)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
	if cfg.Mongo.Database != "graphs" {
		t.Errorf("mongo database = %q", cfg.Mongo.Database)
	}

	lc := cfg.LayoutConfig()
	if lc.Iterations != 100 {
		t.Errorf("iterations = %d", lc.Iterations)
	}
	if lc.Repulsion != 8000 {
		t.Errorf("repulsion = %g", lc.Repulsion)
	}
	// Untouched parameters keep their defaults.
	if lc.Damping != layout.DefaultDamping {
		t.Errorf("damping = %g, want default", lc.Damping)
	}
}

func TestLoadConfigBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("frame = {"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for malformed TOML")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want INVALID_CONFIG", errors.GetCode(err))
	}
}

func TestLoadConfigBadFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[frame]\nwidth = -5\nheight = 100\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for negative frame width")
	}
}
