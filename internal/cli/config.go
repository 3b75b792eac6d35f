package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/lukasmeier/depscope/pkg/engine"
	"github.com/lukasmeier/depscope/pkg/errors"
	"github.com/lukasmeier/depscope/pkg/layout"
)

// Config holds user configuration loaded from ~/.config/depscope/config.toml.
// All fields have working defaults; a missing config file is not an error.
type Config struct {
	Frame   FrameConfig   `toml:"frame"`
	Physics PhysicsConfig `toml:"physics"`
	Serve   ServeConfig   `toml:"serve"`
	Redis   RedisConfig   `toml:"redis"`
	Mongo   MongoConfig   `toml:"mongo"`
}

// FrameConfig sets the world-space layout frame.
type FrameConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// PhysicsConfig overrides force simulation parameters. Zero values keep
// the defaults.
type PhysicsConfig struct {
	Iterations int     `toml:"iterations"`
	Repulsion  float64 `toml:"repulsion"`
	Attraction float64 `toml:"attraction"`
	Damping    float64 `toml:"damping"`
	Centering  float64 `toml:"centering"`
}

// ServeConfig configures the HTTP API server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// RedisConfig enables the Redis layout cache when Addr is set.
type RedisConfig struct {
	Addr string `toml:"addr"`
}

// MongoConfig configures the MongoDB graph source for `view --mongo`.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// DefaultConfig returns a config with all defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Frame: FrameConfig{Width: engine.DefaultWidth, Height: engine.DefaultHeight},
		Serve: ServeConfig{Addr: ":8080"},
		Mongo: MongoConfig{URI: "mongodb://localhost:27017"},
	}
}

// LoadConfig reads the TOML config at path on top of the defaults.
// A missing file returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	if cfg.Frame.Width <= 0 || cfg.Frame.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "frame must be positive, got %gx%g", cfg.Frame.Width, cfg.Frame.Height)
	}

	return cfg, nil
}

// LayoutConfig converts the physics overrides into a layout config.
func (c *Config) LayoutConfig() layout.Config {
	lc := layout.DefaultConfig()
	if c.Physics.Iterations > 0 {
		lc.Iterations = c.Physics.Iterations
	}
	if c.Physics.Repulsion > 0 {
		lc.Repulsion = c.Physics.Repulsion
	}
	if c.Physics.Attraction > 0 {
		lc.Attraction = c.Physics.Attraction
	}
	if c.Physics.Damping > 0 {
		lc.Damping = c.Physics.Damping
	}
	if c.Physics.Centering > 0 {
		lc.Centering = c.Physics.Centering
	}
	return lc
}
