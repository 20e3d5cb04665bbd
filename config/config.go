// Package config loads, validates and watches the dexgraph configuration
// file. Missing files are not an error, every field has a usable default.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/typedex/dexgraph/physics"
	"github.com/typedex/dexgraph/pokeapi"
)

// Server holds the HTTP listener settings.
type Server struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// Addr returns the listen address in host:port form.
func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Database points at the SQLite species store.
type Database struct {
	Path string `yaml:"path"`
}

// PokeAPI configures the remote species client.
type PokeAPI struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	SpriteTTL time.Duration `yaml:"sprite_ttl"`
	Workers   int           `yaml:"workers"`
}

// Physics selects a layout preset plus optional coefficient overrides.
// Zero-valued overrides leave the preset untouched.
type Physics struct {
	Profile           string  `yaml:"profile"`
	Gravity           float64 `yaml:"gravity,omitempty"`
	RepulsionForce    float64 `yaml:"repulsion_force,omitempty"`
	InteractionRadius float64 `yaml:"interaction_radius,omitempty"`
	SpringConstant    float64 `yaml:"spring_constant,omitempty"`
	SpringLength      float64 `yaml:"spring_length,omitempty"`
	SpringWeightScale float64 `yaml:"spring_weight_scale,omitempty"`
	DampingFactor     float64 `yaml:"damping_factor,omitempty"`

	TickRate time.Duration `yaml:"tick_rate"`
	AutoTick bool          `yaml:"auto_tick"`
	Drift    bool          `yaml:"drift"`
	IdleTTL  time.Duration `yaml:"idle_ttl"`
}

// BuildProfile resolves the named preset and applies the overrides.
func (p Physics) BuildProfile() physics.Profile {
	prof := physics.ProfileByName(p.Profile)
	if p.Gravity > 0 {
		prof.Gravity = p.Gravity
	}
	if p.RepulsionForce > 0 {
		prof.RepulsionForce = p.RepulsionForce
	}
	if p.InteractionRadius > 0 {
		prof.InteractionRadius = p.InteractionRadius
	}
	if p.SpringConstant > 0 {
		prof.SpringConstant = p.SpringConstant
	}
	if p.SpringLength > 0 {
		prof.SpringLength = p.SpringLength
	}
	if p.SpringWeightScale > 0 {
		prof.SpringWeightScale = p.SpringWeightScale
	}
	if p.DampingFactor > 0 {
		prof.DampingFactor = p.DampingFactor
	}
	return prof
}

// Logging selects the slog handler.
type Logging struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// SlogLevel maps the configured level onto slog, defaulting to info.
func (l Logging) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config is the full dexgraph configuration.
type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	PokeAPI  PokeAPI  `yaml:"pokeapi"`
	Physics  Physics  `yaml:"physics"`
	Logging  Logging  `yaml:"logging"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: Server{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Database: Database{
			Path: "dexgraph.db",
		},
		PokeAPI: PokeAPI{
			BaseURL:   pokeapi.DefaultBaseURL,
			Timeout:   10 * time.Second,
			SpriteTTL: pokeapi.DefaultSpriteTTL,
			Workers:   4,
		},
		Physics: Physics{
			Profile:  "default",
			TickRate: time.Second / 60,
			AutoTick: false,
			Drift:    false,
			IdleTTL:  30 * time.Minute,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the file at path over the defaults and applies environment
// overrides. A missing file is fine, the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets deployment environments override the listen address and the
// database path without touching the file.
func (c *Config) applyEnv() {
	if addr := os.Getenv("DEXGRAPH_ADDR"); addr != "" {
		if host, port, err := net.SplitHostPort(addr); err == nil {
			if n, err := strconv.Atoi(port); err == nil {
				c.Server.Host = host
				c.Server.Port = n
			}
		}
	}
	if db := os.Getenv("DEXGRAPH_DB"); db != "" {
		c.Database.Path = db
	}
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is empty")
	}
	if _, err := url.Parse(c.PokeAPI.BaseURL); err != nil {
		return fmt.Errorf("pokeapi.base_url: %w", err)
	}
	if c.PokeAPI.Workers < 1 {
		return fmt.Errorf("pokeapi.workers must be at least 1, got %d", c.PokeAPI.Workers)
	}
	if c.Physics.AutoTick && c.Physics.TickRate <= 0 {
		return fmt.Errorf("physics.tick_rate must be positive when auto_tick is on")
	}
	if c.Physics.DampingFactor < 0 || c.Physics.DampingFactor >= 1 {
		return fmt.Errorf("physics.damping_factor %f must be in [0, 1)", c.Physics.DampingFactor)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q not one of text, json", c.Logging.Format)
	}
	return nil
}
