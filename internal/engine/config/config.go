package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world/gen"
)

// Config holds the engine configuration.
type Config struct {
	Seed      int64  `yaml:"seed"`
	Layout    string `yaml:"layout"`    // "cube" or "column"
	Generator string `yaml:"generator"` // "mountains" or "flat"
	Noise     string `yaml:"noise"`     // "simplex" or "perlin"

	RenderDistance        float64 `yaml:"render_distance"` // chunks
	MaxRequestsPerTick    int     `yaml:"max_requests_per_tick"`
	RequestsPerSecond     float64 `yaml:"requests_per_second"` // 0 = unlimited
	MaxUploadsPerFrame    int     `yaml:"max_uploads_per_frame"`
	QueueCapacity         int     `yaml:"queue_capacity"`
	MaxGenerationAttempts int     `yaml:"max_generation_attempts"`
	PoolFree              int     `yaml:"pool_free"` // released grids kept for reuse

	BuildMinY int `yaml:"build_min_y"`
	BuildMaxY int `yaml:"build_max_y"`

	CatalogPath string `yaml:"catalog_path"` // empty = built-in blocks
	Camera      string `yaml:"camera"`       // "fixed", "flight" or "free"
	LogLevel    string `yaml:"log_level"`

	Terrain Terrain `yaml:"terrain"`
}

// Terrain shapes the mountains generator.
type Terrain struct {
	Octaves         int     `yaml:"octaves"`
	Scale           float64 `yaml:"scale"`
	Persistence     float64 `yaml:"persistence"`
	Lacunarity      float64 `yaml:"lacunarity"`
	RockOctaves     int     `yaml:"rock_octaves"`
	RockScale       float64 `yaml:"rock_scale"`
	RockPersistence float64 `yaml:"rock_persistence"`
	MinY            int     `yaml:"min_y"`
	MaxY            int     `yaml:"max_y"`
	RockMin         int     `yaml:"rock_min"`
	RockMax         int     `yaml:"rock_max"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	t := gen.DefaultTerrain()
	return &Config{
		Layout:                world.Cube.Name,
		Generator:             "mountains",
		Noise:                 "simplex",
		RenderDistance:        8,
		MaxRequestsPerTick:    100,
		MaxUploadsPerFrame:    16,
		QueueCapacity:         256,
		MaxGenerationAttempts: 3,
		PoolFree:              64,
		BuildMinY:             0,
		BuildMaxY:             255,
		Camera:                "flight",
		LogLevel:              "info",
		Terrain: Terrain{
			Octaves:         t.Octaves,
			Scale:           t.Scale,
			Persistence:     t.Persistence,
			Lacunarity:      t.Lacunarity,
			RockOctaves:     t.RockOctaves,
			RockScale:       t.RockScale,
			RockPersistence: t.RockPersistence,
			MinY:            t.MinY,
			MaxY:            t.MaxY,
			RockMin:         t.RockMin,
			RockMax:         t.RockMax,
		},
	}
}

// Load reads a YAML (or JSON) file over a copy of the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML (or JSON) file over a copy of base, so a command can
// supply its own defaults for keys the file leaves out. A missing file yields
// the copy of base.
func LoadOver(path string, base *Config) (*Config, error) {
	cfg := *base
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["layout"] {
		cfg.Layout = fromFile.Layout
	}
	if !explicitFlags["generator"] {
		cfg.Generator = fromFile.Generator
	}
	if !explicitFlags["noise"] {
		cfg.Noise = fromFile.Noise
	}
	if !explicitFlags["render-distance"] {
		cfg.RenderDistance = fromFile.RenderDistance
	}
	if !explicitFlags["max-requests"] {
		cfg.MaxRequestsPerTick = fromFile.MaxRequestsPerTick
	}
	if !explicitFlags["requests-per-second"] {
		cfg.RequestsPerSecond = fromFile.RequestsPerSecond
	}
	if !explicitFlags["max-uploads"] {
		cfg.MaxUploadsPerFrame = fromFile.MaxUploadsPerFrame
	}
	if !explicitFlags["catalog"] {
		cfg.CatalogPath = fromFile.CatalogPath
	}
	if !explicitFlags["camera"] {
		cfg.Camera = fromFile.Camera
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}

	// No flags for these.
	cfg.QueueCapacity = fromFile.QueueCapacity
	cfg.MaxGenerationAttempts = fromFile.MaxGenerationAttempts
	cfg.PoolFree = fromFile.PoolFree
	cfg.BuildMinY = fromFile.BuildMinY
	cfg.BuildMaxY = fromFile.BuildMaxY
	cfg.Terrain = fromFile.Terrain
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if _, err := world.LayoutByName(c.Layout); err != nil {
		errs = append(errs, err)
	}
	switch c.Generator {
	case "mountains", "flat":
	default:
		errs = append(errs, fmt.Errorf("unknown generator %q", c.Generator))
	}
	if _, err := gen.NewNoise(c.Noise, c.Seed); err != nil {
		errs = append(errs, err)
	}
	switch c.Camera {
	case "fixed", "flight", "free":
	default:
		errs = append(errs, fmt.Errorf("unknown camera %q", c.Camera))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	positive := []struct {
		name string
		v    int
	}{
		{"max_requests_per_tick", c.MaxRequestsPerTick},
		{"max_uploads_per_frame", c.MaxUploadsPerFrame},
		{"queue_capacity", c.QueueCapacity},
		{"max_generation_attempts", c.MaxGenerationAttempts},
		{"terrain.octaves", c.Terrain.Octaves},
		{"terrain.rock_octaves", c.Terrain.RockOctaves},
	}
	for _, p := range positive {
		if p.v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", p.name, p.v))
		}
	}
	if c.RenderDistance < 0 {
		errs = append(errs, fmt.Errorf("render_distance must not be negative, got %g", c.RenderDistance))
	}
	if c.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("requests_per_second must not be negative, got %g", c.RequestsPerSecond))
	}
	if c.PoolFree < 0 {
		errs = append(errs, fmt.Errorf("pool_free must not be negative, got %d", c.PoolFree))
	}
	if c.BuildMinY > c.BuildMaxY {
		errs = append(errs, fmt.Errorf("build_min_y %d above build_max_y %d", c.BuildMinY, c.BuildMaxY))
	}
	if c.Terrain.Scale <= 0 || c.Terrain.RockScale <= 0 {
		errs = append(errs, errors.New("terrain scales must be positive"))
	}
	if c.Terrain.MinY > c.Terrain.MaxY || c.Terrain.RockMin > c.Terrain.RockMax {
		errs = append(errs, errors.New("terrain bounds inverted"))
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// TerrainParams converts the terrain block for the generator.
func (c *Config) TerrainParams() gen.TerrainParams {
	t := c.Terrain
	return gen.TerrainParams{
		Octaves:         t.Octaves,
		Scale:           t.Scale,
		Persistence:     t.Persistence,
		Lacunarity:      t.Lacunarity,
		RockOctaves:     t.RockOctaves,
		RockScale:       t.RockScale,
		RockPersistence: t.RockPersistence,
		MinY:            t.MinY,
		MaxY:            t.MaxY,
		RockMin:         t.RockMin,
		RockMax:         t.RockMax,
	}
}
