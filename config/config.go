// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/creatures/genome"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig          `yaml:"screen"`
	Arena        ArenaConfig           `yaml:"arena"`
	Physics      PhysicsConfig         `yaml:"physics"`
	Population   PopulationConfig      `yaml:"population"`
	Founder      genome.Traits         `yaml:"founder"`
	Engagement   EngagementConfig      `yaml:"engagement"`
	Mutation     genome.MutationRanges `yaml:"mutation"`
	Reproduction ReproductionConfig    `yaml:"reproduction"`
	Telemetry    TelemetryConfig       `yaml:"telemetry"`
	Parallel     ParallelConfig        `yaml:"parallel"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ArenaConfig describes the bounded arena centered on the origin.
type ArenaConfig struct {
	WanderRadius float64 `yaml:"wander_radius"` // radius of the roaming ring around the origin
	HalfExtent   float64 `yaml:"half_extent"`   // arena spans [-half_extent, half_extent] on both axes
	BodyRadius   float64 `yaml:"body_radius"`   // drawn size of a creature
}

// PhysicsConfig holds tick timing and spatial indexing parameters.
type PhysicsConfig struct {
	DT                float64 `yaml:"dt"`                 // real seconds per tick before scaling
	GridCellSize      float64 `yaml:"grid_cell_size"`     // spatial grid cell size
	ArriveEpsilon     float64 `yaml:"arrive_epsilon"`     // distance at which a wander target counts as reached
	InteractionRadius float64 `yaml:"interaction_radius"` // centers closer than this overlap
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Initial   int     `yaml:"initial"`    // founders spawned at bootstrap
	Ceiling   int     `yaml:"ceiling"`    // reproduction stops at this count
	TimeScale float64 `yaml:"time_scale"` // speed multiplier = time_scale / count
}

// EngagementConfig holds the affinity gate.
type EngagementConfig struct {
	Threshold int    `yaml:"threshold"` // engage when distance exceeds this
	Metric    string `yaml:"metric"`    // linear | hamming
}

// ReproductionConfig holds offspring placement parameters.
type ReproductionConfig struct {
	SpawnRadius float64 `yaml:"spawn_radius"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // real seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// ParallelConfig controls the movement worker pool.
type ParallelConfig struct {
	Threshold int `yaml:"threshold"` // minimum agents before movement fans out to workers
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Metric       genome.Metric // parsed Engagement.Metric
	TicksPerStat int32         // Telemetry.StatsWindow in ticks
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	metric, err := genome.ParseMetric(cfg.Engagement.Metric)
	if err != nil {
		return nil, fmt.Errorf("parsing engagement.metric: %w", err)
	}
	cfg.Derived.Metric = metric
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Physics.DT <= 0 {
		c.Physics.DT = 1.0 / 60.0
	}
	if c.Arena.HalfExtent < c.Arena.WanderRadius {
		c.Arena.HalfExtent = c.Arena.WanderRadius
	}

	ticks := int32(c.Telemetry.StatsWindow / c.Physics.DT)
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.TicksPerStat = ticks
}

// SetStatsWindow overrides the telemetry window and refreshes derived values.
func (c *Config) SetStatsWindow(seconds float64) {
	c.Telemetry.StatsWindow = seconds
	c.computeDerived()
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
