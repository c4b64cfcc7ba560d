package louvain

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/gilchrisn/louvain-modularity/pkg/validation"
)

// Config manages algorithm configuration using Viper
type Config struct {
	v *viper.Viper
}

// Params is the validated parameter snapshot a run works with
type Params struct {
	Randomized                  bool
	ModularityIncreaseThreshold float64 `validate:"gt=0,lte=1"`
	Resolution                  float64 `validate:"gte=1"`
	RandomSeed                  int64
}

// NewConfig creates a new configuration with defaults. Every key can be
// overridden from the environment with the LOUVAIN_ prefix, dots replaced by
// underscores (LOUVAIN_ALGORITHM_RESOLUTION).
func NewConfig() *Config {
	v := viper.New()

	// Algorithm parameters
	v.SetDefault("algorithm.randomized", false)
	v.SetDefault("algorithm.modularity_increase_threshold", 0.001)
	v.SetDefault("algorithm.resolution", 1.0)
	v.SetDefault("algorithm.random_seed", time.Now().UnixNano())

	// Logging parameters
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.enable_progress", false)

	v.SetDefault("analysis.track_moves", false)
	v.SetDefault("analysis.output_file", "moves.jsonl")

	v.SetDefault("output.directory", "output")
	v.SetDefault("output.prefix", "communities")

	v.SetDefault("metrics.textfile", "")

	v.SetEnvPrefix("louvain")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{v: v}
}

// LoadFromFile loads configuration from file
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Getters for algorithm parameters
func (c *Config) Randomized() bool { return c.v.GetBool("algorithm.randomized") }
func (c *Config) ModularityIncreaseThreshold() float64 {
	return c.v.GetFloat64("algorithm.modularity_increase_threshold")
}
func (c *Config) Resolution() float64 { return c.v.GetFloat64("algorithm.resolution") }
func (c *Config) RandomSeed() int64   { return c.v.GetInt64("algorithm.random_seed") }

func (c *Config) LogLevel() string     { return c.v.GetString("logging.level") }
func (c *Config) EnableProgress() bool { return c.v.GetBool("logging.enable_progress") }

func (c *Config) EnableMoveTracking() bool   { return c.v.GetBool("analysis.track_moves") }
func (c *Config) TrackingOutputFile() string { return c.v.GetString("analysis.output_file") }

func (c *Config) OutputDirectory() string { return c.v.GetString("output.directory") }
func (c *Config) OutputPrefix() string    { return c.v.GetString("output.prefix") }

func (c *Config) MetricsTextfile() string { return c.v.GetString("metrics.textfile") }

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// Params snapshots the algorithm parameters and validates their ranges
func (c *Config) Params() (Params, error) {
	p := Params{
		Randomized:                  c.Randomized(),
		ModularityIncreaseThreshold: c.ModularityIncreaseThreshold(),
		Resolution:                  c.Resolution(),
		RandomSeed:                  c.RandomSeed(),
	}
	if err := validation.ValidateParams(&p); err != nil {
		return Params{}, err
	}
	return p, nil
}

// CreateLogger creates a zerolog logger based on config
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "louvain").Logger()
}
