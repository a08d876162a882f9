package leiden

import (
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages algorithm configuration using Viper.
type Config struct {
	v *viper.Viper
}

// NewConfig creates a configuration with defaults.
func NewConfig() *Config {
	v := viper.New()

	// Algorithm parameters
	v.SetDefault("algorithm.resolution", 1.0)
	v.SetDefault("algorithm.randomness", 0.01)
	v.SetDefault("algorithm.max_levels", 10)
	v.SetDefault("algorithm.seed", int64(1))
	v.SetDefault("algorithm.strict_edges", false)

	// Performance parameters
	v.SetDefault("performance.num_workers", runtime.NumCPU())

	// Logging parameters
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.enable_progress", false)

	return &Config{v: v}
}

// LoadFromFile loads configuration from file.
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Getters for algorithm parameters.
func (c *Config) Resolution() float64 { return c.v.GetFloat64("algorithm.resolution") }
func (c *Config) Randomness() float64 { return c.v.GetFloat64("algorithm.randomness") }
func (c *Config) MaxLevels() int      { return c.v.GetInt("algorithm.max_levels") }
func (c *Config) Seed() int64         { return c.v.GetInt64("algorithm.seed") }
func (c *Config) StrictEdges() bool   { return c.v.GetBool("algorithm.strict_edges") }

func (c *Config) NumWorkers() int { return c.v.GetInt("performance.num_workers") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }

// EnableProgress reports whether per-level progress logging is wanted;
// see CreateLogger for how it interacts with LogLevel.
func (c *Config) EnableProgress() bool { return c.v.GetBool("logging.enable_progress") }

// Set allows dynamic configuration changes.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// Validate checks the parameter domains before any computation starts.
func (c *Config) Validate() error {
	res := c.Resolution()
	if res <= 0 || math.IsNaN(res) || math.IsInf(res, 0) {
		return fmt.Errorf("%w: resolution must be finite and positive, got %v", ErrInvalidParameter, res)
	}
	theta := c.Randomness()
	if theta < 0 || math.IsNaN(theta) || math.IsInf(theta, 0) {
		return fmt.Errorf("%w: randomness must be finite and non-negative, got %v", ErrInvalidParameter, theta)
	}
	if c.MaxLevels() < 1 {
		return fmt.Errorf("%w: max levels must be at least 1, got %d", ErrInvalidParameter, c.MaxLevels())
	}
	return nil
}

// CreateLogger creates a zerolog logger based on config. Per-level
// progress is logged at info and debug; unless logging.enable_progress is
// set, those levels are clamped to warn so that embedding the engine in a
// service does not spray progress lines by default. logging.level alone
// governs verbosity once progress is enabled.
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	if !c.EnableProgress() && level < zerolog.WarnLevel {
		level = zerolog.WarnLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "leiden").Logger()
}
