// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Output formats understood by the report writer.
var validFormats = map[string]bool{
	"text":    true,
	"json":    true,
	"msgpack": true,
}

// Config holds application configuration
type Config struct {
	LogLevel  string
	LogPretty bool
	Seed      uint64 // 0 = derive from the clock at startup
	Format    string

	TrainSamples int
	CheckSamples int

	Optimizer OptimizerConfig
}

// OptimizerConfig holds the CMA-ES budget and step size
type OptimizerConfig struct {
	StepSize       float64
	Population     int // 0 = gonum default
	MaxEvaluations int
	MaxIterations  int // 0 = unlimited
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogPretty:    getEnvAsBool("LOG_PRETTY", true),
		Seed:         getEnvAsUint64("GROUPREP_SEED", 0),
		Format:       strings.ToLower(getEnv("GROUPREP_FORMAT", "text")),
		TrainSamples: getEnvAsInt("GROUPREP_TRAIN_SAMPLES", 3),
		CheckSamples: getEnvAsInt("GROUPREP_CHECK_SAMPLES", 1000),
		Optimizer: OptimizerConfig{
			StepSize:       getEnvAsFloat("GROUPREP_STEP_SIZE", 1.7),
			Population:     getEnvAsInt("GROUPREP_POPULATION", 0),
			MaxEvaluations: getEnvAsInt("GROUPREP_MAX_EVALUATIONS", 20000),
			MaxIterations:  getEnvAsInt("GROUPREP_MAX_ITERATIONS", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every setting is usable
func (c *Config) Validate() error {
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid output format %q (want text, json or msgpack)", c.Format)
	}
	if c.TrainSamples <= 0 {
		return fmt.Errorf("train samples must be positive, got %d", c.TrainSamples)
	}
	if c.CheckSamples <= 0 {
		return fmt.Errorf("check samples must be positive, got %d", c.CheckSamples)
	}
	if c.Optimizer.StepSize <= 0 {
		return fmt.Errorf("step size must be positive, got %v", c.Optimizer.StepSize)
	}
	if c.Optimizer.Population < 0 {
		return fmt.Errorf("population must not be negative, got %d", c.Optimizer.Population)
	}
	if c.Optimizer.MaxEvaluations <= 0 {
		return fmt.Errorf("max evaluations must be positive, got %d", c.Optimizer.MaxEvaluations)
	}
	if c.Optimizer.MaxIterations < 0 {
		return fmt.Errorf("max iterations must not be negative, got %d", c.Optimizer.MaxIterations)
	}
	return nil
}

// ResolveSeed fixes a clock-derived seed when none was configured and
// returns the seed in use.
func (c *Config) ResolveSeed() uint64 {
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	return c.Seed
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintVal, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
