// Package config provides configuration management for the reduction
// engine CLI.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Reduce    ReduceConfig    `mapstructure:"reduce"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

// ReduceConfig holds reduction-engine defaults. The batch worker count
// lives in BatchConfig.MaxWorkers.
type ReduceConfig struct {
	DefaultMethod     string  `mapstructure:"default_method"`
	DefaultThreshold  float64 `mapstructure:"default_threshold"`
	SectionSize       int     `mapstructure:"section_size"`        // default section length
	DynamicArrayBlock int     `mapstructure:"dynamic_array_block"` // default growth block
}

// BatchConfig holds the batch-reduction CLI subcommand's worker pool
// configuration.
type BatchConfig struct {
	MaxWorkers    int `mapstructure:"max_workers"`
	TaskBatchSize int `mapstructure:"task_batch_size"`
}

// TelemetryConfig holds tracing configuration.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// LogConfig holds logging configuration. Level is not read by the CLI:
// the --log-level flag (default "info") sets the level; OutputPath empty
// (the default) logs to
// stdout, otherwise a file at that path is opened in append mode; Format
// "text" uses the stdlib-backed StdLogger, anything else the structured
// DefaultLogger.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json or text
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/greduce")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw content (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("reduce.default_method", "DRG")
	v.SetDefault("reduce.default_threshold", 0.01)
	v.SetDefault("reduce.section_size", 1024)
	v.SetDefault("reduce.dynamic_array_block", 64)

	v.SetDefault("batch.max_workers", 8)
	v.SetDefault("batch.task_batch_size", 10)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "greduce")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Reduce.DefaultMethod {
	case "DRG", "DRGEP", "PFA":
	default:
		return fmt.Errorf("unsupported reduction method: %s", c.Reduce.DefaultMethod)
	}

	if c.Batch.MaxWorkers < 1 {
		return fmt.Errorf("max workers must be at least 1")
	}
	if c.Reduce.SectionSize < 1 {
		return fmt.Errorf("section size must be at least 1")
	}
	if c.Reduce.DynamicArrayBlock < 1 {
		return fmt.Errorf("dynamic array block must be at least 1")
	}

	return nil
}
