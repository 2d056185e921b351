// Package config loads and validates packdex configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Corpus, Index, Logging, Metrics).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Corpus  CorpusConfig  `yaml:"corpus"`
	Index   IndexConfig   `yaml:"index"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// CorpusConfig controls which files the corpus builder reads and how many
// of them are tokenized concurrently.
type CorpusConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	Workers  int      `yaml:"workers"`
}

// IndexConfig holds the compressed index location and the front-coding
// block size used when building it.
type IndexConfig struct {
	Dir       string `yaml:"dir"`
	BlockSize int    `yaml:"blockSize"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the optional Prometheus metrics server started
// alongside the interactive shell.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				applyEnvOverrides(cfg)
				return cfg, nil
			}
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if cfg.Index.BlockSize < 1 {
		return nil, fmt.Errorf("index.blockSize must be >= 1, got %d", cfg.Index.BlockSize)
	}
	return cfg, nil
}

// defaultConfig returns a Config with defaults matching the legacy layout:
// plain-text corpus files, the index in ./index, front-coding blocks of 8.
func defaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Includes: []string{"**/*.txt"},
			Excludes: []string{},
			Workers:  4,
		},
		Index: IndexConfig{
			Dir:       "index",
			BlockSize: 8,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads PD_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PD_CORPUS_INCLUDES"); v != "" {
		cfg.Corpus.Includes = strings.Split(v, ",")
	}
	if v := os.Getenv("PD_CORPUS_EXCLUDES"); v != "" {
		cfg.Corpus.Excludes = strings.Split(v, ",")
	}
	if v := os.Getenv("PD_CORPUS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Corpus.Workers = n
		}
	}
	if v := os.Getenv("PD_INDEX_DIR"); v != "" {
		cfg.Index.Dir = v
	}
	if v := os.Getenv("PD_INDEX_BLOCKSIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Index.BlockSize = n
		}
	}
	if v := os.Getenv("PD_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PD_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("PD_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v := os.Getenv("PD_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
