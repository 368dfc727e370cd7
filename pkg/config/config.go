// Package config loads the pipeline's YAML configuration file, mirroring
// the teacher's pkg/config/config.go: typed sections, a DefaultConfig,
// os.ExpandEnv pre-processing on Load, and a Validate pass.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document for the rcv-report CLI.
type Config struct {
	Directories DirectoriesConfig `yaml:"directories"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// DirectoriesConfig locates the four directories the pipeline reads from
// and writes to, per spec §6's directory layout.
type DirectoriesConfig struct {
	MetaDir         string `yaml:"meta_dir"`
	RawDir          string `yaml:"raw_dir"`
	ReportDir       string `yaml:"report_dir"`
	PreprocessedDir string `yaml:"preprocessed_dir"`
}

// PipelineConfig controls orchestrator scheduling and cache behavior.
type PipelineConfig struct {
	MaxConcurrentJurisdictions int  `yaml:"max_concurrent_jurisdictions"`
	ForcePreprocess            bool `yaml:"force_preprocess"`
	ForceReport                bool `yaml:"force_report"`
}

// LoggingConfig controls the structured logger's verbosity and encoding.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a configuration with sensible defaults for
// running against a local data directory.
func DefaultConfig() *Config {
	return &Config{
		Directories: DirectoriesConfig{
			MetaDir:         "./data/meta",
			RawDir:          "./data/raw",
			ReportDir:       "./data/reports",
			PreprocessedDir: "./data/preprocessed",
		},
		Pipeline: PipelineConfig{
			MaxConcurrentJurisdictions: runtime.NumCPU(),
			ForcePreprocess:            false,
			ForceReport:                false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML configuration file at path, overlaying it onto
// DefaultConfig. A missing path is not an error: Load returns the
// defaults unchanged, the same as the teacher's Load behaves when no
// config.yaml is present.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = "config.yaml"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is complete enough to run a
// pipeline report.
func (c *Config) Validate() error {
	if c.Directories.MetaDir == "" {
		return fmt.Errorf("directories.meta_dir is required")
	}
	if c.Directories.RawDir == "" {
		return fmt.Errorf("directories.raw_dir is required")
	}
	if c.Directories.ReportDir == "" {
		return fmt.Errorf("directories.report_dir is required")
	}
	if c.Directories.PreprocessedDir == "" {
		return fmt.Errorf("directories.preprocessed_dir is required")
	}
	if c.Pipeline.MaxConcurrentJurisdictions < 1 {
		return fmt.Errorf("pipeline.max_concurrent_jurisdictions must be at least 1")
	}
	return nil
}
