// Package config handles configuration loading and validation
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/paperpack/paperpack/internal/classifier"
	"github.com/paperpack/paperpack/internal/packer"
	"github.com/paperpack/paperpack/pkg/types"
)

// Default config file names to search for
var defaultConfigFiles = []string{
	".paperpack.yaml",
	".paperpack.yml",
	"paperpack.yaml",
	"paperpack.yml",
}

// DefaultBudget is the per-chunk token budget used when no config or
// flag overrides it.
const DefaultBudget = 8000

// Config is the full application configuration.
type Config struct {
	Budget       int        `yaml:"budget"`
	Order        string     `yaml:"order"`
	OutputDir    string     `yaml:"output_dir"`
	DBPath       string     `yaml:"db_path"`
	IncludeTests bool       `yaml:"include_tests"`
	Workers      int        `yaml:"workers"`
	FileRules    []RuleSpec `yaml:"file_rules"`
}

// RuleSpec is one tier's worth of file classification patterns as
// written in YAML.
type RuleSpec struct {
	Tier     int      `yaml:"tier"`
	Patterns []string `yaml:"patterns"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Budget:    DefaultBudget,
		Order:     packer.OrderPriority.String(),
		OutputDir: "paperpack-out",
		DBPath:    defaultDBPath(),
	}
}

func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "paperpack.db"
	}
	return filepath.Join(homeDir, ".paperpack", "runs.db")
}

// Load loads configuration from a specific file path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadDefault searches for a config file in the current directory, then
// falls back to built-in defaults when none exists.
func LoadDefault() (*Config, error) {
	for _, name := range defaultConfigFiles {
		if _, err := os.Stat(name); err == nil {
			return Load(name)
		}
	}
	return Default(), nil
}

// Validate checks configuration invariants before any processing starts.
func (c *Config) Validate() error {
	if c.Budget <= 0 {
		return fmt.Errorf("%w: budget must be positive, got %d", types.ErrInvalidBudget, c.Budget)
	}
	if _, err := packer.ParseOrder(c.Order); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if len(c.FileRules) > 0 {
		if _, err := c.Ruleset(); err != nil {
			return err
		}
	}
	return nil
}

// PackOrder returns the parsed packing order. Call Validate first.
func (c *Config) PackOrder() packer.Order {
	order, _ := packer.ParseOrder(c.Order)
	return order
}

// Ruleset compiles the configured file rules, or returns the built-in
// default when none are configured.
func (c *Config) Ruleset() (*classifier.Ruleset, error) {
	if len(c.FileRules) == 0 {
		return classifier.DefaultFileRules(), nil
	}
	groups := make([]classifier.TierPatterns, 0, len(c.FileRules))
	for _, r := range c.FileRules {
		groups = append(groups, classifier.TierPatterns{
			Tier:     types.Tier(r.Tier),
			Patterns: r.Patterns,
		})
	}
	return classifier.NewRuleset(groups)
}
