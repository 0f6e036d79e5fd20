package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperpack/paperpack/internal/packer"
	"github.com/paperpack/paperpack/pkg/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paperpack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
budget: 4000
order: natural
output_dir: out
include_tests: true
workers: 2
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Budget)
	assert.Equal(t, packer.OrderNatural, cfg.PackOrder())
	assert.Equal(t, "out", cfg.OutputDir)
	assert.True(t, cfg.IncludeTests)
	assert.Equal(t, 2, cfg.Workers)
	// Unset fields keep their defaults
	assert.Equal(t, Default().DBPath, cfg.DBPath)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "output_dir: custom\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultBudget, cfg.Budget)
	assert.Equal(t, packer.OrderPriority, cfg.PackOrder())
	assert.Equal(t, "custom", cfg.OutputDir)
}

func TestLoadInvalidBudget(t *testing.T) {
	path := writeConfig(t, "budget: -5\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, types.ErrInvalidBudget)
}

func TestLoadInvalidOrder(t *testing.T) {
	path := writeConfig(t, "order: sideways\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, types.ErrInvalidOrder)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "budget: [not a number\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestCustomFileRules(t *testing.T) {
	path := writeConfig(t, `
file_rules:
  - tier: 0
    patterns: ["core\\.go$"]
  - tier: 2
    patterns: ["helpers?\\.go$"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	rules, err := cfg.Ruleset()
	require.NoError(t, err)
	assert.Equal(t, types.Tier(0), rules.Classify("core.go"))
	assert.Equal(t, types.Tier(2), rules.Classify("helpers.go"))
	assert.Equal(t, types.TierUnranked, rules.Classify("main.go"))
}

func TestInvalidFileRulePattern(t *testing.T) {
	path := writeConfig(t, `
file_rules:
  - tier: 0
    patterns: ["[unclosed"]
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultRulesetWhenUnconfigured(t *testing.T) {
	cfg := Default()
	rules, err := cfg.Ruleset()
	require.NoError(t, err)
	assert.Equal(t, types.Tier(0), rules.Classify("modeling_bert.py"))
}
