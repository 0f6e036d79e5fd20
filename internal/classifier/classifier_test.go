package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperpack/paperpack/pkg/types"
)

func TestDefaultFileRules(t *testing.T) {
	rules := DefaultFileRules()

	tests := []struct {
		name string
		want types.Tier
	}{
		{"modeling_bert.py", 0},
		{"model.py", 0},
		{"models.go", 0},
		{"config.py", 1},
		{"configuration_bert.py", 1},
		{"attention_flash.py", 1},
		{"transformer.go", 1},
		{"layers.py", 2},
		{"embeddings.py", 2},
		{"module.go", 2},
		{"train_loop.py", 3},
		{"random_util.py", 3},
		{"data_utils.py", 3},
		{"utils.go", 3},
		{"README.md", types.TierUnranked},
		{"setup.cfg", types.TierUnranked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Classify(tt.name))
		})
	}
}

func TestClassify_FirstTierWins(t *testing.T) {
	// A name matching patterns in two tiers gets the lower tier.
	rs, err := NewRuleset([]TierPatterns{
		{Tier: 2, Patterns: []string{`config.*`}},
		{Tier: 0, Patterns: []string{`config_special\.py$`}},
	})
	require.NoError(t, err)

	assert.Equal(t, types.Tier(0), rs.Classify("config_special.py"))
	assert.Equal(t, types.Tier(2), rs.Classify("config_other.py"))
}

func TestClassify_Pure(t *testing.T) {
	rules := DefaultFileRules()
	for i := 0; i < 3; i++ {
		assert.Equal(t, types.Tier(0), rules.Classify("modeling_bert.py"))
	}
}

func TestNewRuleset_InvalidPattern(t *testing.T) {
	_, err := NewRuleset([]TierPatterns{{Tier: 0, Patterns: []string{`[`}}})
	assert.Error(t, err)
}

func TestNewRuleset_TierOutOfRange(t *testing.T) {
	_, err := NewRuleset([]TierPatterns{{Tier: types.TierUnranked, Patterns: []string{`x`}}})
	assert.Error(t, err)

	_, err = NewRuleset([]TierPatterns{{Tier: -1, Patterns: []string{`x`}}})
	assert.Error(t, err)
}
