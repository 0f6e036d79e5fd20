package classifier

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/paperpack/paperpack/pkg/types"
)

// TierPatterns declares the patterns belonging to one tier.
type TierPatterns struct {
	Tier     types.Tier
	Patterns []string
}

// rule is a single compiled pattern bound to a tier.
type rule struct {
	tier types.Tier
	re   *regexp.Regexp
}

// Ruleset is an immutable, ordered set of tier classification rules.
// Construct once, share freely; classification is a pure function.
type Ruleset struct {
	rules []rule
}

// NewRuleset compiles pattern groups into a ruleset. Groups are ordered by
// ascending tier; within a tier, patterns keep their declared order.
func NewRuleset(groups []TierPatterns) (*Ruleset, error) {
	sorted := make([]TierPatterns, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tier < sorted[j].Tier })

	rs := &Ruleset{}
	for _, g := range sorted {
		if g.Tier < 0 || g.Tier >= types.TierUnranked {
			return nil, fmt.Errorf("tier %d out of range", int(g.Tier))
		}
		for _, p := range g.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q for tier %d: %w", p, int(g.Tier), err)
			}
			rs.rules = append(rs.rules, rule{tier: g.Tier, re: re})
		}
	}
	return rs, nil
}

// MustRuleset compiles pattern groups and panics on error. Intended for
// package-level preset tables.
func MustRuleset(groups []TierPatterns) *Ruleset {
	rs, err := NewRuleset(groups)
	if err != nil {
		panic(err)
	}
	return rs
}

// Classify returns the lowest-numbered tier whose pattern set matches the
// name, or types.TierUnranked if nothing matches.
func (rs *Ruleset) Classify(name string) types.Tier {
	for _, r := range rs.rules {
		if r.re.MatchString(name) {
			return r.tier
		}
	}
	return types.TierUnranked
}

// defaultFileGroups mirrors the file-priority table for ML research
// codebases: modeling files first, config and attention next, layer and
// embedding modules after, training and utility code last. Go spellings
// sit in the same tiers as their Python counterparts.
var defaultFileGroups = []TierPatterns{
	{Tier: 0, Patterns: []string{`modeling_.*\.py$`, `models?\.(py|go)$`}},
	{Tier: 1, Patterns: []string{`config.*\.(py|go)$`, `attention.*\.py$`, `transformer.*\.(py|go)$`}},
	{Tier: 2, Patterns: []string{`layers?\.(py|go)$`, `modules?\.(py|go)$`, `embeddings?\.(py|go)$`}},
	{Tier: 3, Patterns: []string{`train.*\.(py|go)$`, `.*_utils?\.(py|go)$`, `utils\.(py|go)$`}},
}

var defaultFileRules = MustRuleset(defaultFileGroups)

// DefaultFileRules returns the built-in file classification ruleset.
func DefaultFileRules() *Ruleset {
	return defaultFileRules
}
