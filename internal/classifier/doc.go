// Package classifier assigns priority tiers to inputs by name.
//
// Two classification schemes are provided, both pure functions over
// immutable tables injected at construction:
//
// File rules match an input's file name against ordered per-tier pattern
// sets. Tiers are tried in ascending order and the first tier with a
// matching pattern wins; unmatched names get types.TierUnranked.
//
//	rules := classifier.DefaultFileRules()
//	rules.Classify("modeling_bert.py") // 0
//	rules.Classify("random_util.py")   // 3
//	rules.Classify("README.md")        // types.TierUnranked
//
// Section tiers map a normalized paper-section heading to a tier. The
// label is normalized first (leading numbering stripped, punctuation
// removed, lowercased, collapsed to its lead keyword) and then looked up
// in a fixed keyword table. An unrecognized keyword gets a mid-range
// default tier, signalling uncertainty rather than irrelevance:
//
//	tiers := classifier.DefaultSectionTiers()
//	tiers.Classify("3. Experiments")  // 1
//	tiers.Classify("Weird Heading")   // classifier.SectionDefaultTier
//
// Neither scheme has side effects; the same name under the same tables
// always yields the same tier.
package classifier
