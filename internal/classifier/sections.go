package classifier

import (
	"regexp"
	"strings"

	"github.com/paperpack/paperpack/pkg/types"
)

// SectionDefaultTier is assigned to section headings whose lead keyword is
// not in the table. Mid-range rather than lowest: an unrecognized section
// is uncertain, not irrelevant.
const SectionDefaultTier types.Tier = 2

// SectionTiers maps normalized lead keywords to tiers.
type SectionTiers map[string]types.Tier

// defaultSectionTiers ranks the canonical paper sections: abstract and
// conclusion carry the paper's claims, method and results the substance,
// surrounding discussion next, back matter last.
var defaultSectionTiers = SectionTiers{
	"abstract":         0,
	"conclusion":       0,
	"conclusions":      0,
	"summary":          0,
	"method":           1,
	"methodology":      1,
	"methods":          1,
	"approach":         1,
	"framework":        1,
	"experiment":       1,
	"experiments":      1,
	"results":          1,
	"evaluation":       1,
	"introduction":     2,
	"related":          2,
	"background":       2,
	"discussion":       2,
	"analysis":         2,
	"ablation":         2,
	"ablations":        2,
	"appendix":         3,
	"supplementary":    3,
	"references":       4,
	"acknowledgments":  4,
	"acknowledgements": 4,
}

// DefaultSectionTiers returns a copy of the built-in section keyword table.
func DefaultSectionTiers() SectionTiers {
	out := make(SectionTiers, len(defaultSectionTiers))
	for k, v := range defaultSectionTiers {
		out[k] = v
	}
	return out
}

var (
	leadingNumberRe = regexp.MustCompile(`^(?:#{1,3}\s*)?(?:[0-9]+(?:\.[0-9]+)*\.?\s*)?`)
	punctuationRe   = regexp.MustCompile(`[^\w\s]`)
)

// NormalizeLabel reduces a section heading to its lead keyword: leading
// markdown markers and numbering stripped, punctuation removed, lowercased,
// collapsed to the first word. "3. Experimental Results" -> "experimental".
func NormalizeLabel(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = leadingNumberRe.ReplaceAllString(s, "")
	s = punctuationRe.ReplaceAllString(s, "")
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Classify normalizes the heading and looks up its lead keyword,
// defaulting to SectionDefaultTier when unrecognized.
func (t SectionTiers) Classify(label string) types.Tier {
	if tier, ok := t[NormalizeLabel(label)]; ok {
		return tier
	}
	return SectionDefaultTier
}
