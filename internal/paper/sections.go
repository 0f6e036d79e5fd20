package paper

import (
	"regexp"
	"strings"

	"github.com/paperpack/paperpack/internal/classifier"
	"github.com/paperpack/paperpack/pkg/types"
)

// MaxHeadingLen is the length cap for heading candidates. Longer lines are
// never section boundaries, even when they start with a recognized
// keyword; this avoids mis-detecting body-text sentences.
const MaxHeadingLen = 100

// headingPatterns covers the canonical paper section names, in order.
var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:#{1,3}\s*)?(?:\d+(?:\.\d+)*\.?\s+)?(Abstract|Introduction|Related\s+Work|Background)\b`),
	regexp.MustCompile(`(?i)^(?:#{1,3}\s*)?(?:\d+(?:\.\d+)*\.?\s+)?(Method(?:olog(?:y|ies))?s?|Approach|(?:Proposed\s+)?(?:Framework|Model))\b`),
	regexp.MustCompile(`(?i)^(?:#{1,3}\s*)?(?:\d+(?:\.\d+)*\.?\s+)?(Experiment(?:s|al)?(?:\s+(?:Setup|Results))?|Results|Evaluation)\b`),
	regexp.MustCompile(`(?i)^(?:#{1,3}\s*)?(?:\d+(?:\.\d+)*\.?\s+)?(Discussion|Analysis|Ablation(?:\s+Stud(?:y|ies))?)\b`),
	regexp.MustCompile(`(?i)^(?:#{1,3}\s*)?(?:\d+(?:\.\d+)*\.?\s+)?(Conclusions?|Summary|Future\s+Work)\b`),
	regexp.MustCompile(`(?i)^(?:#{1,3}\s*)?(?:\d+(?:\.\d+)*\.?\s+)?(Appendix|Supplementary|References|Acknowledg(?:e)?ments?)\b`),
}

// IsHeading reports whether a line opens a new section.
func IsHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > MaxHeadingLen {
		return false
	}
	for _, re := range headingPatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// ExtractSections scans a document and produces ordered section units,
// each spanning from its heading to the next heading or document end. If
// no headings are detected, the whole document becomes one synthetic
// container unit for the packer's paragraph splitter to handle.
func ExtractSections(doc types.RawInput, tiers classifier.SectionTiers) []types.Unit {
	lines := strings.Split(doc.Content, "\n")

	var starts []int // indexes of heading lines
	for i, line := range lines {
		if IsHeading(line) {
			starts = append(starts, i)
		}
	}

	if len(starts) == 0 {
		u := types.Unit{
			Name:      "content",
			Kind:      types.KindDocument,
			Source:    doc.ID,
			Content:   doc.Content,
			Tier:      classifier.SectionDefaultTier,
			StartLine: 1,
			EndLine:   len(lines),
		}
		u.ComputeTokens()
		return []types.Unit{u}
	}

	units := make([]types.Unit, 0, len(starts))
	for i, start := range starts {
		end := len(lines)
		if i+1 < len(starts) {
			end = starts[i+1]
		}

		heading := strings.TrimSpace(lines[start])
		u := types.Unit{
			Name:      heading,
			Kind:      types.KindSection,
			Source:    doc.ID,
			Content:   strings.Join(lines[start:end], "\n"),
			Desc:      heading,
			Tier:      tiers.Classify(heading),
			StartLine: start + 1,
			EndLine:   end,
		}
		u.ComputeTokens()
		units = append(units, u)
	}
	return units
}
