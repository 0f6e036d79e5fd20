package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paperpack/paperpack/pkg/types"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Abstract", "abstract"},
		{"3. Experiments", "experiments"},
		{"3.1 Ablation Studies", "ablation"},
		{"## Related Work", "related"},
		{"7 Conclusion", "conclusion"},
		{"Acknowledgements.", "acknowledgements"},
		{"   Method:  ", "method"},
		{"", ""},
		{"4.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLabel(tt.in))
		})
	}
}

func TestSectionTiers_Classify(t *testing.T) {
	tiers := DefaultSectionTiers()

	tests := []struct {
		heading string
		want    types.Tier
	}{
		{"Abstract", 0},
		{"7 Conclusion", 0},
		{"4. Method", 1},
		{"3. Experiments", 1},
		{"5 Results", 1},
		{"1. Introduction", 2},
		{"2. Related Work", 2},
		{"Appendix A", 3},
		{"References", 4},
		// Unrecognized lead keyword defaults to the mid tier, not the
		// lowest: uncertainty, not irrelevance.
		{"Experimental Results", SectionDefaultTier},
		{"Some Strange Heading", SectionDefaultTier},
	}

	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			assert.Equal(t, tt.want, tiers.Classify(tt.heading))
		})
	}
}

func TestSectionTiers_DefaultCopyIsIsolated(t *testing.T) {
	a := DefaultSectionTiers()
	a["abstract"] = 3

	b := DefaultSectionTiers()
	assert.Equal(t, types.Tier(0), b["abstract"])
}
