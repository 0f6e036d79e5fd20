package packer

import (
	"fmt"
	"strings"

	"github.com/paperpack/paperpack/pkg/types"
)

// splitUnit slices an oversized unit into sequential fragments at
// paragraph boundaries, falling back to line boundaries for a paragraph
// that alone exceeds the budget. A single line with no smaller split point
// is forced through as the irreducible remainder. Concatenating the
// fragments' contents reproduces the unit's content byte for byte.
func splitUnit(u types.Unit, budget int) []types.Unit {
	pieces := splitText(u.Content, budget)
	if len(pieces) <= 1 {
		// No split point below the budget: force the unit through whole
		return []types.Unit{u}
	}
	frags := make([]types.Unit, 0, len(pieces))

	line := u.StartLine
	for i, piece := range pieces {
		newlines := strings.Count(piece, "\n")
		end := line + newlines
		if strings.HasSuffix(piece, "\n") {
			end--
		}
		if end < line {
			end = line
		}

		frag := types.Unit{
			Name:      fmt.Sprintf("%s (part %d/%d)", u.Name, i+1, len(pieces)),
			Kind:      u.Kind,
			Source:    u.Source,
			Content:   piece,
			Desc:      u.Desc,
			Tier:      u.Tier,
			StartLine: line,
			EndLine:   end,
		}
		frag.ComputeTokens()
		frags = append(frags, frag)

		line = end + 1
		if !strings.HasSuffix(piece, "\n") {
			line = end
		}
	}
	return frags
}

// splitText packs paragraphs greedily into pieces of at most budget
// tokens. Separators stay attached to the preceding paragraph so that
// concatenation is lossless.
func splitText(text string, budget int) []string {
	var pieces []string
	var cur strings.Builder
	curTokens := 0

	emit := func() {
		if cur.Len() > 0 {
			pieces = append(pieces, cur.String())
			cur.Reset()
			curTokens = 0
		}
	}

	for _, para := range splitAfterAll(text, "\n\n") {
		paraTokens := types.EstimateTokens(para)

		if paraTokens > budget {
			// Paragraph alone exceeds the budget: fall back to lines
			emit()
			for _, ln := range splitAfterAll(para, "\n") {
				lnTokens := types.EstimateTokens(ln)
				if lnTokens > budget {
					// Irreducible: no split point below the budget
					emit()
					pieces = append(pieces, ln)
					continue
				}
				if curTokens+lnTokens > budget {
					emit()
				}
				cur.WriteString(ln)
				curTokens += lnTokens
			}
			emit()
			continue
		}

		if curTokens+paraTokens > budget {
			emit()
		}
		cur.WriteString(para)
		curTokens += paraTokens
	}
	emit()

	return pieces
}

// splitAfterAll splits text after each occurrence of sep, keeping the
// separator attached and dropping a trailing empty element.
func splitAfterAll(text, sep string) []string {
	parts := strings.SplitAfter(text, sep)
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	return parts
}
