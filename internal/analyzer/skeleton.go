package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paperpack/paperpack/pkg/types"
)

// Skeleton renders a structure-only view of an analyzed tree: the file
// list with tier markers, then declaration signatures grouped by tier.
// Implementations are omitted.
func Skeleton(files []FileInfo) string {
	var b strings.Builder
	b.WriteString("# Code Structure Skeleton\n\n")

	b.WriteString("## File Tree\n```\n")
	for _, f := range files {
		marker := ""
		if f.Tier != types.TierUnranked {
			marker = fmt.Sprintf("[%s] ", f.Tier.Label())
		}
		fmt.Fprintf(&b, "%s%s (%d lines)\n", marker, f.Path, f.TotalLines)
	}
	b.WriteString("```\n\n")

	b.WriteString("## Signatures by Tier\n")

	sorted := make([]FileInfo, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Tier.Before(sorted[j].Tier)
	})

	current := types.Tier(-1)
	for _, f := range sorted {
		if f.Tier != current {
			current = f.Tier
			fmt.Fprintf(&b, "\n### %s\n", tierHeading(current))
		}
		if len(f.Units) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n#### `%s`\n```go\n", f.Path)
		for _, u := range f.Units {
			writeUnitSignature(&b, &u)
		}
		b.WriteString("```\n")
	}
	return b.String()
}

func tierHeading(t types.Tier) string {
	if t == types.TierUnranked {
		return "Unranked"
	}
	return fmt.Sprintf("Tier %d", t)
}

func writeUnitSignature(b *strings.Builder, u *types.Unit) {
	switch u.Kind {
	case types.KindType:
		if len(u.Bases) > 0 {
			fmt.Fprintf(b, "type %s (embeds %s)\n", u.Name, strings.Join(u.Bases, ", "))
		} else {
			fmt.Fprintf(b, "type %s\n", u.Name)
		}
		for _, m := range u.Members {
			fmt.Fprintf(b, "    %s\n", m)
		}
		b.WriteString("\n")
	case types.KindFunction, types.KindMethod:
		fmt.Fprintf(b, "func %s(...)\n", u.Name)
	case types.KindValue:
		fmt.Fprintf(b, "%s\n", u.Name)
	}
}
