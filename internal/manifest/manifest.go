// Package manifest aggregates a chunk sequence into a run summary.
//
// Emission is pure: no chunk is omitted or reordered relative to the
// packer's output, and nothing is persisted here. Serialization and
// storage belong to external collaborators.
package manifest

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paperpack/paperpack/pkg/types"
)

// Emit builds the manifest for a completed packing run. source identifies
// the run's input (directory or document stem); inputs is the number of
// raw inputs that entered the pipeline. A run with zero chunks yields a
// valid manifest with zero totals.
func Emit(source string, inputs int, chunks []types.Chunk, warnings []types.Warning) *types.Manifest {
	m := &types.Manifest{
		RunID:            uuid.NewString(),
		Source:           source,
		GeneratedAt:      time.Now().UTC(),
		TotalInputs:      inputs,
		TotalChunks:      len(chunks),
		TierDistribution: make(map[string]int),
		Chunks:           make([]types.ChunkDescriptor, 0, len(chunks)),
	}

	for i := range chunks {
		c := &chunks[i]
		m.TierDistribution[c.Tier.Label()]++
		m.Chunks = append(m.Chunks, types.ChunkDescriptor{
			Index:       c.Index,
			Tier:        c.Tier.Label(),
			MemberNames: c.MemberNames(),
			Tokens:      c.Tokens,
			OutputID:    OutputID(source, c),
		})
	}

	for _, w := range warnings {
		m.Warnings = append(m.Warnings, w.String())
	}
	return m
}

// OutputID derives the stable output identifier for a chunk, used as the
// written file name: "<source>_chunk00_P1.md".
func OutputID(source string, c *types.Chunk) string {
	return fmt.Sprintf("%s_chunk%02d_%s.md", source, c.Index, c.Tier.Label())
}
