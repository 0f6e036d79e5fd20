package types

import "time"

// ChunkDescriptor summarizes one chunk for the manifest, in chunk order.
type ChunkDescriptor struct {
	Index       int      `json:"index"`
	Tier        string   `json:"tier"`
	MemberNames []string `json:"memberNames"`
	Tokens      int      `json:"tokens"`
	OutputID    string   `json:"outputId"`
}

// Manifest is the summary record describing all chunks produced by a run.
// It is plain data; serialization and persistence belong to collaborators.
type Manifest struct {
	RunID       string    `json:"runId"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generatedAt"`

	TotalInputs int `json:"totalInputs"`
	TotalChunks int `json:"totalChunks"`

	// Histogram keyed by tier label ("P0", "P1", ..., "unranked")
	TierDistribution map[string]int `json:"tierDistribution"`

	Chunks []ChunkDescriptor `json:"chunks"`

	// Skipped-input warnings accumulated during the run
	Warnings []string `json:"warnings,omitempty"`
}

// Empty reports whether the run produced no chunks. An empty manifest is a
// valid outcome, distinct from an error.
func (m *Manifest) Empty() bool {
	return m.TotalChunks == 0
}
