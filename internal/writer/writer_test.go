package writer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperpack/paperpack/internal/manifest"
	"github.com/paperpack/paperpack/internal/packer"
	"github.com/paperpack/paperpack/pkg/types"
)

func packedRun(t *testing.T) (*types.Manifest, []types.Chunk) {
	t.Helper()
	units := []types.Unit{
		{Name: "Model", Kind: types.KindType, Source: "model.go", Tier: 0, StartLine: 1, EndLine: 1, Content: "type Model struct{}"},
		{Name: "helper", Kind: types.KindFunction, Source: "util.go", Tier: types.TierUnranked, StartLine: 1, EndLine: 1, Content: "func helper() {}"},
	}
	for i := range units {
		units[i].ComputeTokens()
	}
	chunks, err := packer.Pack(units, packer.Options{Budget: 1000})
	require.NoError(t, err)
	return manifest.Emit("demo", len(units), chunks, nil), chunks
}

func TestWriteRun(t *testing.T) {
	m, chunks := packedRun(t)
	dir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, New(dir).WriteRun(m, chunks))

	// Every descriptor has a file on disk
	for _, desc := range m.Chunks {
		data, err := os.ReadFile(filepath.Join(dir, desc.OutputID))
		require.NoError(t, err)
		assert.Contains(t, string(data), "# Tier: "+desc.Tier)
		for _, name := range desc.MemberNames {
			assert.Contains(t, string(data), name)
		}
	}

	// Manifest round-trips
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	var got types.Manifest
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, m.RunID, got.RunID)
	assert.Equal(t, m.TotalChunks, got.TotalChunks)
	assert.Equal(t, m.TierDistribution, got.TierDistribution)
}

func TestWriteRunMismatch(t *testing.T) {
	m, chunks := packedRun(t)
	err := New(t.TempDir()).WriteRun(m, chunks[:0])
	assert.Error(t, err)
}

func TestWriteRunRejectsInvalidChunk(t *testing.T) {
	m, chunks := packedRun(t)
	chunks[0].Members = nil
	dir := filepath.Join(t.TempDir(), "out")

	err := New(dir).WriteRun(m, chunks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk 0")
	assert.NoDirExists(t, dir)
}

func TestRenderHeader(t *testing.T) {
	_, chunks := packedRun(t)
	require.NotEmpty(t, chunks)

	out := Render(&chunks[0])
	assert.Contains(t, out, "# Chunk 1/")
	assert.Contains(t, out, "# Tokens: ~")
	assert.Contains(t, out, "type Model struct{}")
}
