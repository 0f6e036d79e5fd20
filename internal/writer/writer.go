// Package writer persists a packing run to disk: one markdown file per
// chunk plus a manifest.json index. File names come from the manifest's
// chunk descriptors so the index and the files never disagree.
package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paperpack/paperpack/pkg/types"
)

const manifestName = "manifest.json"

// Writer emits chunk files and the manifest into a single output directory.
type Writer struct {
	dir string
}

// New creates a Writer rooted at dir. The directory is created on the
// first write, not here.
func New(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteRun writes every chunk plus the manifest. Chunks and manifest
// descriptors are matched by position; a mismatch is an error because it
// means the manifest was not emitted from these chunks. Every chunk must
// pass Validate before anything touches disk.
func (w *Writer) WriteRun(m *types.Manifest, chunks []types.Chunk) error {
	if len(m.Chunks) != len(chunks) {
		return fmt.Errorf("manifest describes %d chunks, got %d", len(m.Chunks), len(chunks))
	}
	for i := range chunks {
		if err := chunks[i].Validate(); err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for i := range chunks {
		if err := w.writeChunk(&m.Chunks[i], &chunks[i]); err != nil {
			return err
		}
	}
	return w.WriteManifest(m)
}

// WriteManifest writes manifest.json, indented for human inspection.
func (w *Writer) WriteManifest(m *types.Manifest) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(w.dir, manifestName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// writeChunk writes one chunk file under its manifest OutputID.
func (w *Writer) writeChunk(desc *types.ChunkDescriptor, c *types.Chunk) error {
	path := filepath.Join(w.dir, desc.OutputID)
	if err := os.WriteFile(path, []byte(Render(c)), 0o644); err != nil {
		return fmt.Errorf("failed to write chunk %d: %w", c.Index, err)
	}
	return nil
}

// Render produces the chunk file body: a comment header describing the
// chunk followed by the member contents.
func Render(c *types.Chunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Chunk %d/%d\n", c.Index+1, c.Total)
	fmt.Fprintf(&b, "# Tier: %s\n", c.Tier.Label())
	fmt.Fprintf(&b, "# Tokens: ~%d\n", c.Tokens)
	fmt.Fprintf(&b, "# Members: %s\n", strings.Join(c.MemberNames(), ", "))
	b.WriteString("\n")
	b.WriteString(c.Content())
	b.WriteString("\n")
	return b.String()
}
