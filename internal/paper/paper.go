package paper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paperpack/paperpack/internal/classifier"
	"github.com/paperpack/paperpack/internal/manifest"
	"github.com/paperpack/paperpack/internal/packer"
	"github.com/paperpack/paperpack/pkg/types"
)

// Pipeline chunks paper documents: section scan, tier classification,
// budget packing, manifest emission.
type Pipeline struct {
	tiers classifier.SectionTiers
}

// New creates a Pipeline with the default section keyword table.
func New() *Pipeline {
	return &Pipeline{tiers: classifier.DefaultSectionTiers()}
}

// NewWithTiers creates a Pipeline with an injected keyword table.
func NewWithTiers(tiers classifier.SectionTiers) *Pipeline {
	return &Pipeline{tiers: tiers}
}

// Result is the output of one paper run.
type Result struct {
	Units    []types.Unit
	Chunks   []types.Chunk
	Manifest *types.Manifest
	Warnings []types.Warning
}

// Run extracts sections from the document and packs them. Configuration
// errors (bad budget or order) are fatal and returned before any
// processing. An empty document still completes with an empty manifest
// in the result, alongside types.ErrNoInputs.
func (p *Pipeline) Run(doc types.RawInput, opts packer.Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}
	inputs := 0
	if strings.TrimSpace(doc.Content) != "" {
		res.Units = ExtractSections(doc, p.tiers)
		inputs = 1
	}

	chunks, err := packer.Pack(res.Units, opts)
	if err != nil {
		return nil, err
	}
	res.Chunks = chunks
	res.Manifest = manifest.Emit(Stem(doc.ID), inputs, chunks, res.Warnings)
	if inputs == 0 {
		// Valid empty manifest plus a distinguishable sentinel
		return res, types.ErrNoInputs
	}
	return res, nil
}

// ReadDocument loads a paper from disk. PDFs go through text extraction;
// anything else is treated as plain text.
func ReadDocument(path string) (types.RawInput, error) {
	var content string
	var err error

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		content, err = ExtractPDFText(path)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		content = string(data)
	}
	if err != nil {
		return types.RawInput{}, fmt.Errorf("failed to read document: %w", err)
	}

	return types.RawInput{ID: filepath.Base(path), Content: content, Size: len(content)}, nil
}

// Stem strips the extension from a document identifier for use in output
// names: "arxiv_2505.22596.pdf" -> "arxiv_2505.22596".
func Stem(id string) string {
	base := filepath.Base(id)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
