package analyzer

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/paperpack/paperpack/internal/classifier"
	"github.com/paperpack/paperpack/internal/manifest"
	"github.com/paperpack/paperpack/internal/packer"
	"github.com/paperpack/paperpack/internal/parser"
	"github.com/paperpack/paperpack/pkg/types"
)

// Config contains configuration for one analysis run.
type Config struct {
	Budget       int          // maximum size estimate per chunk, in tokens
	Order        packer.Order // packing order; priority-first by default
	IncludeTests bool         // whether to keep *_test.go files
	Workers      int          // concurrent extraction workers (default NumCPU)
	Targets      []string     // restrict units to these declaration names
}

// Statistics summarizes an analysis run.
type Statistics struct {
	FilesParsed    int
	FilesSkipped   int
	FilesFailed    int
	UnitsExtracted int
	ChunksCreated  int
	Duration       time.Duration
}

// FileInfo describes one parsed file for the skeleton view.
type FileInfo struct {
	Path        string
	Tier        types.Tier
	PackageName string
	Imports     []string
	Units       []types.Unit
	TotalLines  int
}

// Result is the output of one analysis run.
type Result struct {
	Files    []FileInfo
	Units    []types.Unit
	Chunks   []types.Chunk
	Manifest *types.Manifest
	Warnings []types.Warning
	Stats    Statistics
}

// Analyzer runs the code pipeline with an injected classification ruleset.
type Analyzer struct {
	extractor *parser.Extractor
	rules     *classifier.Ruleset
}

// New creates an Analyzer with the default file classification rules.
func New() *Analyzer {
	return NewWithRules(classifier.DefaultFileRules())
}

// NewWithRules creates an Analyzer with an injected ruleset.
func NewWithRules(rules *classifier.Ruleset) *Analyzer {
	return &Analyzer{extractor: parser.New(), rules: rules}
}

// AnalyzeDir walks a source tree and produces chunks plus a manifest.
// Configuration errors are fatal and surface before any file is read.
// A tree with no eligible files still yields a result with a valid empty
// manifest, alongside types.ErrNoInputs.
func (a *Analyzer) AnalyzeDir(ctx context.Context, root string, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	opts := packer.Options{Budget: cfg.Budget, Order: cfg.Order}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	targets, err := targetSet(cfg.Targets)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	res := &Result{}

	files, skipped, err := a.discoverFiles(root, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	res.Stats.FilesSkipped = skipped

	// Parallel extraction; slots keep canonical walk order
	slots := make([]*FileInfo, len(files))
	warnSlots := make([][]types.Warning, len(files))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			info, warns := a.extractOne(root, rel)
			mu.Lock()
			slots[i] = info
			warnSlots[i] = warns
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range slots {
		res.Warnings = append(res.Warnings, warnSlots[i]...)
		info := slots[i]
		if info == nil {
			res.Stats.FilesFailed++
			continue
		}
		res.Stats.FilesParsed++
		res.Files = append(res.Files, *info)
		for _, u := range info.Units {
			if len(targets) > 0 {
				if _, ok := targets[u.Name]; !ok {
					continue
				}
			}
			res.Units = append(res.Units, u)
		}
	}
	res.Stats.UnitsExtracted = len(res.Units)

	chunks, err := packer.Pack(res.Units, opts)
	if err != nil {
		return nil, err
	}
	res.Chunks = chunks
	res.Stats.ChunksCreated = len(chunks)
	res.Manifest = manifest.Emit(filepath.Base(root), res.Stats.FilesParsed, chunks, res.Warnings)
	res.Stats.Duration = time.Since(start)

	// The run still completes with a valid empty manifest; the sentinel
	// lets callers tell "nothing to process" from "trivial output"
	if len(files) == 0 {
		return res, types.ErrNoInputs
	}
	return res, nil
}

// extractOne classifies and parses a single file. A nil FileInfo means
// the file failed and contributed only warnings.
func (a *Analyzer) extractOne(root, rel string) (*FileInfo, []types.Warning) {
	tier := a.rules.Classify(filepath.Base(rel))

	pres, err := a.extractor.ExtractFile(filepath.Join(root, rel), tier)
	if err != nil {
		return nil, []types.Warning{{Kind: types.WarnRead, Input: rel, Message: err.Error()}}
	}

	// Re-home spans and sources onto the relative path
	units := make([]types.Unit, len(pres.Units))
	for i, u := range pres.Units {
		u.Source = rel
		units[i] = u
	}
	warns := make([]types.Warning, len(pres.Warnings))
	for i, w := range pres.Warnings {
		w.Input = rel
		warns[i] = w
	}

	if len(units) == 0 && len(warns) > 0 {
		// Nothing salvaged from a broken file
		return nil, warns
	}

	return &FileInfo{
		Path:        rel,
		Tier:        tier,
		PackageName: pres.PackageName,
		Imports:     pres.Imports,
		Units:       units,
		TotalLines:  pres.TotalLines,
	}, warns
}

// discoverFiles returns relative paths of Go files in deterministic
// lexical walk order, and the count of skip-filtered files.
func (a *Analyzer) discoverFiles(root string, cfg *Config) ([]string, int, error) {
	var files []string
	skipped := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || d.Name() == "vendor" || d.Name() == "testdata" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if cfg.IncludeTests && strings.HasSuffix(rel, "_test.go") {
			files = append(files, rel)
			return nil
		}
		if parser.ShouldSkip(rel) {
			skipped++
			return nil
		}
		files = append(files, rel)
		return nil
	})
	return files, skipped, err
}

// targetSet validates and normalizes a targeted-extraction spec.
func targetSet(targets []string) (map[string]struct{}, error) {
	if len(targets) == 0 {
		return nil, nil
	}
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		name := strings.TrimSpace(t)
		if name == "" {
			return nil, fmt.Errorf("%w: empty target name", types.ErrInvalidTarget)
		}
		set[name] = struct{}{}
	}
	return set, nil
}
