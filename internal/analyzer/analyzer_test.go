package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperpack/paperpack/internal/packer"
	"github.com/paperpack/paperpack/pkg/types"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestAnalyzeDir(t *testing.T) {
	root := writeTree(t, map[string]string{
		"model.go": `package m

// Model holds learned parameters.
type Model struct{}

func (m *Model) Forward(x []float64) []float64 { return x }
`,
		"config.go": `package m

// Config controls model construction.
type Config struct {
	Hidden int
}
`,
		"utils.go": `package m

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
`,
	})

	a := New()
	res, err := a.AnalyzeDir(context.Background(), root, &Config{Budget: 4000})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Stats.FilesParsed)
	assert.Equal(t, 0, res.Stats.FilesFailed)
	assert.Equal(t, 3, res.Stats.UnitsExtracted)
	assert.NotEmpty(t, res.Chunks)
	require.NotNil(t, res.Manifest)
	assert.Equal(t, filepath.Base(root), res.Manifest.Source)
	assert.Equal(t, 3, res.Manifest.TotalInputs)

	// Deterministic lexical walk order
	var paths []string
	for _, f := range res.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"config.go", "model.go", "utils.go"}, paths)

	// Tiers follow the file name rules
	byPath := make(map[string]types.Tier)
	for _, f := range res.Files {
		byPath[f.Path] = f.Tier
	}
	assert.Equal(t, types.Tier(0), byPath["model.go"])
	assert.Equal(t, types.Tier(1), byPath["config.go"])
	assert.Equal(t, types.Tier(3), byPath["utils.go"])
}

func TestAnalyzeDirPriorityOrder(t *testing.T) {
	root := writeTree(t, map[string]string{
		"aaa_helpers.go": "package m\n\nfunc helper() {}\n",
		"model.go":       "package m\n\ntype Model struct{}\n",
	})

	a := New()
	res, err := a.AnalyzeDir(context.Background(), root, &Config{
		Budget: 50,
		Order:  packer.OrderPriority,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Chunks)

	// The tier-0 model unit packs ahead of the unranked helper despite
	// coming later in walk order.
	assert.Equal(t, types.Tier(0), res.Chunks[0].Tier)
	assert.Equal(t, "Model", res.Chunks[0].Members[0].Name)
}

func TestAnalyzeDirSkipsTestsAndVendor(t *testing.T) {
	root := writeTree(t, map[string]string{
		"model.go":          "package m\n\ntype Model struct{}\n",
		"model_test.go":     "package m\n\nfunc helper() {}\n",
		"vendor/dep/dep.go": "package dep\n\nfunc Dep() {}\n",
		".hidden/x.go":      "package x\n\nfunc X() {}\n",
		"readme.md":         "not go\n",
	})

	a := New()
	res, err := a.AnalyzeDir(context.Background(), root, &Config{Budget: 4000})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Stats.FilesParsed)
	assert.Equal(t, 1, res.Stats.FilesSkipped) // model_test.go
	require.Len(t, res.Files, 1)
	assert.Equal(t, "model.go", res.Files[0].Path)
}

func TestAnalyzeDirIncludeTests(t *testing.T) {
	root := writeTree(t, map[string]string{
		"model.go":      "package m\n\ntype Model struct{}\n",
		"model_test.go": "package m\n\nfunc TestModel() {}\n",
	})

	a := New()
	res, err := a.AnalyzeDir(context.Background(), root, &Config{
		Budget:       4000,
		IncludeTests: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stats.FilesParsed)
	assert.Equal(t, 0, res.Stats.FilesSkipped)
}

func TestAnalyzeDirTargets(t *testing.T) {
	root := writeTree(t, map[string]string{
		"model.go": `package m

type Model struct{}

type Trainer struct{}

func Helper() {}
`,
	})

	a := New()
	res, err := a.AnalyzeDir(context.Background(), root, &Config{
		Budget:  4000,
		Targets: []string{"Model", "Helper"},
	})
	require.NoError(t, err)

	require.Len(t, res.Units, 2)
	assert.Equal(t, "Model", res.Units[0].Name)
	assert.Equal(t, "Helper", res.Units[1].Name)
}

func TestAnalyzeDirEmptyTargetName(t *testing.T) {
	root := writeTree(t, map[string]string{
		"model.go": "package m\n\ntype Model struct{}\n",
	})

	a := New()
	_, err := a.AnalyzeDir(context.Background(), root, &Config{
		Budget:  4000,
		Targets: []string{"Model", "  "},
	})
	assert.ErrorIs(t, err, types.ErrInvalidTarget)
}

func TestAnalyzeDirInvalidBudget(t *testing.T) {
	a := New()
	_, err := a.AnalyzeDir(context.Background(), t.TempDir(), &Config{Budget: 0})
	assert.ErrorIs(t, err, types.ErrInvalidBudget)
}

func TestAnalyzeDirSyntaxErrorIsWarning(t *testing.T) {
	root := writeTree(t, map[string]string{
		"model.go":  "package m\n\ntype Model struct{}\n",
		"broken.go": "package m\n\nfunc {{{\n",
	})

	a := New()
	res, err := a.AnalyzeDir(context.Background(), root, &Config{Budget: 4000})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Warnings)
	assert.Equal(t, 1, res.Stats.FilesFailed)
	assert.Equal(t, 1, res.Stats.FilesParsed)
}

func TestAnalyzeDirEmptyTree(t *testing.T) {
	a := New()
	res, err := a.AnalyzeDir(context.Background(), t.TempDir(), &Config{Budget: 4000})
	assert.ErrorIs(t, err, types.ErrNoInputs)

	// The run still completes with a valid empty manifest
	require.NotNil(t, res)
	assert.Empty(t, res.Chunks)
	require.NotNil(t, res.Manifest)
	assert.Equal(t, 0, res.Manifest.TotalChunks)
}

func TestAnalyzeDirCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{
		"model.go": "package m\n\ntype Model struct{}\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New()
	_, err := a.AnalyzeDir(ctx, root, &Config{Budget: 4000})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSkeleton(t *testing.T) {
	root := writeTree(t, map[string]string{
		"model.go": `package m

type Model struct{}

func (m *Model) Forward(x []float64) []float64 { return x }
`,
		"scratch.go": "package m\n\nfunc scratch() {}\n",
	})

	a := New()
	res, err := a.AnalyzeDir(context.Background(), root, &Config{Budget: 4000})
	require.NoError(t, err)

	out := Skeleton(res.Files)
	assert.Contains(t, out, "# Code Structure Skeleton")
	assert.Contains(t, out, "[P0] model.go")
	assert.Contains(t, out, "### Tier 0")
	assert.Contains(t, out, "### Unranked")
	assert.Contains(t, out, "type Model")
	assert.Contains(t, out, "Forward(")
	assert.NotContains(t, out, "return x")

	// Unranked files carry no tier marker in the tree listing
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "scratch.go") && strings.Contains(line, "lines") {
			assert.False(t, strings.HasPrefix(line, "["))
		}
	}
}
