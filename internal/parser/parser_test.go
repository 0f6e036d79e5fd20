package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperpack/paperpack/pkg/types"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractFile_SimpleFunction(t *testing.T) {
	path := writeTestFile(t, "model.go", `package model

import "fmt"

// Forward runs one forward pass.
func Forward(x []float64) []float64 {
	fmt.Println(len(x))
	return x
}
`)

	e := New()
	res, err := e.ExtractFile(path, 0)
	require.NoError(t, err)
	require.Len(t, res.Units, 1)

	u := res.Units[0]
	assert.Equal(t, "Forward", u.Name)
	assert.Equal(t, types.KindFunction, u.Kind)
	assert.Equal(t, types.Tier(0), u.Tier)
	assert.Equal(t, "Forward runs one forward pass.", u.Desc)
	assert.Contains(t, u.Content, "fmt.Println")
	assert.Greater(t, u.Tokens, 0)
	assert.LessOrEqual(t, u.StartLine, u.EndLine)
	assert.Equal(t, "model", res.PackageName)
	assert.Equal(t, []string{`import "fmt"`}, res.Imports)
}

func TestExtractFile_StructAbsorbsMethods(t *testing.T) {
	path := writeTestFile(t, "attention.go", `package model

// Attention is a multi-head attention block.
type Attention struct {
	Base
	Heads int
}

func (a *Attention) Forward(q, k, v []float64) []float64 {
	return q
}

func (a *Attention) Reset() {
	a.Heads = 0
}

// Standalone is not a method.
func Standalone() {}
`)

	e := New()
	res, err := e.ExtractFile(path, 1)
	require.NoError(t, err)

	// Methods are absorbed: only the container and the free function are
	// top level.
	require.Len(t, res.Units, 2)

	att := res.Units[0]
	assert.Equal(t, "Attention", att.Name)
	assert.Equal(t, types.KindType, att.Kind)
	assert.Equal(t, []string{"Base"}, att.Bases)
	assert.Equal(t, []string{"Forward(q []float64, k []float64, v []float64)", "Reset()"}, att.Members)
	require.Len(t, att.Children, 2)
	assert.Equal(t, types.KindMethod, att.Children[0].Kind)

	// Container content folds in its children
	assert.Contains(t, att.Content, "type Attention struct")
	assert.Contains(t, att.Content, "func (a *Attention) Forward")
	assert.Contains(t, att.Content, "func (a *Attention) Reset")

	assert.Equal(t, "Standalone", res.Units[1].Name)
}

func TestExtractFile_MemberCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("package model\n\ntype Big struct{}\n")
	for i := 0; i < MaxMembers+3; i++ {
		fmt.Fprintf(&sb, "\nfunc (b *Big) M%02d() {}\n", i)
	}
	path := writeTestFile(t, "layers.go", sb.String())

	e := New()
	res, err := e.ExtractFile(path, 2)
	require.NoError(t, err)
	require.Len(t, res.Units, 1)

	members := res.Units[0].Members
	require.Len(t, members, MaxMembers+1)
	assert.Equal(t, "+3 more", members[MaxMembers])
}

func TestExtractFile_Interface(t *testing.T) {
	path := writeTestFile(t, "module.go", `package model

type Layer interface {
	Named
	Forward(x []float64) []float64
}
`)

	e := New()
	res, err := e.ExtractFile(path, 2)
	require.NoError(t, err)
	require.Len(t, res.Units, 1)

	u := res.Units[0]
	assert.Equal(t, types.KindType, u.Kind)
	assert.Equal(t, []string{"Named"}, u.Bases)
	assert.Equal(t, []string{"Forward(x []float64)"}, u.Members)
}

func TestExtractFile_SyntaxErrorIsWarning(t *testing.T) {
	path := writeTestFile(t, "broken.go", `package model

func Broken( {
`)

	e := New()
	res, err := e.ExtractFile(path, 3)
	require.NoError(t, err)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, types.WarnParse, res.Warnings[0].Kind)
	assert.Contains(t, res.Warnings[0].Message, "syntax error")
}

func TestExtractFile_ReadError(t *testing.T) {
	e := New()
	_, err := e.ExtractFile(filepath.Join(t.TempDir(), "missing.go"), 0)
	assert.Error(t, err)
}

func TestExtract_LongDocTruncated(t *testing.T) {
	doc := strings.Repeat("x", MaxDescLen+50)
	src := fmt.Sprintf("package model\n\n// %s\nfunc F() {}\n", doc)

	e := New()
	res, err := e.Extract("train.go", src, 3)
	require.NoError(t, err)
	require.Len(t, res.Units, 1)

	assert.Len(t, res.Units[0].Desc, MaxDescLen+3)
	assert.True(t, strings.HasSuffix(res.Units[0].Desc, "..."))
}

func TestExtract_ImportCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("package model\n\nimport (\n")
	for i := 0; i < MaxImports+2; i++ {
		fmt.Fprintf(&sb, "\t_ \"example.com/dep%02d\"\n", i)
	}
	sb.WriteString(")\n")

	e := New()
	res, err := e.Extract("utils.go", sb.String(), 3)
	require.NoError(t, err)

	require.Len(t, res.Imports, MaxImports+1)
	assert.Equal(t, "+2 more", res.Imports[MaxImports])
}

func TestShouldSkip(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"model_test.go", true},
		{"internal/doc.go", true},
		{"api.pb.go", true},
		{"vendor/dep/dep.go", true},
		{".hidden/file.go", true},
		{"modeling_bert.go", false},
		{"config.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldSkip(tt.path))
		})
	}
}
