package diagnostics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huffgo/huffc/internal/ast"
	"github.com/huffgo/huffc/internal/diagnostics"
	"github.com/huffgo/huffc/internal/huffErrors"
)

func TestFromCodegenErrorIncludesName(t *testing.T) {
	span := ast.AstSpan{{File: "main.huff", Start: 10, End: 14}}
	err := huffErrors.NewNamed(huffErrors.MissingMacroDefinition, "FOO", span)

	report := diagnostics.FromCodegenError(err)
	assert.Contains(t, report.Headline, "MissingMacroDefinition")
	assert.Contains(t, report.Headline, "FOO")
	assert.Equal(t, []string{"main.huff:10"}, report.Trail)
}

func TestFromCodegenErrorWithoutNameOmitsQuotes(t *testing.T) {
	err := huffErrors.New(huffErrors.StoragePointersNotDerived, nil)
	report := diagnostics.FromCodegenError(err)
	assert.Equal(t, "StoragePointersNotDerived", report.Headline)
	assert.Empty(t, report.Trail)
}

func TestFormatIncludesTrailLines(t *testing.T) {
	span := ast.AstSpan{{File: "a.huff", Start: 1}, {File: "a.huff", Start: 2}}
	err := huffErrors.NewNamed(huffErrors.UnmatchedJumpLabel, "done", span)
	out := diagnostics.FromCodegenError(err).Format()
	assert.Contains(t, out, "UnmatchedJumpLabel")
	assert.Contains(t, out, "a.huff:1")
	assert.Contains(t, out, "a.huff:2")
}
