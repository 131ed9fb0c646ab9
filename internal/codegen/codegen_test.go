package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huffgo/huffc/internal/ast"
	"github.com/huffgo/huffc/internal/codegen"
	"github.com/huffgo/huffc/internal/huffErrors"
)

func lit(b byte) [32]byte {
	var out [32]byte
	out[31] = b
	return out
}

func argRef(name string) ast.BodyStatement {
	return ast.BodyStatement{Kind: ast.StmtArgRef, Name: name}
}

func opcode(name string) ast.BodyStatement {
	return ast.BodyStatement{Kind: ast.StmtOpcode, Opcode: name}
}

func labelDef(name string) ast.BodyStatement {
	return ast.BodyStatement{Kind: ast.StmtLabelDef, Name: name}
}

func labelRef(name string) ast.BodyStatement {
	return ast.BodyStatement{Kind: ast.StmtLabelRef, Name: name}
}

func invoke(name string, args ...ast.MacroArg) ast.BodyStatement {
	return ast.BodyStatement{Kind: ast.StmtInvoke, Invocation: ast.MacroInvocation{MacroName: name, Args: args}}
}

func compileAndLink(t *testing.T, c *ast.Contract) []byte {
	t.Helper()
	s, err := codegen.Compile(c, codegen.NopLogger{})
	require.NoError(t, err)
	out, err := s.Link()
	require.NoError(t, err)
	return out
}

// S1: constant push.
func TestConstantPush(t *testing.T) {
	c := &ast.Contract{
		Entry: "MAIN",
		Constants: []*ast.ConstantDefinition{
			{Name: "C", Value: ast.ConstVal{Literal: lit(0x2A)}},
		},
		Macros: map[string]*ast.MacroDefinition{
			"MAIN": {Name: "MAIN", Body: []ast.BodyStatement{argRef("C")}},
		},
	}
	out := compileAndLink(t, c)
	assert.Equal(t, []byte{0x60, 0x2A}, out)
}

// S2: opcode.
func TestOpcode(t *testing.T) {
	c := &ast.Contract{
		Entry:  "MAIN",
		Macros: map[string]*ast.MacroDefinition{"MAIN": {Name: "MAIN", Body: []ast.BodyStatement{opcode("ADD")}}},
	}
	out := compileAndLink(t, c)
	assert.Equal(t, []byte{0x01}, out)
}

// S3: literal-arg substitution.
func TestLiteralArgSubstitution(t *testing.T) {
	c := &ast.Contract{
		Entry: "MAIN",
		Macros: map[string]*ast.MacroDefinition{
			"MAIN": {Name: "MAIN", Body: []ast.BodyStatement{invoke("M", ast.MacroArg{Kind: ast.ArgLiteral, Literal: lit(0x10)})}},
			"M":    {Name: "M", Parameters: []ast.Parameter{{Name: "x"}}, Body: []ast.BodyStatement{argRef("x")}},
		},
	}
	out := compileAndLink(t, c)
	assert.Equal(t, []byte{0x60, 0x10}, out)
}

// S4: two-level bubbling.
func TestTwoLevelBubbling(t *testing.T) {
	c := &ast.Contract{
		Entry: "MAIN",
		Macros: map[string]*ast.MacroDefinition{
			"MAIN": {Name: "MAIN", Body: []ast.BodyStatement{invoke("A", ast.MacroArg{Kind: ast.ArgLiteral, Literal: lit(0xFF)})}},
			"A": {
				Name:       "A",
				Parameters: []ast.Parameter{{Name: "x"}},
				Body:       []ast.BodyStatement{invoke("B", ast.MacroArg{Kind: ast.ArgCallKind, Name: "x"})},
			},
			"B": {Name: "B", Parameters: []ast.Parameter{{Name: "y"}}, Body: []ast.BodyStatement{argRef("y")}},
		},
	}
	out := compileAndLink(t, c)
	assert.Equal(t, []byte{0x60, 0xFF}, out)
}

// S5: label reference.
func TestLabelReference(t *testing.T) {
	c := &ast.Contract{
		Entry: "MAIN",
		Macros: map[string]*ast.MacroDefinition{
			"MAIN": {Name: "MAIN", Body: []ast.BodyStatement{labelRef("here"), labelDef("here")}},
		},
	}
	out := compileAndLink(t, c)
	assert.Equal(t, []byte{0x61, 0x00, 0x03, 0x5B}, out)
}

// S6: unresolved storage pointer is fatal.
func TestUnresolvedStoragePointer(t *testing.T) {
	c := &ast.Contract{
		Entry: "MAIN",
		Constants: []*ast.ConstantDefinition{
			{Name: "SLOT", Value: ast.ConstVal{IsFreeStoragePointer: true}},
		},
		Macros: map[string]*ast.MacroDefinition{
			"MAIN": {Name: "MAIN", Body: []ast.BodyStatement{argRef("SLOT")}},
		},
	}
	_, err := codegen.Compile(c, codegen.NopLogger{})
	require.Error(t, err)
	var ce *huffErrors.CodegenError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, huffErrors.StoragePointersNotDerived, ce.Kind)
}

// Resolution ladder priority: constant wins over opcode when a name is
// simultaneously both. This is a documented sharp edge of the ladder,
// not a bug -- it must not be "fixed" by either side of the ladder.
func TestResolutionLadderConstantBeatsOpcode(t *testing.T) {
	c := &ast.Contract{
		Entry: "MAIN",
		Constants: []*ast.ConstantDefinition{
			{Name: "ADD", Value: ast.ConstVal{Literal: lit(0x07)}},
		},
		Macros: map[string]*ast.MacroDefinition{
			"MAIN": {Name: "MAIN", Body: []ast.BodyStatement{argRef("ADD")}},
		},
	}
	out := compileAndLink(t, c)
	// Had opcode resolution won, this would be a single 0x01 byte.
	assert.Equal(t, []byte{0x60, 0x07}, out)
}

func TestInvokingUndefinedMacroIsFatal(t *testing.T) {
	c := &ast.Contract{
		Entry:  "MAIN",
		Macros: map[string]*ast.MacroDefinition{"MAIN": {Name: "MAIN", Body: []ast.BodyStatement{invoke("GHOST")}}},
	}
	_, err := codegen.Compile(c, codegen.NopLogger{})
	require.Error(t, err)
	var ce *huffErrors.CodegenError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, huffErrors.InvalidMacroInvocation, ce.Kind)
}

func TestMissingConstantDefinition(t *testing.T) {
	c := &ast.Contract{
		Entry:  "MAIN",
		Macros: map[string]*ast.MacroDefinition{"MAIN": {Name: "MAIN", Body: []ast.BodyStatement{{Kind: ast.StmtConstRef, Name: "NOPE"}}}},
	}
	_, err := codegen.Compile(c, codegen.NopLogger{})
	require.Error(t, err)
	var ce *huffErrors.CodegenError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, huffErrors.MissingConstantDefinition, ce.Kind)
}

func TestUnmatchedJumpLabel(t *testing.T) {
	c := &ast.Contract{
		Entry:  "MAIN",
		Macros: map[string]*ast.MacroDefinition{"MAIN": {Name: "MAIN", Body: []ast.BodyStatement{labelRef("nowhere")}}},
	}
	s, err := codegen.Compile(c, codegen.NopLogger{})
	require.NoError(t, err)
	_, err = s.Link()
	require.Error(t, err)
	var ce *huffErrors.CodegenError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, huffErrors.UnmatchedJumpLabel, ce.Kind)
}

// Parameter found in the definition but missing from the invocation's
// argument list emits no bytes and only warns.
func TestMissingInvocationArgumentWarnsAndEmitsNothing(t *testing.T) {
	var warned []string
	logger := warnRecorder{warned: &warned}
	c := &ast.Contract{
		Entry: "MAIN",
		Macros: map[string]*ast.MacroDefinition{
			"MAIN": {Name: "MAIN", Body: []ast.BodyStatement{invoke("M")}},
			"M":    {Name: "M", Parameters: []ast.Parameter{{Name: "x"}}, Body: []ast.BodyStatement{argRef("x"), opcode("STOP")}},
		},
	}
	s, err := codegen.Compile(c, logger)
	require.NoError(t, err)
	out, err := s.Link()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, out) // only STOP, argRef("x") emitted nothing
	assert.Len(t, warned, 1)
}

type warnRecorder struct {
	warned *[]string
}

func (w warnRecorder) Warnf(format string, args ...interface{}) {
	*w.warned = append(*w.warned, format)
}

// Determinism: recompiling the same contract byte-for-byte matches.
func TestDeterminism(t *testing.T) {
	build := func() *ast.Contract {
		return &ast.Contract{
			Entry: "MAIN",
			Constants: []*ast.ConstantDefinition{
				{Name: "C", Value: ast.ConstVal{Literal: lit(0x2A)}},
			},
			Macros: map[string]*ast.MacroDefinition{
				"MAIN": {Name: "MAIN", Body: []ast.BodyStatement{argRef("C"), labelRef("end"), labelDef("end")}},
			},
		}
	}
	out1 := compileAndLink(t, build())
	out2 := compileAndLink(t, build())
	assert.Equal(t, out1, out2)
}
