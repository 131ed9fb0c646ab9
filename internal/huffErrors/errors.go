// Package huffErrors defines the structured error kinds produced by the
// code-generation core, mirroring huff_utils's CodegenErrorKind. It is
// named huffErrors, not errors, so call sites can still import the
// standard library errors package unaliased.
package huffErrors

import (
	"fmt"

	"github.com/huffgo/huffc/internal/ast"
)

// Kind is the closed set of fatal codegen error kinds.
type Kind int

const (
	// StoragePointersNotDerived means a constant's value is still an
	// unresolved storage pointer; an earlier pass (internal/storage) was
	// supposed to materialize it before codegen runs.
	StoragePointersNotDerived Kind = iota
	// MissingMacroDefinition means a required macro has no definition in
	// the contract; codegen.Compile raises it for the entry macro.
	MissingMacroDefinition
	// InvalidMacroInvocation is MissingMacroDefinition's synonym raised at
	// a different call site: the expander's lookup of an invoked macro.
	InvalidMacroInvocation
	// MissingMacroInvocation means argument bubbling needed an invocation
	// frame that did not exist.
	MissingMacroInvocation
	// MissingConstantDefinition means a constant reference could not be
	// resolved.
	MissingConstantDefinition
	// UnmatchedJumpLabel means a link-time label was not found in any
	// visible invocation frame.
	UnmatchedJumpLabel
	// UnknownArgcallType is reported verbatim when an argument's tag is
	// outside the closed union.
	UnknownArgcallType
	// UsizeConversion is reported verbatim on an out-of-range numeric
	// conversion.
	UsizeConversion
	// IOError wraps an I/O failure surfaced from outside the core.
	IOError
	// AbiGenerationFailure is reported verbatim; ABI/selector generation
	// itself lives outside this repository's scope.
	AbiGenerationFailure
)

func (k Kind) String() string {
	switch k {
	case StoragePointersNotDerived:
		return "StoragePointersNotDerived"
	case MissingMacroDefinition:
		return "MissingMacroDefinition"
	case InvalidMacroInvocation:
		return "InvalidMacroInvocation"
	case MissingMacroInvocation:
		return "MissingMacroInvocation"
	case MissingConstantDefinition:
		return "MissingConstantDefinition"
	case UnmatchedJumpLabel:
		return "UnmatchedJumpLabel"
	case UnknownArgcallType:
		return "UnknownArgcallType"
	case UsizeConversion:
		return "UsizeConversion"
	case IOError:
		return "IOError"
	case AbiGenerationFailure:
		return "AbiGenerationFailure"
	default:
		return "Unknown"
	}
}

// CodegenError is a fatal error raised by the code-generation core. Name
// carries the offending identifier (macro, constant, or label name) where
// applicable; Span carries the AstSpan recorded on the offending constant,
// statement, invocation or jump. Codegen does not extend it with the
// spans of the enclosing invocations.
type CodegenError struct {
	Kind Kind
	Name string
	Span ast.AstSpan
}

func (e *CodegenError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s(%q)", e.Kind, e.Name)
	}
	return e.Kind.String()
}

// New builds a CodegenError for a kind that carries no offending name.
func New(kind Kind, span ast.AstSpan) *CodegenError {
	return &CodegenError{Kind: kind, Span: span}
}

// NewNamed builds a CodegenError for a kind that carries an offending
// identifier (MissingMacroDefinition, InvalidMacroInvocation,
// MissingMacroInvocation, MissingConstantDefinition).
func NewNamed(kind Kind, name string, span ast.AstSpan) *CodegenError {
	return &CodegenError{Kind: kind, Name: name, Span: span}
}
