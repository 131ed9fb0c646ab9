// Package codegen implements the Argument Resolver, Macro Expander, and
// Jump Linker: the core of the compiler. It lowers a parsed ast.Contract
// into a linear bytecode artifact.
package codegen

import (
	"github.com/huffgo/huffc/internal/ast"
)

// Logger receives non-fatal diagnostics: a parameter named in a macro
// definition but not supplied at an invocation site warns and produces
// no bytes, rather than aborting the compilation.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// NopLogger discards every warning. Useful in tests that only care about
// the emitted bytes.
type NopLogger struct{}

func (NopLogger) Warnf(string, ...interface{}) {}

// rootIndex is the reserved invocation index for code emitted outside any
// macro invocation (the entry macro's own top-level body). Real
// invocations are assigned indices starting at 1, in source order.
const rootIndex = 0

// State is the exclusively-owned, mutable working state of one in-flight
// compilation: the growing fragment list, the current offset, the jump
// table, the per-invocation label maps, and the invocation-ancestor chain
// used to scope label visibility.
//
// A State is never shared between concurrent compilations; the Contract it
// points at is read-only and may be.
type State struct {
	Contract *ast.Contract
	Logger   Logger

	Fragments []ast.BytesFragment
	Offset    ast.Offset
	JumpTable ast.JumpTable

	// owners maps a placeholder's site offset to the invocation index
	// whose label map the linker should start its ancestor-chain search
	// from. This is bookkeeping internal to codegen: ast.JumpTable itself
	// stays keyed purely by site offset -- a mapping from site offset to
	// a list of unresolved jumps -- while owners lets BubbleArgCall's
	// rung 4 record which invocation a forward label reference belongs
	// to.
	owners map[ast.Offset]int

	// labels maps invocation index -> label name -> the offset JUMPDEST
	// was recorded at. Index rootIndex holds labels defined directly in
	// the entry macro's body, outside any invocation.
	labels map[int]map[string]int

	// parent maps invocation index -> the invocation index active when it
	// was pushed (rootIndex for a top-level invocation), forming the
	// ancestor chain the linker walks outward through on lookup miss.
	parent map[int]int

	nextIndex int
}

// NewState creates the working state for one compilation of contract.
func NewState(contract *ast.Contract, logger Logger) *State {
	if logger == nil {
		logger = NopLogger{}
	}
	return &State{
		Contract:  contract,
		Logger:    logger,
		JumpTable: ast.JumpTable{},
		owners:    map[ast.Offset]int{},
		labels:    map[int]map[string]int{rootIndex: {}},
		parent:    map[int]int{rootIndex: -1},
		nextIndex: rootIndex + 1,
	}
}

func currentIndex(mis []ast.InvocationFrame) int {
	if len(mis) == 0 {
		return rootIndex
	}
	return mis[len(mis)-1].Index
}

func (s *State) emit(b []byte) {
	s.Fragments = append(s.Fragments, ast.BytesFragment{Offset: s.Offset, Bytes: b})
	s.Offset += len(b)
}

func (s *State) recordLabel(index int, name string) {
	if _, ok := s.labels[index]; !ok {
		s.labels[index] = map[string]int{}
	}
	s.labels[index][name] = s.Offset
}

func findParam(def *ast.MacroDefinition, name string) (int, bool) {
	for i, p := range def.Parameters {
		if p.Name == name {
			return i, true
		}
	}
	return -1, false
}
