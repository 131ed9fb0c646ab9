package codegen

import (
	"github.com/huffgo/huffc/internal/ast"
	"github.com/huffgo/huffc/internal/huffErrors"
	"github.com/huffgo/huffc/internal/opcodes"
)

// ExpandMacro linearizes def's body into byte fragments and jump-table
// entries, in source order. scope and mis are the parallel
// scope/invocation stacks active while expanding def; they are passed by
// value (copy-on-grow) so a statement that invokes another macro cannot
// leak its deeper frames back into def's remaining statements -- Go's
// value-slice semantics give LIFO push/pop for free, the iterative
// analogue of a two-parallel-stacks design.
func (s *State) ExpandMacro(def *ast.MacroDefinition, scope []*ast.MacroDefinition, mis []ast.InvocationFrame) error {
	for _, stmt := range def.Body {
		switch stmt.Kind {
		case ast.StmtOpcode:
			op, ok := opcodes.ResolveOpcode(stmt.Opcode)
			if !ok {
				return huffErrors.NewNamed(huffErrors.UnknownArgcallType, stmt.Opcode, stmt.Span)
			}
			s.emit([]byte{byte(op)})

		case ast.StmtLiteralPush:
			s.emit(opcodes.EncodePush(stmt.Literal))

		case ast.StmtLabelDef:
			s.recordLabel(currentIndex(mis), stmt.Name)
			s.emit([]byte{byte(opcodes.JUMPDEST)})

		case ast.StmtLabelRef:
			// Delegates straight to rung 4 of the resolver, bypassing the
			// constant/opcode/parameter rungs.
			s.pushAmbientLabel(stmt.Name, mis)

		case ast.StmtConstRef:
			if err := s.expandConstRef(stmt); err != nil {
				return err
			}

		case ast.StmtArgRef:
			if err := BubbleArgCall(stmt.Name, s, def, scope, mis); err != nil {
				return err
			}

		case ast.StmtInvoke:
			if err := s.expandInvocation(stmt.Invocation, scope, mis); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *State) expandConstRef(stmt ast.BodyStatement) error {
	for _, c := range s.Contract.Constants {
		if c.Name != stmt.Name {
			continue
		}
		if c.Value.IsFreeStoragePointer {
			return huffErrors.New(huffErrors.StoragePointersNotDerived, c.Span)
		}
		s.emit(opcodes.EncodePush(c.Value.Literal))
		return nil
	}
	return huffErrors.NewNamed(huffErrors.MissingConstantDefinition, stmt.Name, stmt.Span)
}

// expandInvocation looks up the target macro, pushes an invocation frame
// and scope frame, recursively expands the target's body, and
// (implicitly, via Go's value-slice semantics) pops both frames on
// return.
func (s *State) expandInvocation(mi ast.MacroInvocation, scope []*ast.MacroDefinition, mis []ast.InvocationFrame) error {
	target, ok := s.Contract.Macros[mi.MacroName]
	if !ok {
		return huffErrors.NewNamed(huffErrors.InvalidMacroInvocation, mi.MacroName, mi.Span)
	}

	idx := s.nextIndex
	s.nextIndex++
	s.parent[idx] = currentIndex(mis)
	if _, ok := s.labels[idx]; !ok {
		s.labels[idx] = map[string]int{}
	}

	newMis := make([]ast.InvocationFrame, len(mis), len(mis)+1)
	copy(newMis, mis)
	newMis = append(newMis, ast.InvocationFrame{Index: idx, Invocation: mi})

	newScope := make([]*ast.MacroDefinition, len(scope), len(scope)+1)
	copy(newScope, scope)
	newScope = append(newScope, target)

	return s.ExpandMacro(target, newScope, newMis)
}

// Compile runs the Macro Expander over contract's entry macro and returns
// the resulting fragments and jump table, ready for Link.
func Compile(contract *ast.Contract, logger Logger) (*State, error) {
	entry, ok := contract.Macros[contract.Entry]
	if !ok {
		return nil, huffErrors.NewNamed(huffErrors.MissingMacroDefinition, contract.Entry, nil)
	}
	s := NewState(contract, logger)
	if err := s.ExpandMacro(entry, []*ast.MacroDefinition{entry}, nil); err != nil {
		return nil, err
	}
	return s, nil
}
