package codegen

import (
	"github.com/huffgo/huffc/internal/ast"
	"github.com/huffgo/huffc/internal/huffErrors"
	"github.com/huffgo/huffc/internal/opcodes"
)

// Arg Call Bubbling
//
// Resolves argName to the bytes that must be emitted at the current
// position, first-match-wins, strictly left to right:
//
//  1. Constant: argName names a ConstantDefinition.
//  2. Opcode: argName parses as an opcode mnemonic.
//  3. Parameter substitution: argName names a parameter of def, and the
//     top invocation's corresponding argument is a Literal, an ArgCall
//     (bubble further), or an Ident (emit a label placeholder).
//  4. Ambient label: anything else falls through to a forward label
//     reference.
//
// !! IF THERE IS AMBIGUOUS NOMENCLATURE
// !! (E.G. BOTH OPCODE AND LABEL ARE THE SAME STRING)
// !! COMPILATION WILL NOT ERROR -- the first matching rung wins silently.
func BubbleArgCall(argName string, s *State, def *ast.MacroDefinition, scope []*ast.MacroDefinition, mis []ast.InvocationFrame) error {
	for _, c := range s.Contract.Constants {
		if c.Name != argName {
			continue
		}
		if c.Value.IsFreeStoragePointer {
			return huffErrors.New(huffErrors.StoragePointersNotDerived, c.Span)
		}
		s.emit(opcodes.EncodePush(c.Value.Literal))
		return nil
	}

	if op, ok := opcodes.ResolveOpcode(argName); ok {
		s.emit([]byte{byte(op)})
		return nil
	}

	if len(mis) > 0 {
		top := mis[len(mis)-1]
		pos, found := findParam(def, argName)
		if found {
			if pos >= len(top.Invocation.Args) {
				s.Logger.Warnf("%q found in macro %q definition but not in macro invocation", argName, def.Name)
				return nil
			}
			return bubbleFoundArg(argName, top.Invocation.Args[pos], s, def, scope, mis, top)
		}
		// argName isn't one of def's parameters either: falls through to
		// the ambient-label rung below, same as an empty invocation stack.
	}

	s.pushAmbientLabel(argName, mis)
	return nil
}

func bubbleFoundArg(argName string, arg ast.MacroArg, s *State, def *ast.MacroDefinition, scope []*ast.MacroDefinition, mis []ast.InvocationFrame, top ast.InvocationFrame) error {
	switch arg.Kind {
	case ast.ArgLiteral:
		s.emit(opcodes.EncodePush(arg.Literal))
		return nil

	case ast.ArgCallKind:
		if len(mis) == 0 {
			return huffErrors.NewNamed(huffErrors.MissingMacroInvocation, def.Name, top.Invocation.Span)
		}
		if len(scope) == 0 {
			return huffErrors.NewNamed(huffErrors.MissingMacroInvocation, def.Name, top.Invocation.Span)
		}

		var newScope []*ast.MacroDefinition
		var outerDef *ast.MacroDefinition
		if len(scope) <= 1 {
			// Scope depth less than invocation-stack depth: reuse the
			// last scope frame as the outer def without further popping.
			newScope = scope
			outerDef = scope[len(scope)-1]
		} else {
			newScope = scope[:len(scope)-1]
			outerDef = newScope[len(newScope)-1]
		}

		newMis := mis
		if top.Invocation.MacroName == def.Name {
			newMis = mis[:len(mis)-1]
		}
		return BubbleArgCall(arg.Name, s, outerDef, newScope, newMis)

	case ast.ArgIdent:
		site := s.Offset
		s.emit(opcodes.EncodePush2Placeholder())
		s.owners[site] = top.Index
		s.JumpTable[site] = append(s.JumpTable[site], ast.Jump{Label: arg.Name, Span: top.Invocation.Span})
		return nil

	default:
		return huffErrors.New(huffErrors.UnknownArgcallType, top.Invocation.Span)
	}
}

// pushAmbientLabel emits rung 4 of the resolution ladder: a PUSH2
// placeholder whose label is recorded against the invocation context
// currently executing (or the root context if none), to be resolved by
// the Jump Linker once every macro has been expanded.
func (s *State) pushAmbientLabel(name string, mis []ast.InvocationFrame) {
	site := s.Offset
	var span ast.AstSpan
	idx := currentIndex(mis)
	if len(mis) > 0 {
		span = mis[len(mis)-1].Invocation.Span
	}
	s.emit(opcodes.EncodePush2Placeholder())
	s.owners[site] = idx
	s.JumpTable[site] = append(s.JumpTable[site], ast.Jump{Label: name, Span: span})
}
