// Package artifact consumes the Expander's ordered fragment list and
// jump table and produces the final contiguous bytecode plus an
// auxiliary source map. Hex formatting, pretty-printing, and packaging
// are out of scope; this package only builds the map data a serializer
// would need.
package artifact

import (
	"sort"

	"github.com/huffgo/huffc/internal/ast"
)

// SourceMapEntry ties one PUSH2 placeholder site in the final artifact to
// the label referenced there. Build fills Offset and Label only;
// InvocationName is left empty.
type SourceMapEntry struct {
	Offset         int
	InvocationName string
	Label          string
}

// Artifact is the final compiled output: the contiguous bytecode and its
// source map, ordered by offset.
type Artifact struct {
	Bytecode  []byte
	SourceMap []SourceMapEntry
}

// Build assembles an Artifact from a linked bytecode sequence and the
// resolved jump table. jumps must already have BytecodeIndex filled in by
// codegen.State.Link.
func Build(bytecode []byte, jumpTable ast.JumpTable) *Artifact {
	entries := make([]SourceMapEntry, 0, len(jumpTable))
	for offset, jumps := range jumpTable {
		for _, j := range jumps {
			entries = append(entries, SourceMapEntry{Offset: offset, Label: j.Label})
		}
	}
	sort.SliceStable(entries, func(i, k int) bool { return entries[i].Offset < entries[k].Offset })
	return &Artifact{Bytecode: bytecode, SourceMap: entries}
}
