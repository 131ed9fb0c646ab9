package ast

// Offset is a non-negative byte offset within the emitted artifact.
type Offset = int

// BytesFragment is a byte sequence emitted starting at Offset. The sorted
// concatenation of every fragment's Bytes produced during one compilation
// equals the final artifact; fragment offsets are monotone non-decreasing
// and gap-free.
type BytesFragment struct {
	Offset Offset
	Bytes  []byte
}

// Jump is an unresolved reference to a label, recorded at the site of a
// PUSH2 placeholder. BytecodeIndex is filled in by the linker; at emission
// time it is always zero.
type Jump struct {
	Label         string
	BytecodeIndex int
	Span          AstSpan
}

// JumpTable maps a placeholder site offset to the jumps that must be
// patched there. The table is append-only until linking begins; multiple
// jumps sharing one site are a degenerate case the data structure still
// admits.
type JumpTable map[Offset][]Jump

// InvocationFrame is one entry of the invocation stack: the invocation
// index assigned to this call in source order, paired with the
// MacroInvocation itself. Frames are created on entry to an invocation's
// expansion and destroyed on exit (LIFO).
type InvocationFrame struct {
	Index      int
	Invocation MacroInvocation
}
