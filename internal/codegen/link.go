package codegen

import (
	"github.com/huffgo/huffc/internal/ast"
	"github.com/huffgo/huffc/internal/huffErrors"
)

// Link resolves every jump recorded in s.JumpTable against the label maps
// built during expansion and returns the final, contiguous bytecode
// artifact.
//
// For every site offset in the jump table, each Jump's label is looked up
// in the label map of the invocation frame that owns the site; on a miss
// the search walks outward through the invocation-ancestor chain. The
// resolved offset is encoded as a 2-byte big-endian value and overwritten
// into the PUSH2 placeholder's payload at that site. Every placeholder is
// patched exactly once.
func (s *State) Link() ([]byte, error) {
	out, err := Concatenate(s.Fragments)
	if err != nil {
		return nil, err
	}

	for site, jumps := range s.JumpTable {
		owner := s.owners[site]
		for i := range jumps {
			resolved, ok := s.resolveLabel(owner, jumps[i].Label)
			if !ok {
				return nil, huffErrors.NewNamed(huffErrors.UnmatchedJumpLabel, jumps[i].Label, jumps[i].Span)
			}
			jumps[i].BytecodeIndex = resolved
			if site+2 >= len(out) {
				return nil, huffErrors.NewNamed(huffErrors.UnmatchedJumpLabel, jumps[i].Label, jumps[i].Span)
			}
			out[site+1] = byte(resolved >> 8)
			out[site+2] = byte(resolved)
		}
	}
	return out, nil
}

// resolveLabel searches the label map owned by invocation index idx, then
// walks outward through s.parent until the label is found or the chain is
// exhausted.
func (s *State) resolveLabel(idx int, label string) (int, bool) {
	seen := map[int]bool{}
	for {
		if seen[idx] {
			return 0, false
		}
		seen[idx] = true
		if m, ok := s.labels[idx]; ok {
			if off, ok := m[label]; ok {
				return off, true
			}
		}
		parent, ok := s.parent[idx]
		if !ok || parent < 0 {
			return 0, false
		}
		idx = parent
	}
}

// Concatenate merges a list of byte fragments produced by the Expander
// into a single contiguous artifact, verifying an offset-length
// consistency invariant: every fragment's offset plus its length equals
// the next fragment's offset.
func Concatenate(fragments []ast.BytesFragment) ([]byte, error) {
	total := 0
	for _, f := range fragments {
		if f.Offset != total {
			return nil, huffErrors.New(huffErrors.UsizeConversion, nil)
		}
		total += len(f.Bytes)
	}
	out := make([]byte, 0, total)
	for _, f := range fragments {
		out = append(out, f.Bytes...)
	}
	return out, nil
}
