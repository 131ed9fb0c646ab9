// Package fingerprint computes a stable content hash over a parsed
// Contract, used as the artifact-cache key (internal/cache) so an
// unchanged source tree never pays for recompilation.
//
// crypto/sha256 is used directly rather than through a third-party
// hashing library: hashing a compiler's own IR for a cache key is a
// narrow, stdlib-shaped concern with no ecosystem library to reach for
// (database drivers, caches, and transports don't cover hash functions),
// so this one function is the stdlib-justified exception. See DESIGN.md.
package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"

	"github.com/huffgo/huffc/internal/ast"
)

// Of returns the hex-encoded SHA-256 fingerprint of contract: every macro
// definition and constant definition contributes its name, parameters,
// body, and value, in a name-sorted, therefore map-iteration-order
// independent, sequence.
func Of(contract *ast.Contract) string {
	h := sha256.New()

	names := make([]string, 0, len(contract.Macros))
	for name := range contract.Macros {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := contract.Macros[name]
		writeString(h, "macro:"+def.Name)
		for _, p := range def.Parameters {
			writeString(h, "param:"+p.Name)
		}
		for _, stmt := range def.Body {
			writeStatement(h, stmt)
		}
	}

	constants := append([]*ast.ConstantDefinition(nil), contract.Constants...)
	sort.Slice(constants, func(i, j int) bool { return constants[i].Name < constants[j].Name })
	for _, c := range constants {
		writeString(h, "const:"+c.Name)
		if c.Value.IsFreeStoragePointer {
			writeString(h, "fsp")
		} else {
			h.Write(c.Value.Literal[:])
		}
	}

	writeString(h, "entry:"+contract.Entry)
	return hex.EncodeToString(h.Sum(nil))
}

func writeStatement(h interface{ Write([]byte) (int, error) }, stmt ast.BodyStatement) {
	var kind [4]byte
	binary.BigEndian.PutUint32(kind[:], uint32(stmt.Kind))
	h.Write(kind[:])
	writeString(h, stmt.Opcode)
	writeString(h, stmt.Name)
	h.Write(stmt.Literal[:])
	if stmt.Kind == ast.StmtInvoke {
		writeString(h, stmt.Invocation.MacroName)
		for _, a := range stmt.Invocation.Args {
			var k [4]byte
			binary.BigEndian.PutUint32(k[:], uint32(a.Kind))
			h.Write(k[:])
			writeString(h, a.Name)
			h.Write(a.Literal[:])
		}
	}
}

func writeString(h interface{ Write([]byte) (int, error) }, s string) {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(s)))
	h.Write(l[:])
	h.Write([]byte(s))
}
