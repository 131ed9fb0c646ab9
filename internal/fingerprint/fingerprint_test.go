package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huffgo/huffc/internal/ast"
	"github.com/huffgo/huffc/internal/fingerprint"
)

func contractWith(entry string, macros map[string]*ast.MacroDefinition) *ast.Contract {
	return &ast.Contract{Macros: macros, Entry: entry}
}

func TestOfIsStableAcrossMapIterationOrder(t *testing.T) {
	macros := map[string]*ast.MacroDefinition{
		"MAIN": {Name: "MAIN", Body: []ast.BodyStatement{{Kind: ast.StmtOpcode, Opcode: "STOP"}}},
		"AUX":  {Name: "AUX", Body: []ast.BodyStatement{{Kind: ast.StmtOpcode, Opcode: "POP"}}},
	}
	a := fingerprint.Of(contractWith("MAIN", macros))
	b := fingerprint.Of(contractWith("MAIN", macros))
	assert.Equal(t, a, b)
}

func TestOfChangesWhenBodyChanges(t *testing.T) {
	base := contractWith("MAIN", map[string]*ast.MacroDefinition{
		"MAIN": {Name: "MAIN", Body: []ast.BodyStatement{{Kind: ast.StmtOpcode, Opcode: "STOP"}}},
	})
	changed := contractWith("MAIN", map[string]*ast.MacroDefinition{
		"MAIN": {Name: "MAIN", Body: []ast.BodyStatement{{Kind: ast.StmtOpcode, Opcode: "ADD"}}},
	})

	require.NotEqual(t, fingerprint.Of(base), fingerprint.Of(changed))
}

func TestOfChangesWhenEntryChanges(t *testing.T) {
	macros := map[string]*ast.MacroDefinition{
		"MAIN": {Name: "MAIN"},
		"OTHER": {Name: "OTHER"},
	}
	a := fingerprint.Of(contractWith("MAIN", macros))
	b := fingerprint.Of(contractWith("OTHER", macros))
	assert.NotEqual(t, a, b)
}
