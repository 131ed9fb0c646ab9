// Package storage materializes FreeStoragePointer constants into concrete
// Literal values before code generation runs. Argument resolution assumes
// this pass has already executed; reaching codegen with an unmaterialized
// pointer is the fatal StoragePointersNotDerived case.
//
// Slots are assigned in ascending order of constant declaration, as
// consecutive slot numbers starting at storage slot 0, skipping slots
// already claimed by a
// Literal constant so free pointers never alias an explicit literal slot
// a programmer chose.
package storage

import (
	"math/big"

	"github.com/huffgo/huffc/internal/ast"
)

// DeriveStoragePointers rewrites every FreeStoragePointer constant in
// contract.Constants to a Literal holding its assigned slot, in place.
// Constants that are already Literal are left untouched and their value
// (if it parses as a plain integer) reserves that slot so a free pointer
// never collides with it.
func DeriveStoragePointers(contract *ast.Contract) {
	taken := map[string]bool{}
	for _, c := range contract.Constants {
		if !c.Value.IsFreeStoragePointer {
			taken[new(big.Int).SetBytes(c.Value.Literal[:]).String()] = true
		}
	}

	next := big.NewInt(0)
	for _, c := range contract.Constants {
		if !c.Value.IsFreeStoragePointer {
			continue
		}
		for taken[next.String()] {
			next.Add(next, big.NewInt(1))
		}
		taken[next.String()] = true

		var slot [32]byte
		next.FillBytes(slot[:])
		c.Value = ast.ConstVal{Literal: slot}
		next.Add(next, big.NewInt(1))
	}
}
