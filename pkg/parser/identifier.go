// Package parser models the pieces of a compiled Cairo program a
// runner needs beyond the raw bytecode: the symbol table entries the
// compiler emits for functions, labels, constants and structs.
package parser

import "github.com/lambdaclass/cairo-vm-core/pkg/lambdaworks"

// Identifier is one entry of a compiled program's debug symbol table,
// keyed by its fully qualified name (e.g. "__main__.main").
type Identifier struct {
	Type        string
	PC          *uint
	Value       *lambdaworks.Felt
	FullName    string
	References  []Reference
	CairoType   string
	Destination string
	Size        *uint
}

// Reference is a single resolved occurrence of a label or constant
// within a function's instructions, tagged with the ap tracking state
// needed to resolve it relative to the current frame.
type Reference struct {
	PC          uint
	Value       string
	ApTrackingGroup uint
	ApTrackingOffset uint
}
