package vm

import (
	"github.com/lambdaclass/cairo-vm-core/pkg/parser"
	"github.com/lambdaclass/cairo-vm-core/pkg/vm/memory"
)

// Program is a compiled Cairo program: its bytecode as a flat sequence
// of SegmentValues (instructions are Felts, literals may be either),
// the builtins it declares using, and its debug symbol table.
type Program struct {
	Data        []memory.MaybeRelocatable
	Builtins    []string
	Identifiers *map[string]parser.Identifier
}
