package builtins

import (
	"fmt"

	"github.com/lambdaclass/cairo-vm-core/pkg/vm/memory"
)

// BitwiseInputNotFeltError is returned when a bitwise segment cell
// that must hold a Felt instead holds a Relocatable.
type BitwiseInputNotFeltError struct {
	Addr memory.Relocatable
}

func (e *BitwiseInputNotFeltError) Error() string {
	return fmt.Sprintf("bitwise input at %+v must be a Felt", e.Addr)
}
