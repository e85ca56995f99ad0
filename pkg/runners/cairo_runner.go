// Package runners assembles a compiled Program and a VirtualMachine
// into a runnable program: laying out segments, seeding the builtins a
// program declares, and driving steps to completion. It is the only
// layer in this module allowed to log, since it is where a host
// application's operator-facing concerns (progress, failures) live.
package runners

import (
	"fmt"
	"log/slog"

	"github.com/lambdaclass/cairo-vm-core/pkg/builtins"
	"github.com/lambdaclass/cairo-vm-core/pkg/vm"
	"github.com/lambdaclass/cairo-vm-core/pkg/vm/memory"
)

// builtinFactories maps a program's declared builtin names to
// constructors. Builtin segments are laid out in the order the program
// declares its builtins, not in any order of this map.
var builtinFactories = map[string]func(included bool) builtins.BuiltinRunner{
	builtins.BitwiseName: func(included bool) builtins.BuiltinRunner { return builtins.NewBitwiseBuiltinRunner(included) },
}

// CairoRunner owns one Program's full execution lifecycle: segment
// layout, builtin wiring, and driving the VirtualMachine step by step.
type CairoRunner struct {
	Program        vm.Program
	Vm             *vm.VirtualMachine
	ProgramBase    memory.Relocatable
	ExecutionBase  memory.Relocatable
	BuiltinRunners []builtins.BuiltinRunner
	Logger         *slog.Logger
}

// NewCairoRunner validates a program's declared builtins and wires up
// the runners for each, but does not yet touch any memory segment.
func NewCairoRunner(program vm.Program) (*CairoRunner, error) {
	builtinRunners := make([]builtins.BuiltinRunner, 0, len(program.Builtins))
	for _, name := range program.Builtins {
		factory, ok := builtinFactories[name]
		if !ok {
			return nil, fmt.Errorf("unknown builtin %q", name)
		}
		builtinRunners = append(builtinRunners, factory(true))
	}

	return &CairoRunner{
		Program:        program,
		Vm:             vm.NewVirtualMachine(),
		BuiltinRunners: builtinRunners,
	}, nil
}

// Initialize lays out the program segment, the builtin segments, and
// the execution segment, seeds the program's bytecode into memory,
// and positions pc/ap/fp to begin execution. It returns the address
// execution must reach to be considered finished.
func (r *CairoRunner) Initialize() (memory.Relocatable, error) {
	r.ProgramBase = r.Vm.Segments.AddSegment()
	r.ExecutionBase = r.Vm.Segments.AddSegment()

	for _, runner := range r.BuiltinRunners {
		runner.InitializeSegments(&r.Vm.Segments)
		runner.AddValidationRule(&r.Vm.Segments.Memory)
	}
	r.Vm.BuiltinRunners = r.BuiltinRunners

	if err := r.loadProgramData(); err != nil {
		return memory.Relocatable{}, err
	}

	returnFp := r.Vm.Segments.AddSegment()
	endPtr := r.Vm.Segments.AddSegment()

	ap, err := r.ExecutionBase.AddUint(2)
	if err != nil {
		return memory.Relocatable{}, err
	}

	if err := r.Vm.Segments.Memory.Insert(r.ExecutionBase, memory.NewMaybeRelocatableRelocatable(returnFp)); err != nil {
		return memory.Relocatable{}, err
	}
	endCell, err := r.ExecutionBase.AddUint(1)
	if err != nil {
		return memory.Relocatable{}, err
	}
	if err := r.Vm.Segments.Memory.Insert(endCell, memory.NewMaybeRelocatableRelocatable(endPtr)); err != nil {
		return memory.Relocatable{}, err
	}

	r.Vm.RunContext = vm.RunContext{Pc: r.ProgramBase, Ap: ap, Fp: ap}

	if r.Logger != nil {
		r.Logger.Info("runner initialized", "program_base", r.ProgramBase, "end_ptr", endPtr)
	}

	return endPtr, nil
}

func (r *CairoRunner) loadProgramData() error {
	for i, cell := range r.Program.Data {
		addr, err := r.ProgramBase.AddUint(uint(i))
		if err != nil {
			return err
		}
		if err := r.Vm.Segments.Memory.Insert(addr, &cell); err != nil {
			return err
		}
	}
	return nil
}

// Run steps the VM until pc reaches end, logging each step's outcome
// when a Logger is configured.
func (r *CairoRunner) Run(end memory.Relocatable) error {
	for !r.Vm.RunContext.Pc.IsEqual(&end) {
		out, err := r.Vm.Step()
		if err != nil {
			if r.Logger != nil {
				r.Logger.Error("step failed", "pc", r.Vm.RunContext.Pc, "error", err)
			}
			return err
		}
		if r.Logger != nil {
			r.Logger.Debug("step", "pc", out.Pc, "ap", out.Ap, "fp", out.Fp, "inserted", len(out.InsertedCells))
		}
	}
	return nil
}
