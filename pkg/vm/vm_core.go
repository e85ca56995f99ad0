package vm

import (
	"fmt"

	"github.com/lambdaclass/cairo-vm-core/pkg/builtins"
	"github.com/lambdaclass/cairo-vm-core/pkg/lambdaworks"
	"github.com/lambdaclass/cairo-vm-core/pkg/vm/memory"
)

// TraceEntry is one row of the unrelocated execution trace: the
// register snapshot taken immediately before a step executes.
type TraceEntry struct {
	Pc memory.Relocatable
	Ap memory.Relocatable
	Fp memory.Relocatable
}

// RelocatedTraceEntry is a TraceEntry whose registers have been
// flattened into a single linear address space.
type RelocatedTraceEntry struct {
	Pc lambdaworks.Felt
	Ap lambdaworks.Felt
	Fp lambdaworks.Felt
}

// StepOutput is the result of a single successful step: the new
// register tuple plus every cell the step inserted, so a caller can
// fold it into a trace without re-scanning all of memory. A failed
// step never produces one; the VM's registers are left exactly as they
// were, but cells inserted by operand deduction before the failure
// stay in Memory.
type StepOutput struct {
	Pc            memory.Relocatable
	Ap            memory.Relocatable
	Fp            memory.Relocatable
	InsertedCells map[memory.Relocatable]memory.MaybeRelocatable
}

// VirtualMachine represents the Cairo VM.
// Runs Cairo assembly and produces an execution trace.
type VirtualMachine struct {
	RunContext      RunContext
	CurrentStep     uint
	Segments        memory.MemorySegmentManager
	BuiltinRunners  []builtins.BuiltinRunner
	Trace           []TraceEntry
	RelocatedTrace  []RelocatedTraceEntry
	RelocatedMemory map[uint]lambdaworks.Felt

	stepInserts map[memory.Relocatable]memory.MaybeRelocatable
}

func NewVirtualMachine() *VirtualMachine {
	segments := memory.NewMemorySegmentManager()
	builtin_runners := make([]builtins.BuiltinRunner, 0, 9) // There will be at most 9 builtins
	trace := make([]TraceEntry, 0)
	relocatedTrace := make([]RelocatedTraceEntry, 0)
	return &VirtualMachine{Segments: segments, BuiltinRunners: builtin_runners, Trace: trace, RelocatedTrace: relocatedTrace}
}

// insert routes every memory write a step performs through the
// write-once path while recording it in stepInserts, so Step can
// report exactly the cells this step produced.
func (v *VirtualMachine) insert(addr memory.Relocatable, val *memory.MaybeRelocatable) error {
	if err := v.Segments.Memory.Insert(addr, val); err != nil {
		return err
	}
	if v.stepInserts != nil {
		v.stepInserts[addr] = *val
	}
	return nil
}

// Step fetches, decodes and runs the instruction at the current pc.
// On success it returns the new register tuple and the cells the step
// inserted. On failure, the registers are left exactly as they were
// before the call; Memory is not rolled back, so cells the step already
// inserted (deduced operands, a deduced dst) remain.
func (v *VirtualMachine) Step() (StepOutput, error) {
	encoded_instruction, err := v.Segments.Memory.GetRequired(v.RunContext.Pc)
	if err != nil {
		return StepOutput{}, vmErr("InstructionError", fmt.Sprintf("failed to fetch instruction at %+v: %s", v.RunContext.Pc, err))
	}

	encoded_instruction_felt, ok := encoded_instruction.GetFelt()
	if !ok {
		return StepOutput{}, vmErr("InstructionError", "instruction word is not a Felt")
	}

	encoded_instruction_uint, err := encoded_instruction_felt.ToU64()
	if err != nil {
		return StepOutput{}, vmErr("InstructionError", "instruction word does not fit in 63 bits")
	}

	instruction, err := DecodeInstruction(encoded_instruction_uint)
	if err != nil {
		return StepOutput{}, err
	}

	return v.RunInstruction(&instruction)
}

func (v *VirtualMachine) RunInstruction(instruction *Instruction) (StepOutput, error) {
	v.stepInserts = make(map[memory.Relocatable]memory.MaybeRelocatable)
	defer func() { v.stepInserts = nil }()

	operands, err := v.ComputeOperands(*instruction)
	if err != nil {
		return StepOutput{}, err
	}

	if err := v.OpcodeAssertions(*instruction, operands); err != nil {
		return StepOutput{}, err
	}

	preStepPc, preStepAp, preStepFp := v.RunContext.Pc, v.RunContext.Ap, v.RunContext.Fp

	if err := v.UpdateRegisters(instruction, &operands); err != nil {
		v.RunContext.Pc, v.RunContext.Ap, v.RunContext.Fp = preStepPc, preStepAp, preStepFp
		return StepOutput{}, err
	}

	v.Trace = append(v.Trace, TraceEntry{Pc: preStepPc, Ap: preStepAp, Fp: preStepFp})
	v.CurrentStep++

	return StepOutput{
		Pc:            v.RunContext.Pc,
		Ap:            v.RunContext.Ap,
		Fp:            v.RunContext.Fp,
		InsertedCells: v.stepInserts,
	}, nil
}

// Relocates the VM's trace, turning relocatable registers to numbered ones
func (v *VirtualMachine) RelocateTrace(relocationTable *[]uint) error {
	if len(*relocationTable) < 2 {
		return vmErr("RelocateTrace", "no relocation found for execution segment")
	}

	for _, entry := range v.Trace {
		v.RelocatedTrace = append(v.RelocatedTrace, RelocatedTraceEntry{
			Pc: lambdaworks.FeltFromUint64(uint64(entry.Pc.RelocateAddress(relocationTable))),
			Ap: lambdaworks.FeltFromUint64(uint64(entry.Ap.RelocateAddress(relocationTable))),
			Fp: lambdaworks.FeltFromUint64(uint64(entry.Fp.RelocateAddress(relocationTable))),
		})
	}

	return nil
}

func (v *VirtualMachine) GetRelocatedTrace() ([]RelocatedTraceEntry, error) {
	if len(v.RelocatedTrace) > 0 {
		return v.RelocatedTrace, nil
	}
	return nil, vmErr("GetRelocatedTrace", "trace not relocated")
}

func (v *VirtualMachine) Relocate() error {
	v.Segments.ComputeEffectiveSizes()
	if len(v.Trace) == 0 {
		return nil
	}

	relocationTable, ok := v.Segments.RelocateSegments()
	// This should be unreachable
	if !ok {
		return vmErr("Relocate", "ComputeEffectiveSizes called but RelocateSegments still returned error")
	}

	relocatedMemory, err := v.Segments.RelocateMemory(&relocationTable)
	if err != nil {
		return err
	}

	if err := v.RelocateTrace(&relocationTable); err != nil {
		return err
	}
	v.RelocatedMemory = relocatedMemory
	return nil
}

type Operands struct {
	Dst memory.MaybeRelocatable
	Res *memory.MaybeRelocatable
	Op0 memory.MaybeRelocatable
	Op1 memory.MaybeRelocatable
}

func (vm *VirtualMachine) OpcodeAssertions(instruction Instruction, operands Operands) error {
	switch instruction.Opcode {
	case Call:
		new_rel, err := vm.RunContext.Pc.AddUint(instruction.Size())
		if err != nil {
			return err
		}
		returnPC := memory.NewMaybeRelocatableRelocatable(new_rel)

		if !operands.Op0.IsEqual(returnPC) {
			return vmErr("CantWriteReturnPc", "op0 does not hold the expected return pc")
		}

		returnFP := vm.RunContext.Fp
		dstRelocatable, ok := operands.Dst.GetRelocatable()
		if !ok || !returnFP.IsEqual(&dstRelocatable) {
			return vmErr("CantWriteReturnFp", "dst does not hold the expected return fp")
		}
	}

	return nil
}

func (vm *VirtualMachine) DeduceDst(instruction Instruction, res *memory.MaybeRelocatable) *memory.MaybeRelocatable {
	switch instruction.Opcode {
	case AssertEq:
		return res
	case Call:
		return memory.NewMaybeRelocatableRelocatable(vm.RunContext.Fp)

	}
	return nil
}

// Deduces the value of op0 if possible (based on dst and op1). Otherwise, returns nil.
// If res is deduced in the process returns its deduced value as well.
func (vm *VirtualMachine) DeduceOp0(instruction *Instruction, dst *memory.MaybeRelocatable, op1 *memory.MaybeRelocatable) (deduced_op0 *memory.MaybeRelocatable, deduced_res *memory.MaybeRelocatable, err error) {
	switch instruction.Opcode {
	case Call:
		new_op0, err := vm.RunContext.Pc.AddUint(instruction.Size())
		if err != nil {
			return nil, nil, err
		}
		return memory.NewMaybeRelocatableRelocatable(new_op0), nil, nil
	case AssertEq:
		switch instruction.ResLogic {
		case ResAdd:
			if dst != nil && op1 != nil {
				op0, err := dst.Sub(*op1)
				if err != nil {
					return nil, nil, err
				}
				return &op0, dst, nil
			}
		case ResMul:
			if dst != nil && op1 != nil {
				dst_felt, dst_is_felt := dst.GetFelt()
				op1_felt, op1_is_felt := op1.GetFelt()
				if dst_is_felt && op1_is_felt && !op1_felt.IsZero() {
					return memory.NewMaybeRelocatableFelt(dst_felt.Div(op1_felt)), dst, nil

				}
			}
		}
	}
	return nil, nil, nil
}

func (vm *VirtualMachine) DeduceOp1(instruction *Instruction, dst *memory.MaybeRelocatable, op0 *memory.MaybeRelocatable) (deduced_op1 *memory.MaybeRelocatable, deduced_res *memory.MaybeRelocatable, err error) {
	if instruction.Opcode != AssertEq {
		return nil, nil, nil
	}
	switch instruction.ResLogic {
	case ResOp1:
		return dst, dst, nil
	case ResAdd:
		if op0 != nil && dst != nil {
			op1, err := dst.Sub(*op0)
			if err != nil {
				return nil, nil, err
			}
			return &op1, dst, nil
		}
	case ResMul:
		if op0 != nil && dst != nil {
			dst_felt, dst_is_felt := dst.GetFelt()
			op0_felt, op0_is_felt := op0.GetFelt()
			if dst_is_felt && op0_is_felt && !op0_felt.IsZero() {
				return memory.NewMaybeRelocatableFelt(dst_felt.Div(op0_felt)), dst, nil
			}
		}
	}
	return nil, nil, nil
}

func (vm *VirtualMachine) ComputeRes(instruction Instruction, op0 memory.MaybeRelocatable, op1 memory.MaybeRelocatable) (*memory.MaybeRelocatable, error) {
	switch instruction.ResLogic {
	case ResOp1:
		return &op1, nil

	case ResAdd:
		maybe_rel, err := op0.Add(op1)
		if err != nil {
			return nil, err
		}
		return &maybe_rel, nil

	case ResMul:
		num_op0, m_type := op0.GetFelt()
		num_op1, other_type := op1.GetFelt()
		if m_type && other_type {
			result := memory.NewMaybeRelocatableFelt(num_op0.Mul(num_op1))
			return result, nil
		}
		return nil, vmErr("ExpectedFelt", "res_logic=Mul requires both operands to be Felts")

	case ResUnconstrained:
		return nil, nil
	}
	return nil, nil
}

// ComputeOperands resolves dst, op0, op1 and res for instruction,
// reading already-known cells from memory and deducing the rest. Any
// deduced value is inserted into memory as soon as it is found.
func (vm *VirtualMachine) ComputeOperands(instruction Instruction) (Operands, error) {
	var res *memory.MaybeRelocatable

	dst_addr, err := vm.RunContext.ComputeDstAddr(instruction)
	if err != nil {
		return Operands{}, vmErr("FailedToComputeDstAddr", err.Error())
	}
	dst, err := vm.Segments.Memory.Get(dst_addr)
	if err != nil {
		return Operands{}, err
	}

	op0_addr, err := vm.RunContext.ComputeOp0Addr(instruction)
	if err != nil {
		return Operands{}, vmErr("FailedToComputeOp0Addr", err.Error())
	}
	op0_op, err := vm.Segments.Memory.Get(op0_addr)
	if err != nil {
		return Operands{}, err
	}

	op1_addr, err := vm.RunContext.ComputeOp1Addr(instruction, op0_op)
	if err != nil {
		return Operands{}, vmErr("FailedToComputeOp1Addr", err.Error())
	}
	op1_op, err := vm.Segments.Memory.Get(op1_addr)
	if err != nil {
		return Operands{}, err
	}

	var op0 memory.MaybeRelocatable
	if op0_op != nil {
		op0 = *op0_op
	} else {
		op0, res, err = vm.ComputeOp0Deductions(op0_addr, &instruction, dst, op1_op)
		if err != nil {
			return Operands{}, err
		}
	}

	var op1 memory.MaybeRelocatable
	if op1_op != nil {
		op1 = *op1_op
	} else {
		var op1Res *memory.MaybeRelocatable
		op1, op1Res, err = vm.ComputeOp1Deductions(op1_addr, &instruction, dst, &op0)
		if err != nil {
			return Operands{}, err
		}
		if res == nil {
			res = op1Res
		}
	}

	if res == nil {
		res, err = vm.ComputeRes(instruction, op0, op1)
		if err != nil {
			return Operands{}, err
		}
	}

	if dst == nil {
		deducedDst := vm.DeduceDst(instruction, res)
		dst = deducedDst
		if dst != nil {
			if err := vm.insert(dst_addr, dst); err != nil {
				return Operands{}, err
			}
		}
	} else if instruction.Opcode == AssertEq {
		// dst is already known: require it agree with res. Routed through
		// the same write-once insert the deduction path above uses, so a
		// mismatch raises InconsistentMemoryError rather than a bespoke
		// assertion-failure kind.
		if res == nil {
			return Operands{}, vmErr("UndeducibleOperand", "UnconstrainedResAssertEq")
		}
		if err := vm.insert(dst_addr, res); err != nil {
			return Operands{}, err
		}
	}

	if dst == nil {
		return Operands{}, vmErr("UndeducibleOperand", "dst is unknown and could not be deduced")
	}

	operands := Operands{
		Dst: *dst,
		Op0: op0,
		Op1: op1,
		Res: res,
	}
	return operands, nil
}

// Runs deductions for Op0, first runs builtin deductions, if this fails, attempts to deduce it based on dst and op1
// Also returns res if it was also deduced in the process
// Inserts the deduced operand
// Fails if Op0 was not deduced or if an error arised in the process
func (vm *VirtualMachine) ComputeOp0Deductions(op0_addr memory.Relocatable, instruction *Instruction, dst *memory.MaybeRelocatable, op1 *memory.MaybeRelocatable) (deduced_op0 memory.MaybeRelocatable, deduced_res *memory.MaybeRelocatable, err error) {
	op0, err := vm.DeduceMemoryCell(op0_addr)
	if err != nil {
		return memory.MaybeRelocatable{}, nil, err
	}
	if op0 == nil {
		op0, deduced_res, err = vm.DeduceOp0(instruction, dst, op1)
		if err != nil {
			return memory.MaybeRelocatable{}, nil, err
		}
	}
	if op0 == nil {
		return memory.MaybeRelocatable{}, nil, vmErr("UndeducibleOperand", "failed to compute or deduce op0")
	}
	if err := vm.insert(op0_addr, op0); err != nil {
		return memory.MaybeRelocatable{}, nil, err
	}
	return *op0, deduced_res, nil
}

// Runs deductions for Op1, first runs builtin deductions, if this fails, attempts to deduce it based on dst and op0
// Also returns res if it was deduced in the process
// Inserts the deduced operand
// Fails if Op1 was not deduced or if an error arised in the process
func (vm *VirtualMachine) ComputeOp1Deductions(op1_addr memory.Relocatable, instruction *Instruction, dst *memory.MaybeRelocatable, op0 *memory.MaybeRelocatable) (deduced_op1 memory.MaybeRelocatable, deduced_res *memory.MaybeRelocatable, err error) {
	op1, err := vm.DeduceMemoryCell(op1_addr)
	if err != nil {
		return memory.MaybeRelocatable{}, nil, err
	}
	if op1 == nil {
		op1, deduced_res, err = vm.DeduceOp1(instruction, dst, op0)
		if err != nil {
			return memory.MaybeRelocatable{}, nil, err
		}
	}
	if op1 == nil {
		return memory.MaybeRelocatable{}, nil, vmErr("UndeducibleOperand", "failed to compute or deduce op1")
	}
	if err := vm.insert(op1_addr, op1); err != nil {
		return memory.MaybeRelocatable{}, nil, err
	}
	return *op1, deduced_res, nil
}

// Updates the values of the RunContext's registers according to the executed instruction
func (vm *VirtualMachine) UpdateRegisters(instruction *Instruction, operands *Operands) error {
	if err := vm.UpdateFp(instruction, operands); err != nil {
		return err
	}
	if err := vm.UpdateAp(instruction, operands); err != nil {
		return err
	}
	return vm.UpdatePc(instruction, operands)
}

// Updates the value of PC according to the executed instruction
func (vm *VirtualMachine) UpdatePc(instruction *Instruction, operands *Operands) error {
	switch instruction.PcUpdate {
	case PcUpdateRegular:
		newPc, err := vm.RunContext.Pc.AddUint(instruction.Size())
		if err != nil {
			return err
		}
		vm.RunContext.Pc = newPc
	case PcUpdateJump:
		if operands.Res == nil {
			return vmErr("UndeducibleOperand", "Res.UNCONSTRAINED cannot be used with PcUpdate.JUMP")
		}
		res, ok := operands.Res.GetRelocatable()
		if !ok {
			return vmErr("ExpectedRelocatable", "a Felt value as res cannot be used with PcUpdate.JUMP")
		}
		vm.RunContext.Pc = res
	case PcUpdateJumpRel:
		if operands.Res == nil {
			return vmErr("UndeducibleOperand", "Res.UNCONSTRAINED cannot be used with PcUpdate.JUMP_REL")
		}
		res, ok := operands.Res.GetFelt()
		if !ok {
			return vmErr("ExpectedFelt", "a Relocatable value as res cannot be used with PcUpdate.JUMP_REL")
		}
		new_pc, err := vm.RunContext.Pc.AddFelt(res)
		if err != nil {
			return err
		}
		vm.RunContext.Pc = new_pc
	case PcUpdateJnz:
		if operands.Dst.IsZero() {
			newPc, err := vm.RunContext.Pc.AddUint(instruction.Size())
			if err != nil {
				return err
			}
			vm.RunContext.Pc = newPc
		} else {
			new_pc, err := vm.RunContext.Pc.AddMaybeRelocatable(operands.Op1)
			if err != nil {
				return err
			}
			vm.RunContext.Pc = new_pc
		}

	}
	return nil
}

// Updates the value of AP according to the executed instruction
func (vm *VirtualMachine) UpdateAp(instruction *Instruction, operands *Operands) error {
	switch instruction.ApUpdate {
	case ApUpdateAdd:
		if operands.Res == nil {
			return vmErr("UndeducibleOperand", "Res.UNCONSTRAINED cannot be used with ApUpdate.ADD")
		}
		new_ap, err := vm.RunContext.Ap.AddMaybeRelocatable(*operands.Res)
		if err != nil {
			return err
		}
		vm.RunContext.Ap = new_ap
	case ApUpdateAdd1:
		newAp, err := vm.RunContext.Ap.AddUint(1)
		if err != nil {
			return err
		}
		vm.RunContext.Ap = newAp
	case ApUpdateAdd2:
		newAp, err := vm.RunContext.Ap.AddUint(2)
		if err != nil {
			return err
		}
		vm.RunContext.Ap = newAp
	}
	return nil
}

// Updates the value of FP according to the executed instruction
func (vm *VirtualMachine) UpdateFp(instruction *Instruction, operands *Operands) error {
	switch instruction.FpUpdate {
	case FpUpdateAPPlus2:
		newFp, err := vm.RunContext.Ap.AddUint(2)
		if err != nil {
			return err
		}
		vm.RunContext.Fp = newFp
	case FpUpdateDst:
		rel, ok := operands.Dst.GetRelocatable()
		if ok {
			vm.RunContext.Fp = rel
		} else {
			felt, _ := operands.Dst.GetFelt()
			new_fp, err := vm.RunContext.Fp.AddFelt(felt)
			if err != nil {
				return err
			}
			vm.RunContext.Fp = new_fp
		}
	}
	return nil
}

// Applies the corresponding builtin's deduction rules if addr's segment index corresponds to a builtin segment
// Returns nil if there is no deduction for the address
func (vm *VirtualMachine) DeduceMemoryCell(addr memory.Relocatable) (*memory.MaybeRelocatable, error) {
	if addr.SegmentIndex < 0 {
		return nil, nil
	}
	for i := range vm.BuiltinRunners {
		if vm.BuiltinRunners[i].Base().SegmentIndex == addr.SegmentIndex {
			return vm.BuiltinRunners[i].DeduceMemoryCell(addr, &vm.Segments.Memory)
		}
	}
	return nil, nil
}
