package vm

import "github.com/lambdaclass/cairo-vm-core/pkg/vm/memory"

// RunContext holds the three registers that together with Memory fully
// determine the next step: the program counter, allocation pointer and
// frame pointer.
type RunContext struct {
	Pc memory.Relocatable
	Ap memory.Relocatable
	Fp memory.Relocatable
}

// ComputeDstAddr resolves the address dst is read from or written to.
func (run *RunContext) ComputeDstAddr(instruction Instruction) (memory.Relocatable, error) {
	base := run.Ap
	if instruction.DstReg == Fp {
		base = run.Fp
	}
	return addSignedOffset(base, instruction.OffDst)
}

// ComputeOp0Addr resolves the address op0 is read from.
func (run *RunContext) ComputeOp0Addr(instruction Instruction) (memory.Relocatable, error) {
	base := run.Ap
	if instruction.Op0Reg == Fp {
		base = run.Fp
	}
	return addSignedOffset(base, instruction.OffOp0)
}

// ComputeOp1Addr resolves the address op1 is read from. When op1 is
// sourced from op0, op0 itself must already be known and Relocatable.
func (run *RunContext) ComputeOp1Addr(instruction Instruction, op0 *memory.MaybeRelocatable) (memory.Relocatable, error) {
	var base memory.Relocatable
	switch instruction.Op1Src {
	case Op1SrcPc:
		base = run.Pc
	case Op1SrcAp:
		base = run.Ap
	case Op1SrcFp:
		base = run.Fp
	case Op1SrcOp0:
		if op0 == nil {
			return memory.Relocatable{}, vmErr("UndefinedValue", "op0 is required to compute op1 address")
		}
		rel, ok := op0.GetRelocatable()
		if !ok {
			return memory.Relocatable{}, vmErr("ExpectedRelocatable", "op1_src=Op0 requires op0 to be a Relocatable")
		}
		base = rel
	}
	return addSignedOffset(base, instruction.OffOp1)
}

func addSignedOffset(base memory.Relocatable, offset int16) (memory.Relocatable, error) {
	if offset >= 0 {
		return base.AddUint(uint(offset))
	}
	if base.Offset < uint(-offset) {
		return memory.Relocatable{}, vmErr("OffsetOverflow", "negative offset underflows base offset")
	}
	return memory.Relocatable{SegmentIndex: base.SegmentIndex, Offset: base.Offset - uint(-offset)}, nil
}
