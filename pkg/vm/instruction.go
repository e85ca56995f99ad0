package vm

// Register selects which base register (ap or fp) an offset is relative to.
type Register int

const (
	Ap Register = iota
	Fp
)

// Op1Src selects where op1's base address comes from.
type Op1Src uint8

const (
	Op1SrcOp0 Op1Src = iota
	Op1SrcPc
	Op1SrcFp
	Op1SrcAp
)

// ResLogic selects how `res` is derived from op0 and op1. Values occupy
// the low two bits so that opcode|res_logic (see Opcode below) is a
// single collision-free integer the interpreter can switch on.
type ResLogic uint8

const (
	ResOp1 ResLogic = iota
	ResAdd
	ResMul
	ResUnconstrained
)

// PcUpdate selects how the program counter advances.
type PcUpdate uint8

const (
	PcUpdateRegular PcUpdate = iota
	PcUpdateJump
	PcUpdateJumpRel
	PcUpdateJnz
)

// ApUpdate selects how the allocation pointer advances.
type ApUpdate uint8

const (
	ApUpdateRegular ApUpdate = iota
	ApUpdateAdd
	ApUpdateAdd1
	ApUpdateAdd2
)

// FpUpdate selects how the frame pointer advances. Never encoded
// directly; always derived from Opcode.
type FpUpdate uint8

const (
	FpUpdateRegular FpUpdate = iota
	FpUpdateAPPlus2
	FpUpdateDst
)

// Opcode selects the instruction's side effect. Values are shifted two
// bits up so they never collide with a ResLogic value: opcode|res_logic
// is therefore a single exhaustive, non-overlapping integer.
// VirtualMachine.OpcodeAssertions/DeduceOp0/DeduceOp1 match the pair
// with nested switches on Opcode and ResLogic.
type Opcode uint8

const (
	NoOp     Opcode = 0
	Call     Opcode = 1 << 2
	Ret      Opcode = 2 << 2
	AssertEq Opcode = 4 << 2
)

// Instruction is the fully disambiguated decoding of one 63-bit
// instruction word.
type Instruction struct {
	OffDst   int16
	OffOp0   int16
	OffOp1   int16
	DstReg   Register
	Op0Reg   Register
	Op1Src   Op1Src
	ResLogic ResLogic
	PcUpdate PcUpdate
	ApUpdate ApUpdate
	FpUpdate FpUpdate
	Opcode   Opcode
}

// Size returns the instruction's length in memory cells: 2 when op1 is
// sourced from an immediate following the instruction word, else 1.
func (i *Instruction) Size() uint {
	if i.Op1Src == Op1SrcPc {
		return 2
	}
	return 1
}
