package vm_test

import (
	"testing"

	"github.com/lambdaclass/cairo-vm-core/pkg/vm"
)

func TestDecodeHighBitSet(t *testing.T) {
	_, err := vm.DecodeInstruction(uint64(1) << 63)
	if _, ok := err.(*vm.DecodeError); !ok {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestDecodeInvalidOp1Src(t *testing.T) {
	// op1_src bits = 0b011, not one-hot among {0,1,2,4}.
	flags := uint64(0b011) << 2
	w := flags << 48
	_, err := vm.DecodeInstruction(w)
	decodeErr, ok := err.(*vm.DecodeError)
	if !ok {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if decodeErr.Kind != "InvalidOp1Src" {
		t.Errorf("expected InvalidOp1Src, got %s", decodeErr.Kind)
	}
}

func TestDecodeInvalidResLogic(t *testing.T) {
	flags := uint64(0b11) << 5
	w := flags << 48
	_, err := vm.DecodeInstruction(w)
	decodeErr, ok := err.(*vm.DecodeError)
	if !ok || decodeErr.Kind != "InvalidResLogic" {
		t.Fatalf("expected InvalidResLogic, got %v", err)
	}
}

func TestDecodeInvalidPcUpdate(t *testing.T) {
	flags := uint64(0b011) << 7
	w := flags << 48
	_, err := vm.DecodeInstruction(w)
	decodeErr, ok := err.(*vm.DecodeError)
	if !ok || decodeErr.Kind != "InvalidPcUpdate" {
		t.Fatalf("expected InvalidPcUpdate, got %v", err)
	}
}

func TestDecodeInvalidApUpdate(t *testing.T) {
	flags := uint64(0b11) << 10
	w := flags << 48
	_, err := vm.DecodeInstruction(w)
	decodeErr, ok := err.(*vm.DecodeError)
	if !ok || decodeErr.Kind != "InvalidApUpdate" {
		t.Fatalf("expected InvalidApUpdate, got %v", err)
	}
}

func TestDecodeInvalidOpcode(t *testing.T) {
	flags := uint64(0b011) << 12
	w := flags << 48
	_, err := vm.DecodeInstruction(w)
	decodeErr, ok := err.(*vm.DecodeError)
	if !ok || decodeErr.Kind != "InvalidOpcode" {
		t.Fatalf("expected InvalidOpcode, got %v", err)
	}
}

// Regression for the normative resolution of Open Question #1: a
// zero-valued ap_update field combined with opcode=Call means Add2.
func TestDecodeCallImpliesApUpdateAdd2(t *testing.T) {
	opcodeCallBits := uint64(1) << 12 // opcode bits = 0b001 -> Call
	w := opcodeCallBits << 48
	instruction, err := vm.DecodeInstruction(w)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if instruction.Opcode != vm.Call {
		t.Fatalf("expected Call opcode, got %v", instruction.Opcode)
	}
	if instruction.ApUpdate != vm.ApUpdateAdd2 {
		t.Errorf("expected ApUpdateAdd2, got %v", instruction.ApUpdate)
	}
	if instruction.FpUpdate != vm.FpUpdateAPPlus2 {
		t.Errorf("expected FpUpdateAPPlus2, got %v", instruction.FpUpdate)
	}
}

// A Jnz instruction with res_logic bits = 0 decodes to Unconstrained,
// not Op1, since Jnz reads dst and op1 but never res.
func TestDecodeJnzImpliesResUnconstrained(t *testing.T) {
	pcUpdateJnzBits := uint64(4) << 7
	w := pcUpdateJnzBits << 48
	instruction, err := vm.DecodeInstruction(w)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if instruction.ResLogic != vm.ResUnconstrained {
		t.Errorf("expected ResUnconstrained, got %v", instruction.ResLogic)
	}
}

// Decodes an AssertEq, res_logic=Add, dst_reg=Ap, op0_reg=Fp,
// op1_src=Fp instruction with small positive offsets, and checks every
// field lands where the spec's bit layout says it should.
func TestDecodeAssertEqAddInstruction(t *testing.T) {
	const offsetBias = uint64(1) << 15
	offDst := offsetBias + 1
	offOp0 := offsetBias + 2
	offOp1 := offsetBias + 3

	dstRegBit := uint64(0)
	op0RegBit := uint64(1) << 1
	op1SrcFp := uint64(2) << 2
	resLogicAdd := uint64(1) << 5
	opcodeAssertEq := uint64(4) << 12

	flags := dstRegBit | op0RegBit | op1SrcFp | resLogicAdd | opcodeAssertEq
	w := offDst | (offOp0 << 16) | (offOp1 << 32) | (flags << 48)

	instruction, err := vm.DecodeInstruction(w)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if instruction.OffDst != 1 || instruction.OffOp0 != 2 || instruction.OffOp1 != 3 {
		t.Errorf("offsets decoded incorrectly: %+v", instruction)
	}
	if instruction.DstReg != vm.Ap {
		t.Errorf("expected dst_reg=Ap, got %v", instruction.DstReg)
	}
	if instruction.Op0Reg != vm.Fp {
		t.Errorf("expected op0_reg=Fp, got %v", instruction.Op0Reg)
	}
	if instruction.Op1Src != vm.Op1SrcFp {
		t.Errorf("expected op1_src=Fp, got %v", instruction.Op1Src)
	}
	if instruction.ResLogic != vm.ResAdd {
		t.Errorf("expected res_logic=Add, got %v", instruction.ResLogic)
	}
	if instruction.Opcode != vm.AssertEq {
		t.Errorf("expected opcode=AssertEq, got %v", instruction.Opcode)
	}
	if instruction.FpUpdate != vm.FpUpdateRegular {
		t.Errorf("expected fp_update=Regular for AssertEq, got %v", instruction.FpUpdate)
	}
	if instruction.Size() != 1 {
		t.Errorf("expected size 1, got %d", instruction.Size())
	}
}

func TestInstructionSizeIsTwoForImmediate(t *testing.T) {
	instruction := vm.Instruction{Op1Src: vm.Op1SrcPc}
	if instruction.Size() != 2 {
		t.Errorf("expected size 2 for an immediate operand, got %d", instruction.Size())
	}
}
