package vm

const (
	highBit        = uint64(1) << 63
	offsetBits     = 16
	offsetMask     = uint64(1)<<offsetBits - 1
	offsetBias     = int64(1) << 15
	dstRegBit      = 0
	op0RegBit      = 1
	op1SrcShift    = 2
	op1SrcMask     = uint64(0b111)
	resLogicShift  = 5
	resLogicMask   = uint64(0b11)
	pcUpdateShift  = 7
	pcUpdateMask   = uint64(0b111)
	apUpdateShift  = 10
	apUpdateMask   = uint64(0b11)
	opcodeShift    = 12
	opcodeMask     = uint64(0b111)
)

// DecodeInstruction parses the 63-bit encoded instruction word w into a
// fully disambiguated Instruction, per spec.md §4.3.
func DecodeInstruction(w uint64) (Instruction, error) {
	if w&highBit != 0 {
		return Instruction{}, highBitSetError(w)
	}

	dstOffsetBiased := w & offsetMask
	op0OffsetBiased := (w >> offsetBits) & offsetMask
	op1OffsetBiased := (w >> (2 * offsetBits)) & offsetMask
	flags := w >> (3 * offsetBits)

	var dstReg Register
	if flags&(1<<dstRegBit) != 0 {
		dstReg = Fp
	} else {
		dstReg = Ap
	}

	var op0Reg Register
	if flags&(1<<op0RegBit) != 0 {
		op0Reg = Fp
	} else {
		op0Reg = Ap
	}

	op1SrcBits := (flags >> op1SrcShift) & op1SrcMask
	var op1Src Op1Src
	switch op1SrcBits {
	case 0:
		op1Src = Op1SrcOp0
	case 1:
		op1Src = Op1SrcPc
	case 2:
		op1Src = Op1SrcFp
	case 4:
		op1Src = Op1SrcAp
	default:
		return Instruction{}, invalidOp1SrcError(op1SrcBits)
	}

	pcUpdateBits := (flags >> pcUpdateShift) & pcUpdateMask
	var pcUpdate PcUpdate
	switch pcUpdateBits {
	case 0:
		pcUpdate = PcUpdateRegular
	case 1:
		pcUpdate = PcUpdateJump
	case 2:
		pcUpdate = PcUpdateJumpRel
	case 4:
		pcUpdate = PcUpdateJnz
	default:
		return Instruction{}, invalidPcUpdateError(pcUpdateBits)
	}

	resLogicBits := (flags >> resLogicShift) & resLogicMask
	var resLogic ResLogic
	switch resLogicBits {
	case 0:
		if pcUpdate == PcUpdateJnz {
			resLogic = ResUnconstrained
		} else {
			resLogic = ResOp1
		}
	case 1:
		resLogic = ResAdd
	case 2:
		resLogic = ResMul
	default:
		return Instruction{}, invalidResLogicError(resLogicBits)
	}

	opcodeBits := (flags >> opcodeShift) & opcodeMask
	var opcode Opcode
	switch opcodeBits {
	case 0:
		opcode = NoOp
	case 1:
		opcode = Call
	case 2:
		opcode = Ret
	case 4:
		opcode = AssertEq
	default:
		return Instruction{}, invalidOpcodeError(opcodeBits)
	}

	apUpdateBits := (flags >> apUpdateShift) & apUpdateMask
	var apUpdate ApUpdate
	switch apUpdateBits {
	case 0:
		// Normative resolution of the open question in spec.md §9: a
		// zero ap_update flag combined with opcode=Call means Add2,
		// not a no-op.
		if opcode == Call {
			apUpdate = ApUpdateAdd2
		} else {
			apUpdate = ApUpdateRegular
		}
	case 1:
		apUpdate = ApUpdateAdd
	case 2:
		apUpdate = ApUpdateAdd1
	default:
		return Instruction{}, invalidApUpdateError(apUpdateBits)
	}

	var fpUpdate FpUpdate
	switch opcode {
	case Call:
		fpUpdate = FpUpdateAPPlus2
	case Ret:
		fpUpdate = FpUpdateDst
	default:
		fpUpdate = FpUpdateRegular
	}

	return Instruction{
		OffDst:   biasedToSigned(dstOffsetBiased),
		OffOp0:   biasedToSigned(op0OffsetBiased),
		OffOp1:   biasedToSigned(op1OffsetBiased),
		DstReg:   dstReg,
		Op0Reg:   op0Reg,
		Op1Src:   op1Src,
		ResLogic: resLogic,
		PcUpdate: pcUpdate,
		ApUpdate: apUpdate,
		FpUpdate: fpUpdate,
		Opcode:   opcode,
	}, nil
}

func biasedToSigned(biased uint64) int16 {
	return int16(int64(biased) - offsetBias)
}
