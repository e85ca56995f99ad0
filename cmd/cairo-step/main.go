// Command cairo-step runs a single hardcoded `ret` instruction through
// the VM and logs the frame pointer it leaves behind. It exists to
// exercise pkg/runners end to end; real program loading (compiling
// .cairo sources, parsing program.json) is out of scope for this
// module.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lambdaclass/cairo-vm-core/pkg/lambdaworks"
	"github.com/lambdaclass/cairo-vm-core/pkg/parser"
	"github.com/lambdaclass/cairo-vm-core/pkg/runners"
	"github.com/lambdaclass/cairo-vm-core/pkg/vm"
	"github.com/lambdaclass/cairo-vm-core/pkg/vm/memory"
)

const offsetBias = uint64(1) << 15

func biasedOffset(v int64) uint64 {
	return uint64(v + int64(offsetBias))
}

// retWord encodes a single `ret` instruction: dst_reg=fp, op0_reg=fp,
// op1_src=fp, offsets -2/-1/-1 (the standard epilogue reading the
// caller's saved fp and pc off the bottom of the current frame),
// opcode=ret (which derives fp_update=dst).
func retWord() uint64 {
	const (
		dstRegFpBit  = uint64(1) << 0
		op0RegFpBit  = uint64(1) << 1
		op1SrcFpBits = uint64(2) << 2 // one-hot value 2 selects fp
		opcodeRet    = uint64(2) << 12
	)
	flags := dstRegFpBit | op0RegFpBit | op1SrcFpBits | opcodeRet
	offDst := biasedOffset(-2)
	offOp0 := biasedOffset(-1)
	offOp1 := biasedOffset(-1)
	return offDst | (offOp0 << 16) | (offOp1 << 32) | (flags << 48)
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	program := vm.Program{
		Data: []memory.MaybeRelocatable{
			*memory.NewMaybeRelocatableFelt(lambdaworks.FeltFromUint64(retWord())),
		},
		Identifiers: &map[string]parser.Identifier{},
	}

	runner, err := runners.NewCairoRunner(program)
	if err != nil {
		logger.Error("failed to create runner", "error", err)
		os.Exit(1)
	}
	runner.Logger = logger

	end, err := runner.Initialize()
	if err != nil {
		logger.Error("failed to initialize runner", "error", err)
		os.Exit(1)
	}

	fmt.Printf("stepping a single `ret` (end ptr is %+v, reached only by a real program)\n", end)
	if _, err := runner.Vm.Step(); err != nil {
		logger.Error("step failed", "error", err)
		os.Exit(1)
	}
	logger.Info("fp popped back to caller frame", "fp", runner.Vm.RunContext.Fp)
}
