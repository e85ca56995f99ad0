package builtins

import (
	"github.com/lambdaclass/cairo-vm-core/pkg/lambdaworks"
	"github.com/lambdaclass/cairo-vm-core/pkg/vm/memory"
)

const (
	BitwiseName = "bitwise"
	// Each block holds two inputs at offsets 0-1 and three deduced
	// outputs (and, xor, or) at offsets 2-4.
	cellsPerBlock      = 5
	inputCellsPerBlock = 2
)

// BitwiseBuiltinRunner exposes bitwise AND/XOR/OR as a read-only memory
// overlay: writing the two input cells of a block makes the three
// output cells readable, computed on demand and then memoized by the
// write-once Insert path.
type BitwiseBuiltinRunner struct {
	base     memory.Relocatable
	included bool
}

func NewBitwiseBuiltinRunner(included bool) *BitwiseBuiltinRunner {
	return &BitwiseBuiltinRunner{included: included}
}

func (b *BitwiseBuiltinRunner) Base() memory.Relocatable {
	return b.base
}

func (b *BitwiseBuiltinRunner) Name() string {
	return BitwiseName
}

func (b *BitwiseBuiltinRunner) InitializeSegments(segments *memory.MemorySegmentManager) {
	b.base = segments.AddSegment()
}

func (b *BitwiseBuiltinRunner) InitialStack() []memory.MaybeRelocatable {
	if !b.included {
		return []memory.MaybeRelocatable{}
	}
	return []memory.MaybeRelocatable{*memory.NewMaybeRelocatableRelocatable(b.base)}
}

// DeduceMemoryCell computes an output cell of addr's block from the two
// input cells already written to it. Returns nil, nil for an input
// cell (offsets 0-1) or for a block whose inputs are not both present
// yet, and a typed error if an input cell holds a Relocatable.
func (b *BitwiseBuiltinRunner) DeduceMemoryCell(addr memory.Relocatable, mem *memory.Memory) (*memory.MaybeRelocatable, error) {
	indexInBlock := addr.Offset % cellsPerBlock
	if indexInBlock < inputCellsPerBlock {
		return nil, nil
	}

	blockBase := memory.Relocatable{SegmentIndex: addr.SegmentIndex, Offset: addr.Offset - indexInBlock}
	xAddr := memory.Relocatable{SegmentIndex: blockBase.SegmentIndex, Offset: blockBase.Offset}
	yAddr := memory.Relocatable{SegmentIndex: blockBase.SegmentIndex, Offset: blockBase.Offset + 1}

	xVal, err := mem.Get(xAddr)
	if err != nil {
		return nil, err
	}
	yVal, err := mem.Get(yAddr)
	if err != nil {
		return nil, err
	}
	if xVal == nil || yVal == nil {
		return nil, nil
	}

	x, ok := xVal.GetFelt()
	if !ok {
		return nil, &BitwiseInputNotFeltError{Addr: xAddr}
	}
	y, ok := yVal.GetFelt()
	if !ok {
		return nil, &BitwiseInputNotFeltError{Addr: yAddr}
	}

	var result lambdaworks.Felt
	switch indexInBlock {
	case 2:
		result = x.And(y)
	case 3:
		result = x.Xor(y)
	case 4:
		result = x.Or(y)
	}
	return memory.NewMaybeRelocatableFelt(result), nil
}

// AddValidationRule enforces that every cell written into the bitwise
// segment holds a Felt, not a Relocatable: the inputs to a bitwise
// operation are never addresses.
func (b *BitwiseBuiltinRunner) AddValidationRule(mem *memory.Memory) {
	mem.AddValidationRule(uint(b.base.SegmentIndex), func(m *memory.Memory, addr memory.Relocatable) ([]memory.Relocatable, error) {
		val, err := m.Get(addr)
		if err != nil {
			return nil, err
		}
		if val == nil {
			return nil, nil
		}
		if _, ok := val.GetFelt(); !ok {
			return nil, &BitwiseInputNotFeltError{Addr: addr}
		}
		return []memory.Relocatable{addr}, nil
	})
}
