package memory

import (
	"errors"

	"github.com/lambdaclass/cairo-vm-core/pkg/lambdaworks"
)

// MemorySegmentManager owns Memory and tracks, per segment, the
// allocator bookkeeping the core itself does not need but an external
// loader (pkg/runners) does: how big each segment turned out to be, for
// flattening a segmented trace into a single linear address space.
type MemorySegmentManager struct {
	Memory        Memory
	segment_sizes map[uint]uint
}

func NewMemorySegmentManager() MemorySegmentManager {
	return MemorySegmentManager{
		Memory:        *NewMemory(),
		segment_sizes: make(map[uint]uint),
	}
}

// AddSegment appends an empty segment and returns its base address.
func (m *MemorySegmentManager) AddSegment() Relocatable {
	id := m.Memory.AddSegment()
	return Relocatable{SegmentIndex: int(id), Offset: 0}
}

// ComputeEffectiveSizes recomputes, for every segment, one past the
// highest assigned offset, by scanning the current memory contents.
func (m *MemorySegmentManager) ComputeEffectiveSizes() map[uint]uint {
	sizes := make(map[uint]uint)
	for addr := range m.Memory.data {
		if addr.SegmentIndex < 0 {
			continue
		}
		idx := uint(addr.SegmentIndex)
		if addr.Offset+1 > sizes[idx] {
			sizes[idx] = addr.Offset + 1
		}
	}
	m.segment_sizes = sizes
	return sizes
}

// RelocateSegments builds a table mapping each segment id to the flat
// address its offset 0 is relocated to. Segment 0 starts at 1, matching
// the convention the prover expects (address 0 is reserved).
func (m *MemorySegmentManager) RelocateSegments() ([]uint, bool) {
	if m.segment_sizes == nil {
		return nil, false
	}
	table := make([]uint, m.Memory.NumSegments())
	offset := uint(1)
	for i := uint(0); i < m.Memory.NumSegments(); i++ {
		table[i] = offset
		offset += m.segment_sizes[i]
	}
	return table, true
}

// RelocateMemory flattens every assigned cell into a single map keyed by
// its relocated address, converting Relocatable values to Felts in the
// process (a flat trace has no notion of segments).
func (m *MemorySegmentManager) RelocateMemory(relocationTable *[]uint) (map[uint]lambdaworks.Felt, error) {
	if relocationTable == nil || len(*relocationTable) == 0 {
		return nil, errors.New("no relocation table computed")
	}
	relocated := make(map[uint]lambdaworks.Felt, len(m.Memory.data))
	for addr, val := range m.Memory.data {
		if addr.SegmentIndex < 0 {
			continue
		}
		flatAddr := addr.RelocateAddress(relocationTable)
		if felt, ok := val.GetFelt(); ok {
			relocated[flatAddr] = felt
			continue
		}
		rel, _ := val.GetRelocatable()
		relocated[flatAddr] = lambdaworks.FeltFromUint64(uint64(rel.RelocateAddress(relocationTable)))
	}
	return relocated, nil
}
