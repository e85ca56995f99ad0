package memory

import (
	"math"

	"github.com/lambdaclass/cairo-vm-core/pkg/lambdaworks"
)

// Relocatable is an address into Memory: a segment id paired with an
// offset within that segment. Arithmetic is defined on the offset only;
// segment ids never mix except through Sub, which requires they match.
type Relocatable struct {
	SegmentIndex int
	Offset       uint
}

// IsEqual compares segment first, then offset.
func (r Relocatable) IsEqual(other *Relocatable) bool {
	return r.SegmentIndex == other.SegmentIndex && r.Offset == other.Offset
}

// AddUint adds a plain, already-validated offset (e.g. an instruction's
// encoded size). Only used internally where the addend is known to be
// small and non-negative.
func (r Relocatable) AddUint(value uint) (Relocatable, error) {
	if r.Offset > math.MaxUint-value {
		return Relocatable{}, &OffsetOverflowError{Base: r}
	}
	return Relocatable{SegmentIndex: r.SegmentIndex, Offset: r.Offset + value}, nil
}

// AddFelt implements Relocatable + Felt -> Relocatable: the Felt's
// canonical integer value must fit in the offset's range.
func (r Relocatable) AddFelt(f lambdaworks.Felt) (Relocatable, error) {
	value, err := f.ToU64()
	if err != nil {
		return Relocatable{}, &OffsetOverflowError{Base: r}
	}
	if value > math.MaxUint32 {
		return Relocatable{}, &OffsetOverflowError{Base: r}
	}
	newOffset := uint(value) + r.Offset
	if newOffset > math.MaxUint32 {
		return Relocatable{}, &OffsetOverflowError{Base: r}
	}
	return Relocatable{SegmentIndex: r.SegmentIndex, Offset: newOffset}, nil
}

// AddMaybeRelocatable adds a SegmentValue that is required to be a Felt
// (adding two addresses together is never legal).
func (r Relocatable) AddMaybeRelocatable(val MaybeRelocatable) (Relocatable, error) {
	felt, ok := val.GetFelt()
	if !ok {
		return Relocatable{}, &ExpectedFeltError{Addr: r}
	}
	return r.AddFelt(felt)
}

// Sub implements Relocatable - Relocatable -> Felt. Both addresses must
// live in the same segment; otherwise the subtraction is meaningless.
func (r Relocatable) Sub(other Relocatable) (lambdaworks.Felt, error) {
	if r.SegmentIndex != other.SegmentIndex {
		return lambdaworks.Felt{}, &CrossSegmentSubError{Lhs: r, Rhs: other}
	}
	if r.Offset >= other.Offset {
		return lambdaworks.FeltFromUint64(uint64(r.Offset - other.Offset)), nil
	}
	// Offset went negative in u32 space: represent as p - (other-r).
	diff := lambdaworks.FeltFromUint64(uint64(other.Offset - r.Offset))
	return lambdaworks.FeltZero().Sub(diff), nil
}

// RelocateAddress turns a segmented address into a flat address using a
// relocation table produced by MemorySegmentManager.RelocateSegments.
func (r Relocatable) RelocateAddress(relocationTable *[]uint) uint {
	return (*relocationTable)[r.SegmentIndex] + r.Offset
}
