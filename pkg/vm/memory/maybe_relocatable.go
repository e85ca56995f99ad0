package memory

import (
	"github.com/lambdaclass/cairo-vm-core/pkg/lambdaworks"
)

// MaybeRelocatable is the tagged sum {Felt, Relocatable} the spec calls
// SegmentValue: every memory cell holds exactly one of these two shapes.
type MaybeRelocatable struct {
	inner any // either lambdaworks.Felt or Relocatable
}

// NewMaybeRelocatableFelt wraps a Felt as a SegmentValue.
func NewMaybeRelocatableFelt(f lambdaworks.Felt) *MaybeRelocatable {
	return &MaybeRelocatable{inner: f}
}

// NewMaybeRelocatableRelocatable wraps a Relocatable as a SegmentValue.
func NewMaybeRelocatableRelocatable(r Relocatable) *MaybeRelocatable {
	return &MaybeRelocatable{inner: r}
}

// IsFelt reports whether the value is the Felt variant.
func (m *MaybeRelocatable) IsFelt() bool {
	_, ok := m.inner.(lambdaworks.Felt)
	return ok
}

// IsRelocatable reports whether the value is the Relocatable variant.
func (m *MaybeRelocatable) IsRelocatable() bool {
	_, ok := m.inner.(Relocatable)
	return ok
}

// GetFelt extracts the Felt variant, failing on a Relocatable.
func (m *MaybeRelocatable) GetFelt() (lambdaworks.Felt, bool) {
	felt, ok := m.inner.(lambdaworks.Felt)
	return felt, ok
}

// GetRelocatable extracts the Relocatable variant, failing on a Felt.
func (m *MaybeRelocatable) GetRelocatable() (Relocatable, bool) {
	rel, ok := m.inner.(Relocatable)
	return rel, ok
}

// IsEqual compares the underlying tagged values.
func (m *MaybeRelocatable) IsEqual(other *MaybeRelocatable) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.inner == other.inner
}

// IsZero reports whether the value is the Felt 0. A Relocatable is never zero.
func (m *MaybeRelocatable) IsZero() bool {
	felt, ok := m.GetFelt()
	return ok && felt.IsZero()
}

// Add implements res_logic=Add: Felt+Felt=Felt, Relocatable+Felt=Relocatable
// (either operand order), Relocatable+Relocatable is an error.
func (m MaybeRelocatable) Add(other MaybeRelocatable) (MaybeRelocatable, error) {
	mFelt, mIsFelt := m.GetFelt()
	oFelt, oIsFelt := other.GetFelt()

	if mIsFelt && oIsFelt {
		return *NewMaybeRelocatableFelt(mFelt.Add(oFelt)), nil
	}
	if !mIsFelt && oIsFelt {
		mRel, _ := m.GetRelocatable()
		newRel, err := mRel.AddFelt(oFelt)
		if err != nil {
			return MaybeRelocatable{}, err
		}
		return *NewMaybeRelocatableRelocatable(newRel), nil
	}
	if mIsFelt && !oIsFelt {
		oRel, _ := other.GetRelocatable()
		newRel, err := oRel.AddFelt(mFelt)
		if err != nil {
			return MaybeRelocatable{}, err
		}
		return *NewMaybeRelocatableRelocatable(newRel), nil
	}
	mRel, _ := m.GetRelocatable()
	return MaybeRelocatable{}, &ExpectedFeltError{Addr: mRel}
}

// Sub implements the inverse of Add: Felt-Felt=Felt, Relocatable-Felt=Relocatable,
// Relocatable-Relocatable=Felt (same segment only), Felt-Relocatable is an error.
func (m MaybeRelocatable) Sub(other MaybeRelocatable) (MaybeRelocatable, error) {
	mFelt, mIsFelt := m.GetFelt()
	oFelt, oIsFelt := other.GetFelt()

	if mIsFelt && oIsFelt {
		return *NewMaybeRelocatableFelt(mFelt.Sub(oFelt)), nil
	}
	if !mIsFelt && oIsFelt {
		mRel, _ := m.GetRelocatable()
		newRel, err := mRel.AddFelt(lambdaworks.FeltZero().Sub(oFelt))
		if err != nil {
			return MaybeRelocatable{}, err
		}
		return *NewMaybeRelocatableRelocatable(newRel), nil
	}
	if !mIsFelt && !oIsFelt {
		mRel, _ := m.GetRelocatable()
		oRel, _ := other.GetRelocatable()
		diff, err := mRel.Sub(oRel)
		if err != nil {
			return MaybeRelocatable{}, err
		}
		return *NewMaybeRelocatableFelt(diff), nil
	}
	oRel, _ := other.GetRelocatable()
	return MaybeRelocatable{}, &ExpectedRelocatableError{Addr: oRel}
}
