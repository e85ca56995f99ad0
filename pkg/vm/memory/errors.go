package memory

import "fmt"

// InconsistentMemoryError is raised when a write-once cell is written
// twice with two different values.
type InconsistentMemoryError struct {
	Addr     Relocatable
	OldValue MaybeRelocatable
	NewValue MaybeRelocatable
}

func (e *InconsistentMemoryError) Error() string {
	return fmt.Sprintf("inconsistent memory assignment at address %d:%d. Old value: %v, new value: %v", e.Addr.SegmentIndex, e.Addr.Offset, e.OldValue.inner, e.NewValue.inner)
}

// SegmentOutOfBoundsError is raised when an address references a segment
// that has not been allocated yet.
type SegmentOutOfBoundsError struct {
	SegmentIndex int
	NumSegments  uint
}

func (e *SegmentOutOfBoundsError) Error() string {
	return fmt.Sprintf("segment %d out of bounds: only %d segments allocated", e.SegmentIndex, e.NumSegments)
}

// UndefinedValueError is raised when a required cell has no assigned value.
type UndefinedValueError struct {
	Addr Relocatable
}

func (e *UndefinedValueError) Error() string {
	return fmt.Sprintf("cell %d:%d is unknown", e.Addr.SegmentIndex, e.Addr.Offset)
}

// ExpectedFeltError is raised when a SegmentValue extractor expects a
// Felt but finds a Relocatable.
type ExpectedFeltError struct {
	Addr Relocatable
}

func (e *ExpectedFeltError) Error() string {
	return fmt.Sprintf("expected a felt at %d:%d, found a relocatable", e.Addr.SegmentIndex, e.Addr.Offset)
}

// ExpectedRelocatableError is raised when a SegmentValue extractor
// expects a Relocatable but finds a Felt.
type ExpectedRelocatableError struct {
	Addr Relocatable
}

func (e *ExpectedRelocatableError) Error() string {
	return fmt.Sprintf("expected a relocatable at %d:%d, found a felt", e.Addr.SegmentIndex, e.Addr.Offset)
}

// NegativeSegmentIndexError is raised by any operation addressing a
// temporary (negative) segment id; temporary segments are not modeled.
type NegativeSegmentIndexError struct {
	SegmentIndex int
}

func (e *NegativeSegmentIndexError) Error() string {
	return fmt.Sprintf("segment index %d is negative, temporary segments are unsupported", e.SegmentIndex)
}

// OffsetOverflowError is raised when adding to a Relocatable's offset
// would carry it outside the representable range.
type OffsetOverflowError struct {
	Base Relocatable
}

func (e *OffsetOverflowError) Error() string {
	return fmt.Sprintf("offset overflow adding to %d:%d", e.Base.SegmentIndex, e.Base.Offset)
}

// CrossSegmentSubError is raised when subtracting two Relocatables that
// live in different segments.
type CrossSegmentSubError struct {
	Lhs Relocatable
	Rhs Relocatable
}

func (e *CrossSegmentSubError) Error() string {
	return fmt.Sprintf("cannot subtract addresses in different segments: %d:%d - %d:%d", e.Lhs.SegmentIndex, e.Lhs.Offset, e.Rhs.SegmentIndex, e.Rhs.Offset)
}
