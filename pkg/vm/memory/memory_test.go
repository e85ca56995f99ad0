package memory_test

import (
	"testing"

	"github.com/lambdaclass/cairo-vm-core/pkg/lambdaworks"
	"github.com/lambdaclass/cairo-vm-core/pkg/vm/memory"
)

func TestInsertAndGet(t *testing.T) {
	m := memory.NewMemory()
	m.AddSegment()
	addr := memory.Relocatable{SegmentIndex: 0, Offset: 3}
	val := memory.NewMaybeRelocatableFelt(lambdaworks.FeltFromUint64(7))

	if err := m.Insert(addr, val); err != nil {
		t.Fatalf("Insert failed: %s", err)
	}

	got, err := m.Get(addr)
	if err != nil {
		t.Fatalf("Get failed: %s", err)
	}
	if !got.IsEqual(val) {
		t.Errorf("Get returned wrong value: %+v", got)
	}
}

func TestGetUnassignedIsUnknownNotError(t *testing.T) {
	m := memory.NewMemory()
	m.AddSegment()
	got, err := m.Get(memory.Relocatable{SegmentIndex: 0, Offset: 0})
	if err != nil {
		t.Fatalf("Get on unassigned cell should not error, got: %s", err)
	}
	if got != nil {
		t.Errorf("Get on unassigned cell should return nil, got: %+v", got)
	}
}

func TestGetRequiredUnassignedFails(t *testing.T) {
	m := memory.NewMemory()
	m.AddSegment()
	_, err := m.GetRequired(memory.Relocatable{SegmentIndex: 0, Offset: 0})
	if _, ok := err.(*memory.UndefinedValueError); !ok {
		t.Errorf("Expected UndefinedValueError, got: %v", err)
	}
}

func TestWriteOnceSameValueSucceeds(t *testing.T) {
	m := memory.NewMemory()
	m.AddSegment()
	addr := memory.Relocatable{SegmentIndex: 0, Offset: 0}
	val := memory.NewMaybeRelocatableFelt(lambdaworks.FeltFromUint64(5))

	if err := m.Insert(addr, val); err != nil {
		t.Fatalf("first insert failed: %s", err)
	}
	if err := m.Insert(addr, val); err != nil {
		t.Errorf("re-inserting the same value should succeed, got: %s", err)
	}
}

func TestWriteOnceDifferentValueFails(t *testing.T) {
	m := memory.NewMemory()
	m.AddSegment()
	addr := memory.Relocatable{SegmentIndex: 0, Offset: 0}

	if err := m.Insert(addr, memory.NewMaybeRelocatableFelt(lambdaworks.FeltFromUint64(5))); err != nil {
		t.Fatalf("first insert failed: %s", err)
	}
	err := m.Insert(addr, memory.NewMaybeRelocatableFelt(lambdaworks.FeltFromUint64(6)))
	if _, ok := err.(*memory.InconsistentMemoryError); !ok {
		t.Errorf("Expected InconsistentMemoryError, got: %v", err)
	}
}

func TestInsertIntoUnallocatedSegmentFails(t *testing.T) {
	m := memory.NewMemory()
	addr := memory.Relocatable{SegmentIndex: 0, Offset: 0}
	err := m.Insert(addr, memory.NewMaybeRelocatableFelt(lambdaworks.FeltFromUint64(1)))
	if _, ok := err.(*memory.SegmentOutOfBoundsError); !ok {
		t.Errorf("Expected SegmentOutOfBoundsError, got: %v", err)
	}
}

func TestGetFromUnallocatedSegmentFails(t *testing.T) {
	m := memory.NewMemory()
	m.AddSegment()
	addr := memory.Relocatable{SegmentIndex: 1, Offset: 0}

	if _, err := m.Get(addr); err == nil {
		t.Fatal("expected Get on an unallocated segment to fail")
	} else if _, ok := err.(*memory.SegmentOutOfBoundsError); !ok {
		t.Errorf("Expected SegmentOutOfBoundsError, got: %v", err)
	}

	if _, err := m.GetRequired(addr); err == nil {
		t.Fatal("expected GetRequired on an unallocated segment to fail")
	} else if _, ok := err.(*memory.SegmentOutOfBoundsError); !ok {
		t.Errorf("Expected SegmentOutOfBoundsError, got: %v", err)
	}
}

func TestRelocatableArithmetic(t *testing.T) {
	a := memory.Relocatable{SegmentIndex: 1, Offset: 5}
	b := memory.Relocatable{SegmentIndex: 1, Offset: 2}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub failed: %s", err)
	}
	if diff != lambdaworks.FeltFromUint64(3) {
		t.Errorf("Expected 3, got %v", diff)
	}

	_, err = a.Sub(memory.Relocatable{SegmentIndex: 2, Offset: 2})
	if _, ok := err.(*memory.CrossSegmentSubError); !ok {
		t.Errorf("Expected CrossSegmentSubError, got: %v", err)
	}
}

func TestRelocatableAddFeltOverflow(t *testing.T) {
	a := memory.Relocatable{SegmentIndex: 0, Offset: 0}
	huge := lambdaworks.FeltFromHex("800000000000011000000000000000000000000000000000000000000000000")
	_, err := a.AddFelt(huge)
	if _, ok := err.(*memory.OffsetOverflowError); !ok {
		t.Errorf("Expected OffsetOverflowError, got: %v", err)
	}
}
