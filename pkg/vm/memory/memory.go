package memory

// A Set to store Relocatable values
type AddressSet map[Relocatable]bool

func NewAddressSet() AddressSet {
	return make(map[Relocatable]bool)
}

func (set AddressSet) Add(element Relocatable) {
	set[element] = true
}

func (set AddressSet) Contains(element Relocatable) bool {
	return set[element]
}

// A function that validates a memory address and returns a list of validated addresses
type ValidationRule func(*Memory, Relocatable) ([]Relocatable, error)

// Memory represents the Cairo VM's memory: a sequence of segments, each a
// sparse, write-once mapping from offset to SegmentValue.
type Memory struct {
	data                map[Relocatable]MaybeRelocatable
	num_segments        uint
	validation_rules    map[uint]ValidationRule
	validated_addresses AddressSet
}

func NewMemory() *Memory {
	return &Memory{
		data:                make(map[Relocatable]MaybeRelocatable),
		validated_addresses: NewAddressSet(),
		validation_rules:    make(map[uint]ValidationRule),
	}
}

func (m *Memory) NumSegments() uint {
	return m.num_segments
}

// AddSegment appends an empty segment and returns its id.
func (m *Memory) AddSegment() uint {
	id := m.num_segments
	m.num_segments++
	return id
}

// Insert sets a cell's value, enforcing write-once and segment bounds.
func (m *Memory) Insert(addr Relocatable, val *MaybeRelocatable) error {
	if addr.SegmentIndex < 0 {
		return &NegativeSegmentIndexError{SegmentIndex: addr.SegmentIndex}
	}

	if addr.SegmentIndex >= int(m.num_segments) {
		return &SegmentOutOfBoundsError{SegmentIndex: addr.SegmentIndex, NumSegments: m.num_segments}
	}

	prev_elem, ok := m.data[addr]
	if ok && prev_elem.inner != val.inner {
		return &InconsistentMemoryError{Addr: addr, OldValue: prev_elem, NewValue: *val}
	}
	m.data[addr] = *val
	return m.validateAddress(addr)
}

// Get performs a pure read, returning (nil, nil) for an unassigned cell.
func (m *Memory) Get(addr Relocatable) (*MaybeRelocatable, error) {
	if addr.SegmentIndex < 0 {
		return nil, &NegativeSegmentIndexError{SegmentIndex: addr.SegmentIndex}
	}

	if addr.SegmentIndex >= int(m.num_segments) {
		return nil, &SegmentOutOfBoundsError{SegmentIndex: addr.SegmentIndex, NumSegments: m.num_segments}
	}

	value, ok := m.data[addr]
	if !ok {
		return nil, nil
	}

	return &value, nil
}

// GetRequired behaves like Get but fails with UndefinedValueError on an
// unassigned cell instead of returning nil.
func (m *Memory) GetRequired(addr Relocatable) (*MaybeRelocatable, error) {
	value, err := m.Get(addr)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, &UndefinedValueError{Addr: addr}
	}
	return value, nil
}

// Adds a validation rule for a given segment
func (m *Memory) AddValidationRule(segment_index uint, rule ValidationRule) {
	m.validation_rules[segment_index] = rule
}

// Applies the validation rule for the addr's segment if any
// Skips validation if the address is temporary or if it has been previously validated
func (m *Memory) validateAddress(addr Relocatable) error {
	if addr.SegmentIndex < 0 || m.validated_addresses.Contains(addr) {
		return nil
	}
	rule, ok := m.validation_rules[uint(addr.SegmentIndex)]
	if !ok {
		return nil
	}
	validated_addresses, error := rule(m, addr)
	if error != nil {
		return error
	}
	for _, validated_address := range validated_addresses {
		m.validated_addresses.Add(validated_address)
	}
	return nil
}

// Applies validation_rules to every memory address, if applicatble
// Skips validation if the address is temporary or if it has been previously validated
func (m *Memory) ValidateExistingMemory() error {
	for addr := range m.data {
		err := m.validateAddress(addr)
		if err != nil {
			return err
		}
	}
	return nil
}
