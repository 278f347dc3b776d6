package allocator

import (
	"errors"
	"unsafe"
)

// mockBacking is a toy backing allocator for exercising the front-end and
// HeapBlock without a real coarse allocator underneath. It services every
// request from a handful of fixed-size Go byte slices, each twice slotSize
// so an aligned region can be carved out of it, and kept alive for the
// test's duration by the mock's own references to them rather than by
// managing raw memory.
type mockBacking struct {
	slotSize uintptr
	slots    [][]byte
	inUse    map[uintptr][]byte
}

var errMockExhausted = errors.New("mockBacking: no slots remaining")

func newMockBacking(slotSize uintptr, slotCount int) *mockBacking {
	m := &mockBacking{
		slotSize: slotSize,
		inUse:    make(map[uintptr][]byte),
	}

	for i := 0; i < slotCount; i++ {
		// Over-allocate so we can carve out an aligned region from within;
		// a real backing allocator would already guarantee this alignment.
		m.slots = append(m.slots, make([]byte, slotSize*2))
	}

	return m
}

func (m *mockBacking) Alloc(layout Layout) (unsafe.Pointer, error) {
	for i, slot := range m.slots {
		if slot == nil {
			continue
		}

		base := uintptr(unsafe.Pointer(&slot[0]))
		aligned := AlignUp(base, layout.Align)

		if aligned+layout.Size > base+uintptr(len(slot)) {
			continue
		}

		m.slots[i] = nil
		m.inUse[aligned] = slot

		return unsafe.Pointer(aligned), nil
	}

	return nil, errMockExhausted
}

func (m *mockBacking) Dealloc(ptr unsafe.Pointer, _ Layout) {
	addr := uintptr(ptr)

	slot, ok := m.inUse[addr]
	if !ok {
		return
	}

	delete(m.inUse, addr)
	m.slots = append(m.slots, slot)
}

// available reports how many slots are currently free, for assertions.
func (m *mockBacking) available() int {
	n := 0

	for _, s := range m.slots {
		if s != nil {
			n++
		}
	}

	return n
}

// inUseCount reports how many slots are currently handed out.
func (m *mockBacking) inUseCount() int {
	return len(m.inUse)
}
