package allocator

import (
	"errors"
	"unsafe"
)

// ErrNoFit is returned by HeapBlock.AllocateFirstFit when no hole in the
// block's free list can satisfy the requested layout. It is not an
// externally visible allocation failure: the front-end uses it to decide
// whether to try the next block in the chain or grow the heap.
var ErrNoFit = errors.New("allocator: no hole fits the requested layout")

// HeapBlock owns one contiguous region obtained from a Backing allocator.
// Inside that region it runs a classical free-list, first-fit allocator:
// base and capacity are fixed for the block's lifetime, and first is a
// sentinel hole header kept outside the managed region so the list is
// never empty even when the whole block is free.
type HeapBlock struct {
	base     uintptr
	capacity uintptr
	first    hole // sentinel; only .next is meaningful
	next     *HeapBlock
}

// NewHeapBlock installs a single hole spanning the whole region
// [base, base+capacity) and returns the owning HeapBlock. capacity must be
// at least MinSize(); behaviour is undefined otherwise, same as the spec
// this block implements.
func NewHeapBlock(base, capacity uintptr) *HeapBlock {
	b := &HeapBlock{base: base, capacity: capacity}

	h := holeAt(base)
	h.size = capacity
	h.next = nil
	b.first.next = h

	return b
}

// Base returns the start address of the block's managed region.
func (b *HeapBlock) Base() uintptr { return b.base }

// Capacity returns the size, in bytes, of the block's managed region.
func (b *HeapBlock) Capacity() uintptr { return b.capacity }

// Contains reports whether ptr lies within this block's managed region.
func (b *HeapBlock) Contains(ptr unsafe.Pointer) bool {
	addr := uintptr(ptr)

	return addr >= b.base && addr < b.base+b.capacity
}

// IsEmpty reports whether the block has no live allocations: a single hole
// covering the entire region.
func (b *HeapBlock) IsEmpty() bool {
	h := b.first.next

	return h != nil && h.next == nil && addrOf(h) == b.base && h.size == b.capacity
}

// AllocateFirstFit walks the hole list in address order and returns a
// pointer to the first hole able to satisfy layout, splitting it into up
// to two remainder holes. It reports ErrNoFit if no hole fits, including
// the case where the fit arithmetic would overflow the address space.
func (b *HeapBlock) AllocateFirstFit(layout Layout) (unsafe.Pointer, error) {
	size := layout.Size
	if size < MinSize() {
		size = MinSize()
	}

	size = AlignUp(size, holeAlign)

	prev := &b.first
	cur := b.first.next

	for cur != nil {
		h := addrOf(cur)
		hSize := cur.size

		aligned := AlignUp(h, layout.Align)
		end := aligned + size

		overflowed := end < aligned || aligned < h
		if !overflowed && end <= h+hSize {
			frontPad := aligned - h
			backPad := (h + hSize) - end

			frontOK := frontPad == 0 || frontPad >= MinSize()
			backOK := backPad == 0 || backPad >= MinSize()

			if frontOK && backOK {
				b.splitHole(prev, cur, h, aligned, frontPad, backPad)

				return unsafe.Pointer(aligned), nil
			}
		}

		prev = cur
		cur = cur.next
	}

	return nil, ErrNoFit
}

// splitHole removes cur from the list (currently linked after prev) and
// re-inserts whichever of its front/back remainders are non-empty.
func (b *HeapBlock) splitHole(prev, cur *hole, h, aligned, frontPad, backPad uintptr) {
	tail := cur.next

	var front, back *hole

	if backPad > 0 {
		back = holeAt((h + cur.size) - backPad)
		back.size = backPad
		back.next = tail
	}

	if frontPad > 0 {
		front = holeAt(h)
		front.size = frontPad
		if back != nil {
			front.next = back
		} else {
			front.next = tail
		}
	}

	switch {
	case front != nil:
		prev.next = front
	case back != nil:
		prev.next = back
	default:
		prev.next = tail
	}
}

// Deallocate returns the extent [ptr, ptr+size) to the block's free list,
// inserting it at the correct sorted position and coalescing with an
// adjacent predecessor and/or successor hole.
func (b *HeapBlock) Deallocate(ptr unsafe.Pointer, size uintptr) {
	addr := uintptr(ptr)

	freed := holeAt(addr)
	freed.size = size

	prev := &b.first
	cur := b.first.next

	for cur != nil && addrOf(cur) < addr {
		prev = cur
		cur = cur.next
	}

	freed.next = cur
	prev.next = freed

	if cur != nil && addr+size == addrOf(cur) {
		freed.size += cur.size
		freed.next = cur.next
	}

	if prev != &b.first && addrOf(prev)+prev.size == addr {
		prev.size += freed.size
		prev.next = freed.next
	}
}

// holeExtent is the address and size of one free-list node, used only by
// tests to assert the well-formedness invariants from spec §8 without
// reaching into block internals directly.
type holeExtent struct {
	Addr uintptr
	Size uintptr
}

func (b *HeapBlock) holeExtents() []holeExtent {
	var extents []holeExtent
	for h := b.first.next; h != nil; h = h.next {
		extents = append(extents, holeExtent{Addr: addrOf(h), Size: h.size})
	}

	return extents
}
