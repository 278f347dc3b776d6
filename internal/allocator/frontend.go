package allocator

import "unsafe"

// Allocator is the public front-end: it routes each request by size,
// maintains the linked list of heap blocks, invokes the Backing allocator
// for block creation and for direct large allocations, and serialises
// access through a single mutex. P supplies the four compile-time sizing
// constants (see Params).
type Allocator[P Params] struct {
	params  P
	backing Backing
	mu      SpinMutex
	head    *HeapBlock
	tail    *HeapBlock
}

// New constructs an Allocator wrapping backing, with an empty block list.
// It validates P's sizing constants up front and reports a
// ConfigurationError-shaped error if they violate spec.md §6's invariant;
// no heap operations are performed until the first Alloc call.
func New[P Params](backing Backing) (*Allocator[P], error) {
	var params P
	if err := validateParams(params); err != nil {
		return nil, err
	}

	return &Allocator[P]{params: params, backing: backing}, nil
}

// NewDefault is a convenience constructor for Allocator[DefaultParams],
// whose constants are known-valid and never fail validation.
func NewDefault(backing Backing) *Allocator[DefaultParams] {
	a, err := New[DefaultParams](backing)
	if err != nil {
		// DefaultParams is statically known to satisfy validateParams.
		panic(err)
	}

	return a
}

// Alloc services one allocation request. Requests at or above
// P.LargeThreshold() are padded to P.LargeAlign() and forwarded straight
// to the backing allocator. Smaller requests are served by a first-fit
// walk of the block chain, growing the heap by one P.BlockSize() block
// when no existing block fits. It returns nil on backing-allocator
// failure.
func (a *Allocator[P]) Alloc(layout Layout) unsafe.Pointer {
	guard := a.mu.Lock()
	defer guard.Unlock()

	if layout.Size >= a.params.LargeThreshold() {
		return a.allocLarge(layout)
	}

	return a.allocSmall(layout)
}

func (a *Allocator[P]) allocLarge(layout Layout) unsafe.Pointer {
	padded := layout.Padded(a.params.LargeAlign())

	ptr, err := a.backing.Alloc(padded)
	if err != nil {
		return nil
	}

	return ptr
}

func (a *Allocator[P]) allocSmall(layout Layout) unsafe.Pointer {
	small := normalizeSmall(layout)

	for b := a.head; b != nil; b = b.next {
		if ptr, err := b.AllocateFirstFit(small); err == nil {
			return ptr
		}
	}

	blockLayout := Layout{Size: a.params.BlockSize(), Align: a.params.BlockAlign()}

	region, err := a.backing.Alloc(blockLayout)
	if err != nil {
		return nil
	}

	block := NewHeapBlock(uintptr(region), blockLayout.Size)

	ptr, err := block.AllocateFirstFit(small)
	if err != nil {
		// Under a correctly configured Params (LargeThreshold < BlockSize)
		// this cannot happen: a fresh block is one maximal hole at least
		// BlockSize bytes wide.
		return nil
	}

	a.appendBlock(block)

	return ptr
}

// Dealloc releases a pointer previously returned by Alloc. The caller must
// pass the identical layout used for the matching Alloc call, which is
// what lets Dealloc route to the same path (large vs. small) Alloc used.
func (a *Allocator[P]) Dealloc(ptr unsafe.Pointer, layout Layout) {
	guard := a.mu.Lock()
	defer guard.Unlock()

	if layout.Size >= a.params.LargeThreshold() {
		padded := layout.Padded(a.params.LargeAlign())
		a.backing.Dealloc(ptr, padded)

		return
	}

	a.deallocSmall(ptr, normalizeSmall(layout))
}

func (a *Allocator[P]) deallocSmall(ptr unsafe.Pointer, layout Layout) {
	var prev *HeapBlock

	for b := a.head; b != nil; b = b.next {
		if !b.Contains(ptr) {
			prev = b

			continue
		}

		b.Deallocate(ptr, layout.Size)

		if b.IsEmpty() && a.head != a.tail {
			a.unlink(prev, b)

			region := unsafe.Pointer(b.Base())
			blockLayout := Layout{Size: a.params.BlockSize(), Align: a.params.BlockAlign()}
			a.backing.Dealloc(region, blockLayout)
		}

		return
	}
}

// Realloc is the trivial copy-based reallocation derivable from Alloc and
// Dealloc: spec.md §1 explicitly scopes out anything more sophisticated
// (e.g. in-place growth).
func (a *Allocator[P]) Realloc(ptr unsafe.Pointer, oldLayout Layout, newSize uintptr) unsafe.Pointer {
	newLayout := Layout{Size: newSize, Align: oldLayout.Align}

	newPtr := a.Alloc(newLayout)
	if newPtr == nil {
		return nil
	}

	copySize := oldLayout.Size
	if newSize < copySize {
		copySize = newSize
	}

	copyMemory(newPtr, ptr, copySize)
	a.Dealloc(ptr, oldLayout)

	return newPtr
}

func (a *Allocator[P]) appendBlock(b *HeapBlock) {
	if a.head == nil {
		a.head = b
		a.tail = b

		return
	}

	a.tail.next = b
	a.tail = b
}

func (a *Allocator[P]) unlink(prev, b *HeapBlock) {
	if prev == nil {
		a.head = b.next
	} else {
		prev.next = b.next
	}

	if a.tail == b {
		a.tail = prev
	}

	b.next = nil
}

// normalizeSmall rounds a small-path layout's size up to MinSize() and to
// a multiple of the hole descriptor's alignment, keeping the caller's
// requested alignment untouched. Alloc and Dealloc must apply the exact
// same normalization so a freed hole's size matches what was carved out
// of the block at allocation time.
func normalizeSmall(layout Layout) Layout {
	size := layout.Size
	if size < MinSize() {
		size = MinSize()
	}

	size = AlignUp(size, holeAlign)

	return Layout{Size: size, Align: layout.Align}
}

// copyMemory copies size bytes from src to dst via byte slices backed by
// the two unsafe pointers.
func copyMemory(dst, src unsafe.Pointer, size uintptr) {
	if size == 0 {
		return
	}

	dstSlice := unsafe.Slice((*byte)(dst), size)
	srcSlice := unsafe.Slice((*byte)(src), size)
	copy(dstSlice, srcSlice)
}
