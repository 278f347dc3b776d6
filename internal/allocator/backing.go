package allocator

import "unsafe"

// Backing is the coarse allocator this module is built to wrap: one that
// can only hand out large, heavily-aligned memory regions (the PS Vita
// kernel allocation API being the motivating example). The front-end calls
// Alloc with exactly two layout shapes — {BlockSize, BlockAlign} when
// growing the heap, and a padded {size, LargeAlign} for large direct
// allocations — and calls Dealloc with the same layout shape that produced
// the pointer.
type Backing interface {
	// Alloc returns a region of at least layout.Size bytes aligned to
	// layout.Align, or an error if the request cannot be satisfied.
	Alloc(layout Layout) (unsafe.Pointer, error)

	// Dealloc releases a region previously returned by Alloc with the
	// identical layout.
	Dealloc(ptr unsafe.Pointer, layout Layout)
}
