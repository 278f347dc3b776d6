package allocator

// Layout describes an allocation request: a byte size and a power-of-two
// alignment, exactly as in a standard host allocator interface.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// NewLayout builds a Layout from a size and alignment.
func NewLayout(size, align uintptr) Layout {
	return Layout{Size: size, Align: align}
}

// PaddingNeededFor returns the number of bytes that must be appended to
// l.Size so that l.Size+padding is a multiple of align.
func (l Layout) PaddingNeededFor(align uintptr) uintptr {
	return AlignUp(l.Size, align) - l.Size
}

// Padded returns a new Layout whose size has been rounded up so that it is
// a multiple of align, and whose alignment is align itself.
func (l Layout) Padded(align uintptr) Layout {
	padding := l.PaddingNeededFor(align)

	return Layout{Size: l.Size + padding, Align: align}
}
