package allocator

// AlignDown returns the greatest x <= addr such that x is a multiple of
// align. align must be a power of two.
func AlignDown(addr, align uintptr) uintptr {
	if !isPowerOfTwo(align) {
		panic("allocator: alignment must be a power of two")
	}

	return addr &^ (align - 1)
}

// AlignUp returns the smallest x >= addr such that x is a multiple of
// align. align must be a power of two.
func AlignUp(addr, align uintptr) uintptr {
	return AlignDown(addr+align-1, align)
}

func isPowerOfTwo(v uintptr) bool {
	return v != 0 && v&(v-1) == 0
}
