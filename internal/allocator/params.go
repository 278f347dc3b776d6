package allocator

import "fmt"

// Params supplies the four compile-time sizing constants from spec.md §6.
// Each concrete Params type, combined with Allocator[P], produces a
// distinct monomorphic allocator type with no runtime branching on the
// sizing constants — the Go analogue of the typenum-based const generics
// the original Rust implementation used.
type Params interface {
	// BlockSize is the size requested from the Backing allocator when
	// growing the heap.
	BlockSize() uintptr
	// BlockAlign is the alignment requested from the Backing allocator
	// for heap blocks.
	BlockAlign() uintptr
	// LargeThreshold is the size at and above which a request bypasses
	// the block list and is forwarded directly to the Backing allocator.
	LargeThreshold() uintptr
	// LargeAlign is the alignment requested from the Backing allocator
	// for large direct allocations.
	LargeAlign() uintptr
}

// DefaultParams reproduces the defaults from spec.md §4.2: 64KiB blocks
// aligned to 4KiB, a 16KiB large-object threshold, and 4KiB large-object
// alignment.
type DefaultParams struct{}

func (DefaultParams) BlockSize() uintptr      { return 65536 }
func (DefaultParams) BlockAlign() uintptr     { return 4096 }
func (DefaultParams) LargeThreshold() uintptr { return 16384 }
func (DefaultParams) LargeAlign() uintptr     { return 4096 }

// validateParams checks the configuration invariant from spec.md §6:
// 0 < LargeThreshold < BlockSize; BlockAlign and LargeAlign are powers of
// two; BlockSize is a multiple of BlockAlign.
func validateParams(p Params) error {
	blockSize, blockAlign := p.BlockSize(), p.BlockAlign()
	largeThreshold, largeAlign := p.LargeThreshold(), p.LargeAlign()

	if largeThreshold == 0 || largeThreshold >= blockSize {
		return fmt.Errorf("allocator: LargeThreshold must be in (0, BlockSize); got %d with BlockSize %d", largeThreshold, blockSize)
	}

	if !isPowerOfTwo(blockAlign) {
		return fmt.Errorf("allocator: BlockAlign must be a power of two; got %d", blockAlign)
	}

	if !isPowerOfTwo(largeAlign) {
		return fmt.Errorf("allocator: LargeAlign must be a power of two; got %d", largeAlign)
	}

	if blockSize%blockAlign != 0 {
		return fmt.Errorf("allocator: BlockSize must be a multiple of BlockAlign; got %d %% %d", blockSize, blockAlign)
	}

	return nil
}
