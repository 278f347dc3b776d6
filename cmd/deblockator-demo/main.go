// Package main demonstrates the deblockator allocator running over a real
// mmap-backed coarse allocator: growing the block list under mixed
// small/large traffic, then freeing every allocation. The large region is
// returned to the kernel; the last heap block stays mapped, since the
// allocator never reclaims its only block.
package main

import (
	"fmt"
	"unsafe"

	"github.com/vita-go/deblockator/internal/allocator"
	"github.com/vita-go/deblockator/internal/mmapbacking"
)

func main() {
	backing := mmapbacking.New()

	a := allocator.NewDefault(backing)

	fmt.Println("deblockator demo: mixed small/large allocation traffic")

	var small []unsafe.Pointer

	for i := 0; i < 64; i++ {
		layout := allocator.NewLayout(uintptr(16+i%48), 8)

		ptr := a.Alloc(layout)
		if ptr == nil {
			fmt.Printf("small allocation %d failed\n", i)

			continue
		}

		small = append(small, ptr)
	}

	fmt.Printf("placed %d small allocations\n", len(small))

	largeLayout := allocator.NewLayout(32768, 4096)

	large := a.Alloc(largeLayout)
	if large == nil {
		fmt.Println("large allocation failed")
	} else {
		fmt.Println("placed one large allocation")
	}

	for i, ptr := range small {
		layout := allocator.NewLayout(uintptr(16+i%48), 8)
		a.Dealloc(ptr, layout)
	}

	if large != nil {
		a.Dealloc(large, largeLayout)
	}

	fmt.Println("released every allocation")
}
