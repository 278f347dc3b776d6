// Package mmapbacking implements allocator.Backing over anonymous,
// page-aligned mappings obtained from the host kernel via
// golang.org/x/sys/unix. It stands in for the PS Vita kernel's 4KB-aligned
// allocation API on a hosted development machine, giving the front-end a
// real coarse allocator to run against instead of the test-only mock.
package mmapbacking

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/vita-go/deblockator/internal/allocator"
)

// mapping records the real mmap(2) extent backing a pointer Alloc
// returned, which may be offset from aligned for alignments coarser than
// the page size. Dealloc must unmap this whole extent, not just the
// portion from the returned pointer onward, or the head padding bytes
// leak for the lifetime of the process.
type mapping struct {
	base   uintptr
	length int
}

// Mmap is a Backing implementation that services every request with its
// own independent unix.Mmap call and releases it with unix.Munmap on
// Dealloc. It tracks each live mapping's real base and length, keyed by
// the pointer returned to the caller, so Dealloc can unmap the entire
// underlying mapping even when the returned pointer was offset from it.
type Mmap struct {
	mu       sync.Mutex
	mappings map[uintptr]mapping
}

// New returns a ready-to-use Mmap backing allocator.
func New() *Mmap {
	return &Mmap{mappings: make(map[uintptr]mapping)}
}

// Alloc maps anonymous, zero-filled memory large enough to satisfy layout.
// mmap(2) always returns a page-aligned address; when layout demands a
// coarser alignment than the page size, Alloc over-maps and records the
// full mapping so Dealloc can still unmap the whole thing.
func (m *Mmap) Alloc(layout allocator.Layout) (unsafe.Pointer, error) {
	pageSize := uintptr(unix.Getpagesize())

	length := layout.Size
	if layout.Align > pageSize {
		length += layout.Align
	}

	data, err := unix.Mmap(-1, 0, int(length), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("mmapbacking: mmap %d bytes: %w", length, err)
	}

	base := uintptr(unsafe.Pointer(&data[0]))
	aligned := allocator.AlignUp(base, layout.Align)

	m.mu.Lock()
	m.mappings[aligned] = mapping{base: base, length: len(data)}
	m.mu.Unlock()

	return unsafe.Pointer(aligned), nil
}

// Dealloc unmaps the entire real mmap(2) extent that backs ptr, including
// any head padding reserved for alignment, not just the range from ptr
// onward.
func (m *Mmap) Dealloc(ptr unsafe.Pointer, _ allocator.Layout) {
	addr := uintptr(ptr)

	m.mu.Lock()
	region, ok := m.mappings[addr]
	if ok {
		delete(m.mappings, addr)
	}
	m.mu.Unlock()

	if !ok || region.length <= 0 {
		return
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(region.base)), region.length)
	_ = unix.Munmap(data)
}
