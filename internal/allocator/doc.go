// Package allocator implements a general-purpose dynamic memory allocator
// that runs on top of a coarse backing allocator — one that can only hand
// out large, heavily-aligned memory regions, such as the PS Vita kernel's
// 4kB-aligned allocation API.
//
// A coarse backing allocator is unusable directly for small heterogeneous
// requests: every small object would waste an entire region. This package
// interposes a growable linked heap made of fixed-size HeapBlocks, inside
// which a classical free-list, first-fit allocator services small
// requests. Large requests bypass the intra-block allocator entirely and
// go straight to the backing allocator.
//
// # Algorithm
//
// [Allocator] maintains a singly-linked chain of [HeapBlock] values. When a
// request arrives it is routed by size: requests at or above
// Params.LargeThreshold() go straight to the backing allocator, padded up
// to Params.LargeAlign(). Smaller requests walk the block chain using
// first-fit; if no existing block can satisfy the request, a new block of
// Params.BlockSize() bytes is requested from the backing allocator and
// spliced onto the end of the chain.
//
// Deallocation mirrors allocation: the same size threshold routes the
// request back to the backing allocator, or to the owning block, which is
// located by address-range containment. A block is unlinked and returned
// to the backing allocator once it is completely empty, unless it is the
// only block left in the chain.
//
// # Concurrency
//
// Every public operation acquires [Allocator]'s mutex for its entire
// duration; there is no finer-grained locking. The allocator is not
// re-entrant — a backing allocator that itself allocates through the same
// Allocator instance will deadlock.
package allocator
