package allocator

import (
	"runtime"
	"sync/atomic"
)

// SpinMutex is a busy-wait mutex over a single atomic flag, suitable for
// the short critical sections this allocator uses. It has no sleeping
// path, unlike a kernel-mediated mutex, which makes it the right adapter
// for a hosted target where blocking syscalls are undesirable on the
// allocation fast path.
//
// An embedded target (one without an OS scheduler backing
// runtime.Gosched) would instead want a named kernel mutex created lazily
// on first use, exactly as the PS Vita kernel API this allocator was
// originally designed for requires. That adapter needs kernel FFI
// bindings, which spec.md §1 places out of scope for this module; only
// the hosted spin mutex is implemented here.
type SpinMutex struct {
	locked atomic.Bool
}

// SpinGuard is held while the mutex is locked and releases it when
// Unlock is called. There is no implicit unlock on garbage collection;
// callers must defer Unlock themselves, same discipline the front-end
// uses around every public operation.
type SpinGuard struct {
	m *SpinMutex
}

// Lock blocks until the mutex is acquired and returns a guard.
func (m *SpinMutex) Lock() SpinGuard {
	for !m.locked.CompareAndSwap(false, true) {
		runtime.Gosched()
	}

	return SpinGuard{m: m}
}

// Unlock releases the mutex. Calling it more than once per Lock, or on a
// zero SpinGuard, is undefined.
func (g SpinGuard) Unlock() {
	g.m.locked.Store(false)
}
