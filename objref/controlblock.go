// Package objref implements dispatchcore's intrusive reference-counting
// object model: StrongRef[T] / WeakRef[T] pairs sharing a ControlBlock, a
// type-safe Make/MakeElseNull factory with pluggable construction and
// failure policies, and interface query by 128-bit typeid.ID.
//
// It is the Go expression of spec.md §4.1/§4.2: strong count reaching zero
// destroys the user object exactly once; weak count reaching zero (which
// requires strong to have already hit zero) frees the control block exactly
// once; upgrading a WeakRef to a StrongRef is an atomic compare-exchange
// loop that refuses to increment strong from zero.
package objref

import (
	"sync"
	"sync/atomic"

	"github.com/joeycumines/dispatchcore/internal/memalloc"
	"github.com/joeycumines/dispatchcore/internal/tagcrash"
)

// Crash tags, mirroring the tag-per-check-point convention of the original
// abort_with_tag collaborator (spec.md §6).
const (
	TagAllocationFailure      uint32 = 0x6f626a01 // "obj\x01"
	TagConstructionFailure    uint32 = 0x6f626a02
	TagStrongIncrementFromZero uint32 = 0x6f626a03
	TagWeakUnsupported        uint32 = 0x6f626a04
	TagDoubleFree             uint32 = 0x6f626a05
)

// Destroyer is implemented by user object types that need to run cleanup
// when the owning ControlBlock's strong count reaches zero. It is the
// analogue of the original "destroy-object" virtual call.
type Destroyer interface {
	DestroyObject()
}

// ControlBlock is the ref-count pair shared by every StrongRef/WeakRef
// targeting the same object (or, via objref/swarm, the same set of
// objects). See spec.md §3 for the invariants it must uphold.
type ControlBlock struct {
	strong       atomic.Int32
	weak         atomic.Int32
	supportsWeak bool
	destroyOnce  sync.Once
	freeOnce     sync.Once
	destroy      func()
	free         func()
}

// newControlBlock builds a ControlBlock with strong=1 and, if supportsWeak,
// weak=1 (spec.md §4.2 step 2).
func newControlBlock(supportsWeak bool, destroy, free func()) *ControlBlock {
	cb := &ControlBlock{supportsWeak: supportsWeak, destroy: destroy, free: free}
	cb.strong.Store(1)
	if supportsWeak {
		cb.weak.Store(1)
	}
	return cb
}

// NewControlBlock is newControlBlock exported for use by packages (notably
// objref/swarm) that need to build their own control block over a custom
// destroy/free pair instead of going through Make.
func NewControlBlock(supportsWeak bool, destroy, free func()) *ControlBlock {
	return newControlBlock(supportsWeak, destroy, free)
}

// StrongCount returns the current strong reference count.
func (cb *ControlBlock) StrongCount() int32 {
	if cb == nil {
		return 0
	}
	return cb.strong.Load()
}

// WeakCount returns the current weak reference count.
func (cb *ControlBlock) WeakCount() int32 {
	if cb == nil {
		return 0
	}
	return cb.weak.Load()
}

// SupportsWeak reports whether this control block was created under the
// StrongAndWeak RefCountPolicy.
func (cb *ControlBlock) SupportsWeak() bool {
	return cb != nil && cb.supportsWeak
}

// AddStrong increments strong, crashing if it was ever zero: "strong never
// increments from zero" (spec.md §3).
func (cb *ControlBlock) AddStrong() {
	for {
		cur := cb.strong.Load()
		tagcrash.Assert("objref", TagStrongIncrementFromZero, cur > 0, "strong count incremented from zero")
		if cb.strong.CompareAndSwap(cur, cur+1) {
			return
		}
	}
}

// TryUpgrade atomically increments strong only if it is currently positive,
// implementing WeakRef.Upgrade's compare-exchange loop.
func (cb *ControlBlock) TryUpgrade() bool {
	for {
		cur := cb.strong.Load()
		if cur <= 0 {
			return false
		}
		if cb.strong.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

// ReleaseStrong decrements strong; at zero it runs destroy-object exactly
// once and then releases the control block's own implicit weak reference.
// A StrongOnly block has no weak counter, so it runs free-memory (once)
// right after destroy-object instead.
func (cb *ControlBlock) ReleaseStrong() {
	if cb.strong.Add(-1) == 0 {
		cb.destroyOnce.Do(func() {
			if cb.destroy != nil {
				cb.destroy()
			}
		})
		if cb.supportsWeak {
			cb.ReleaseWeak()
		} else {
			cb.freeOnce.Do(func() {
				if cb.free != nil {
					cb.free()
				}
			})
		}
	}
}

// AddWeak increments weak.
func (cb *ControlBlock) AddWeak() {
	cb.weak.Add(1)
}

// ReleaseWeak decrements weak; at zero it runs free-memory exactly once.
func (cb *ControlBlock) ReleaseWeak() {
	if cb.weak.Add(-1) == 0 {
		cb.freeOnce.Do(func() {
			if cb.free != nil {
				cb.free()
			}
		})
	}
}

// blockFree returns a free func() that releases blk back to its memalloc
// pool exactly once; used by Make to wire ControlBlock.free.
func blockFree(blk *memalloc.Block) func() {
	return func() {
		blk.Free()
	}
}
