package swarm

import "github.com/joeycumines/dispatchcore/objref"

// MemberPtr is a pointer to a swarm member from the perspective of another
// member, possibly in a different swarm (spec.md §4.3 "SwarmMemberPtr").
// When target shares this swarm's control block, no extra reference is
// taken (the swarm's own strong count already governs it); otherwise
// MemberPtr takes a full strong reference on target's swarm, released by
// Close.
type MemberPtr[T any] struct {
	ptr            *T
	cb             *objref.ControlBlock
	differentSwarm bool
}

// NewMemberPtr builds a MemberPtr to target, as observed from within a
// constructor/method running on behalf of this swarm.
func NewMemberPtr[T any](this Swarm, target *T) MemberPtr[T] {
	if sameSwarm(this, target) {
		return MemberPtr[T]{ptr: target}
	}
	m := MemberPtr[T]{ptr: target, differentSwarm: true}
	if mem, ok := any(target).(Member); ok {
		if owner, ok := SwarmOf(mem); ok {
			owner.ControlBlock().AddStrong()
			m.cb = owner.ControlBlock()
		}
	}
	return m
}

// Get returns the borrowed pointer, valid for as long as m has not been
// closed (and, for the same-swarm case, for as long as the owning swarm is
// kept alive by the caller).
func (m MemberPtr[T]) Get() *T {
	return m.ptr
}

// DifferentSwarm reports whether m holds a strong reference of its own
// (true) or merely borrows the enclosing swarm's count (false).
func (m MemberPtr[T]) DifferentSwarm() bool {
	return m.differentSwarm
}

// Close releases any strong reference m holds. It is a no-op for
// same-swarm pointers, and idempotent in all cases.
func (m *MemberPtr[T]) Close() {
	if m.differentSwarm && m.cb != nil {
		m.cb.ReleaseStrong()
		m.cb = nil
	}
	m.ptr = nil
}

// SameSwarmPtr is the "known same swarm" variant of MemberPtr: callers that
// can prove at the call site that target is already a member of the
// enclosing swarm skip the runtime check and never take an extra
// reference, matching spec.md's SameSwarmPtr.
type SameSwarmPtr[T any] struct {
	ptr *T
}

// NewSameSwarmPtr wraps target without any reference-count bookkeeping.
// The caller is asserting target belongs to the same swarm as its holder.
func NewSameSwarmPtr[T any](target *T) SameSwarmPtr[T] {
	return SameSwarmPtr[T]{ptr: target}
}

// Get returns the wrapped pointer.
func (m SameSwarmPtr[T]) Get() *T {
	return m.ptr
}
