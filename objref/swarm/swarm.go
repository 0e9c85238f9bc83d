// Package swarm implements dispatchcore's multi-object lifetime sharing
// (spec.md §4.3): a set of heterogeneous objects governed by one shared
// ControlBlock. When the swarm's strong count reaches zero every member's
// destroy-object runs exactly once, in reverse addition order.
//
// Two variants are provided, matching spec.md:
//   - FixedN: member types fixed at swarm-creation time (closed arities
//     Fixed2/Fixed3, since Go generics cannot express an arbitrary
//     compile-time-typed tuple the way a C++ variadic template can).
//   - GrowableSwarm: members are added one at a time via MakeGrowableMember,
//     linked into a lock-free singly linked list.
package swarm

import "github.com/joeycumines/dispatchcore/objref"

// Swarm is implemented by both FixedN and GrowableSwarm: anything that
// shares one ControlBlock across multiple member objects.
type Swarm interface {
	ControlBlock() *objref.ControlBlock
}

// Member is implemented by object types that want SwarmOf to recover their
// owning swarm. Embed MemberMixin and call its SetSwarm from your
// constructor to satisfy this automatically.
type Member interface {
	Swarm() Swarm
}

// MemberMixin is an embeddable helper that implements Member. Swarm
// constructors call SetSwarm (usually with the swarm that MakeGrowable,
// MakeGrowableMember or the MakeFixedN/MakeFixedNMemberI functions pass to
// their ctor closure) to wire it up.
type MemberMixin struct {
	owner Swarm
}

// SetSwarm records which swarm owns this member. Called once, from within
// the object's own constructor.
func (m *MemberMixin) SetSwarm(owner Swarm) {
	m.owner = owner
}

// Swarm returns the swarm owning this member, implementing Member.
func (m *MemberMixin) Swarm() Swarm {
	return m.owner
}

// SwarmOf returns the swarm owning obj, if obj participates in one.
func SwarmOf(obj Member) (Swarm, bool) {
	if obj == nil {
		return nil, false
	}
	s := obj.Swarm()
	return s, s != nil
}

// sameSwarm reports whether member (asserted against Member) belongs to
// the same swarm as this.
func sameSwarm[T any](this Swarm, target *T) bool {
	mem, ok := any(target).(Member)
	if !ok {
		return false
	}
	owner, ok := SwarmOf(mem)
	if !ok {
		return false
	}
	return owner.ControlBlock() == this.ControlBlock()
}

func destroyObject(v any) {
	if d, ok := v.(objref.Destroyer); ok {
		d.DestroyObject()
	}
}
