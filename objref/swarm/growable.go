package swarm

import (
	"sync/atomic"

	"github.com/joeycumines/dispatchcore/objref"
)

// memberHolder is one node of GrowableSwarm's lock-free singly linked list.
// Nodes are prepended via CompareAndSwap on GrowableSwarm.head and never
// removed individually: the whole list is walked and torn down together
// when the swarm's strong count reaches zero.
type memberHolder struct {
	destroy func()
	next    atomic.Pointer[memberHolder]
}

// GrowableSwarm is a Swarm whose membership is not fixed at creation: new
// members are added one at a time via MakeGrowableMember, each prepended to
// a lock-free linked list. Destruction walks the list head-to-tail, which is
// reverse-addition order (spec.md §4.3, §9 open question 1).
type GrowableSwarm struct {
	cb   *objref.ControlBlock
	head atomic.Pointer[memberHolder]
}

func newGrowableSwarm() *GrowableSwarm {
	s := &GrowableSwarm{}
	s.cb = objref.NewControlBlock(true, s.destroyMembers, func() {})
	return s
}

// ControlBlock implements Swarm.
func (s *GrowableSwarm) ControlBlock() *objref.ControlBlock {
	return s.cb
}

func (s *GrowableSwarm) destroyMembers() {
	for h := s.head.Load(); h != nil; h = h.next.Load() {
		h.destroy()
	}
}

func (s *GrowableSwarm) prepend(h *memberHolder) {
	for {
		head := s.head.Load()
		h.next.Store(head)
		if s.head.CompareAndSwap(head, h) {
			return
		}
	}
}

// MakeGrowable constructs a brand new GrowableSwarm with a single initial
// member, returning an owning StrongRef to it. ctor receives the new
// *GrowableSwarm itself so the member type can call MemberMixin.SetSwarm
// before returning; the same swarm is also returned to the caller.
func MakeGrowable[T0 any](ctor func(s *GrowableSwarm) (*T0, error)) (objref.StrongRef[T0], *GrowableSwarm, error) {
	s := newGrowableSwarm()
	obj, err := ctor(s)
	if err != nil {
		return objref.StrongRef[T0]{}, nil, err
	}
	s.cb.AddWeak()
	s.prepend(&memberHolder{destroy: func() { destroyObject(obj); s.cb.ReleaseWeak() }})
	return objref.Attach(obj, s.cb), s, nil
}

// MakeGrowableMember constructs a new member of type T inside an existing
// GrowableSwarm. It weak-increments the swarm to cover the holder's
// lifetime (matching the strong-count-zero-then-weak-count-zero ordering of
// spec.md §4.1) and returns a raw, non-owning borrow: the swarm's own
// strong count already governs the member's lifetime.
func MakeGrowableMember[T any](s *GrowableSwarm, ctor func(s *GrowableSwarm) (*T, error)) (*T, error) {
	obj, err := ctor(s)
	if err != nil {
		return nil, err
	}
	s.cb.AddWeak()
	s.prepend(&memberHolder{destroy: func() { destroyObject(obj); s.cb.ReleaseWeak() }})
	return obj, nil
}
