package swarm

import "github.com/joeycumines/dispatchcore/objref"

// Fixed2 is a Swarm over exactly two member types, fixed at creation. The
// original C++ collaborator (swarm.h / fixedSwarm.h) expresses this as a
// variadic template over an arbitrary arity; Go generics have no equivalent,
// so dispatchcore closes over the small arities actually needed (spec.md
// §9 open question, "modeled with a small closed set of arities").
type Fixed2[T0, T1 any] struct {
	cb     *objref.ControlBlock
	slot0  *T0
	slot1  *T1
	filled [2]bool
}

// NewFixed2 allocates an empty two-member swarm. Slots are populated via
// MakeFixed2Member0/MakeFixed2Member1.
func NewFixed2[T0, T1 any]() *Fixed2[T0, T1] {
	f := &Fixed2[T0, T1]{}
	f.cb = objref.NewControlBlock(true, f.destroyAll, func() {})
	return f
}

// ControlBlock implements Swarm.
func (f *Fixed2[T0, T1]) ControlBlock() *objref.ControlBlock {
	return f.cb
}

// destroyAll runs in reverse slot-index order: slots are always filled in
// ascending order at construction, so descending order is reverse-addition
// order (spec.md §9 open question 1).
func (f *Fixed2[T0, T1]) destroyAll() {
	if f.filled[1] {
		destroyObject(f.slot1)
	}
	if f.filled[0] {
		destroyObject(f.slot0)
	}
}

// MakeFixed2 constructs a new Fixed2 swarm along with its slot-0 member,
// returning an owning StrongRef to it.
func MakeFixed2[T0, T1 any](ctor0 func(f *Fixed2[T0, T1]) (*T0, error)) (objref.StrongRef[T0], *Fixed2[T0, T1], error) {
	f := NewFixed2[T0, T1]()
	obj, err := MakeFixed2Member0(f, ctor0)
	if err != nil {
		return objref.StrongRef[T0]{}, nil, err
	}
	return objref.Attach(obj, f.cb), f, nil
}

// MakeFixed2Member0 fills slot 0. It must be called at most once.
func MakeFixed2Member0[T0, T1 any](f *Fixed2[T0, T1], ctor func(f *Fixed2[T0, T1]) (*T0, error)) (*T0, error) {
	obj, err := ctor(f)
	if err != nil {
		return nil, err
	}
	f.slot0 = obj
	f.filled[0] = true
	return obj, nil
}

// MakeFixed2Member1 fills slot 1. It must be called at most once.
func MakeFixed2Member1[T0, T1 any](f *Fixed2[T0, T1], ctor func(f *Fixed2[T0, T1]) (*T1, error)) (*T1, error) {
	obj, err := ctor(f)
	if err != nil {
		return nil, err
	}
	f.slot1 = obj
	f.filled[1] = true
	return obj, nil
}

// Fixed3 is a Swarm over exactly three member types, fixed at creation.
type Fixed3[T0, T1, T2 any] struct {
	cb     *objref.ControlBlock
	slot0  *T0
	slot1  *T1
	slot2  *T2
	filled [3]bool
}

// NewFixed3 allocates an empty three-member swarm.
func NewFixed3[T0, T1, T2 any]() *Fixed3[T0, T1, T2] {
	f := &Fixed3[T0, T1, T2]{}
	f.cb = objref.NewControlBlock(true, f.destroyAll, func() {})
	return f
}

// ControlBlock implements Swarm.
func (f *Fixed3[T0, T1, T2]) ControlBlock() *objref.ControlBlock {
	return f.cb
}

func (f *Fixed3[T0, T1, T2]) destroyAll() {
	if f.filled[2] {
		destroyObject(f.slot2)
	}
	if f.filled[1] {
		destroyObject(f.slot1)
	}
	if f.filled[0] {
		destroyObject(f.slot0)
	}
}

// MakeFixed3 constructs a new Fixed3 swarm along with its slot-0 member,
// returning an owning StrongRef to it.
func MakeFixed3[T0, T1, T2 any](ctor0 func(f *Fixed3[T0, T1, T2]) (*T0, error)) (objref.StrongRef[T0], *Fixed3[T0, T1, T2], error) {
	f := NewFixed3[T0, T1, T2]()
	obj, err := MakeFixed3Member0(f, ctor0)
	if err != nil {
		return objref.StrongRef[T0]{}, nil, err
	}
	return objref.Attach(obj, f.cb), f, nil
}

// MakeFixed3Member0 fills slot 0. It must be called at most once.
func MakeFixed3Member0[T0, T1, T2 any](f *Fixed3[T0, T1, T2], ctor func(f *Fixed3[T0, T1, T2]) (*T0, error)) (*T0, error) {
	obj, err := ctor(f)
	if err != nil {
		return nil, err
	}
	f.slot0 = obj
	f.filled[0] = true
	return obj, nil
}

// MakeFixed3Member1 fills slot 1. It must be called at most once.
func MakeFixed3Member1[T0, T1, T2 any](f *Fixed3[T0, T1, T2], ctor func(f *Fixed3[T0, T1, T2]) (*T1, error)) (*T1, error) {
	obj, err := ctor(f)
	if err != nil {
		return nil, err
	}
	f.slot1 = obj
	f.filled[1] = true
	return obj, nil
}

// MakeFixed3Member2 fills slot 2. It must be called at most once.
func MakeFixed3Member2[T0, T1, T2 any](f *Fixed3[T0, T1, T2], ctor func(f *Fixed3[T0, T1, T2]) (*T2, error)) (*T2, error) {
	obj, err := ctor(f)
	if err != nil {
		return nil, err
	}
	f.slot2 = obj
	f.filled[2] = true
	return obj, nil
}
