package objref

import (
	"fmt"
	"unsafe"

	"github.com/joeycumines/dispatchcore/internal/memalloc"
	"github.com/joeycumines/dispatchcore/internal/tagcrash"
)

// FailurePolicy selects what happens when a Recipe's construction step
// fails (spec.md §4.1 "FailurePolicy").
type FailurePolicy int

const (
	// AbortOnFailure crashes the process (via tagcrash) on construction
	// failure.
	AbortOnFailure FailurePolicy = iota
	// PropagateFailure returns the construction error to Make's caller.
	PropagateFailure
)

// Recipe describes how Make should build a T: its construction step
// (MakePolicy), whether the resulting object supports weak references
// (RefCountPolicy), and what to do if construction fails (FailurePolicy).
// The policy choice is a property of the call site, not of T itself,
// matching spec.md §4.1's requirement that policies be selected at the
// construction call, not the definition site.
type Recipe[T any] struct {
	// New performs the actual construction, returning a freshly built *T
	// or an error. Use DirectConstruct or ConstructThenInitialize to build
	// this field instead of writing it by hand.
	New func() (*T, error)
	// Weak selects RefCountPolicy: true for StrongAndWeak (a weak counter
	// is tracked alongside strong), false for StrongOnly.
	Weak bool
	// Failure selects what Make does if New returns an error or panics.
	Failure FailurePolicy
}

// DirectConstruct builds a Recipe.New from a single fallible constructor,
// the "direct_construct(args)" MakePolicy. Bind args via closure:
//
//	objref.Make(objref.Recipe[Worker]{New: objref.DirectConstruct(func() (*Worker, error) {
//	    return newWorker(cfg)
//	})})
func DirectConstruct[T any](ctor func() (*T, error)) func() (*T, error) {
	return ctor
}

// ConstructThenInitialize builds a Recipe.New implementing the
// "construct_default + initialize_this(args)" MakePolicy: T is
// zero-value-constructed, then init is called on it. init may fail, in
// which case the zero-value object is discarded without ever being
// observed by a caller.
func ConstructThenInitialize[T any](init func(*T) error) func() (*T, error) {
	return func() (*T, error) {
		obj := new(T)
		if err := init(obj); err != nil {
			return nil, err
		}
		return obj, nil
	}
}

// Make performs the five-step factory sequence of spec.md §4.2: allocate a
// block, build the control block with strong=1 (weak=1 if recipe.Weak),
// install an unwind guard, invoke the MakePolicy, then disarm the guard and
// return a StrongRef holding the pre-supplied count of 1.
//
// Allocation failure is always fatal (tagcrash.Crash); construction failure
// is handled per recipe.Failure.
func Make[T any](recipe Recipe[T]) (result StrongRef[T], err error) {
	size := int(unsafe.Sizeof(*new(T)))
	blk, ok := memalloc.Default.Allocate(size)
	if !ok {
		tagcrash.Crash("objref", TagAllocationFailure, "allocation failure in objref.Make")
	}

	armed := true
	defer func() {
		if r := recover(); r != nil {
			blk.Free()
			if recipe.Failure == AbortOnFailure {
				tagcrash.Crashf("objref", TagConstructionFailure, "construction panicked: %v", r)
			}
			err = fmt.Errorf("objref: construction panicked: %v", r)
			return
		}
		if armed {
			blk.Free()
		}
	}()

	obj, cerr := recipe.New()
	if cerr != nil {
		if recipe.Failure == AbortOnFailure {
			tagcrash.Crashf("objref", TagConstructionFailure, "construction failed: %v", cerr)
		}
		return StrongRef[T]{}, cerr
	}

	armed = false // disarm: blk and obj are now owned by the control block
	cb := newControlBlock(recipe.Weak, destroyFuncFor(obj), blockFree(blk))
	return StrongRef[T]{obj: obj, cb: cb}, nil
}

// MakeElseNull is Make's non-fatal variant: allocation or construction
// failure both return (zero, false) rather than crashing or propagating an
// error, matching spec.md §4.2's "make_else_null" entry point.
func MakeElseNull[T any](recipe Recipe[T]) (result StrongRef[T], ok bool) {
	size := int(unsafe.Sizeof(*new(T)))
	blk, allocated := memalloc.Default.Allocate(size)
	if !allocated {
		return StrongRef[T]{}, false
	}

	armed := true
	defer func() {
		if r := recover(); r != nil {
			blk.Free()
			result, ok = StrongRef[T]{}, false
			return
		}
		if armed {
			blk.Free()
		}
	}()

	obj, cerr := recipe.New()
	if cerr != nil {
		return StrongRef[T]{}, false
	}

	armed = false
	cb := newControlBlock(recipe.Weak, destroyFuncFor(obj), blockFree(blk))
	return StrongRef[T]{obj: obj, cb: cb}, true
}

// destroyFuncFor returns the destroy-object closure for obj: it calls
// obj.DestroyObject() if T implements Destroyer, otherwise it is a no-op.
func destroyFuncFor[T any](obj *T) func() {
	return func() {
		if d, ok := any(obj).(Destroyer); ok {
			d.DestroyObject()
		}
	}
}
