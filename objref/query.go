package objref

import "github.com/joeycumines/dispatchcore/typeid"

// QueryResult is the type-erased result of a Queryable.QueryInterface call:
// a fresh strong reference (already counted) to whatever concrete value
// implements the requested interface. Close it if you discard the result
// without converting it via QueryInterfaceAs.
type QueryResult struct {
	value any
	cb    *ControlBlock
}

// NewQueryResult builds a QueryResult over obj, sharing cb. It does not
// itself add a strong reference; callers (typically a type's
// QueryInterface method, built with Queryable helpers below) are expected
// to call cb.addStrong-equivalent logic via AddStrongRef first.
func NewQueryResult(value any, cb *ControlBlock) QueryResult {
	return QueryResult{value: value, cb: cb}
}

// Close releases the strong reference this QueryResult holds, if it was
// never converted via QueryInterfaceAs.
func (q QueryResult) Close() {
	if q.cb != nil {
		q.cb.ReleaseStrong()
	}
}

// Queryable is implemented by any object that participates in interface
// query (spec.md §4.1). QueryInterface returns a fresh strong reference to
// the requested interface, type-erased, or (zero, false) if id names an
// interface this object does not implement.
type Queryable interface {
	QueryInterface(id typeid.ID) (QueryResult, bool)
}

// AddStrongRef increments cb's strong count; a QueryInterface
// implementation calls this before returning a QueryResult so the returned
// reference is properly counted, matching "returns a fresh strong
// reference."
func AddStrongRef(cb *ControlBlock) {
	cb.AddStrong()
}

// QueryInterfaceFromRegistry implements the body of a Queryable's
// QueryInterface method by consulting reg, the id -> upgrade-thunk table
// spec.md §4.1 describes: it looks up id, invokes the registered thunk
// against obj, and on success wraps the result in a freshly counted
// QueryResult over cb. Types that build their interface-query table with a
// typeid.Registry (registering one thunk per supported id, typically in an
// init func) implement QueryInterface as a one-line call to this function
// instead of a hand-rolled switch over id.
func QueryInterfaceFromRegistry(reg *typeid.Registry, obj any, cb *ControlBlock, id typeid.ID) (QueryResult, bool) {
	thunk, ok := reg.Lookup(id)
	if !ok {
		return QueryResult{}, false
	}
	v, ok := thunk(obj)
	if !ok {
		return QueryResult{}, false
	}
	AddStrongRef(cb)
	return NewQueryResult(v, cb), true
}

// QueryInterfaceAs queries obj for id and, on success, type-asserts the
// type-erased result into a StrongRef[T], verifying the id actually
// resolves to a *T as spec.md §6's "typed wrapper that verifies the id
// matches the requested T" requires. If the assertion fails the strong
// reference obtained from QueryInterface is released before returning
// false, so no leak occurs on a mismatched id.
func QueryInterfaceAs[T any](obj Queryable, id typeid.ID) (StrongRef[T], bool) {
	res, ok := obj.QueryInterface(id)
	if !ok {
		return StrongRef[T]{}, false
	}
	v, ok := res.value.(*T)
	if !ok {
		res.Close()
		return StrongRef[T]{}, false
	}
	return StrongRef[T]{obj: v, cb: res.cb}, true
}

// Equal reports whether two queryable objects are the same object: per
// spec.md §4.1, "two objects compare equal iff their query for the
// canonical identifier returns the same pointer." canonicalID should be a
// typeid.ID every comparable implementation registers, e.g. an "identity"
// interface id.
func Equal(a, b Queryable, canonicalID typeid.ID) bool {
	ra, ok := a.QueryInterface(canonicalID)
	if !ok {
		return false
	}
	defer ra.Close()
	rb, ok := b.QueryInterface(canonicalID)
	if !ok {
		return false
	}
	defer rb.Close()
	return ra.value == rb.value
}
