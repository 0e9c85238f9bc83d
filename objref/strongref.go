package objref

// StrongRef owns an object: cloning increments the shared strong count,
// closing decrements it (and, at zero, triggers destroy-object). The zero
// value is the null StrongRef.
type StrongRef[T any] struct {
	obj *T
	cb  *ControlBlock
}

// NewStrongRef constructs a StrongRef from a raw pointer and control block,
// optionally adding a strong reference (the "construct from
// raw-with-optional-addref" operation of spec.md §4.1). Pass addRef=false
// when obj/cb already carry a pre-supplied count of 1 (e.g. fresh out of
// Make), addRef=true when sharing an existing live reference.
func NewStrongRef[T any](obj *T, cb *ControlBlock, addRef bool) StrongRef[T] {
	if obj == nil {
		return StrongRef[T]{}
	}
	if addRef {
		cb.AddStrong()
	}
	return StrongRef[T]{obj: obj, cb: cb}
}

// Attach takes ownership of a pre-counted raw pointer/control-block pair
// without incrementing strong, the counterpart to Detach.
func Attach[T any](obj *T, cb *ControlBlock) StrongRef[T] {
	return StrongRef[T]{obj: obj, cb: cb}
}

// Clone increments the strong count and returns a new owning reference.
func (s StrongRef[T]) Clone() StrongRef[T] {
	if s.cb != nil {
		s.cb.AddStrong()
	}
	return s
}

// Close decrements the strong count, running destroy-object if it reaches
// zero. Close is idempotent: calling it on an already-null StrongRef is a
// no-op, and s is left null afterward so a second Close cannot double-release.
func (s *StrongRef[T]) Close() {
	if s.cb != nil {
		s.cb.ReleaseStrong()
		s.cb = nil
		s.obj = nil
	}
}

// Get returns a non-owning borrow of the underlying object, or nil if s is
// null.
func (s StrongRef[T]) Get() *T {
	return s.obj
}

// ControlBlock exposes the shared control block backing s, for callers that
// need to inspect counts (e.g. tests) or build a SwarmMemberPtr.
func (s StrongRef[T]) ControlBlock() *ControlBlock {
	return s.cb
}

// IsNil reports whether s holds no object.
func (s StrongRef[T]) IsNil() bool {
	return s.obj == nil
}

// Equal reports whether two StrongRefs point at the same underlying object.
func (s StrongRef[T]) Equal(other StrongRef[T]) bool {
	return s.obj == other.obj
}

// Detach releases s's ownership without decrementing strong, returning the
// raw pointer and control block; the caller now owns that count and must
// eventually release it (typically by re-wrapping with Attach). After
// Detach, s must not be used.
func (s *StrongRef[T]) Detach() (*T, *ControlBlock) {
	obj, cb := s.obj, s.cb
	s.obj, s.cb = nil, nil
	return obj, cb
}

// Swap exchanges the contents of s and other.
func (s *StrongRef[T]) Swap(other *StrongRef[T]) {
	s.obj, other.obj = other.obj, s.obj
	s.cb, other.cb = other.cb, s.cb
}

// Weak produces a WeakRef to the same object. ok is false if the owning
// ControlBlock was created under the StrongOnly RefCountPolicy, which
// carries no weak counter at all.
func (s StrongRef[T]) Weak() (ref WeakRef[T], ok bool) {
	if s.cb == nil || !s.cb.supportsWeak {
		return WeakRef[T]{}, false
	}
	s.cb.AddWeak()
	return WeakRef[T]{obj: s.obj, cb: s.cb}, true
}
