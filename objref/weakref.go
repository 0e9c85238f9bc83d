package objref

// WeakRef holds access to a ControlBlock without contributing to the strong
// count. Upgrading to a StrongRef only succeeds while strong > 0, and the
// check-and-increment is atomic (spec.md §4.1).
type WeakRef[T any] struct {
	obj *T
	cb  *ControlBlock
}

// Clone increments the weak count and returns a new weak reference.
func (w WeakRef[T]) Clone() WeakRef[T] {
	if w.cb != nil {
		w.cb.AddWeak()
	}
	return w
}

// Upgrade attempts to produce an owning StrongRef. It succeeds iff the
// control block's strong count was greater than zero at the moment of the
// atomic compare-exchange.
func (w WeakRef[T]) Upgrade() (StrongRef[T], bool) {
	if w.cb == nil {
		return StrongRef[T]{}, false
	}
	if w.cb.TryUpgrade() {
		return StrongRef[T]{obj: w.obj, cb: w.cb}, true
	}
	return StrongRef[T]{}, false
}

// IsExpired reports whether the target object has already been destroyed
// (strong count is zero, or w is null).
func (w WeakRef[T]) IsExpired() bool {
	return w.cb == nil || w.cb.StrongCount() <= 0
}

// IsNil reports whether w references no control block at all.
func (w WeakRef[T]) IsNil() bool {
	return w.cb == nil
}

// Close decrements the weak count, freeing the control block's backing
// memory if it reaches zero. Close is idempotent.
func (w *WeakRef[T]) Close() {
	if w.cb != nil {
		w.cb.ReleaseWeak()
		w.cb = nil
		w.obj = nil
	}
}
