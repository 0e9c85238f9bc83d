package objref

import "testing"

type widget struct {
	name      string
	destroyed *int
}

func (w *widget) DestroyObject() {
	*w.destroyed++
}

func makeWidget(t *testing.T, name string, destroyed *int) StrongRef[widget] {
	t.Helper()
	ref, err := Make(Recipe[widget]{
		New: DirectConstruct(func() (*widget, error) {
			return &widget{name: name, destroyed: destroyed}, nil
		}),
		Weak: true,
	})
	if err != nil {
		t.Fatalf("Make failed: %v", err)
	}
	return ref
}

func TestStrongRef_CloneCloseBalances(t *testing.T) {
	var destroyed int
	ref := makeWidget(t, "a", &destroyed)

	clone := ref.Clone()
	if got := ref.ControlBlock().StrongCount(); got != 2 {
		t.Fatalf("strong count after clone = %d, want 2", got)
	}

	clone.Close()
	if destroyed != 0 {
		t.Fatalf("destroyed too early")
	}
	ref.Close()
	if destroyed != 1 {
		t.Fatalf("destroyed %d times, want 1", destroyed)
	}
}

func TestStrongRef_DetachAttachPreservesCount(t *testing.T) {
	var destroyed int
	ref := makeWidget(t, "b", &destroyed)

	obj, cb := ref.Detach()
	if ref.Get() != nil {
		t.Fatal("ref should be nil after Detach")
	}
	if got := cb.StrongCount(); got != 1 {
		t.Fatalf("strong count post-detach = %d, want 1 (detach must not change count)", got)
	}

	reattached := Attach(obj, cb)
	reattached.Close()
	if destroyed != 1 {
		t.Fatalf("destroyed %d times, want 1", destroyed)
	}
}

func TestStrongRef_WeakUpgrade(t *testing.T) {
	var destroyed int
	ref := makeWidget(t, "c", &destroyed)

	weak, ok := ref.Weak()
	if !ok {
		t.Fatal("Weak() should succeed for StrongAndWeak objects")
	}

	if strong, ok := weak.Upgrade(); !ok {
		t.Fatal("upgrade should succeed while strong > 0")
	} else {
		if strong.Get().name != "c" {
			t.Fatalf("unexpected object after upgrade: %+v", strong.Get())
		}
		strong.Close()
	}

	ref.Close()
	if destroyed != 1 {
		t.Fatalf("destroyed %d times, want 1", destroyed)
	}

	if _, ok := weak.Upgrade(); ok {
		t.Fatal("upgrade should fail once strong has reached zero")
	}
	if !weak.IsExpired() {
		t.Fatal("weak ref should report expired")
	}
	weak.Close()
}

func TestStrongRef_WeakUnsupportedForStrongOnly(t *testing.T) {
	var destroyed int
	ref, err := Make(Recipe[widget]{
		New: DirectConstruct(func() (*widget, error) {
			return &widget{name: "strong-only", destroyed: &destroyed}, nil
		}),
		Weak: false,
	})
	if err != nil {
		t.Fatalf("Make failed: %v", err)
	}
	defer ref.Close()

	if _, ok := ref.Weak(); ok {
		t.Fatal("Weak() should fail for a StrongOnly object")
	}
}

func TestStrongRef_IsNilAndEqual(t *testing.T) {
	var nilRef StrongRef[widget]
	if !nilRef.IsNil() {
		t.Fatal("zero-value StrongRef should be nil")
	}

	var destroyed int
	a := makeWidget(t, "d", &destroyed)
	defer a.Close()
	b := a.Clone()
	defer b.Close()

	if !a.Equal(b) {
		t.Fatal("clones of the same object should be Equal")
	}
}
