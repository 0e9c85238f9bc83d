package objref

import (
	"errors"
	"testing"
)

type initable struct {
	value int
}

func (i *initable) InitializeThis(value int) error {
	if value < 0 {
		return errors.New("negative value")
	}
	i.value = value
	return nil
}

func TestMake_ConstructThenInitialize(t *testing.T) {
	ref, err := Make(Recipe[initable]{
		New: ConstructThenInitialize(func(obj *initable) error {
			return obj.InitializeThis(42)
		}),
	})
	if err != nil {
		t.Fatalf("Make failed: %v", err)
	}
	defer ref.Close()

	if got := ref.Get().value; got != 42 {
		t.Fatalf("value = %d, want 42", got)
	}
}

func TestMake_PropagatesConstructionFailure(t *testing.T) {
	_, err := Make(Recipe[initable]{
		New: ConstructThenInitialize(func(obj *initable) error {
			return obj.InitializeThis(-1)
		}),
		Failure: PropagateFailure,
	})
	if err == nil {
		t.Fatal("expected construction error to propagate")
	}
}

func TestMake_AbortsOnFailureByDefault(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a crash panic under AbortOnFailure")
		}
		if _, ok := r.(interface{ Error() string }); !ok {
			t.Fatalf("panic value %v is not an error", r)
		}
	}()

	_, _ = Make(Recipe[initable]{
		New: ConstructThenInitialize(func(obj *initable) error {
			return obj.InitializeThis(-1)
		}),
		Failure: AbortOnFailure,
	})
}

func TestMakeElseNull_ReturnsFalseOnFailure(t *testing.T) {
	ref, ok := MakeElseNull(Recipe[initable]{
		New: ConstructThenInitialize(func(obj *initable) error {
			return obj.InitializeThis(-1)
		}),
	})
	if ok {
		t.Fatal("expected MakeElseNull to report failure")
	}
	if !ref.IsNil() {
		t.Fatal("expected a nil StrongRef on failure")
	}
}

func TestMakeElseNull_Succeeds(t *testing.T) {
	ref, ok := MakeElseNull(Recipe[initable]{
		New: DirectConstruct(func() (*initable, error) {
			return &initable{value: 7}, nil
		}),
	})
	if !ok {
		t.Fatal("expected MakeElseNull to succeed")
	}
	defer ref.Close()
	if ref.Get().value != 7 {
		t.Fatalf("value = %d, want 7", ref.Get().value)
	}
}

func TestMake_ConstructorPanicIsCaught(t *testing.T) {
	_, err := Make(Recipe[initable]{
		New: DirectConstruct(func() (*initable, error) {
			panic("boom")
		}),
		Failure: PropagateFailure,
	})
	if err == nil {
		t.Fatal("expected a converted error from the recovered panic")
	}
}
