package typeid

import "testing"

func TestParse_RoundTripsString(t *testing.T) {
	const literal = "A0252DA6-7817-4536-B265-0A0152781652"
	id, err := Parse(literal)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := id.String(); got != literal {
		t.Fatalf("String() = %q, want %q", got, literal)
	}
	if id.IsNil() {
		t.Fatal("parsed id should not be nil")
	}
}

func TestParse_RejectsMalformedLiterals(t *testing.T) {
	cases := []string{
		"",
		"A0252DA6-7817-4536-B265",              // too few groups
		"A0252DA-7817-4536-B265-0A0152781652",  // wrong width in group 0
		"A0252DA6-7817-4536-B265-0A015278165Z", // non-hex digit
		"A0252DA6_7817_4536_B265_0A0152781652", // wrong separator
	}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", c)
		}
	}
}

func TestMustParse_PanicsOnMalformedLiteral(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustParse did not panic on a malformed literal")
		}
	}()
	MustParse("not-a-valid-id")
}

func TestEqual_AndNilSemantics(t *testing.T) {
	a := MustParse("11111111-1111-1111-1111-111111111111")
	b := MustParse("11111111-1111-1111-1111-111111111111")
	c := MustParse("22222222-2222-2222-2222-222222222222")

	if !a.Equal(b) {
		t.Fatal("identical literals should parse to equal IDs")
	}
	if a.Equal(c) {
		t.Fatal("distinct literals should parse to distinct IDs")
	}
	if !Nil.IsNil() {
		t.Fatal("the zero ID should report IsNil")
	}
	if a.IsNil() {
		t.Fatal("a non-zero ID should not report IsNil")
	}
}

func TestRegistry_RegisterLookupAndDuplicatePanic(t *testing.T) {
	r := NewRegistry()
	id := MustParse("33333333-3333-3333-3333-333333333333")

	thunk := func(obj any) (any, bool) { return obj, true }
	r.Register(id, thunk)

	got, ok := r.Lookup(id)
	if !ok {
		t.Fatal("expected Lookup to find the registered id")
	}
	if v, ok := got("payload"); !ok || v != "payload" {
		t.Fatalf("looked-up thunk misbehaved: v=%v ok=%v", v, ok)
	}

	if _, ok := r.Lookup(MustParse("44444444-4444-4444-4444-444444444444")); ok {
		t.Fatal("Lookup should fail for an unregistered id")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("Register did not panic on a duplicate id")
		}
	}()
	r.Register(id, thunk)
}
