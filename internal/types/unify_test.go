package types

import "testing"

func TestUnifyIdentical(t *testing.T) {
	s := NewStore()
	u32, _ := s.Uint(32, false)

	got, err := s.Unify(u32, u32)
	if err != nil {
		t.Fatalf("unify(a, a) failed: %v", err)
	}
	if got != u32 {
		t.Fatalf("unify(a, a) = %v, want identical handle", got)
	}
}

func TestUnifySecretPropagates(t *testing.T) {
	s := NewStore()
	plain, _ := s.Uint(32, false)
	secret, _ := s.Uint(32, true)

	got, err := s.Unify(plain, secret)
	if err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	if !got.Secret() {
		t.Fatalf("expected secret bit set after unifying with a secret operand")
	}
}

func TestUnifyWidthMismatchFails(t *testing.T) {
	s := NewStore()
	u8, _ := s.Uint(8, false)
	u16, _ := s.Uint(16, false)

	if _, err := s.Unify(u8, u16); err == nil {
		t.Fatalf("expected width mismatch to fail unification")
	}
}

func TestUnifyArrayElementwise(t *testing.T) {
	s := NewStore()
	u32, _ := s.Uint(32, false)
	u32Secret, _ := s.Uint(32, true)
	arrA := s.Array(u32)
	arrB := s.Array(u32Secret)

	got, err := s.Unify(arrA, arrB)
	if err != nil {
		t.Fatalf("unify arrays failed: %v", err)
	}
	if !got.Elem().Secret() {
		t.Fatalf("expected array element to carry secret bit through unification")
	}
}

func TestUnifyClassNullableWidens(t *testing.T) {
	s := NewStore()
	type template struct{ name string }
	tmpl := &template{name: "L"}

	plain, err := s.Class(tmpl, 32, false)
	if err != nil {
		t.Fatalf("Class: %v", err)
	}
	nullable, err := s.Class(tmpl, 32, true)
	if err != nil {
		t.Fatalf("Class: %v", err)
	}

	got, err := s.Unify(plain, nullable)
	if err != nil {
		t.Fatalf("unify classes failed: %v", err)
	}
	if !got.Nullable() {
		t.Fatalf("expected nullable Class after unifying with a nullable Class of the same Template")
	}
}

func TestUnifyDistinctClassesFail(t *testing.T) {
	s := NewStore()
	type template struct{ name string }
	t1, t2 := &template{name: "A"}, &template{name: "B"}

	c1, _ := s.Class(t1, 32, false)
	c2, _ := s.Class(t2, 32, false)

	if _, err := s.Unify(c1, c2); err == nil {
		t.Fatalf("expected distinct classes to fail unification")
	}
}

func TestSetSecretIdempotent(t *testing.T) {
	s := NewStore()
	u32, _ := s.Uint(32, false)

	once, err := s.SetSecret(u32, true)
	if err != nil {
		t.Fatalf("SetSecret: %v", err)
	}
	twice, err := s.SetSecret(once, true)
	if err != nil {
		t.Fatalf("SetSecret: %v", err)
	}
	if once != twice {
		t.Fatalf("SetSecret(SetSecret(dt, true), true) must equal SetSecret(dt, true)")
	}
}

func TestSetSecretRejectsClass(t *testing.T) {
	s := NewStore()
	type template struct{}
	tmpl := &template{}
	cls, _ := s.Class(tmpl, 32, false)

	if _, err := s.SetSecret(cls, true); err == nil {
		t.Fatalf("expected error marking a Class datatype secret")
	}
}

func TestSetNullableRejectsNonClass(t *testing.T) {
	s := NewStore()
	u32, _ := s.Uint(32, false)

	if _, err := s.SetNullable(u32, true); err == nil {
		t.Fatalf("expected error marking a non-Class datatype nullable")
	}
}

func TestWidthBoundaries(t *testing.T) {
	s := NewStore()

	if _, err := s.Uint(1, false); err != nil {
		t.Errorf("width 1 should be legal: %v", err)
	}
	if _, err := s.Uint(16384, false); err != nil {
		t.Errorf("width 16384 should be legal: %v", err)
	}
	if _, err := s.Uint(65535, false); err != nil {
		t.Errorf("width 65535 should be legal: %v", err)
	}
	if _, err := s.Uint(65536, false); err == nil {
		t.Errorf("width 65536 should be rejected")
	}

	type template struct{}
	tmpl := &template{}
	if _, err := s.Class(tmpl, 64, false); err != nil {
		t.Errorf("class ref-width 64 should be legal: %v", err)
	}
	if _, err := s.Class(tmpl, 65, false); err == nil {
		t.Errorf("class ref-width 65 should be rejected")
	}
}

func TestConcreteness(t *testing.T) {
	s := NewStore()
	type template struct{}
	type class struct{}
	tmpl := &template{}
	cls := &class{}

	tmplDT := s.Template(tmpl)
	if tmplDT.Concrete() {
		t.Fatalf("a bare Template datatype must not be concrete")
	}

	clsDT, _ := s.Class(cls, 32, false)
	if !clsDT.Concrete() {
		t.Fatalf("a Class datatype must be concrete")
	}

	arrOfTemplate := s.Array(tmplDT)
	if arrOfTemplate.Concrete() {
		t.Fatalf("Array<Template> must not be concrete")
	}
}
