package value_test

import (
	"testing"

	"github.com/minipy-lang/minipy/internal/value"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want bool
	}{
		{"zero int", value.MakeInt(0), false},
		{"nonzero int", value.MakeInt(1), true},
		{"zero float", value.MakeFloat(0), false},
		{"nonzero float", value.MakeFloat(0.5), true},
		{"false", value.MakeBool(false), false},
		{"true", value.MakeBool(true), true},
		{"none", value.MakeNone(), false},
		{"empty string", value.MakeString(""), false},
		{"nonempty string", value.MakeString("x"), true},
		{"empty list", value.MakeList(nil), true},
	}
	for _, tt := range tests {
		if got := value.Truthy(tt.v); got != tt.want {
			t.Errorf("%s: Truthy() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	if !value.Equal(value.MakeInt(3), value.MakeInt(3)) {
		t.Error("3 == 3 should hold")
	}
	if value.Equal(value.MakeInt(3), value.MakeInt(4)) {
		t.Error("3 == 4 should not hold")
	}
	if value.Equal(value.MakeInt(3), value.MakeString("3")) {
		t.Error("values of different kinds should never be equal")
	}
	a := value.MakeTuple([]value.Value{value.MakeInt(1), value.MakeInt(2)})
	b := value.MakeTuple([]value.Value{value.MakeInt(1), value.MakeInt(2)})
	if !value.Equal(a, b) {
		t.Error("structurally equal tuples should be equal")
	}
}

func TestListIdentity(t *testing.T) {
	l := value.MakeList([]value.Value{value.MakeInt(1)})
	alias := l
	alias.List.Elements[0] = value.MakeInt(99)
	if l.List.Elements[0].Int != 99 {
		t.Error("aliased lists should share the same backing ListValue")
	}
}

func TestRepr(t *testing.T) {
	tests := []struct {
		v    value.Value
		want string
	}{
		{value.MakeInt(3), "3"},
		{value.MakeFloat(3), "3.0"},
		{value.MakeFloat(3.5), "3.5"},
		{value.MakeBool(true), "True"},
		{value.MakeBool(false), "False"},
		{value.MakeNone(), "None"},
		{value.MakeString("hi"), "hi"},
		{value.MakeList([]value.Value{value.MakeInt(1), value.MakeInt(2), value.MakeInt(3)}), "[1, 2, 3]"},
		{value.MakeTuple(nil), "()"},
		{value.MakeTuple([]value.Value{value.MakeInt(1)}), "(1,)"},
		{value.MakeTuple([]value.Value{value.MakeInt(1), value.MakeInt(2)}), "(1, 2)"},
	}
	for _, tt := range tests {
		if got := value.Repr(tt.v); got != tt.want {
			t.Errorf("Repr(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestDictSetGetDelete(t *testing.T) {
	d := value.NewDict()
	if err := d.Set(value.MakeString("a"), value.MakeInt(1)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := d.Set(value.MakeString("b"), value.MakeInt(2)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := d.Get(value.MakeString("a"))
	if err != nil || !ok || got.Int != 1 {
		t.Fatalf("Get(a) = %#v, %v, %v", got, ok, err)
	}
	if err := d.Set(value.MakeString("a"), value.MakeInt(10)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("expected overwrite to keep len at 2, got %d", d.Len())
	}
	removed, err := d.Delete(value.MakeString("a"))
	if err != nil || !removed {
		t.Fatalf("Delete(a) = %v, %v", removed, err)
	}
	if d.Len() != 1 {
		t.Fatalf("expected len 1 after delete, got %d", d.Len())
	}
}

func TestDictRejectsUnhashableKey(t *testing.T) {
	d := value.NewDict()
	list := value.MakeList([]value.Value{value.MakeInt(1)})
	if err := d.Set(list, value.MakeInt(1)); err == nil {
		t.Fatal("expected an error using a list as a dict key")
	}
}

func TestSetAddContainsRemove(t *testing.T) {
	s := value.NewSet()
	added, err := s.Add(value.MakeInt(1))
	if err != nil || !added {
		t.Fatalf("Add(1) = %v, %v", added, err)
	}
	added, err = s.Add(value.MakeInt(1))
	if err != nil || added {
		t.Fatalf("re-Add(1) should report false, got %v, %v", added, err)
	}
	ok, err := s.Contains(value.MakeInt(1))
	if err != nil || !ok {
		t.Fatalf("Contains(1) = %v, %v", ok, err)
	}
	removed, err := s.Remove(value.MakeInt(1))
	if err != nil || !removed {
		t.Fatalf("Remove(1) = %v, %v", removed, err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty set after remove, got len %d", s.Len())
	}
}

func TestTupleHashableAsDictKey(t *testing.T) {
	d := value.NewDict()
	key := value.MakeTuple([]value.Value{value.MakeInt(1), value.MakeInt(2)})
	if err := d.Set(key, value.MakeString("pair")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	key2 := value.MakeTuple([]value.Value{value.MakeInt(1), value.MakeInt(2)})
	got, ok, err := d.Get(key2)
	if err != nil || !ok || got.Str != "pair" {
		t.Fatalf("Get(equal tuple key) = %#v, %v, %v", got, ok, err)
	}
}
