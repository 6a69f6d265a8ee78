package types

import (
	"testing"
)

func TestArena_LookupWalksParentChain(t *testing.T) {
	arena := NewArena()
	root := arena.NewScope(NoScope)
	child := arena.NewScope(root)
	grandchild := arena.NewScope(child)

	if !arena.Insert(root, "X", TypeInt) {
		t.Fatal("insert into root failed")
	}

	got, ok := arena.Lookup(grandchild, "X")
	if !ok {
		t.Fatal("expected lookup to reach the root scope")
	}
	if !Equal(got, TypeInt) {
		t.Errorf("expected int, got %s", got)
	}
}

func TestArena_InnermostDeclarationWins(t *testing.T) {
	arena := NewArena()
	root := arena.NewScope(NoScope)
	child := arena.NewScope(root)

	arena.Insert(root, "X", TypeInt)
	if !arena.Insert(child, "X", TypeFloat) {
		t.Fatal("shadowing in a child scope must be allowed")
	}

	got, _ := arena.Lookup(child, "X")
	if !Equal(got, TypeFloat) {
		t.Errorf("expected the shadowing float, got %s", got)
	}

	got, _ = arena.Lookup(root, "X")
	if !Equal(got, TypeInt) {
		t.Errorf("expected the outer int, got %s", got)
	}
}

func TestArena_DuplicateInSameScopeFails(t *testing.T) {
	arena := NewArena()
	root := arena.NewScope(NoScope)

	arena.Insert(root, "X", TypeInt)
	if arena.Insert(root, "X", TypeBool) {
		t.Fatal("duplicate insert in the same scope must fail")
	}
}

func TestArena_LookupMissFallsOffRoot(t *testing.T) {
	arena := NewArena()
	root := arena.NewScope(NoScope)
	child := arena.NewScope(root)

	if _, ok := arena.Lookup(child, "MISSING"); ok {
		t.Fatal("expected lookup miss")
	}
}

func TestTypeEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same primitive", TypeInt, TypeInt, true},
		{"different primitives", TypeInt, TypeFloat, false},
		{"matching matrices", &Matrix{Elem: TypeInt, Rows: 2, Cols: 3}, &Matrix{Elem: TypeInt, Rows: 2, Cols: 3}, true},
		{"element mismatch", &Matrix{Elem: TypeInt, Rows: 2, Cols: 3}, &Matrix{Elem: TypeFloat, Rows: 2, Cols: 3}, false},
		{"shape mismatch", &Matrix{Elem: TypeInt, Rows: 2, Cols: 3}, &Matrix{Elem: TypeInt, Rows: 3, Cols: 2}, false},
		{"matrix vs primitive", &Matrix{Elem: TypeInt, Rows: 2, Cols: 2}, TypeInt, false},
	}

	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Equal(%s, %s) = %v, want %v", tt.name, tt.a, tt.b, got, tt.want)
		}
	}
}
