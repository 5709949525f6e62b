package simp

import (
	"testing"

	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

func TestAnd(t *testing.T) {
	x := nid.FromVid(vid.Var(0))
	if got, ok := And(nid.O, x); !ok || got != nid.O {
		t.Fatalf("And(O,x) = %v,%v", got, ok)
	}
	if got, ok := And(nid.I, x); !ok || got != x {
		t.Fatalf("And(I,x) = %v,%v", got, ok)
	}
	if got, ok := And(x, nid.Not(x)); !ok || got != nid.O {
		t.Fatalf("And(x,!x) = %v,%v", got, ok)
	}
	if _, ok := And(x, nid.FromVid(vid.Var(1))); ok {
		t.Fatal("And(x,y) for distinct vars should not short-circuit")
	}
}

func TestXor(t *testing.T) {
	x := nid.FromVid(vid.Var(0))
	if got, ok := Xor(x, x); !ok || got != nid.O {
		t.Fatalf("Xor(x,x) = %v,%v", got, ok)
	}
	if got, ok := Xor(x, nid.Not(x)); !ok || got != nid.I {
		t.Fatalf("Xor(x,!x) = %v,%v", got, ok)
	}
}

func TestIte(t *testing.T) {
	x := nid.FromVid(vid.Var(0))
	y := nid.FromVid(vid.Var(1))
	if got, ok := Ite(nid.I, x, y); !ok || got != x {
		t.Fatalf("Ite(I,x,y) = %v,%v", got, ok)
	}
	if got, ok := Ite(nid.O, x, y); !ok || got != y {
		t.Fatalf("Ite(O,x,y) = %v,%v", got, ok)
	}
	if got, ok := Ite(x, nid.I, nid.O); !ok || got != x {
		t.Fatalf("Ite(x,I,O) = %v,%v", got, ok)
	}
	if got, ok := Ite(x, nid.O, nid.I); !ok || got != nid.Not(x) {
		t.Fatalf("Ite(x,O,I) = %v,%v", got, ok)
	}
}
