package ast

import (
	"testing"

	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

func TestAndOrXorShortCircuit(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	if got := s.And(x0, nid.O); got != nid.O {
		t.Fatalf("x0 AND O = %v, want O", got)
	}
	if got := s.Or(x0, nid.I); got != nid.I {
		t.Fatalf("x0 OR I = %v, want I", got)
	}
	if got := s.Xor(x0, x0); got != nid.O {
		t.Fatalf("x0 XOR x0 = %v, want O", got)
	}
	if s.Len() != 0 {
		t.Fatalf("short-circuited operations should not intern any entry, got %d", s.Len())
	}
}

func TestAndOrXorCommutativeHashCons(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))
	if s.And(x0, x1) != s.And(x1, x0) {
		t.Fatal("And must hash-cons to the same NID regardless of operand order")
	}
	if s.Len() != 1 {
		t.Fatalf("expected exactly 1 interned entry, got %d", s.Len())
	}
}

func TestIteNotCommutative(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))
	x2 := nid.FromVid(vid.Var(2))
	a := s.Ite(x0, x1, x2)
	b := s.Ite(x0, x2, x1)
	if a == b {
		t.Fatal("Ite must not treat its then/else slots as interchangeable")
	}
}

func TestEval(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))
	x2 := nid.FromVid(vid.Var(2))
	expr := s.Ite(s.Xor(x1, x2), s.And(x0, x1), nid.Not(s.And(x0, x1)))

	env := map[vid.VID]nid.NID{
		vid.Var(0): nid.I,
		vid.Var(1): nid.I,
		vid.Var(2): nid.O,
	}
	// xor(1,0)=1 -> take then-branch and(x0,x1) = and(1,1) = 1 = I
	if got := s.Eval(expr, env); got != nid.I {
		t.Fatalf("Eval = %v, want I", got)
	}

	env[vid.Var(2)] = nid.I // xor(1,1)=0 -> else branch: not(and(1,1)) = O
	if got := s.Eval(expr, env); got != nid.O {
		t.Fatalf("Eval = %v, want O", got)
	}
}

func TestEvalPanicsOnMissingAssignment(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing variable assignment")
		}
	}()
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	s.Eval(x0, map[vid.VID]nid.NID{})
}

func TestGCKeepsOnlyReachable(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))
	x2 := nid.FromVid(vid.Var(2))
	keep := s.And(x0, x1)
	_ = s.Xor(x1, x2) // unreachable garbage from keep's perspective

	gced, newKeep := s.GC([]nid.NID{keep})
	if gced.Len() != 1 {
		t.Fatalf("expected GC to retain exactly 1 entry, got %d", gced.Len())
	}
	env := map[vid.VID]nid.NID{vid.Var(0): nid.I, vid.Var(1): nid.I}
	if got := gced.Eval(newKeep[0], env); got != nid.I {
		t.Fatalf("Eval after GC = %v, want I", got)
	}
}

func TestRepackOrdersCheapestFirst(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))
	x2 := nid.FromVid(vid.Var(2))
	inner := s.And(x0, x1)
	outer := s.Xor(inner, x2)

	repacked, newKeep := s.Repack([]nid.NID{outer})
	if repacked.Len() != 2 {
		t.Fatalf("expected 2 surviving entries, got %d", repacked.Len())
	}
	if got := nid.Idx(newKeep[0]); got != 1 {
		t.Fatalf("outer (costlier) entry should come last after Repack, got index %d", got)
	}
	env := map[vid.VID]nid.NID{vid.Var(0): nid.I, vid.Var(1): nid.I, vid.Var(2): nid.O}
	if got := repacked.Eval(newKeep[0], env); got != nid.I {
		t.Fatalf("Eval after Repack = %v, want I", got)
	}
}

func TestTagGet(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	s.Tag("foo", x0)
	if got, ok := s.Get("foo"); !ok || got != x0 {
		t.Fatalf("Get(foo) = %v, %v; want %v, true", got, ok, x0)
	}
	if _, ok := s.Get("bar"); ok {
		t.Fatal("Get(bar) should report false for an unbound tag")
	}
}
