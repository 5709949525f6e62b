package ite

import (
	"testing"

	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

func TestConstantCondition(t *testing.T) {
	x := nid.FromVid(vid.Var(0))
	y := nid.FromVid(vid.Var(1))
	if got := Normalize(nid.I, x, y); got.Kind != KindNid || got.N != x {
		t.Fatalf("Normalize(I,x,y) = %+v", got)
	}
	if got := Normalize(nid.O, x, y); got.Kind != KindNid || got.N != y {
		t.Fatalf("Normalize(O,x,y) = %+v", got)
	}
}

func TestEqualBranches(t *testing.T) {
	x := nid.FromVid(vid.Var(0))
	y := nid.FromVid(vid.Var(1))
	if got := Normalize(x, y, y); got.Kind != KindNid || got.N != y {
		t.Fatalf("Normalize(x,y,y) = %+v", got)
	}
}

func TestConstantBranches(t *testing.T) {
	x := nid.FromVid(vid.Var(0))
	if got := Normalize(x, nid.I, nid.O); got.Kind != KindNid || got.N != x {
		t.Fatalf("Normalize(x,I,O) = %+v", got)
	}
	if got := Normalize(x, nid.O, nid.I); got.Kind != KindNid || got.N != nid.Not(x) {
		t.Fatalf("Normalize(x,O,I) = %+v", got)
	}
}

func TestCanonicalFormNeverInvertsFG(t *testing.T) {
	x := nid.FromVid(vid.Var(0))
	y := nid.FromVid(vid.Var(1))
	z := nid.FromVid(vid.Var(2))
	got := Normalize(nid.Not(x), y, z)
	if got.Kind == KindNid {
		t.Fatalf("expected a triple, got Nid %v", got.N)
	}
	if nid.IsInv(got.F) || nid.IsInv(got.G) {
		t.Fatalf("canonical triple must not invert F or G: %+v", got)
	}
}

func TestDeterministic(t *testing.T) {
	x := nid.FromVid(vid.Var(0))
	y := nid.FromVid(vid.Var(1))
	z := nid.FromVid(vid.Var(2))
	a := Normalize(x, y, z)
	b := Normalize(x, y, z)
	if a != b {
		t.Fatalf("Normalize is not deterministic: %+v vs %+v", a, b)
	}
}
