package anf

import (
	"testing"

	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

func TestLiteralAndConst(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	if got := s.And(x0, nid.I); got != x0 {
		t.Fatalf("x0 AND I = %v, want x0", got)
	}
	if got := s.And(x0, nid.O); got != nid.O {
		t.Fatalf("x0 AND O = %v, want O", got)
	}
	if got := s.Xor(x0, nid.O); got != x0 {
		t.Fatalf("x0 XOR O = %v, want x0", got)
	}
}

func TestXorSelfInverse(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))
	f := s.Xor(x0, x1)
	if got := s.Xor(f, f); got != nid.O {
		t.Fatalf("f XOR f = %v, want O", got)
	}
}

func TestAndDistributesOverXor(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))
	x2 := nid.FromVid(vid.Var(2))
	lhs := s.And(x0, s.Xor(x1, x2))
	rhs := s.Xor(s.And(x0, x1), s.And(x0, x2))
	if lhs != rhs {
		t.Fatalf("x0&&(x1^x2) = %v, (x0&&x1)^(x0&&x2) = %v, want equal", lhs, rhs)
	}
}

func TestOrViaAndXor(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))
	or := s.Or(x0, x1)
	b, root := s.ToBDD(or)
	if got := b.SolutionCount(root); got != 3 {
		t.Fatalf("x0 OR x1 should have 3 solutions via BDD projection, got %d", got)
	}
}

func TestSub(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))
	x2 := nid.FromVid(vid.Var(2))
	ctx := s.And(x0, x1)
	got := s.Sub(vid.Var(0), x2, ctx)
	want := s.And(x2, x1)
	if got != want {
		t.Fatalf("Sub(x0->x2, x0&&x1) = %v, want %v", got, want)
	}
}

func TestTermsOfXor(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))
	f := s.Xor(x0, x1)
	it := s.Terms(f)
	var got []uint64
	for {
		m, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, m)
	}
	want := []uint64{vid.Var(0).Bit(), vid.Var(1).Bit()}
	if len(got) != 2 || (got[0] != want[0] && got[0] != want[1]) {
		t.Fatalf("Terms(x0^x1) = %v, want two single-literal monomials", got)
	}
}

func TestAndBothInvertedParity(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))
	nx0 := nid.Not(x0)
	nx1 := nid.Not(x1)
	// De Morgan: !x0 && !x1 == !(x0 || x1)
	lhs := s.And(nx0, nx1)
	rhs := nid.Not(s.Or(x0, x1))
	if lhs != rhs {
		t.Fatalf("!x0 && !x1 = %v, !(x0||x1) = %v, want equal", lhs, rhs)
	}
}
