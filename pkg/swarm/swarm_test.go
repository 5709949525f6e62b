package swarm

import (
	"testing"

	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

func TestIteBasicAnd(t *testing.T) {
	p := New(4)
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))

	n := p.Ite(x0, x1, nid.O) // x0 AND x1
	if n == nid.O || n == nid.I {
		t.Fatalf("x0 AND x1 should not collapse to a constant, got %v", n)
	}

	v, hi, lo := p.Fetch(n)
	if v != vid.Var(1) {
		t.Fatalf("top variable = %v, want x1", v)
	}
	if hi != x0 || lo != nid.O {
		t.Fatalf("Fetch = (%v, %v), want (x0, O)", hi, lo)
	}
}

func TestIteHashConsAcrossCalls(t *testing.T) {
	p := New(2)
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))

	a := p.Ite(x0, x1, nid.O)
	b := p.Ite(x0, x1, nid.O)
	if a != b {
		t.Fatalf("repeated identical Ite calls must hash-cons: %v != %v", a, b)
	}
}

func TestIteConstantCondition(t *testing.T) {
	p := New(2)
	x0 := nid.FromVid(vid.Var(0))
	if got := p.Ite(nid.I, x0, nid.O); got != x0 {
		t.Fatalf("Ite(I, x0, O) = %v, want x0", got)
	}
	if got := p.Ite(nid.O, x0, nid.O); got != nid.O {
		t.Fatalf("Ite(O, x0, O) = %v, want O", got)
	}
}

func TestIteThenEqualsElseCollapses(t *testing.T) {
	p := New(2)
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))
	if got := p.Ite(x0, x1, x1); got != x1 {
		t.Fatalf("Ite(f, g, g) = %v, want g", got)
	}
}

func TestResetPanicsWhileOutstanding(t *testing.T) {
	p := New(2)
	p.running = true
	defer func() {
		if recover() == nil {
			t.Fatal("expected Reset to panic while a query is marked outstanding")
		}
	}()
	p.Reset()
}

func TestStatsCountTests(t *testing.T) {
	p := New(2)
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))
	p.Ite(x0, x1, nid.O)
	tests, _ := p.Stats()
	if tests == 0 {
		t.Fatal("Stats should report at least one test after a non-trivial Ite")
	}
}
