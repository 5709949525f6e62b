package bdd

import (
	"testing"

	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/swarm"
	"github.com/oisee/boolex/pkg/vid"
)

func TestParallelMatchesInlineIte(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))
	x2 := nid.FromVid(vid.Var(2))

	inline := s.Ite(x0, s.And(x1, x2), x2)

	s.SetParallel(swarm.New(4))
	parallel := s.Ite(x0, s.And(x1, x2), x2)

	if s.TT(inline, 3)[0] != s.TT(parallel, 3)[0] {
		t.Fatalf("parallel and inline Ite disagree on a sampled row")
	}
	for i, b := range s.TT(inline, 3) {
		if s.TT(parallel, 3)[i] != b {
			t.Fatalf("parallel Ite truth table mismatch at row %d", i)
		}
	}
}

func TestParallelSharesNodesWithInlineStore(t *testing.T) {
	s := New()
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))

	and := s.And(x0, x1)

	s.SetParallel(swarm.New(2))
	again := s.And(x0, x1)
	if again != and {
		t.Fatalf("folding a parallel answer back into the store should hash-cons to the same NID: got %v want %v", again, and)
	}
}
