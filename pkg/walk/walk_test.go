package walk_test

import (
	"testing"

	"github.com/oisee/boolex/pkg/bdd"
	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
	"github.com/oisee/boolex/pkg/walk"
)

func TestWalkVisitsEachNodeOnce(t *testing.T) {
	s := bdd.New()
	x0 := nid.FromVid(vid.Var(0))
	x1 := nid.FromVid(vid.Var(1))
	x2 := nid.FromVid(vid.Var(2))
	f := s.Ite(x0, s.And(x1, x2), s.Or(x1, x2))

	visits := 0
	walk.Walk(s, f, func(n nid.NID, v vid.VID, hi, lo nid.NID) {
		visits++
	})
	if got := s.NodeCount(f); got != visits {
		t.Fatalf("Walk visited %d nodes, NodeCount reports %d", visits, got)
	}
}

func TestSolutionIterIsExhaustedOnce(t *testing.T) {
	s := bdd.New()
	x0 := nid.FromVid(vid.Var(0))
	it := walk.NewSolutionIter(s, x0, 1)
	first, ok := it.Next()
	if !ok || !first[0] {
		t.Fatalf("expected the single solution x0=1, got %v %v", first, ok)
	}
	if _, ok := it.Next(); ok {
		t.Fatal("iterator should be exhausted after its one solution")
	}
}
