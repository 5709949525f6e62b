// Package walk implements the shared DFS traversal and solution-enumeration
// cursor used by the BDD store (the ANF store reuses only its SolutionIter
// type): anything that exposes Fetch plus Hi/Lo cofactor can be walked or
// enumerated without duplicating the recursion.
package walk

import (
	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

// HiLoBase is the minimal interface a node store must expose to be walked
// or driven by a Cursor. pkg/bdd.Store satisfies it structurally;
// pkg/anf.Store does not (it has no WhenHi/WhenLo) and enumerates its
// solutions through the bdd.Store it converts to.
type HiLoBase interface {
	Fetch(n nid.NID) (v vid.VID, hi, lo nid.NID)
	WhenHi(v vid.VID, n nid.NID) nid.NID
	WhenLo(v vid.VID, n nid.NID) nid.NID
}

// Visit is called once per unique node (by raw, uninverted identity)
// reachable from the walked root.
type Visit func(n nid.NID, v vid.VID, hi, lo nid.NID)

// Walk visits every unique node in the sub-DAG rooted at n exactly once,
// top-down (a node is visited before its children). Constants are not
// visited; literal nodes are visited with hi=I, lo=O (or the inverted pair).
func Walk(base HiLoBase, n nid.NID, f Visit) {
	seen := map[nid.NID]bool{}
	var walk func(nid.NID)
	walk = func(x nid.NID) {
		if nid.IsConst(x) {
			return
		}
		key := nid.Raw(x)
		if seen[key] {
			return
		}
		seen[key] = true
		v, hi, lo := base.Fetch(x)
		f(x, v, hi, lo)
		if nid.IsLit(x) {
			return
		}
		walk(hi)
		walk(lo)
	}
	walk(n)
}
