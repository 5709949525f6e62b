package ast

import (
	"sort"

	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

// GC returns a new store containing exactly the transitive closure of keep,
// in the same relative order as the original, plus keep's NIDs remapped
// into the new store. Because entries are append-only and an operand's
// index is always smaller than the index of any entry that references it,
// a single ascending pass over reachable indices is enough to remap every
// operand before the entry that uses it is copied.
func (s *Store) GC(keep []nid.NID) (*Store, []nid.NID) {
	reachable := make(map[uint32]bool)
	var mark func(nid.NID)
	mark = func(n nid.NID) {
		if nid.IsConst(n) || nid.IsLit(n) {
			return
		}
		idx := nid.Idx(nid.Raw(n))
		if reachable[idx] {
			return
		}
		reachable[idx] = true
		e := s.entries[idx]
		for _, op := range e.ops[:len(e.ops)-1] {
			mark(op)
		}
	}
	for _, k := range keep {
		mark(k)
	}

	out := New()
	remap := make(map[uint32]uint32, len(reachable))
	for idx := uint32(0); idx < uint32(len(s.entries)); idx++ {
		if !reachable[idx] {
			continue
		}
		e := s.entries[idx]
		newOps := make([]nid.NID, len(e.ops))
		for i, op := range e.ops[:len(e.ops)-1] {
			newOps[i] = remapNid(op, remap)
		}
		newOps[len(e.ops)-1] = e.ops[len(e.ops)-1]
		newIdx := uint32(len(out.entries))
		out.entries = append(out.entries, entry{ops: newOps})
		out.index[seqKey(newOps)] = newIdx
		remap[idx] = newIdx
	}
	return out, remapAll(keep, remap)
}

// Repack garbage-collects keep, then reorders the surviving entries
// cheapest-first: constants cost 0, literals cost 1, every other entry
// costs 1 + max(child cost). All internal references and the returned root
// set are remapped to match.
func (s *Store) Repack(keep []nid.NID) (*Store, []nid.NID) {
	gced, gcKeep := s.GC(keep)
	return gced.reorderByCost(gcKeep)
}

func nidCost(n nid.NID, cost []int) int {
	if nid.IsConst(n) {
		return 0
	}
	if nid.IsLit(n) {
		return 1
	}
	return cost[nid.Idx(nid.Raw(n))]
}

func (s *Store) reorderByCost(keep []nid.NID) (*Store, []nid.NID) {
	n := len(s.entries)
	cost := make([]int, n)
	for idx := 0; idx < n; idx++ {
		e := s.entries[idx]
		c := 1
		for _, op := range e.ops[:len(e.ops)-1] {
			if oc := nidCost(op, cost) + 1; oc > c {
				c = oc
			}
		}
		cost[idx] = c
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return cost[order[i]] < cost[order[j]] })

	out := New()
	out.entries = make([]entry, n)
	remap := make(map[uint32]uint32, n)
	for newIdx, oldIdx := range order {
		e := s.entries[oldIdx]
		newOps := make([]nid.NID, len(e.ops))
		for i, op := range e.ops[:len(e.ops)-1] {
			newOps[i] = remapNid(op, remap)
		}
		newOps[len(e.ops)-1] = e.ops[len(e.ops)-1]
		out.entries[newIdx] = entry{ops: newOps}
		out.index[seqKey(newOps)] = uint32(newIdx)
		remap[uint32(oldIdx)] = uint32(newIdx)
	}
	return out, remapAll(keep, remap)
}

func remapNid(n nid.NID, remap map[uint32]uint32) nid.NID {
	if nid.IsConst(n) || nid.IsLit(n) {
		return n
	}
	idx := nid.Idx(nid.Raw(n))
	newIdx, ok := remap[idx]
	if !ok {
		panic("ast: GC: dangling reference (invariant violation)")
	}
	out := nid.FromVidIdx(vid.NoVar, newIdx)
	if nid.IsInv(n) {
		out = nid.Not(out)
	}
	return out
}

func remapAll(keep []nid.NID, remap map[uint32]uint32) []nid.NID {
	out := make([]nid.NID, len(keep))
	for i, k := range keep {
		out[i] = remapNid(k, remap)
	}
	return out
}
