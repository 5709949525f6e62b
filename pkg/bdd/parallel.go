package bdd

import (
	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/swarm"
)

// Parallel, when non-nil, makes Ite delegate its construction to a
// swarm.Pool instead of running iteCore inline: there is one BDD semantic
// model, and the pool is a worker-pool backend for it, not a second store a
// caller needs to keep in sync by hand. Store.And/Or/Xor/Sub/Swap all go
// through Ite and so pick this up for free.
func (s *Store) SetParallel(p *swarm.Pool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Parallel = p
}

// iteParallel exports f, g, h into s.Parallel's node space, asks the pool
// to build the ITE there, and imports the answer's transitive closure back
// into s, returning a NID addressed against s as usual.
func (s *Store) iteParallel(f, g, h nid.NID) nid.NID {
	out := map[nid.NID]nid.NID{}
	pf := s.exportToSwarm(f, out)
	pg := s.exportToSwarm(g, out)
	ph := s.exportToSwarm(h, out)
	ans := s.Parallel.Ite(pf, pg, ph)
	in := map[nid.NID]nid.NID{}
	return s.importFromSwarm(ans, in)
}

// exportToSwarm copies n's transitive closure from the store into
// s.Parallel's node space, memoizing on the store-local raw NID so shared
// sub-DAGs are exported once. Literal references carry no store-local
// index, so they pass through unchanged in either direction.
func (s *Store) exportToSwarm(n nid.NID, memo map[nid.NID]nid.NID) nid.NID {
	if nid.IsConst(n) || nid.IsLit(n) {
		return n
	}
	raw := nid.Raw(n)
	if r, ok := memo[raw]; ok {
		if nid.IsInv(n) {
			return nid.Not(r)
		}
		return r
	}
	v, hi, lo := s.Fetch(raw)
	hiP := s.exportToSwarm(hi, memo)
	loP := s.exportToSwarm(lo, memo)
	r := s.Parallel.MkNode(v, hiP, loP)
	memo[raw] = r
	if nid.IsInv(n) {
		return nid.Not(r)
	}
	return r
}

// importFromSwarm is exportToSwarm's mirror, copying n's transitive closure
// from s.Parallel's node space into the store.
func (s *Store) importFromSwarm(n nid.NID, memo map[nid.NID]nid.NID) nid.NID {
	if nid.IsConst(n) || nid.IsLit(n) {
		return n
	}
	raw := nid.Raw(n)
	if r, ok := memo[raw]; ok {
		if nid.IsInv(n) {
			return nid.Not(r)
		}
		return r
	}
	v, hi, lo := s.Parallel.Fetch(raw)
	hiS := s.importFromSwarm(hi, memo)
	loS := s.importFromSwarm(lo, memo)
	r := s.mkNode(v, hiS, loS)
	memo[raw] = r
	if nid.IsInv(n) {
		return nid.Not(r)
	}
	return r
}
