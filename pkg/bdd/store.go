// Package bdd implements the reduced-ordered Binary Decision Diagram store:
// a hash-consed Hi/Lo cache, ITE memoization built on pkg/ite's canonical
// triples, and the derived operations (cofactor, substitution, swap,
// counting, truth tables, solution enumeration) every caller builds on.
package bdd

import (
	"fmt"
	"sync"

	"github.com/oisee/boolex/pkg/ite"
	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/swarm"
	"github.com/oisee/boolex/pkg/vid"
)

type node struct {
	V      vid.VID
	Hi, Lo nid.NID
}

type triple struct{ F, G, H nid.NID }

// Store holds one hash-consed BDD universe. The zero value is not usable;
// construct with New.
type Store struct {
	mu    sync.RWMutex
	nodes []node
	index map[node]uint32
	memo  map[triple]nid.NID
	tags  map[string]nid.NID

	// Parallel, when set via SetParallel, routes Ite construction through a
	// swarm.Pool instead of computing iteCore inline.
	Parallel *swarm.Pool
}

// New returns an empty BDD store.
func New() *Store {
	return &Store{
		index: make(map[node]uint32),
		memo:  make(map[triple]nid.NID),
		tags:  make(map[string]nid.NID),
	}
}

// mkNode interns (v, hi, lo), collapsing to hi directly when hi == lo
// (reducedness) and normalizing so lo never carries the inversion bit.
func (s *Store) mkNode(v vid.VID, hi, lo nid.NID) nid.NID {
	if hi == lo {
		return hi
	}
	inv := nid.IsInv(lo)
	if inv {
		hi, lo = nid.Not(hi), nid.Not(lo)
	}
	key := node{v, hi, lo}
	s.mu.Lock()
	idx, ok := s.index[key]
	if !ok {
		idx = uint32(len(s.nodes))
		s.nodes = append(s.nodes, key)
		s.index[key] = idx
	}
	s.mu.Unlock()
	n := nid.FromVidIdx(v, idx)
	if inv {
		n = nid.Not(n)
	}
	return n
}

// Fetch decomposes n into its branching variable and Hi/Lo children,
// resolving literal nodes (which are not stored) and applying n's own
// inversion to the children it returns. Panics on constants.
func (s *Store) Fetch(n nid.NID) (v vid.VID, hi, lo nid.NID) {
	if nid.IsConst(n) {
		panic("bdd: Fetch called on a constant")
	}
	if nid.IsLit(n) {
		v = nid.Vid(n)
		hi, lo = nid.I, nid.O
		if nid.IsInv(n) {
			hi, lo = nid.O, nid.I
		}
		return
	}
	idx := nid.Idx(nid.Raw(n))
	s.mu.RLock()
	nd := s.nodes[idx]
	s.mu.RUnlock()
	v = nd.V
	hi, lo = nd.Hi, nd.Lo
	if nid.IsInv(n) {
		hi, lo = nid.Not(hi), nid.Not(lo)
	}
	return
}

func topmostOf3(a, b, c vid.VID) vid.VID {
	top := a
	if vid.CmpDepth(b, top) == vid.Above {
		top = b
	}
	if vid.CmpDepth(c, top) == vid.Above {
		top = c
	}
	return top
}

// WhenHi cofactors n by assigning v = I (true).
func (s *Store) WhenHi(v vid.VID, n nid.NID) nid.NID {
	if nid.IsConst(n) {
		return n
	}
	nv, hi, lo := s.Fetch(n)
	switch vid.CmpDepth(v, nv) {
	case vid.Above:
		return n
	case vid.Level:
		return hi
	default:
		return s.Ite(nid.FromVid(nv), s.WhenHi(v, hi), s.WhenHi(v, lo))
	}
}

// WhenLo cofactors n by assigning v = O (false).
func (s *Store) WhenLo(v vid.VID, n nid.NID) nid.NID {
	if nid.IsConst(n) {
		return n
	}
	nv, hi, lo := s.Fetch(n)
	switch vid.CmpDepth(v, nv) {
	case vid.Above:
		return n
	case vid.Level:
		return lo
	default:
		return s.Ite(nid.FromVid(nv), s.WhenLo(v, hi), s.WhenLo(v, lo))
	}
}

// Ite builds if f then g else h, memoizing on the canonical normalized
// triple so that semantically identical queries are computed once.
func (s *Store) Ite(f, g, h nid.NID) nid.NID {
	norm := ite.Normalize(f, g, h)
	switch norm.Kind {
	case ite.KindNid:
		return norm.N
	case ite.KindNotIte:
		return nid.Not(s.iteDispatch(norm.F, norm.G, norm.H))
	default:
		return s.iteDispatch(norm.F, norm.G, norm.H)
	}
}

// iteDispatch runs the normalized triple on s.Parallel if one is set, else
// inline via iteCore. Both paths intern into the same node vector; only
// iteCore records its results in s.memo.
func (s *Store) iteDispatch(f, g, h nid.NID) nid.NID {
	s.mu.RLock()
	p := s.Parallel
	s.mu.RUnlock()
	if p != nil {
		return s.iteParallel(f, g, h)
	}
	return s.iteCore(f, g, h)
}

func (s *Store) iteCore(f, g, h nid.NID) nid.NID {
	key := triple{f, g, h}
	s.mu.RLock()
	if n, ok := s.memo[key]; ok {
		s.mu.RUnlock()
		return n
	}
	s.mu.RUnlock()

	v := topmostOf3(nid.Vid(f), nid.Vid(g), nid.Vid(h))
	hi := s.Ite(s.WhenHi(v, f), s.WhenHi(v, g), s.WhenHi(v, h))
	lo := s.Ite(s.WhenLo(v, f), s.WhenLo(v, g), s.WhenLo(v, h))
	n := s.mkNode(v, hi, lo)

	s.mu.Lock()
	s.memo[key] = n
	s.mu.Unlock()
	return n
}

// And, Or, and Xor are expressed as Ite, matching pkg/simp's algebra.
func (s *Store) And(x, y nid.NID) nid.NID { return s.Ite(x, y, nid.O) }
func (s *Store) Or(x, y nid.NID) nid.NID  { return s.Ite(x, nid.I, y) }
func (s *Store) Xor(x, y nid.NID) nid.NID { return s.Ite(x, nid.Not(y), y) }

// Sub substitutes v -> n within ctx, expressed as a composed Ite.
func (s *Store) Sub(v vid.VID, n, ctx nid.NID) nid.NID {
	if !nid.MightDependOn(ctx, v) {
		return ctx
	}
	return s.Ite(n, s.WhenHi(v, ctx), s.WhenLo(v, ctx))
}

// Swap exchanges the roles of two real variables within n.
func (s *Store) Swap(n nid.NID, x, y vid.VID) nid.NID {
	litX, litY := nid.FromVid(x), nid.FromVid(y)
	hiX, loX := s.WhenHi(x, n), s.WhenLo(x, n)
	hiXhiY, loXhiY := s.WhenHi(y, hiX), s.WhenHi(y, loX)
	hiXloY, loXloY := s.WhenLo(y, hiX), s.WhenLo(y, loX)
	top := s.Ite(litY, hiXhiY, loXhiY)
	bot := s.Ite(litY, hiXloY, loXloY)
	return s.Ite(litX, top, bot)
}

// NodeCount returns the number of distinct nodes (ignoring inversion) in
// the sub-DAG rooted at n.
func (s *Store) NodeCount(n nid.NID) int {
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
		if nid.IsLit(x) {
			return
		}
		_, hi, lo := s.Fetch(x)
		walk(hi)
		walk(lo)
	}
	walk(n)
	return len(seen)
}

// TT materializes the full truth table of n over real variables
// x0..x(nvars-1) as one byte (0 or 1) per row, row index bit k giving xk's
// value. Panics above 16 variables.
func (s *Store) TT(n nid.NID, nvars int) []byte {
	if nvars > 16 {
		panic(fmt.Sprintf("bdd: TT: %d variables exceeds the 16-variable limit", nvars))
	}
	if nvars < 0 {
		panic("bdd: TT: negative nvars")
	}
	out := make([]byte, 1<<uint(nvars))
	var fill func(nid.NID, int, int)
	fill = func(cur nid.NID, level, base int) {
		if level == nvars {
			if cur == nid.I {
				out[base] = 1
			}
			return
		}
		v := vid.Var(uint32(level))
		lo := s.WhenLo(v, cur)
		hi := s.WhenHi(v, cur)
		fill(lo, level+1, base)
		fill(hi, level+1, base|(1<<uint(level)))
	}
	fill(n, 0, 0)
	return out
}

// SolutionCount returns the number of satisfying assignments over x0..xk,
// where xk is the highest real variable appearing in n (variables below xk
// that n does not mention still double the count).
func (s *Store) SolutionCount(n nid.NID) int {
	nvars := s.supportSize(n)
	tt := s.TT(n, nvars)
	count := 0
	for _, b := range tt {
		if b == 1 {
			count++
		}
	}
	return count
}

// supportSize returns 1 + the highest real variable index appearing in n,
// or 0 if n is constant.
func (s *Store) supportSize(n nid.NID) int {
	hi := -1
	seen := map[nid.NID]bool{}
	var scan func(nid.NID)
	scan = func(x nid.NID) {
		if nid.IsConst(x) {
			return
		}
		key := nid.Raw(x)
		if seen[key] {
			return
		}
		seen[key] = true
		v := nid.Vid(x)
		if v.IsVar() && int(v.Ix()) > hi {
			hi = int(v.Ix())
		}
		if nid.IsLit(x) {
			return
		}
		_, h, l := s.Fetch(x)
		scan(h)
		scan(l)
	}
	scan(n)
	return hi + 1
}

// Tag binds a string name to a NID, overwriting any previous binding.
func (s *Store) Tag(name string, n nid.NID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[name] = n
}

// Get looks up a previously tagged NID.
func (s *Store) Get(name string) (nid.NID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.tags[name]
	return n, ok
}

// Tags returns a snapshot copy of the store's name -> NID bindings, used by
// pkg/serial when writing a full checkpoint.
func (s *Store) Tags() map[string]nid.NID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]nid.NID, len(s.tags))
	for k, v := range s.tags {
		out[k] = v
	}
	return out
}

// NodeAt exposes the raw (vid, hi, lo) triple at a store index, used by
// pkg/serial; idx must have come from nid.Idx on a node
// produced by this store.
func (s *Store) NodeAt(idx uint32) (vid.VID, nid.NID, nid.NID) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nd := s.nodes[idx]
	return nd.V, nd.Hi, nd.Lo
}

// Len returns the number of interned (vid, hi, lo) triples.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}
