// Package anf implements the Algebraic Normal Form store: an alternative
// canonical representation of a Boolean function as a XOR-of-AND
// polynomial, sharing pkg/nid's identifier scheme and pkg/vid's variable
// ordering with the BDD store.
package anf

import (
	"sort"

	"github.com/oisee/boolex/pkg/bdd"
	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
	"github.com/oisee/boolex/pkg/walk"
)

type node struct {
	V      vid.VID
	Hi, Lo nid.NID
}

// Store holds one hash-consed ANF universe. Every non-literal node is the
// triple (vid, hi, lo) interpreted as vid∧hi ⊕ lo. The zero value is not
// usable; construct with New.
type Store struct {
	nodes []node
	index map[node]uint32
	tags  map[string]nid.NID
}

// New returns an empty ANF store.
func New() *Store {
	return &Store{index: make(map[node]uint32), tags: make(map[string]nid.NID)}
}

// Fetch decomposes n into (v, hi, lo) such that n = v∧hi ⊕ lo, applying
// n's own inversion as a lo = ¬lo adjustment. Panics on constants.
func (s *Store) Fetch(n nid.NID) (v vid.VID, hi, lo nid.NID) {
	if nid.IsConst(n) {
		panic("anf: Fetch called on a constant")
	}
	if nid.IsLit(n) {
		v = nid.Vid(n)
		hi, lo = nid.I, nid.O
	} else {
		idx := nid.Idx(nid.Raw(n))
		nd := s.nodes[idx]
		v, hi, lo = nd.V, nd.Hi, nd.Lo
	}
	if nid.IsInv(n) {
		lo = nid.Not(lo)
	}
	return
}

// VHL interns (v, hi, lo), stripping INV from lo before hash-consing and
// re-applying it to the returned NID. hi == O collapses the node to lo
// (the vid∧O term vanishes); the (v, I, O) shape is the literal itself.
func (s *Store) VHL(v vid.VID, hi, lo nid.NID) nid.NID {
	if hi == nid.O {
		return lo
	}
	if hi == nid.I && lo == nid.O {
		return nid.FromVid(v)
	}
	inv := nid.IsInv(lo)
	rawLo := lo
	if inv {
		rawLo = nid.Not(lo)
	}
	key := node{v, hi, rawLo}
	idx, ok := s.index[key]
	if !ok {
		idx = uint32(len(s.nodes))
		s.nodes = append(s.nodes, key)
		s.index[key] = idx
	}
	n := nid.FromVidIdx(v, idx)
	if inv {
		n = nid.Not(n)
	}
	return n
}

// calcAnd multiplies two non-inverted operands.
func (s *Store) calcAnd(a, b nid.NID) nid.NID {
	if a == nid.O || b == nid.O {
		return nid.O
	}
	if a == nid.I {
		return b
	}
	if b == nid.I {
		return a
	}
	if a == b {
		return a
	}
	va, ha, la := s.Fetch(a)
	vb, hb, lb := s.Fetch(b)
	switch vid.CmpDepth(va, vb) {
	case vid.Above:
		return s.VHL(va, s.calcAnd(ha, b), s.calcAnd(la, b))
	case vid.Below:
		return s.VHL(vb, s.calcAnd(a, hb), s.calcAnd(a, lb))
	default:
		// (a·b + c)(a·q + r) = a·(b·(q⊕r) ⊕ c·q) ⊕ c·r, with a=va,
		// b=ha, c=la, q=hb, r=lb.
		qXorR := s.Xor(hb, lb)
		hi := s.Xor(s.calcAnd(ha, qXorR), s.calcAnd(la, hb))
		lo := s.calcAnd(la, lb)
		return s.VHL(va, hi, lo)
	}
}

// And returns x AND y.
func (s *Store) And(x, y nid.NID) nid.NID {
	ix, iy := nid.IsInv(x), nid.IsInv(y)
	X, Y := nid.Raw(x), nid.Raw(y)
	xy := s.calcAnd(X, Y)
	switch {
	case !ix && !iy:
		return xy
	case ix && !iy:
		return s.Xor(xy, Y)
	case !ix && iy:
		return s.Xor(xy, X)
	default:
		return s.Xor(s.Xor(xy, X), s.Xor(Y, nid.I))
	}
}

func (s *Store) calcXor(a, b nid.NID) nid.NID {
	if a == nid.O {
		return b
	}
	if b == nid.O {
		return a
	}
	if a == nid.I {
		return nid.Not(b)
	}
	if b == nid.I {
		return nid.Not(a)
	}
	if a == b {
		return nid.O
	}
	va, ha, la := s.Fetch(a)
	vb, hb, lb := s.Fetch(b)
	switch vid.CmpDepth(va, vb) {
	case vid.Above:
		return s.VHL(va, ha, s.calcXor(la, b))
	case vid.Below:
		return s.VHL(vb, hb, s.calcXor(a, lb))
	default:
		return s.VHL(va, s.calcXor(ha, hb), s.calcXor(la, lb))
	}
}

// Xor returns x XOR y.
func (s *Store) Xor(x, y nid.NID) nid.NID {
	ix, iy := nid.IsInv(x), nid.IsInv(y)
	r := s.calcXor(nid.Raw(x), nid.Raw(y))
	if ix != iy {
		r = nid.Not(r)
	}
	return r
}

// Or returns x OR y via (x∧y) ⊕ x ⊕ y.
func (s *Store) Or(x, y nid.NID) nid.NID {
	return s.Xor(s.And(x, y), s.Xor(x, y))
}

// Ite returns if f then g else h, via f·g ⊕ ¬f·h, matching pkg/base.Base's
// shared operation set.
func (s *Store) Ite(f, g, h nid.NID) nid.NID {
	return s.Xor(s.And(f, g), s.And(nid.Not(f), h))
}

// Tag binds a string name to a NID, overwriting any previous binding.
func (s *Store) Tag(name string, n nid.NID) { s.tags[name] = n }

// Get looks up a previously tagged NID.
func (s *Store) Get(name string) (nid.NID, bool) {
	n, ok := s.tags[name]
	return n, ok
}

// Sub substitutes v -> n within ctx.
func (s *Store) Sub(v vid.VID, n, ctx nid.NID) nid.NID {
	if nid.IsConst(ctx) {
		return ctx
	}
	cv, hi, lo := s.Fetch(ctx)
	switch vid.CmpDepth(cv, v) {
	case vid.Below:
		return ctx
	case vid.Level:
		return s.Xor(s.And(n, hi), lo)
	default:
		return s.Xor(s.And(nid.FromVid(cv), s.Sub(v, n, hi)), s.Sub(v, n, lo))
	}
}

func (s *Store) terms(n nid.NID) map[uint64]bool {
	if n == nid.O {
		return map[uint64]bool{}
	}
	if n == nid.I {
		return map[uint64]bool{0: true}
	}
	v, hi, lo := s.Fetch(n)
	out := map[uint64]bool{}
	bit := v.Bit()
	for m := range s.terms(hi) {
		out[m|bit] = true
	}
	for m := range s.terms(lo) {
		if out[m] {
			delete(out, m)
		} else {
			out[m] = true
		}
	}
	return out
}

// TermIter is a finite iterator over a polynomial's monomials.
type TermIter struct {
	terms []uint64
	i     int
}

// Next returns the next monomial (set bits = conjoined real variables) in
// increasing order, or (0, false) once exhausted.
func (it *TermIter) Next() (uint64, bool) {
	if it.i >= len(it.terms) {
		return 0, false
	}
	m := it.terms[it.i]
	it.i++
	return m, true
}

// Terms returns an iterator over n's monomials. Variables must have index
// < 64 to be represented in the returned bit register.
func (s *Store) Terms(n nid.NID) *TermIter {
	set := s.terms(n)
	out := make([]uint64, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return &TermIter{terms: out}
}

// ToBDD reconstructs n inside a fresh bdd.Store, returning the store and
// the translated root.
func (s *Store) ToBDD(n nid.NID) (*bdd.Store, nid.NID) {
	b := bdd.New()
	memo := map[nid.NID]nid.NID{}
	var conv func(nid.NID) nid.NID
	conv = func(x nid.NID) nid.NID {
		if x == nid.O {
			return nid.O
		}
		if x == nid.I {
			return nid.I
		}
		raw := nid.Raw(x)
		if r, ok := memo[raw]; ok {
			if nid.IsInv(x) {
				return nid.Not(r)
			}
			return r
		}
		v, hi, lo := s.Fetch(raw)
		hiB := conv(hi)
		loB := conv(lo)
		r := b.Xor(b.And(nid.FromVid(v), hiB), loB)
		memo[raw] = r
		if nid.IsInv(x) {
			return nid.Not(r)
		}
		return r
	}
	return b, conv(n)
}

// SolutionsPad converts n to a BDD and delegates to its padded solution
// iterator.
func (s *Store) SolutionsPad(n nid.NID, nvars int) *walk.SolutionIter {
	b, root := s.ToBDD(n)
	return b.SolutionsPad(root, nvars)
}
