// Package ite implements Bryant-style ITE (if-then-else) triple
// normalization: the pure rewrite pass that every node store runs before
// ever touching a cache, so that semantically identical queries always
// arrive at the same canonical triple.
package ite

import (
	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

// Kind distinguishes the three normalization outcomes.
type Kind uint8

const (
	KindNid Kind = iota
	KindIte
	KindNotIte
)

// Norm is the result of normalizing an (f, g, h) triple.
type Norm struct {
	Kind    Kind
	N       nid.NID // meaningful when Kind == KindNid
	F, G, H nid.NID // meaningful when Kind == KindIte or KindNotIte
}

func asNid(n nid.NID) Norm { return Norm{Kind: KindNid, N: n} }

// less implements the (vid, idx) lexicographic tie-break used to choose a
// canonical representative among equivalent triples: a node whose variable
// sits nearer the root sorts first; ties fall back to raw index.
func less(a, b nid.NID) bool {
	va, vb := nid.Vid(a), nid.Vid(b)
	switch vid.CmpDepth(va, vb) {
	case vid.Above:
		return true
	case vid.Below:
		return false
	default:
		return a < b
	}
}

// Normalize runs the full rewrite pass on (f, g, h) = "if f then g else h".
func Normalize(f, g, h nid.NID) Norm {
	for {
		// Rule 1: constant condition.
		if nid.IsConst(f) {
			if f == nid.I {
				return asNid(g)
			}
			return asNid(h)
		}
		// Rule 2: both branches equal.
		if g == h {
			return asNid(g)
		}
		// Rule 3: a branch equal to (or the negation of) the condition
		// collapses to a constant.
		rewrote := false
		if g == f {
			g, rewrote = nid.I, true
		} else if g == nid.Not(f) {
			g, rewrote = nid.O, true
		}
		if h == f {
			h, rewrote = nid.O, true
		} else if h == nid.Not(f) {
			h, rewrote = nid.I, true
		}
		if rewrote {
			continue
		}
		// Rule 4: both branches constant.
		if nid.IsConst(g) && nid.IsConst(h) {
			if g == nid.I {
				return asNid(f)
			}
			return asNid(nid.Not(f))
		}

		// Rule 5: standard dualities with O/I shifted to opposing
		// positions, all four of them — whichever branch is constant
		// swaps into the condition slot if it is more canonical.
		if g == nid.I && less(h, f) {
			f, h = h, f
			continue
		}
		if g == nid.O && less(h, f) {
			f, g, h = nid.Not(h), nid.O, nid.Not(f)
			continue
		}
		if h == nid.O && less(g, f) {
			f, g = g, f
			continue
		}
		if h == nid.I && less(g, f) {
			f, g, h = nid.Not(g), nid.Not(f), nid.I
			continue
		}

		// Rule 6: h is the negation of g — bounce to the representative
		// that reduces the number of inverted slots.
		if h == nid.Not(g) && less(g, f) {
			f, g, h = g, f, nid.Not(f)
			continue
		}

		// Rule 7: pick the representative of {(f,g,h), (¬f,h,g),
		// ¬(f,¬g,¬h), ¬(¬f,¬g,¬h)} with neither f nor g inverted.
		if nid.IsInv(f) {
			f, g, h = nid.Raw(f), h, g
			continue
		}
		if nid.IsInv(g) {
			sub := Normalize(f, nid.Not(g), nid.Not(h))
			switch sub.Kind {
			case KindNid:
				return asNid(nid.Not(sub.N))
			case KindNotIte:
				return Norm{Kind: KindIte, F: sub.F, G: sub.G, H: sub.H}
			default:
				return Norm{Kind: KindNotIte, F: sub.F, G: sub.G, H: sub.H}
			}
		}
		return Norm{Kind: KindIte, F: f, G: g, H: h}
	}
}
