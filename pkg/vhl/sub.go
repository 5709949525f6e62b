package vhl

import (
	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/simp"
	"github.com/oisee/boolex/pkg/vid"
)

// nidVid returns the caller-facing VID that n's row is currently labeled
// with (vid.Top for constants).
func (sc *Scaffold) nidVid(n nid.NID) vid.VID {
	if nid.IsConst(n) {
		return vid.Top
	}
	pos := int(nid.Vid(n).Ix())
	return sc.vids[pos]
}

func (sc *Scaffold) mightDependOn(n nid.NID, v vid.VID) bool {
	if nid.IsConst(n) {
		return false
	}
	return vid.CmpDepth(sc.nidVid(n), v) != vid.Below
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

// WhenHi cofactors n by assigning the row labeled v to I.
func (sc *Scaffold) WhenHi(v vid.VID, n nid.NID) nid.NID {
	if nid.IsConst(n) {
		return n
	}
	pos, hi, lo := sc.Fetch(n)
	switch vid.CmpDepth(v, sc.vids[pos]) {
	case vid.Above:
		return n
	case vid.Level:
		return hi
	default:
		return sc.internPair(pos, sc.WhenHi(v, hi), sc.WhenHi(v, lo))
	}
}

// WhenLo cofactors n by assigning the row labeled v to O.
func (sc *Scaffold) WhenLo(v vid.VID, n nid.NID) nid.NID {
	if nid.IsConst(n) {
		return n
	}
	pos, hi, lo := sc.Fetch(n)
	switch vid.CmpDepth(v, sc.vids[pos]) {
	case vid.Above:
		return n
	case vid.Level:
		return lo
	default:
		return sc.internPair(pos, sc.WhenLo(v, hi), sc.WhenLo(v, lo))
	}
}

// Ite builds if f then g else h directly against this scaffold's rows,
// the same Shannon-expansion algorithm pkg/bdd.Store.Ite uses, addressed
// through row positions instead of a flat node vector.
func (sc *Scaffold) Ite(f, g, h nid.NID) nid.NID {
	if r, ok := simp.Ite(f, g, h); ok {
		return r
	}
	v := topmostOf3(sc.nidVid(f), sc.nidVid(g), sc.nidVid(h))
	hi := sc.Ite(sc.WhenHi(v, f), sc.WhenHi(v, g), sc.WhenHi(v, h))
	lo := sc.Ite(sc.WhenLo(v, f), sc.WhenLo(v, g), sc.WhenLo(v, h))
	if hi == lo {
		return hi
	}
	pos := sc.rowIndexFor(v)
	if pos < 0 {
		pos = sc.Push(v)
	}
	return sc.internPair(pos, hi, lo)
}

// Import copies n's transitive closure from src into sc, creating any row
// sc lacks for a VID that labels one of src's rows, and returns n
// re-addressed against sc's own rows. Children are imported before their
// parents, so a freshly-created destination row for a parent variable
// always lands above every row its own children needed.
func Import(sc, src *Scaffold, n nid.NID) nid.NID {
	memo := map[nid.NID]nid.NID{}
	var conv func(nid.NID) nid.NID
	conv = func(x nid.NID) nid.NID {
		if nid.IsConst(x) {
			return x
		}
		raw := nid.Raw(x)
		if r, ok := memo[raw]; ok {
			if nid.IsInv(x) {
				return nid.Not(r)
			}
			return r
		}
		pos, hi, lo := src.Fetch(raw)
		v := src.vids[pos]
		var r nid.NID
		if nid.IsLit(raw) {
			if sc.rowIndexFor(v) < 0 {
				sc.Push(v)
			}
			r = sc.Literal(v)
		} else {
			// hi/lo come back from conv already addressed against sc, so
			// this composes them with internPair directly rather than
			// AddRef: AddRef's translate step expects an external,
			// not-yet-resolved literal, which a literal child coming out
			// of conv is not.
			hiD := conv(hi)
			loD := conv(lo)
			if sc.rowIndexFor(v) < 0 {
				sc.Push(v)
			}
			dpos := sc.rowIndexFor(v)
			sc.checkBelow(dpos, hiD)
			sc.checkBelow(dpos, loD)
			r = sc.internPair(dpos, hiD, loD)
		}
		memo[raw] = r
		if nid.IsInv(x) {
			return nid.Not(r)
		}
		return r
	}
	return conv(n)
}

// Sub substitutes v -> n within ctx, where n was computed in a companion
// scaffold src (typically the two-row source scaffold SPEC_FULL.md §4.8
// describes). It is realized as ite(n, ctx|v=1, ctx|v=0), after importing
// n's transitive closure into sc.
func (sc *Scaffold) Sub(v vid.VID, src *Scaffold, n nid.NID, ctx nid.NID) nid.NID {
	if !sc.mightDependOn(ctx, v) {
		return ctx
	}
	nHere := Import(sc, src, n)
	hi := sc.WhenHi(v, ctx)
	lo := sc.WhenLo(v, ctx)
	return sc.Ite(nHere, hi, lo)
}
