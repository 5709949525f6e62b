package vhl

import (
	"fmt"

	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

// Scaffold is a row-major VHL graph: one row per variable level, each row
// hash-consing its own (hi, lo) pairs. Internal NIDs address a row by its
// position (vid.Var(position)); vids maps a position back to the
// caller-facing VID that currently labels it. The zero value is ready to
// use.
type Scaffold struct {
	rows []*row
	vids []vid.VID
}

// New returns an empty scaffold.
func New() *Scaffold { return &Scaffold{} }

// NumRows returns the number of rows currently pushed.
func (sc *Scaffold) NumRows() int { return len(sc.rows) }

// Label returns the external VID currently labeling row position.
func (sc *Scaffold) Label(position int) vid.VID { return sc.vids[position] }

func (sc *Scaffold) rowIndexFor(v vid.VID) int {
	for i, lbl := range sc.vids {
		if lbl == v {
			return i
		}
	}
	return -1
}

// Push appends a new empty row labeled v, returning its position.
func (sc *Scaffold) Push(v vid.VID) int {
	sc.vids = append(sc.vids, v)
	sc.rows = append(sc.rows, newRow())
	return len(sc.rows) - 1
}

// Drop removes the topmost row if it is labeled v; panics otherwise.
func (sc *Scaffold) Drop(v vid.VID) {
	top := len(sc.rows) - 1
	if top < 0 || sc.vids[top] != v {
		panic(fmt.Sprintf("vhl: Drop: %v is not the top row", v))
	}
	sc.vids = sc.vids[:top]
	sc.rows = sc.rows[:top]
}

// Relabel renames the row currently labeled old to new, leaving the row's
// pairs as they are. Sub does not call it.
func (sc *Scaffold) Relabel(old, new_ vid.VID) {
	pos := sc.rowIndexFor(old)
	if pos < 0 {
		panic(fmt.Sprintf("vhl: Relabel: no row labeled %v", old))
	}
	sc.vids[pos] = new_
}

// Literal returns the bare-literal NID for the row labeled v (panics if no
// such row exists): the internal reference meaning "this row's variable,
// uninverted".
func (sc *Scaffold) Literal(v vid.VID) nid.NID {
	pos := sc.rowIndexFor(v)
	if pos < 0 {
		panic(fmt.Sprintf("vhl: Literal: no row labeled %v", v))
	}
	return nid.FromVid(vid.Var(uint32(pos)))
}

// translate rewrites an externally-facing literal NID (one built with
// nid.FromVid against a caller-facing VID) into this scaffold's internal
// row-position addressing. Constants and already-internal indexed
// references pass through unchanged.
func (sc *Scaffold) translate(n nid.NID) nid.NID {
	if nid.IsConst(n) || !nid.IsLit(n) {
		return n
	}
	v := nid.Vid(n)
	pos := sc.rowIndexFor(v)
	if pos < 0 {
		panic(fmt.Sprintf("vhl: AddRef: no row labeled %v to reference as a literal", v))
	}
	lit := nid.FromVid(vid.Var(uint32(pos)))
	if nid.IsInv(n) {
		lit = nid.Not(lit)
	}
	return lit
}

func childPosition(n nid.NID) (pos int, isRowRef bool) {
	if nid.IsConst(n) {
		return 0, false
	}
	return int(nid.Vid(n).Ix()), true
}

func (sc *Scaffold) checkBelow(pos int, child nid.NID) {
	if cp, ok := childPosition(child); ok && cp >= pos {
		panic(fmt.Sprintf("vhl: AddRef: child at row %d does not live strictly below row %d", cp, pos))
	}
}

// AddRef finds or creates the row for v, interns (hi, lo) in it (after
// translating hi/lo into internal addressing and checking both live
// strictly below v's row), and bumps the reference counts of both children
// exactly once per fresh intern.
func (sc *Scaffold) AddRef(v vid.VID, hi, lo nid.NID) nid.NID {
	pos := sc.rowIndexFor(v)
	if pos < 0 {
		pos = sc.Push(v)
	}
	hi = sc.translate(hi)
	lo = sc.translate(lo)
	sc.checkBelow(pos, hi)
	sc.checkBelow(pos, lo)
	return sc.internPair(pos, hi, lo)
}

// internPair normalizes lo's inversion onto the parent reference, hash-cons
// interns (hi, lo) into row pos, and on a fresh slot bumps both children's
// reference counts.
func (sc *Scaffold) internPair(pos int, hi, lo nid.NID) nid.NID {
	inv := nid.IsInv(lo)
	if inv {
		hi, lo = nid.Not(hi), nid.Not(lo)
	}
	idx, isNew := sc.rows[pos].intern(HiLo{hi, lo})
	if isNew {
		sc.bumpRef(hi)
		sc.bumpRef(lo)
	}
	n := nid.FromVidIdx(vid.Var(uint32(pos)), idx)
	if inv {
		n = nid.Not(n)
	}
	return n
}

func (sc *Scaffold) bumpRef(child nid.NID) {
	if nid.IsConst(child) {
		return
	}
	pos := int(nid.Vid(child).Ix())
	if nid.IsLit(child) {
		sc.rows[pos].litRefs++
		return
	}
	idx := nid.Idx(nid.Raw(child))
	sc.rows[pos].pairs[idx].refs++
}

// Fetch decomposes an internal NID into its row position and (hi, lo)
// children, applying n's own inversion. Panics on constants.
func (sc *Scaffold) Fetch(n nid.NID) (pos int, hi, lo nid.NID) {
	if nid.IsConst(n) {
		panic("vhl: Fetch called on a constant")
	}
	pos = int(nid.Vid(n).Ix())
	if nid.IsLit(n) {
		hi, lo = nid.I, nid.O
	} else {
		p := sc.rows[pos].pairs[nid.Idx(nid.Raw(n))].pair
		hi, lo = p.Hi, p.Lo
	}
	if nid.IsInv(n) {
		hi, lo = nid.Not(hi), nid.Not(lo)
	}
	return
}

// RefCount returns the number of distinct (v, HiLo) entries that reference
// the row labeled v as a child, either as a bare literal or through an
// interned pair slot (the slot's own refcount plus the row's literal-use
// count).
func (sc *Scaffold) RefCount(v vid.VID) int {
	pos := sc.rowIndexFor(v)
	if pos < 0 {
		panic(fmt.Sprintf("vhl: RefCount: no row labeled %v", v))
	}
	total := sc.rows[pos].litRefs
	for _, pe := range sc.rows[pos].pairs {
		if !pe.free {
			total += pe.refs
		}
	}
	return total
}

// Swap exchanges the variables carried by adjacent rows r and s (s must
// equal r+1, else it panics), rewriting row s's pairs cofactored against
// the row-r variable so the decision order between the two levels flips.
// Both rows' old pair slots are released into their free lists rather than
// reclaimed immediately.
func (sc *Scaffold) Swap(r, s int) {
	if s != r+1 {
		panic(fmt.Sprintf("vhl: Swap: s (%d) must equal r+1 (%d)", s, r+1))
	}
	oldUpperPairs := sc.rows[s].release()
	sc.rows[r].release()
	// set the freed slots aside while rebuilding, so the new pairs take
	// fresh slots and cofactor below still reads row r's old pairs.
	freeR, freeS := sc.rows[r].free, sc.rows[s].free
	sc.rows[r].free, sc.rows[s].free = nil, nil

	// cofactor splits a child of an old row-s pair against row r: an
	// indexed reference into row r decomposes into its own (hi, lo); a
	// bare literal of row r decomposes into (I, O); anything independent
	// of row r (a constant, or a reference to some row below r) returns
	// itself unchanged for both halves.
	cofactor := func(child nid.NID) (hi, lo nid.NID) {
		pos, isRowRef := childPosition(child)
		if !isRowRef || pos != r {
			return child, child
		}
		if nid.IsLit(child) {
			if nid.IsInv(child) {
				return nid.O, nid.I
			}
			return nid.I, nid.O
		}
		p := sc.rows[r].pairs[nid.Idx(nid.Raw(child))].pair
		hi, lo = p.Hi, p.Lo
		if nid.IsInv(child) {
			hi, lo = nid.Not(hi), nid.Not(lo)
		}
		return
	}

	for _, p := range oldUpperPairs {
		hiHi, hiLo := cofactor(p.Hi) // row-r variable = 1, 0 respectively
		loHi, loLo := cofactor(p.Lo)
		// new row r (now labeled by the old row-s variable) gets two
		// fresh pairs: the old-row-s-level function when the old-row-r
		// variable is 1, and when it is 0.
		newRHi := sc.internPair(r, hiHi, loHi)
		newRLo := sc.internPair(r, hiLo, loLo)
		// new row s (now labeled by the old row-r variable) branches on
		// that variable straight into the two fresh row-r pairs.
		sc.internPair(s, newRHi, newRLo)
	}

	sc.rows[r].free, sc.rows[s].free = freeR, freeS
	sc.vids[r], sc.vids[s] = sc.vids[s], sc.vids[r]
}

// Lift raises the row labeled v to position dst via repeated adjacent
// swaps. Panics if dst is below v's current position or if v has no row.
func (sc *Scaffold) Lift(v vid.VID, dst int) {
	cur := sc.rowIndexFor(v)
	if cur < 0 {
		panic(fmt.Sprintf("vhl: Lift: no row labeled %v", v))
	}
	if dst < cur {
		panic("vhl: Lift: dst must be >= the current position")
	}
	for cur < dst {
		sc.Swap(cur, cur+1)
		cur++
	}
}
