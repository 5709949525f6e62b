// Package vhl implements the row-major VHL (Variable/Hi/Lo) scaffold: the
// swap-solver's substitution machinery. Each row is a self-contained,
// hash-consed store of (hi, lo) pairs for one variable level; rows may only
// reference rows below them, and adjacent rows can be swapped in place so a
// variable can be "lifted" to the top without renumbering any slot a
// caller already holds a reference to.
package vhl

import "github.com/oisee/boolex/pkg/nid"

// HiLo is the pair of children stored at one row slot.
type HiLo struct {
	Hi, Lo nid.NID
}

type pairSlot struct {
	pair HiLo
	refs int
	free bool
}

// row is the per-level hash-consed pair store.
type row struct {
	pairs []pairSlot
	index map[HiLo]uint32
	free  []uint32
	// litRefs counts references to this row's own label used bare, as a
	// literal (i.e. VID-as-literal), rather than through an interned pair.
	litRefs int
}

func newRow() *row {
	return &row{index: make(map[HiLo]uint32)}
}

// intern finds or creates the slot for p, reusing a freed slot if one is
// available. isNew reports whether a fresh slot was used (the caller only
// bumps child refcounts on a fresh intern).
func (r *row) intern(p HiLo) (idx uint32, isNew bool) {
	if i, ok := r.index[p]; ok {
		return i, false
	}
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
		r.pairs[idx] = pairSlot{pair: p}
	} else {
		idx = uint32(len(r.pairs))
		r.pairs = append(r.pairs, pairSlot{pair: p})
	}
	r.index[p] = idx
	return idx, true
}

// release marks every live slot in the row as freed, returning the row's
// former pairs in slot order (used by Swap to rebuild a row from scratch
// while preserving the ability to read what used to be there).
func (r *row) release() []HiLo {
	out := make([]HiLo, 0, len(r.pairs))
	for i := range r.pairs {
		if r.pairs[i].free {
			continue
		}
		out = append(out, r.pairs[i].pair)
		r.pairs[i].free = true
		r.free = append(r.free, uint32(i))
	}
	for k := range r.index {
		delete(r.index, k)
	}
	return out
}
