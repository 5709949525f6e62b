// Package ast implements the Reverse-Polish AST store: the fast,
// non-canonicalizing way to build up Boolean expressions over NIDs. Each
// entry is an operand sequence ending in a function-table NID naming the
// operator; construction still runs the pkg/simp short-circuits and sorts
// commutative operands for hash-cons canonicality, but (unlike pkg/bdd and
// pkg/anf) it never performs Shannon decomposition, so building is O(1)
// amortized per call instead of recursive.
package ast

import (
	"fmt"
	"strings"

	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/simp"
	"github.com/oisee/boolex/pkg/vid"
)

// Operator function-table NIDs, arity 2 except ITE (arity 3). Table row i
// for an arity-a operator is indexed with operand 0 at bit 0, operand 1 at
// bit 1, and so on (matching pkg/nid/fun.go's bit convention).
var (
	AND = nid.FunTbl(2, 0b1000) // 1 only when both operands are 1
	XOR = nid.FunTbl(2, 0b0110)
	VEL = nid.FunTbl(2, 0b1110) // inclusive or
	NOR = nid.FunTbl(2, 0b0001)
	IMP = nid.FunTbl(2, 0b1101) // operand0 -> operand1
	ITE = nid.FunTbl(3, 0b11011000)
)

type entry struct {
	ops []nid.NID // operand NIDs, last element is the operator's function-table NID
}

// Store holds one append-only RPN-sequence universe. The zero value is not
// usable; construct with New.
type Store struct {
	entries []entry
	index   map[string]uint32
	tags    map[string]nid.NID
}

// New returns an empty AST store.
func New() *Store {
	return &Store{index: make(map[string]uint32), tags: make(map[string]nid.NID)}
}

func seqKey(ops []nid.NID) string {
	var b strings.Builder
	for _, o := range ops {
		fmt.Fprintf(&b, "%016x|", uint64(o))
	}
	return b.String()
}

func (s *Store) intern(ops []nid.NID) nid.NID {
	key := seqKey(ops)
	if idx, ok := s.index[key]; ok {
		return nid.FromVidIdx(vid.NoVar, idx)
	}
	idx := uint32(len(s.entries))
	cp := append([]nid.NID(nil), ops...)
	s.entries = append(s.entries, entry{ops: cp})
	s.index[key] = idx
	return nid.FromVidIdx(vid.NoVar, idx)
}

func sortPair(x, y nid.NID) (nid.NID, nid.NID) {
	if x <= y {
		return x, y
	}
	return y, x
}

// And returns x AND y, short-circuiting via pkg/simp and otherwise interning
// a canonically-sorted rpn(x, y, AND) entry.
func (s *Store) And(x, y nid.NID) nid.NID {
	if r, ok := simp.And(x, y); ok {
		return r
	}
	a, b := sortPair(x, y)
	return s.intern([]nid.NID{a, b, AND})
}

// Or returns x OR y.
func (s *Store) Or(x, y nid.NID) nid.NID {
	if r, ok := simp.Or(x, y); ok {
		return r
	}
	a, b := sortPair(x, y)
	return s.intern([]nid.NID{a, b, VEL})
}

// Xor returns x XOR y.
func (s *Store) Xor(x, y nid.NID) nid.NID {
	if r, ok := simp.Xor(x, y); ok {
		return r
	}
	a, b := sortPair(x, y)
	return s.intern([]nid.NID{a, b, XOR})
}

// Nor returns NOT (x OR y); not commutatively sorted beyond the same rule as
// And/Or/Xor since De Morgan makes it symmetric in its operands too.
func (s *Store) Nor(x, y nid.NID) nid.NID {
	a, b := sortPair(x, y)
	return s.intern([]nid.NID{a, b, NOR})
}

// Imp returns x -> y (NOT x OR y); not operand-sorted, since implication is
// not commutative.
func (s *Store) Imp(x, y nid.NID) nid.NID {
	if x == nid.O || y == nid.I {
		return nid.I
	}
	if x == nid.I {
		return y
	}
	return s.intern([]nid.NID{x, y, IMP})
}

// Ite returns if i then t else e, short-circuiting via pkg/simp and
// otherwise interning rpn(i, t, e, ITE). Operands are not sorted: ITE is not
// commutative in any of its three slots.
func (s *Store) Ite(i, t, e nid.NID) nid.NID {
	if r, ok := simp.Ite(i, t, e); ok {
		return r
	}
	return s.intern([]nid.NID{i, t, e, ITE})
}

// Tag binds a string name to a NID, overwriting any previous binding.
func (s *Store) Tag(name string, n nid.NID) { s.tags[name] = n }

// Get looks up a previously tagged NID.
func (s *Store) Get(name string) (nid.NID, bool) {
	n, ok := s.tags[name]
	return n, ok
}

// Len returns the number of interned RPN entries.
func (s *Store) Len() int { return len(s.entries) }
