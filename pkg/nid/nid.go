// Package nid implements the packed 64-bit node identifier: the value every
// core algorithm pivots on. A NID encodes, in disjoint bit fields, either a
// constant, a literal variable, an indexed reference into a store, or a
// small (arity <= 5) truth-table function, plus an inversion flag that
// propagates through every operation.
package nid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oisee/boolex/pkg/vid"
)

// NID is the packed node identifier. See the package doc and SPEC_FULL.md §3
// for the bit layout; it is part of the externally visible ABI and must not
// be renumbered.
type NID uint64

const (
	bitINV  = 63
	bitVAR  = 62
	bitT    = 61
	bitRVAR = 60
	bitF    = 59

	maskINV  = NID(1) << bitINV
	maskVAR  = NID(1) << bitVAR
	maskT    = NID(1) << bitT
	maskRVAR = NID(1) << bitRVAR
	maskF    = NID(1) << bitF

	varFieldShift = 32
	varFieldBits  = 27
	varFieldMask  = NID((uint64(1)<<varFieldBits)-1) << varFieldShift
	idxMask       = NID(0xFFFFFFFF)

	// noVarSentinel is the one variable-field value reserved to mean
	// "this node carries no variable" (vid.NoVar). Real and virtual
	// indices must stay below it, which is why NID can only address
	// 2^27-1 distinct variables even though vid.VID's abstract range is
	// 2^28: the bit table in SPEC_FULL.md §3 allots only 27 bits (32-58)
	// to the variable field.
	noVarSentinel = NID(1)<<varFieldBits - 1
	maxPackableIx = uint32(noVarSentinel) - 1

	arityShift = 32
	arityMask  = NID(0xFF) << arityShift
)

// O is the constant false.
var O = maskT

// I is the constant true, the negation of O.
var I = O | maskINV

// Not returns the negation of n: the INV bit flipped.
func Not(n NID) NID { return n ^ maskINV }

// Raw clears the inversion bit.
func Raw(n NID) NID { return n &^ maskINV }

// IsInv reports whether n carries the inversion bit.
func IsInv(n NID) bool { return n&maskINV != 0 }

// IsConst reports whether n is one of the two named constants.
func IsConst(n NID) bool { return Raw(n)&maskT != 0 && Raw(n)&(maskVAR|maskF) == 0 }

// IsLit reports whether n is a bare literal variable (no stored children).
func IsLit(n NID) bool { return Raw(n)&maskVAR != 0 }

// IsVar reports whether n is a literal naming a real variable.
func IsVar(n NID) bool { return IsLit(n) && Raw(n)&maskRVAR != 0 }

// IsVir reports whether n is a literal naming a virtual variable.
func IsVir(n NID) bool { return IsLit(n) && Raw(n)&maskRVAR == 0 }

// IsFun reports whether n is a function-table node.
func IsFun(n NID) bool { return Raw(n)&maskF != 0 }

// IsIxn reports whether n is a bare indexed node carrying no variable (the
// plain AST case: not constant, not literal, not a function table, and its
// variable field is the NoVar sentinel).
func IsIxn(n NID) bool {
	r := Raw(n)
	if r&(maskT|maskVAR|maskF) != 0 {
		return false
	}
	return decodeVarField(r) == vid.NoVar
}

// IsVid reports whether n carries a meaningful (non-NoVar) variable.
func IsVid(n NID) bool {
	if IsFun(n) {
		return false
	}
	return Vid(n) != vid.NoVar
}

func decodeVarField(n NID) vid.VID {
	field := uint32((n & varFieldMask) >> varFieldShift)
	if NID(field) == noVarSentinel {
		return vid.NoVar
	}
	if n&maskRVAR != 0 {
		return vid.Var(field)
	}
	return vid.Vir(field)
}

func encodeVarField(v vid.VID) (rvar NID, field NID) {
	switch v.Kind() {
	case vid.KindNoVar:
		return 0, noVarSentinel
	case vid.KindVar:
		ix := v.Ix()
		if ix > maxPackableIx {
			panic(fmt.Sprintf("nid: real variable index %d does not fit in the 27-bit variable field", ix))
		}
		return maskRVAR, NID(ix)
	case vid.KindVir:
		ix := v.Ix()
		if ix > maxPackableIx {
			panic(fmt.Sprintf("nid: virtual variable index %d does not fit in the 27-bit variable field", ix))
		}
		return 0, NID(ix)
	default:
		panic("nid: cannot pack vid.Top into a variable field")
	}
}

// Vid returns the variable a node branches on: vid.Top for constants,
// vid.NoVar for function-table nodes and bare indexed AST nodes, or the
// packed Var/Vir otherwise.
func Vid(n NID) vid.VID {
	r := Raw(n)
	if r&maskT != 0 {
		return vid.Top
	}
	if r&maskF != 0 {
		return vid.NoVar
	}
	return decodeVarField(r)
}

// Idx returns the store index of an indexed node (variable-carrying or bare). Panics
// on constants, literals, and function-table nodes.
func Idx(n NID) uint32 {
	r := Raw(n)
	if r&(maskT|maskVAR|maskF) != 0 {
		panic("nid: Idx() called on a node with no store index")
	}
	return uint32(r & idxMask)
}

// Tbl returns the raw 32-bit truth table of a function-table node; only the
// low 2^Arity(n) bits are meaningful. Panics if n is not a function-table
// node.
func Tbl(n NID) uint32 {
	if !IsFun(n) {
		panic("nid: Tbl() called on a non-function node")
	}
	return uint32(Raw(n) & idxMask)
}

// Arity returns the arity of a function-table node. Panics if n is not one.
func Arity(n NID) uint8 {
	if !IsFun(n) {
		panic("nid: Arity() called on a non-function node")
	}
	return uint8((Raw(n) & arityMask) >> arityShift)
}

// MightDependOn reports whether n could possibly depend on v: false for
// constants and for nodes whose variable lies strictly below v.
func MightDependOn(n NID, v vid.VID) bool {
	if IsConst(n) {
		return false
	}
	if vid.CmpDepth(Vid(n), v) == vid.Below {
		return false
	}
	return true
}

// FromVid constructs a literal node naming v (Var or Vir only; panics
// otherwise).
func FromVid(v vid.VID) NID {
	if !v.IsVar() && !v.IsVir() {
		panic("nid: FromVid requires a Var or Vir")
	}
	rvar, field := encodeVarField(v)
	return maskVAR | rvar | (field << varFieldShift)
}

// FromVidIdx constructs an indexed node branching on v (Var, Vir, or NoVar)
// at store index idx.
func FromVidIdx(v vid.VID, idx uint32) NID {
	if v.IsTop() {
		panic("nid: FromVidIdx cannot use vid.Top (reserved for constants)")
	}
	rvar, field := encodeVarField(v)
	return rvar | (field << varFieldShift) | NID(idx)
}

// FunTbl constructs a function-table node of the given arity (<=5) wrapping
// tbl; only the low 2^arity bits of tbl are meaningful.
func FunTbl(arity uint8, tbl uint32) NID {
	if arity > 5 {
		panic(fmt.Sprintf("nid: FunTbl arity %d exceeds maximum of 5", arity))
	}
	if arity < 5 {
		tbl &= (uint32(1) << (uint32(1) << arity)) - 1
	}
	return maskF | (NID(arity) << arityShift) | NID(tbl)
}

// String renders n in the textual form described in SPEC_FULL.md §6.
func (n NID) String() string {
	var b strings.Builder
	if IsConst(n) {
		if IsInv(n) {
			return "I"
		}
		return "O"
	}
	if IsInv(n) {
		b.WriteString("¬")
	}
	r := Raw(n)
	switch {
	case IsLit(r):
		b.WriteString(Vid(r).String())
	case IsFun(r):
		a := Arity(r)
		tbl := Tbl(r)
		width := 1 << a
		b.WriteByte('<')
		for i := width - 1; i >= 0; i-- {
			if tbl&(1<<uint(i)) != 0 {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteByte('>')
	default:
		v := Vid(r)
		idx := Idx(r)
		if v == vid.NoVar {
			b.WriteByte('#')
			b.WriteString(strconv.FormatUint(uint64(idx), 16))
		} else {
			b.WriteString("@[")
			b.WriteString(v.String())
			b.WriteByte(':')
			b.WriteString(strconv.FormatUint(uint64(idx), 16))
			b.WriteByte(']')
		}
	}
	return b.String()
}
