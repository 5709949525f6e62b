// Package simp holds the pure, total simplification rules shared by every
// node store (bdd, anf, ast): the cheap algebraic shortcuts that let a
// store avoid allocating a node at all. Every rule returns (nid.NID, bool)
// where the boolean reports whether the shortcut applied.
package simp

import "github.com/oisee/boolex/pkg/nid"

// And simplifies x AND y without consulting any store.
func And(x, y nid.NID) (nid.NID, bool) {
	if x == nid.O || y == nid.O {
		return nid.O, true
	}
	if x == nid.I {
		return y, true
	}
	if y == nid.I {
		return x, true
	}
	if x == y {
		return x, true
	}
	if x == nid.Not(y) {
		return nid.O, true
	}
	return 0, false
}

// Or simplifies x OR y, the dual of And.
func Or(x, y nid.NID) (nid.NID, bool) {
	if x == nid.I || y == nid.I {
		return nid.I, true
	}
	if x == nid.O {
		return y, true
	}
	if y == nid.O {
		return x, true
	}
	if x == y {
		return x, true
	}
	if x == nid.Not(y) {
		return nid.I, true
	}
	return 0, false
}

// Xor simplifies x XOR y.
func Xor(x, y nid.NID) (nid.NID, bool) {
	if x == y {
		return nid.O, true
	}
	if x == nid.Not(y) {
		return nid.I, true
	}
	switch {
	case x == nid.O:
		return y, true
	case x == nid.I:
		return nid.Not(y), true
	case y == nid.O:
		return x, true
	case y == nid.I:
		return nid.Not(x), true
	}
	return 0, false
}

// Ite simplifies if i then t else e.
func Ite(i, t, e nid.NID) (nid.NID, bool) {
	switch i {
	case nid.I:
		return t, true
	case nid.O:
		return e, true
	}
	if t == nid.I && e == nid.O {
		return i, true
	}
	if t == nid.O && e == nid.I {
		return nid.Not(i), true
	}
	if t == e {
		return t, true
	}
	return 0, false
}
