// Package base names the abstract operation set that pkg/bdd, pkg/anf, and
// pkg/ast each implement against the same NID identifier scheme: AST builds
// expressions fast without canonicalizing, BDD and ANF canonicalize eagerly
// in two different normal forms. Callers that only need construction and
// tagging can depend on Base instead of a concrete store type.
package base

import (
	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

// Base is satisfied by *bdd.Store, *anf.Store, and *ast.Store.
type Base interface {
	And(x, y nid.NID) nid.NID
	Or(x, y nid.NID) nid.NID
	Xor(x, y nid.NID) nid.NID
	Ite(f, g, h nid.NID) nid.NID
	Tag(name string, n nid.NID)
	Get(name string) (nid.NID, bool)
}

// Cofactorable is the subset of Base that supports Shannon cofactoring and
// variable substitution directly on the store's own representation.
// *bdd.Store satisfies it. *anf.Store does not: it has Sub but no WhenHi or
// WhenLo. *ast.Store does not either, because its RPN
// sequences carry no per-node variable-ordering invariant to cofactor on —
// substitution on an AST is realized by rebuilding through pkg/vhl instead
// (see SPEC_FULL.md §4.8, §4.10).
type Cofactorable interface {
	Base
	WhenHi(v vid.VID, n nid.NID) nid.NID
	WhenLo(v vid.VID, n nid.NID) nid.NID
	Sub(v vid.VID, n, ctx nid.NID) nid.NID
}
