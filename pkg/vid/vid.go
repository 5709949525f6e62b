// Package vid implements variable identifiers: the tagged values that name
// an input slot (real or virtual), the constants' sentinel branch variable,
// or "no variable at all" for bare indexed AST nodes.
package vid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MaxIx is the largest index a Var or Vir may carry (exclusive), 2^28.
const MaxIx = 1 << 28

// Kind distinguishes the four VID variants.
type Kind uint8

const (
	KindTop Kind = iota
	KindNoVar
	KindVar
	KindVir
)

// VID is a tagged variable identifier.
type VID struct {
	kind Kind
	ix   uint32
}

// Top is the sentinel standing above every real or virtual slot; it is the
// branching variable of the two constants and sits beneath every real
// variable in depth order.
var Top = VID{kind: KindTop}

// NoVar marks a node as carrying no variable (bare indexed AST nodes).
var NoVar = VID{kind: KindNoVar}

// Var constructs a real input variable. Panics if k is out of range.
func Var(k uint32) VID {
	if k >= MaxIx {
		panic(fmt.Sprintf("vid.Var: index %d out of range (max %d)", k, MaxIx))
	}
	return VID{kind: KindVar, ix: k}
}

// Vir constructs a virtual (intermediate) variable. Panics if k is out of range.
func Vir(k uint32) VID {
	if k >= MaxIx {
		panic(fmt.Sprintf("vid.Vir: index %d out of range (max %d)", k, MaxIx))
	}
	return VID{kind: KindVir, ix: k}
}

// Kind reports which variant v is.
func (v VID) Kind() Kind { return v.kind }

func (v VID) IsTop() bool   { return v.kind == KindTop }
func (v VID) IsNoVar() bool { return v.kind == KindNoVar }
func (v VID) IsVar() bool   { return v.kind == KindVar }
func (v VID) IsVir() bool   { return v.kind == KindVir }

// Ix returns the packed index of a Var or Vir. Panics on Top or NoVar.
func (v VID) Ix() uint32 {
	switch v.kind {
	case KindVar, KindVir:
		return v.ix
	default:
		panic("vid: Ix() called on Top or NoVar")
	}
}

// Bit returns a 64-bit mask with the single bit at Ix() set. Panics if the
// index is >= 64 or v is Top/NoVar.
func (v VID) Bit() uint64 {
	ix := v.Ix()
	if ix >= 64 {
		panic(fmt.Sprintf("vid: Bit() index %d out of range for 64-bit mask", ix))
	}
	return uint64(1) << ix
}

// rank maps a VID onto a total order where smaller is "more below" (closer
// to the leaves): Top < NoVar < Var(0) < ... < Var(max) < Vir(0) < ... .
func (v VID) rank() uint64 {
	switch v.kind {
	case KindTop:
		return 0
	case KindNoVar:
		return 1
	case KindVar:
		return 2 + uint64(v.ix)
	case KindVir:
		return 2 + uint64(MaxIx) + uint64(v.ix)
	default:
		panic("vid: invalid kind")
	}
}

// Ordering is the result of comparing two VIDs by depth.
type Ordering int

const (
	Below Ordering = -1
	Level Ordering = 0
	Above Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case Below:
		return "Below"
	case Level:
		return "Level"
	case Above:
		return "Above"
	default:
		return "?"
	}
}

// CmpDepth compares v against other in depth order, answering "where does v
// sit relative to other": Above when v is nearer the root, Below when v is
// nearer the leaves, Level when they're the same variable.
func CmpDepth(v, other VID) Ordering {
	vr, or := v.rank(), other.rank()
	switch {
	case vr == or:
		return Level
	case vr > or:
		return Above
	default:
		return Below
	}
}

// String renders v in the textual form used throughout the package:
// "TOP", "-", "x{k}" (hex) for real variables, "v{k}" (hex) for virtual ones.
func (v VID) String() string {
	switch v.kind {
	case KindTop:
		return "TOP"
	case KindNoVar:
		return "-"
	case KindVar:
		return fmt.Sprintf("x%x", v.ix)
	case KindVir:
		return fmt.Sprintf("v%x", v.ix)
	default:
		return "?"
	}
}

// Parse is the inverse of String: it accepts exactly the four forms String
// produces ("TOP", "-", "x{hex}", "v{hex}") and nothing else.
func Parse(s string) (VID, error) {
	switch {
	case s == "TOP":
		return Top, nil
	case s == "-":
		return NoVar, nil
	case strings.HasPrefix(s, "x"):
		ix, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return VID{}, errors.Wrapf(err, "vid: Parse: bad real variable %q", s)
		}
		return Var(uint32(ix)), nil
	case strings.HasPrefix(s, "v"):
		ix, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return VID{}, errors.Wrapf(err, "vid: Parse: bad virtual variable %q", s)
		}
		return Vir(uint32(ix)), nil
	default:
		return VID{}, errors.Errorf("vid: Parse: unrecognized VID text %q", s)
	}
}
