package nid

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/oisee/boolex/pkg/vid"
)

// Parse is the inverse of String. It understands the named constants, real
// and virtual literals, bare and variable-carrying indexed nodes, and
// function-table literals; it does not resolve #idx references against any
// particular store.
func Parse(s string) (NID, error) {
	inv := false
	if strings.HasPrefix(s, "¬") {
		inv = true
		s = s[len("¬"):]
	}
	n, err := parseBody(s)
	if err != nil {
		return 0, err
	}
	if inv {
		if IsConst(n) {
			return 0, errors.Errorf("nid: Parse: constants O/I are named directly, not ¬-prefixed: %q", s)
		}
		n = Not(n)
	}
	return n, nil
}

func parseBody(s string) (NID, error) {
	switch {
	case s == "O":
		return O, nil
	case s == "I":
		return I, nil
	case strings.HasPrefix(s, "x"):
		ix, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return 0, errors.Wrapf(err, "nid: Parse: bad real variable literal %q", s)
		}
		return FromVid(vid.Var(uint32(ix))), nil
	case strings.HasPrefix(s, "v"):
		ix, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return 0, errors.Wrapf(err, "nid: Parse: bad virtual variable literal %q", s)
		}
		return FromVid(vid.Vir(uint32(ix))), nil
	case strings.HasPrefix(s, "#"):
		idx, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return 0, errors.Wrapf(err, "nid: Parse: bad indexed reference %q", s)
		}
		return FromVidIdx(vid.NoVar, uint32(idx)), nil
	case strings.HasPrefix(s, "@[") && strings.HasSuffix(s, "]"):
		body := s[2 : len(s)-1]
		parts := strings.SplitN(body, ":", 2)
		if len(parts) != 2 {
			return 0, errors.Errorf("nid: Parse: malformed variable-carrying index %q", s)
		}
		var v vid.VID
		switch {
		case strings.HasPrefix(parts[0], "x"):
			ix, err := strconv.ParseUint(parts[0][1:], 16, 32)
			if err != nil {
				return 0, errors.Wrapf(err, "nid: Parse: bad variable in %q", s)
			}
			v = vid.Var(uint32(ix))
		case strings.HasPrefix(parts[0], "v"):
			ix, err := strconv.ParseUint(parts[0][1:], 16, 32)
			if err != nil {
				return 0, errors.Wrapf(err, "nid: Parse: bad variable in %q", s)
			}
			v = vid.Vir(uint32(ix))
		default:
			return 0, errors.Errorf("nid: Parse: unrecognized variable prefix in %q", s)
		}
		idx, err := strconv.ParseUint(parts[1], 16, 32)
		if err != nil {
			return 0, errors.Wrapf(err, "nid: Parse: bad index in %q", s)
		}
		return FromVidIdx(v, uint32(idx)), nil
	case strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">"):
		bits := s[1 : len(s)-1]
		n := len(bits)
		a := 0
		for (1 << a) < n {
			a++
		}
		if 1<<a != n {
			return 0, errors.Errorf("nid: Parse: truth table %q is not a power-of-two width", s)
		}
		var tbl uint32
		for i, c := range bits {
			bitpos := n - 1 - i
			switch c {
			case '1':
				tbl |= 1 << uint(bitpos)
			case '0':
			default:
				return 0, errors.Errorf("nid: Parse: bad truth table digit %q in %q", c, s)
			}
		}
		return FunTbl(uint8(a), tbl), nil
	default:
		return 0, errors.Errorf("nid: Parse: unrecognized NID text %q", s)
	}
}
