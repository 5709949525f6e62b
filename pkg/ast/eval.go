package ast

import (
	"fmt"

	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

// Eval evaluates n under a partial assignment env (VID -> NID, each value
// expected to already be a constant), memoized by Raw(n) with the
// inversion re-applied after the memoized lookup. Panics if evaluation
// reaches a literal with no entry in env, or an operand that does not
// resolve to a constant (env is not total enough for n's support).
func (s *Store) Eval(n nid.NID, env map[vid.VID]nid.NID) nid.NID {
	memo := map[nid.NID]nid.NID{}
	var eval func(nid.NID) nid.NID
	eval = func(x nid.NID) nid.NID {
		raw := nid.Raw(x)
		result, ok := memo[raw]
		if !ok {
			result = s.evalRaw(raw, env, eval)
			memo[raw] = result
		}
		if nid.IsInv(x) {
			return nid.Not(result)
		}
		return result
	}
	return eval(n)
}

func (s *Store) evalRaw(raw nid.NID, env map[vid.VID]nid.NID, eval func(nid.NID) nid.NID) nid.NID {
	if nid.IsConst(raw) {
		return raw
	}
	if nid.IsLit(raw) {
		v := nid.Vid(raw)
		val, ok := env[v]
		if !ok {
			panic(fmt.Sprintf("ast: Eval: no assignment for %v", v))
		}
		return val
	}
	idx := nid.Idx(raw)
	e := s.entries[idx]
	opFun := e.ops[len(e.ops)-1]
	operands := e.ops[:len(e.ops)-1]
	arity := int(nid.Arity(opFun))
	tbl := nid.Tbl(opFun)
	for i := 0; i < arity; i++ {
		argVal := eval(operands[i])
		var bit uint32
		switch argVal {
		case nid.I:
			bit = 1
		case nid.O:
			bit = 0
		default:
			panic("ast: Eval: operand did not resolve to a constant under the given environment")
		}
		tbl = nid.When(tbl, arity-i, 0, bit)
	}
	if tbl == 1 {
		return nid.I
	}
	return nid.O
}
