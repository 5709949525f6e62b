package walk

import (
	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

// Cursor drives finite, non-restartable enumeration of the satisfying
// assignments of a node over a dense real-variable universe x0..x(nvars-1).
// It holds an assignment register plus the stack of nodes visited while
// descending the current candidate path.
type Cursor struct {
	base   HiLoBase
	root   nid.NID
	nvars  int
	reg    []bool
	nstack []nid.NID
	level  int
}

// NewCursor creates a cursor over root's sub-DAG for a universe of nvars
// real variables, register initialized to all-zero.
func NewCursor(base HiLoBase, root nid.NID, nvars int) *Cursor {
	return &Cursor{
		base:   base,
		root:   root,
		nvars:  nvars,
		reg:    make([]bool, nvars),
		nstack: []nid.NID{root},
		level:  0,
	}
}

// Register returns a copy of the current assignment, reg[k] giving xk.
func (c *Cursor) Register() []bool {
	out := make([]bool, len(c.reg))
	copy(out, c.reg)
	return out
}

// varAtLevel maps a descent level (0 = first decision) to the real
// variable index decided at that level: variables are decided from the
// highest index (nearest the root in depth order) down to x0.
func (c *Cursor) varAtLevel(level int) vid.VID {
	return vid.Var(uint32(c.nvars - 1 - level))
}

// StepDown pushes the child reached by deciding the current level's
// variable to hi (part=true) or lo (part=false), and advances the level.
func (c *Cursor) StepDown(part bool) {
	cur := c.nstack[len(c.nstack)-1]
	v := c.varAtLevel(c.level)
	var next nid.NID
	if part {
		next = c.base.WhenHi(v, cur)
	} else {
		next = c.base.WhenLo(v, cur)
	}
	c.nstack = append(c.nstack, next)
	c.level++
}

// StepUp pops the most recent descent, returning to the parent level.
func (c *Cursor) StepUp() {
	if len(c.nstack) <= 1 {
		panic("walk: Cursor.StepUp called at the root")
	}
	c.nstack = c.nstack[:len(c.nstack)-1]
	c.level--
}

// VarIsHi reports the register bit for the variable at the current level.
func (c *Cursor) VarIsHi() bool {
	return c.reg[c.nvars-1-c.level]
}

// SetVarHi sets the register bit for the variable at the current level.
func (c *Cursor) SetVarHi(hi bool) {
	c.reg[c.nvars-1-c.level] = hi
}

// Descend walks from the current node down to a constant, following the
// register's existing assignment at each remaining level.
func (c *Cursor) Descend() {
	for c.level < c.nvars {
		cur := c.nstack[len(c.nstack)-1]
		if nid.IsConst(cur) {
			return
		}
		c.StepDown(c.reg[c.nvars-1-c.level])
	}
}

// ToNextLoVar pops levels whose register bit is already hi, stopping at
// the first level (if any) whose bit is lo so the caller can flip it and
// redescend. Returns false if the stack is exhausted (no more candidates
// along this path).
func (c *Cursor) ToNextLoVar() bool {
	for len(c.nstack) > 1 {
		if !c.VarIsHi() {
			return true
		}
		c.StepUp()
	}
	return !c.VarIsHi()
}

// Increment bumps the register as a binary counter (x0 least significant),
// returning the lowest position that flipped 0->1, or ok=false on overflow
// (the counter wrapped to all-zero; enumeration is exhausted).
func (c *Cursor) Increment() (pos int, ok bool) {
	for i := 0; i < c.nvars; i++ {
		if !c.reg[i] {
			c.reg[i] = true
			c.ClearTrailingBits(i)
			return i, true
		}
		c.reg[i] = false
	}
	return 0, false
}

// ClearTrailingBits zeroes register positions below from.
func (c *Cursor) ClearTrailingBits(from int) {
	for i := 0; i < from && i < len(c.reg); i++ {
		c.reg[i] = false
	}
}

// evalCurrent resets the cursor to the root and descends the full register,
// returning whether the resulting constant is I.
func (c *Cursor) evalCurrent() bool {
	c.nstack = c.nstack[:1]
	c.level = 0
	c.Descend()
	return c.nstack[len(c.nstack)-1] == nid.I
}

// SolutionIter is a lazy, finite, non-restartable iterator over the
// satisfying assignments of a node, in increasing register order.
type SolutionIter struct {
	c       *Cursor
	started bool
	done    bool
}

// NewSolutionIter constructs a solution iterator over root's support,
// padded (or truncated away from) to nvars real variables.
func NewSolutionIter(base HiLoBase, root nid.NID, nvars int) *SolutionIter {
	return &SolutionIter{c: NewCursor(base, root, nvars)}
}

// Next advances to the next satisfying assignment, returning it (reg[k] =
// xk's value) and true, or (nil, false) once exhausted.
func (it *SolutionIter) Next() ([]bool, bool) {
	if it.done {
		return nil, false
	}
	if !it.started {
		it.started = true
		if it.c.evalCurrent() {
			return it.c.Register(), true
		}
	}
	for {
		if _, ok := it.c.Increment(); !ok {
			it.done = true
			return nil, false
		}
		if it.c.evalCurrent() {
			return it.c.Register(), true
		}
	}
}
