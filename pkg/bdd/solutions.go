package bdd

import (
	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/walk"
)

// SolutionIter is a lazy, finite, non-restartable iterator over satisfying
// assignments, driven by pkg/walk's Cursor.
type SolutionIter = walk.SolutionIter

// Solutions enumerates n's satisfying assignments over x0..xk, where xk is
// the highest real variable appearing in n.
func (s *Store) Solutions(n nid.NID) *SolutionIter {
	return s.SolutionsPad(n, s.supportSize(n))
}

// SolutionsPad enumerates n's satisfying assignments padded to a register
// of nvars real variables (nvars must be >= the size of n's support).
func (s *Store) SolutionsPad(n nid.NID, nvars int) *SolutionIter {
	return walk.NewSolutionIter(s, n, nvars)
}
