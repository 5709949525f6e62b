package serial

import (
	"encoding/gob"
	"os"

	"github.com/pkg/errors"

	"github.com/oisee/boolex/pkg/bdd"
	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

// snapNode is Snapshot's gob-friendly mirror of a bdd store node: vid.VID
// carries unexported fields and cannot be gob-encoded directly, so it
// travels as its textual form. Hi and Lo are refs in the same sense as
// Record's (string or signed 1-based index into Nodes) rather than raw
// NIDs, because Restore rebuilds through Store.Ite — which re-normalizes
// and re-hash-conses — so a rebuilt node's store-local index need not match
// the index it held when captured; only the position in Nodes is stable.
type snapNode struct {
	Vid    string
	Hi, Lo any
}

// Snapshot is a binary checkpoint of an entire bdd.Store: every interned
// node plus the tag table, in construction order. Unlike Doc, it is not a
// portable interchange format — it exists purely for fast local
// save/resume, mirroring the teacher's pkg/result.Checkpoint.
type Snapshot struct {
	Nodes []snapNode
	Tags  map[string]nid.NID
}

// SnapshotOf captures s's entire node vector and tag table.
func SnapshotOf(s *bdd.Store) *Snapshot {
	n := s.Len()
	nodes := make([]snapNode, n)
	for i := 0; i < n; i++ {
		v, hi, lo := s.NodeAt(uint32(i))
		nodes[i] = snapNode{Vid: v.String(), Hi: refOf(hi), Lo: refOf(lo)}
	}
	return &Snapshot{Nodes: nodes, Tags: s.Tags()}
}

// Restore rebuilds a bdd.Store from a Snapshot, in the same Ite-rebuild
// fashion as ImportBDD, then replays the tag table.
func (snap *Snapshot) Restore() (*bdd.Store, error) {
	s := bdd.New()
	built := make([]nid.NID, len(snap.Nodes))
	for i, nd := range snap.Nodes {
		v, err := vid.Parse(nd.Vid)
		if err != nil {
			return nil, errors.Wrapf(err, "serial: Snapshot.Restore: node %d", i)
		}
		hi, err := resolveRef(nd.Hi, built)
		if err != nil {
			return nil, errors.Wrapf(err, "serial: Snapshot.Restore: node %d: hi", i)
		}
		lo, err := resolveRef(nd.Lo, built)
		if err != nil {
			return nil, errors.Wrapf(err, "serial: Snapshot.Restore: node %d: lo", i)
		}
		built[i] = s.Ite(nid.FromVid(v), hi, lo)
	}
	for name, n := range snap.Tags {
		s.Tag(name, n)
	}
	return s, nil
}

// SaveSnapshot gob-encodes s's snapshot to path.
func SaveSnapshot(path string, s *bdd.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "serial: SaveSnapshot: create %s", path)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(SnapshotOf(s)); err != nil {
		return errors.Wrap(err, "serial: SaveSnapshot: encode")
	}
	return nil
}

// LoadSnapshot decodes and restores a bdd.Store from path.
func LoadSnapshot(path string) (*bdd.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "serial: LoadSnapshot: open %s", path)
	}
	defer f.Close()
	var snap Snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, errors.Wrap(err, "serial: LoadSnapshot: decode")
	}
	return snap.Restore()
}
