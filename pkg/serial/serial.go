// Package serial implements the two export formats a bdd.Store can cross a
// boundary in: the spec-mandated textual "bex-bdd-0.01" record format
// (SPEC_FULL.md §6), JSON-encoded for portability, and a gob-encoded binary
// snapshot for fast local reloads, grounded on the teacher's
// pkg/result/checkpoint.go SaveCheckpoint/LoadCheckpoint pattern.
package serial

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/oisee/boolex/pkg/bdd"
	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

// Format is the version tag every document must carry.
const Format = "bex-bdd-0.01"

// Record is one [vid_str, hi_ref, lo_ref] entry. A ref is a string (the
// textual NID form, for constants and literals) or a number (int64 when
// exported, float64 after encoding/json decodes it into an any): a signed,
// 1-based index into the enclosing Doc's
// Records array, negative meaning the referent is inverted. Index 0 is
// never used, which keeps +0 and -0 distinct.
type Record [3]any

// Doc is the on-the-wire shape of a serialized BDD store.
type Doc struct {
	Format  string   `json:"format"`
	Records []Record `json:"records"`
	Keep    []any    `json:"keep"`
}

func refOf(n nid.NID) any {
	if nid.IsConst(n) || nid.IsLit(n) || nid.IsFun(n) {
		return n.String()
	}
	idx := int64(nid.Idx(nid.Raw(n))) + 1
	if nid.IsInv(n) {
		idx = -idx
	}
	return idx
}

// ExportBDD builds the exportable Doc for a store, covering every node the
// store holds (append-only construction already guarantees a node's
// children were interned — and so given a smaller store index — before it
// was, so the Records array is already in reference-forward order) plus
// the given roots to keep.
func ExportBDD(s *bdd.Store, keep []nid.NID) *Doc {
	n := s.Len()
	records := make([]Record, n)
	for i := 0; i < n; i++ {
		v, hi, lo := s.NodeAt(uint32(i))
		records[i] = Record{v.String(), refOf(hi), refOf(lo)}
	}
	keepRefs := make([]any, len(keep))
	for i, k := range keep {
		keepRefs[i] = refOf(k)
	}
	return &Doc{Format: Format, Records: records, Keep: keepRefs}
}

// WriteBDD JSON-encodes doc to w.
func WriteBDD(w io.Writer, doc *Doc) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "serial: WriteBDD")
	}
	return nil
}

// ReadBDD JSON-decodes a Doc from r and checks its format tag.
func ReadBDD(r io.Reader) (*Doc, error) {
	var doc Doc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "serial: ReadBDD: decode")
	}
	if doc.Format != Format {
		return nil, errors.Errorf("serial: ReadBDD: unsupported format %q (want %q)", doc.Format, Format)
	}
	return &doc, nil
}

// ExportBDDFile writes doc to path.
func ExportBDDFile(path string, s *bdd.Store, keep []nid.NID) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "serial: ExportBDDFile: create %s", path)
	}
	defer f.Close()
	return WriteBDD(f, ExportBDD(s, keep))
}

func resolveRef(r any, built []nid.NID) (nid.NID, error) {
	switch v := r.(type) {
	case string:
		n, err := nid.Parse(v)
		if err != nil {
			return 0, errors.Wrap(err, "serial: resolveRef")
		}
		return n, nil
	case float64:
		return resolveIndexRef(int64(v), built)
	case int:
		return resolveIndexRef(int64(v), built)
	case int64:
		return resolveIndexRef(v, built)
	default:
		return 0, errors.Errorf("serial: resolveRef: unrecognized ref type %T", r)
	}
}

func resolveIndexRef(v int64, built []nid.NID) (nid.NID, error) {
	inv := v < 0
	if inv {
		v = -v
	}
	if v == 0 {
		return 0, errors.New("serial: resolveRef: index 0 is reserved")
	}
	i := int(v) - 1
	if i < 0 || i >= len(built) {
		return 0, errors.Errorf("serial: resolveRef: index %d out of range (%d records built)", i, len(built))
	}
	n := built[i]
	if inv {
		n = nid.Not(n)
	}
	return n, nil
}

// ImportBDD reconstructs a fresh bdd.Store from doc, rebuilding every record
// in array order via Store.Ite(litV, hi, lo) — exactly the ITE that a
// literal-branch decision node denotes — so hash-consing and reduction run
// exactly as they would for freshly-constructed nodes. It returns the store
// and the kept roots in Doc.Keep order.
func ImportBDD(doc *Doc) (*bdd.Store, []nid.NID, error) {
	if doc.Format != Format {
		return nil, nil, errors.Errorf("serial: ImportBDD: unsupported format %q (want %q)", doc.Format, Format)
	}
	s := bdd.New()
	built := make([]nid.NID, len(doc.Records))
	for i, rec := range doc.Records {
		vstr, ok := rec[0].(string)
		if !ok {
			return nil, nil, errors.Errorf("serial: ImportBDD: record %d: vid field is not a string", i)
		}
		v, err := vid.Parse(vstr)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "serial: ImportBDD: record %d", i)
		}
		hi, err := resolveRef(rec[1], built)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "serial: ImportBDD: record %d: hi", i)
		}
		lo, err := resolveRef(rec[2], built)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "serial: ImportBDD: record %d: lo", i)
		}
		built[i] = s.Ite(nid.FromVid(v), hi, lo)
	}
	keep := make([]nid.NID, len(doc.Keep))
	for i, k := range doc.Keep {
		n, err := resolveRef(k, built)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "serial: ImportBDD: keep[%d]", i)
		}
		keep[i] = n
	}
	return s, keep, nil
}

// ImportBDDFile reads and reconstructs a Doc from path.
func ImportBDDFile(path string) (*bdd.Store, []nid.NID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "serial: ImportBDDFile: open %s", path)
	}
	defer f.Close()
	doc, err := ReadBDD(f)
	if err != nil {
		return nil, nil, err
	}
	return ImportBDD(doc)
}
