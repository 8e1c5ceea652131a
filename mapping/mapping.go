// Package mapping derives residue number correspondences between the ATOM
// records of a structure and a reference sequence from a local alignment.
package mapping

import (
	"errors"
	"fmt"

	"github.com/TuftsBCB/pdbrenum/align"
	"github.com/TuftsBCB/pdbrenum/pdb"
	"github.com/TuftsBCB/seq"
)

// ErrInconsistent is returned when an alignment does not agree with the
// residues it is supposed to describe.
var ErrInconsistent = errors.New("alignment does not match the structure " +
	"residues")

// Entry maps a residue in a structure, identified by its sequence number
// (Original) and insertion code, to a 1-based position in the reference
// sequence (Reference).
type Entry struct {
	Original      int
	InsertionCode byte
	Reference     int
	Residue       seq.Residue
	Chain         byte
}

func (e Entry) String() string {
	return fmt.Sprintf("%c %c%s -> %d", e.Chain, e.Residue, e.Label(),
		e.Reference)
}

// Label returns the original sequence number followed by the insertion code,
// if there is one.
func (e Entry) Label() string {
	if e.InsertionCode == 0 || e.InsertionCode == ' ' {
		return fmt.Sprintf("%d", e.Original)
	}
	return fmt.Sprintf("%d%c", e.Original, e.InsertionCode)
}

type key struct {
	chain    byte
	original int
	icode    byte
}

// makeKey treats a zero insertion code like a blank one.
func makeKey(chain byte, original int, icode byte) key {
	if icode == 0 {
		icode = ' '
	}
	return key{chain, original, icode}
}

// Table is an immutable list of entries in alignment order, indexed by chain
// and original residue sequence number.
type Table struct {
	entries []Entry
	index   map[key]int
}

// NewTable builds a table from entries. Entries are indexed by chain,
// original sequence number and insertion code; if two entries share all
// three, the later one is used for renumbering.
func NewTable(entries []Entry) *Table {
	t := &Table{
		entries: make([]Entry, len(entries)),
		index:   make(map[key]int, len(entries)),
	}
	copy(t.entries, entries)
	for i, e := range t.entries {
		t.index[makeKey(e.Chain, e.Original, e.InsertionCode)] = i
	}
	return t
}

// Build walks the columns of aln alongside the structure residues that were
// aligned as its subject sequence. A column yields an entry only when both
// sequences have a residue there and the residues are identical; residues in
// mismatched or gapped columns keep their original numbers.
//
// Reference positions are counted from aln.ReferenceStart and structure
// residues from aln.SubjectStart.
func Build(aln align.Alignment, residues []pdb.Residue) (*Table, error) {
	if len(aln.Reference) != len(aln.Subject) {
		return nil, fmt.Errorf("%w: aligned sequences have lengths %d and %d",
			ErrInconsistent, len(aln.Reference), len(aln.Subject))
	}

	entries := make([]Entry, 0, len(aln.Subject))
	refPos, resi := aln.ReferenceStart, aln.SubjectStart
	for col := range aln.Reference {
		r, s := aln.Reference[col], aln.Subject[col]
		if r != align.Gap {
			refPos++
		}
		if s == align.Gap {
			continue
		}
		if resi >= len(residues) {
			return nil, fmt.Errorf("%w: column %d is past the last residue",
				ErrInconsistent, col)
		}
		res := residues[resi]
		resi++
		if res.Name != s {
			return nil, fmt.Errorf("%w: column %d has '%c' but residue %d "+
				"is '%c'", ErrInconsistent, col, s, res.SequenceNum, res.Name)
		}
		if r == s {
			entries = append(entries, Entry{
				Original:      res.SequenceNum,
				InsertionCode: res.InsertionCode,
				Reference:     refPos,
				Residue:       res.Name,
				Chain:         res.Chain,
			})
		}
	}
	return NewTable(entries), nil
}

// Len returns the number of mapped residues.
func (t *Table) Len() int {
	return len(t.entries)
}

// At returns the i'th entry in alignment order.
func (t *Table) At(i int) Entry {
	return t.entries[i]
}

// Entries returns a copy of all entries in alignment order.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, len(t.entries))
	copy(entries, t.entries)
	return entries
}

// Lookup returns the entry for the residue of the given chain with the given
// original sequence number and insertion code.
func (t *Table) Lookup(chain byte, original int, icode byte) (Entry, bool) {
	i, ok := t.index[makeKey(chain, original, icode)]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Renumber satisfies pdb.Renumbering.
func (t *Table) Renumber(chain byte, original int, icode byte) (int, bool) {
	e, ok := t.Lookup(chain, original, icode)
	return e.Reference, ok
}
