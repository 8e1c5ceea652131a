package util

import (
	"fmt"

	iopdb "github.com/TuftsBCB/io/pdb"
	"github.com/TuftsBCB/seq"

	"github.com/TuftsBCB/pdbrenum/pdb"
	"github.com/TuftsBCB/pdbrenum/refseq"
	"github.com/TuftsBCB/pdbrenum/renumber"
)

// PDBRead reads the residues of every chain in the structure file at path.
func PDBRead(path string) *pdb.Entry {
	Assert(renumber.CheckExists(path))
	entry, err := pdb.ReadFile(path)
	Assert(err, "Could not read PDB file '%s'", path)
	return entry
}

// Reference returns the reference sequence given either as text or as the
// path of a FASTA file. Exactly one of them must be non-empty.
func Reference(text, path string) seq.Sequence {
	switch {
	case len(text) > 0 && len(path) > 0:
		Fatalf("Only one of a reference sequence or a reference file " +
			"may be given.")
	case len(text) > 0:
		ref, err := refseq.Parse(text)
		Assert(err, "Could not parse reference sequence")
		return ref
	case len(path) > 0:
		Assert(renumber.CheckExists(path))
		ref, err := refseq.ReadFile(path)
		Assert(err, "Could not read reference sequence '%s'", path)
		return ref
	}
	Fatalf("A reference sequence or a reference file is required.")
	panic("unreachable")
}

// SeqresLength returns the number of residues in the SEQRES records of the
// given chain in the PDB file at path.
func SeqresLength(path string, chain byte) (int, error) {
	entry, err := iopdb.ReadPDB(path)
	if err != nil {
		return 0, err
	}
	c := entry.Chain(chain)
	if c == nil {
		return 0, fmt.Errorf("no SEQRES records for chain '%c'", chain)
	}
	return len(c.Sequence), nil
}
