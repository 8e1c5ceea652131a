// Package refseq reads the reference sequence that structure residues are
// renumbered against, typically a UniProt entry in FASTA format.
package refseq

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/TuftsBCB/io/fasta"
	"github.com/TuftsBCB/seq"
)

// ErrEmptySequence is returned when the reference text has no residues.
var ErrEmptySequence = errors.New("reference sequence is empty")

// DefaultName is used for a reference sequence given without a description
// line.
const DefaultName = "reference"

// Parse reads a single reference sequence from FASTA formatted text. The
// description line ('>') is optional. When there is more than one sequence,
// only the first is used.
//
// Residues are upper cased and gaps ('-') are removed. Any character other
// than a letter, '-' or '*' is an error.
func Parse(text string) (seq.Sequence, error) {
	if !strings.HasPrefix(strings.TrimSpace(text), ">") {
		text = ">" + DefaultName + "\n" + text
	}
	s, err := fasta.NewReader(strings.NewReader(text)).Read()
	if err == io.EOF {
		return seq.Sequence{}, ErrEmptySequence
	} else if err != nil {
		return seq.Sequence{}, fmt.Errorf("Could not read reference "+
			"sequence: %w", err)
	}
	if len(s.Name) == 0 {
		s.Name = DefaultName
	}
	s.Residues = ungap(s.Residues)
	if len(s.Residues) == 0 {
		return seq.Sequence{}, ErrEmptySequence
	}
	return s, nil
}

// ReadFile reads a reference sequence from a file. See Parse.
func ReadFile(path string) (seq.Sequence, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return seq.Sequence{}, err
	}
	s, err := Parse(string(bs))
	if err != nil {
		return seq.Sequence{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func ungap(residues []seq.Residue) []seq.Residue {
	ungapped := make([]seq.Residue, 0, len(residues))
	for _, r := range residues {
		if r != '-' {
			ungapped = append(ungapped, r)
		}
	}
	return ungapped
}
