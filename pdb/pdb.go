package pdb

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/TuftsBCB/seq"
)

// ErrNoSequence is returned when a PDB file has no carbon-alpha ATOM records
// for any standard amino acid.
var ErrNoSequence = errors.New("no amino acid sequence found")

// AminoThreeToOne is a map from three letter amino acids to their
// corresponding single letter representation.
var AminoThreeToOne = map[string]seq.Residue{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
}

// Entry represents the residues observed in a PDB file.
//
// Chains are kept in the order in which they first appear in the file.
type Entry struct {
	Path   string
	Chains []*Chain
}

// Chain represents a protein chain in a PDB file. Its residues are listed in
// file order, one per carbon-alpha atom.
type Chain struct {
	Entry    *Entry
	Ident    byte
	Residues []Residue
}

// Residue is a single amino acid observed in the ATOM records of a chain.
// SequenceNum is whatever the author of the file used in columns 23-26; it
// is not necessarily contiguous and need not start at 1.
type Residue struct {
	SequenceNum   int
	InsertionCode byte
	Name          seq.Residue
	Chain         byte
}

// ReadFile opens and reads the PDB file at the given path. If the file name
// ends with ".gz", gzip decompression will be used.
func ReadFile(fileName string) (*Entry, error) {
	r, err := Open(fileName)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	entry, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	entry.Path = fileName
	return entry, nil
}

// Read extracts the amino acid residues of every chain from the carbon-alpha
// ATOM records in r. Only the first model is used when the file has more
// than one. If no chain has any residues, ErrNoSequence is returned.
func Read(r io.Reader) (*Entry, error) {
	entry := &Entry{Chains: make([]*Chain, 0, 2)}
	buf := bufio.NewReader(r)
	for lineno := 1; ; lineno++ {
		line, err := buf.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		line = bytes.TrimRight(line, "\r\n")

		switch recordName(line) {
		case "ENDMDL":
			return entry.finish()
		case "ATOM":
			if perr := entry.parseAtom(line); perr != nil {
				return nil, fmt.Errorf("line %d: %w", lineno, perr)
			}
		}
		if err == io.EOF {
			break
		}
	}
	return entry.finish()
}

func (e *Entry) finish() (*Entry, error) {
	if len(e.Chains) == 0 {
		return nil, ErrNoSequence
	}
	return e, nil
}

// Chain returns the chain with the given identifier, or nil if no residues
// were found for it.
func (e *Entry) Chain(ident byte) *Chain {
	for _, chain := range e.Chains {
		if chain.Ident == ident {
			return chain
		}
	}
	return nil
}

// Name returns the base name of the file this entry was read from.
func (e *Entry) Name() string {
	if len(e.Path) == 0 {
		return "structure"
	}
	return filepath.Base(e.Path)
}

func (e *Entry) getOrMakeChain(ident byte) *Chain {
	if chain := e.Chain(ident); chain != nil {
		return chain
	}
	chain := &Chain{
		Entry:    e,
		Ident:    ident,
		Residues: make([]Residue, 0, 100),
	}
	e.Chains = append(e.Chains, chain)
	return chain
}

// parseAtom adds the residue of a carbon-alpha ATOM record to its chain.
// Records for any other atom, and records whose residue (columns 18-20) is
// not a standard amino acid, are ignored. A second carbon-alpha for the same
// residue (an alternate location) is ignored too.
func (e *Entry) parseAtom(line []byte) error {
	if len(line) < 26 {
		return nil
	}
	if string(bytes.TrimSpace(line[12:16])) != "CA" {
		return nil
	}
	name, ok := AminoThreeToOne[string(bytes.TrimSpace(line[17:20]))]
	if !ok {
		return nil
	}
	num, err := parseSequenceNum(line)
	if err != nil {
		return err
	}
	res := Residue{
		SequenceNum:   num,
		InsertionCode: insertionCode(line),
		Name:          name,
		Chain:         line[21],
	}

	chain := e.getOrMakeChain(res.Chain)
	if n := len(chain.Residues); n > 0 {
		last := chain.Residues[n-1]
		if last.SequenceNum == res.SequenceNum &&
			last.InsertionCode == res.InsertionCode {
			return nil
		}
	}
	chain.Residues = append(chain.Residues, res)
	return nil
}

// Sequence returns the one letter amino acid sequence of the chain.
func (c *Chain) Sequence() seq.Sequence {
	residues := make([]seq.Residue, len(c.Residues))
	for i, r := range c.Residues {
		residues[i] = r.Name
	}
	name := string(c.Ident)
	if c.Entry != nil {
		name = fmt.Sprintf("%s%c", c.Entry.Name(), c.Ident)
	}
	return seq.Sequence{Name: name, Residues: residues}
}

// String returns a FASTA-like formatted string of this chain.
func (c *Chain) String() string {
	first, last := 0, 0
	if n := len(c.Residues); n > 0 {
		first, last = c.Residues[0].SequenceNum, c.Residues[n-1].SequenceNum
	}
	return fmt.Sprintf("> Chain %c (%d, %d) :: length %d\n%s",
		c.Ident, first, last, len(c.Residues), c.Sequence().Residues)
}

// Open opens a PDB file for reading, decompressing it if its name ends
// with ".gz". The caller must close the returned reader.
func Open(fileName string) (io.ReadCloser, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	if path.Ext(fileName) != ".gz" {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return gzipFile{gz, f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g gzipFile) Close() error {
	if err := g.Reader.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

// recordName returns the record name in the first six columns of a line.
func recordName(line []byte) string {
	if len(line) > 6 {
		line = line[0:6]
	}
	return string(bytes.TrimSpace(line))
}

// parseSequenceNum reads the residue sequence number in columns 23-26.
func parseSequenceNum(line []byte) (int, error) {
	snum := string(bytes.TrimSpace(line[22:26]))
	num, err := strconv.Atoi(snum)
	if err != nil {
		return 0, fmt.Errorf("invalid residue sequence number '%s'", snum)
	}
	return num, nil
}

func insertionCode(line []byte) byte {
	if len(line) > 26 {
		return line[26]
	}
	return ' '
}
