// Package renumber ties together reading a structure, aligning one of its
// chains with a reference sequence, and rewriting the structure so that its
// residue sequence numbers follow the reference numbering.
package renumber

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/TuftsBCB/pdbrenum/align"
	"github.com/TuftsBCB/pdbrenum/mapping"
	"github.com/TuftsBCB/pdbrenum/pdb"
	"github.com/TuftsBCB/seq"
)

var (
	// ErrMissingInput is returned when an input file does not exist.
	ErrMissingInput = errors.New("input file not found")

	// ErrNoChain is returned when the requested chain has no residues.
	ErrNoChain = errors.New("chain not found")
)

// DefaultMinIdentity is the identity percentage below which a mapping is
// considered unreliable.
const DefaultMinIdentity = 90.0

// Config controls how a structure is mapped onto its reference.
type Config struct {
	// Chain is the identifier of the chain to renumber. When zero, the
	// first chain in the file is used.
	Chain byte

	Align align.Config

	// MinIdentity is the identity percentage below which Result.LowIdentity
	// is set.
	MinIdentity float64
}

// DefaultConfig returns the default alignment configuration and identity
// threshold, using the first chain.
func DefaultConfig() Config {
	return Config{
		Align:       align.DefaultConfig(),
		MinIdentity: DefaultMinIdentity,
	}
}

// Result is everything learned while mapping a chain onto its reference.
type Result struct {
	Chain     *pdb.Chain
	Reference seq.Sequence
	Alignment align.Alignment
	Mapping   *mapping.Table

	// LowIdentity is set when the alignment identity is below the
	// configured threshold. The mapping is still usable, but should be
	// treated with suspicion.
	LowIdentity bool
}

// Map aligns the configured chain of entry with ref and derives the residue
// mapping.
func Map(entry *pdb.Entry, ref seq.Sequence, conf Config) (*Result, error) {
	chain, err := selectChain(entry, conf.Chain)
	if err != nil {
		return nil, err
	}
	aln, err := align.Local(ref.Residues, chain.Sequence().Residues, conf.Align)
	if err != nil {
		return nil, fmt.Errorf("Could not align chain %c with '%s': %w",
			chain.Ident, ref.Name, err)
	}
	table, err := mapping.Build(aln, chain.Residues)
	if err != nil {
		return nil, err
	}
	return &Result{
		Chain:       chain,
		Reference:   ref,
		Alignment:   aln,
		Mapping:     table,
		LowIdentity: aln.Identity < conf.MinIdentity,
	}, nil
}

// Run reads the structure at inPath, maps it onto ref and writes the
// renumbered structure to outPath. Nothing is written if any step fails.
func Run(inPath, outPath string, ref seq.Sequence, conf Config) (*Result, error) {
	if err := CheckExists(inPath); err != nil {
		return nil, err
	}
	entry, err := pdb.ReadFile(inPath)
	if err != nil {
		return nil, err
	}
	res, err := Map(entry, ref, conf)
	if err != nil {
		return nil, err
	}
	if err := WriteFile(outPath, inPath, res.Mapping); err != nil {
		return nil, err
	}
	return res, nil
}

// WriteFile rewrites the structure at inPath into outPath with renum
// applied. The output is first written to a temporary file in the same
// directory and only moved into place once it is complete.
func WriteFile(outPath, inPath string, renum pdb.Renumbering) error {
	in, err := pdb.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	staged, err := Stage(outPath, func(w io.Writer) error {
		if err := pdb.Rewrite(w, in, renum); err != nil {
			return fmt.Errorf("Could not rewrite '%s': %w", inPath, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return staged.Commit()
}

// Staged is a complete file waiting in a temporary file next to its
// destination.
type Staged struct {
	path string
	tmp  string
}

// Stage writes a file with write into a temporary file in the directory of
// path. Nothing is left behind if write fails. The caller must either Commit
// or Discard the result.
func Stage(path string, write func(w io.Writer) error) (_ *Staged, err error) {
	dir, base := filepath.Split(path)
	if len(dir) == 0 {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return nil, err
	}
	if err = tmp.Chmod(0644); err != nil {
		return nil, err
	}
	if err = tmp.Close(); err != nil {
		return nil, err
	}
	return &Staged{path: path, tmp: tmp.Name()}, nil
}

// Commit moves the staged file to its destination.
func (s *Staged) Commit() error {
	if err := os.Rename(s.tmp, s.path); err != nil {
		os.Remove(s.tmp)
		return err
	}
	return nil
}

// Discard removes the staged file.
func (s *Staged) Discard() {
	os.Remove(s.tmp)
}

// CheckExists returns an error wrapping ErrMissingInput if path does not
// exist.
func CheckExists(path string) error {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrMissingInput, path)
	}
	return err
}

func selectChain(entry *pdb.Entry, ident byte) (*pdb.Chain, error) {
	if len(entry.Chains) == 0 {
		return nil, pdb.ErrNoSequence
	}
	if ident == 0 {
		return entry.Chains[0], nil
	}
	if chain := entry.Chain(ident); chain != nil {
		return chain, nil
	}
	return nil, fmt.Errorf("%w: no residues for chain '%c' in '%s'",
		ErrNoChain, ident, entry.Name())
}
