package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/TuftsBCB/io/fasta"
	"github.com/TuftsBCB/seq"

	"github.com/TuftsBCB/pdbrenum/cmd/util"
	"github.com/TuftsBCB/pdbrenum/pdb"
)

var (
	flagChain          = ""
	flagSeparateChains = false
	flagSplit          = ""
)

func init() {
	flag.BoolVar(&flagSeparateChains, "separate-chains", flagSeparateChains,
		"When set, each chain will get its own FASTA entry.")
	flag.StringVar(&flagChain, "chain", flagChain,
		"This may be set to one or more chain identifiers. Only amino acids "+
			"belonging to a chain specified will be included.")
	flag.StringVar(&flagSplit, "split", flagSplit,
		"When set, each FASTA entry produced will be written to a file in the "+
			"specified directory with the PDB file name and chain identifier "+
			"as the name. Implies -separate-chains.")

	util.FlagParse("in-pdb-file [out-fasta-file]",
		"Writes the amino acid sequences read from the carbon-alpha ATOM\n"+
			"records of a PDB file. These are the sequences pdb-renumber\n"+
			"aligns with a reference sequence.")

	if util.NArg() != 1 && util.NArg() != 2 {
		util.Usage()
	}
}

func main() {
	entry := util.PDBRead(util.Arg(0))

	fasEntries := make([]seq.Sequence, 0, 5)
	if !flagSeparateChains && len(flagSplit) == 0 {
		fasEntry := seq.Sequence{
			Name:     entryHeader(entry),
			Residues: make([]seq.Residue, 0, 100),
		}
		if len(entry.Chains) == 1 {
			fasEntry.Name = chainHeader(entry.Chains[0])
		}
		for _, chain := range entry.Chains {
			if isChainUsable(chain) {
				fasEntry.Residues = append(fasEntry.Residues,
					chain.Sequence().Residues...)
			}
		}
		if len(fasEntry.Residues) > 0 {
			fasEntries = append(fasEntries, fasEntry)
		}
	} else {
		for _, chain := range entry.Chains {
			if !isChainUsable(chain) {
				continue
			}
			fasEntries = append(fasEntries, seq.Sequence{
				Name:     chainHeader(chain),
				Residues: chain.Sequence().Residues,
			})
		}
	}
	if len(fasEntries) == 0 {
		util.Fatalf("Could not find any chains with amino acids.")
	}

	var fasOut io.Writer
	if util.NArg() == 1 {
		fasOut = os.Stdout
	} else {
		if len(flagSplit) > 0 {
			util.Fatalf("The '-split' option is incompatible with a single " +
				"output file.")
		}
		f := util.CreateFile(util.Arg(1))
		defer f.Close()
		fasOut = f
	}

	if len(flagSplit) == 0 {
		util.Assert(fasta.NewWriter(fasOut).WriteAll(fasEntries),
			"Could not write FASTA")
	} else {
		util.AssertIsDir(flagSplit)
		for _, fasEntry := range fasEntries {
			fp := filepath.Join(flagSplit, fmt.Sprintf("%s.fasta", fasEntry.Name))
			out := util.CreateFile(fp)

			w := fasta.NewWriter(out)
			util.Assert(w.Write(fasEntry), "Could not write to '%s'", fp)
			util.Assert(w.Flush(), "Could not write to '%s'", fp)
			util.Assert(out.Close(), "Could not write to '%s'", fp)
		}
	}
}

func entryHeader(entry *pdb.Entry) string {
	name := entry.Name()
	for _, ext := range []string{".gz", ".pdb", ".ent"} {
		name = strings.TrimSuffix(name, ext)
	}
	return strings.ToLower(name)
}

func chainHeader(chain *pdb.Chain) string {
	return fmt.Sprintf("%s%c", entryHeader(chain.Entry), chain.Ident)
}

func isChainUsable(chain *pdb.Chain) bool {
	if len(flagChain) == 0 {
		return true
	}
	for i := 0; i < len(flagChain); i++ {
		if chain.Ident == flagChain[i] {
			return true
		}
	}
	return false
}
