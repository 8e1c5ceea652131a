package pdb

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	entry := mustRead(t, structure('A', "MKTAYIAK", 101))
	if len(entry.Chains) != 1 {
		t.Fatalf("Expected 1 chain but got %d.", len(entry.Chains))
	}
	chain := entry.Chains[0]
	testEqualResidues(t, chain, "MKTAYIAK")
	for i, r := range chain.Residues {
		if r.SequenceNum != 101+i || r.Chain != 'A' {
			t.Fatalf("Residue %d should be A%d but is %c%d.",
				i, 101+i, r.Chain, r.SequenceNum)
		}
	}
}

func TestReadSkipsNonStandard(t *testing.T) {
	var buf strings.Builder
	buf.WriteString(atom("ATOM", 1, " CA ", ' ', "MET", 'A', 1, ' '))
	buf.WriteString(atom("ATOM", 2, " CA ", ' ', "UNK", 'A', 2, ' '))
	buf.WriteString(atom("HETATM", 3, " CA ", ' ', "MSE", 'A', 3, ' '))
	buf.WriteString(atom("ATOM", 4, " CA ", ' ', "LYS", 'A', 4, ' '))
	buf.WriteString(atom("HETATM", 5, " O  ", ' ', "HOH", 'A', 5, ' '))
	chain := mustRead(t, buf.String()).Chains[0]
	testEqualResidues(t, chain, "MK")
	if chain.Residues[1].SequenceNum != 4 {
		t.Fatalf("Expected residue 4 but got %d.", chain.Residues[1].SequenceNum)
	}
}

func TestReadAltLocations(t *testing.T) {
	var buf strings.Builder
	buf.WriteString(atom("ATOM", 1, " CA ", 'A', "MET", 'A', 1, ' '))
	buf.WriteString(atom("ATOM", 2, " CA ", 'B', "MET", 'A', 1, ' '))
	buf.WriteString(atom("ATOM", 3, " CA ", ' ', "LYS", 'A', 2, ' '))
	buf.WriteString(atom("ATOM", 4, " CA ", ' ', "THR", 'A', 2, 'A'))
	testEqualResidues(t, mustRead(t, buf.String()).Chains[0], "MKT")
}

func TestReadFirstModel(t *testing.T) {
	s := "MODEL        1\n" + structure('A', "MKT", 1) + "ENDMDL\n" +
		"MODEL        2\n" + structure('A', "MKT", 1) + "ENDMDL\n"
	testEqualResidues(t, mustRead(t, s).Chains[0], "MKT")
}

func TestReadChainOrder(t *testing.T) {
	entry := mustRead(t, structure('B', "GG", 1)+structure('A', "MKT", 1))
	if len(entry.Chains) != 2 {
		t.Fatalf("Expected 2 chains but got %d.", len(entry.Chains))
	}
	if entry.Chains[0].Ident != 'B' || entry.Chains[1].Ident != 'A' {
		t.Fatalf("Chains should be in file order (B, A) but are (%c, %c).",
			entry.Chains[0].Ident, entry.Chains[1].Ident)
	}
	testEqualResidues(t, entry.Chain('A'), "MKT")
	if entry.Chain('C') != nil {
		t.Fatalf("There is no chain C.")
	}
}

func TestReadNoSequence(t *testing.T) {
	s := "HEADER    TEST\n" +
		atom("HETATM", 1, " O  ", ' ', "HOH", 'A', 1, ' ') + "END\n"
	if _, err := Read(strings.NewReader(s)); err != ErrNoSequence {
		t.Fatalf("Expected ErrNoSequence but got %v.", err)
	}
}

func TestReadBadSequenceNum(t *testing.T) {
	line := atom("ATOM", 1, " CA ", ' ', "MET", 'A', 1, ' ')
	s := line[:22] + "  x1" + line[26:]
	if _, err := Read(strings.NewReader(s)); err == nil {
		t.Fatalf("Expected an error for a bad residue number.")
	}
}

func TestReadFileGzip(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "test.pdb.gz")
	f, err := os.Create(fpath)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(structure('A', "MKTAY", 1))); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	entry, err := ReadFile(fpath)
	if err != nil {
		t.Fatal(err)
	}
	testEqualResidues(t, entry.Chains[0], "MKTAY")
	if name := entry.Chains[0].Sequence().Name; name != "test.pdb.gzA" {
		t.Fatalf("Unexpected sequence name '%s'.", name)
	}
}

func TestRewriteIdentity(t *testing.T) {
	in := "HEADER    TEST\r\n" + structure('A', "MKTAYIAK", 101) +
		"TER\nEND"
	out := mustRewrite(t, in, renumbering{})
	if out != in {
		t.Fatalf("Rewriting without renumbering changed the file:\n%s", out)
	}
}

func TestRewrite(t *testing.T) {
	in := "HEADER    TEST\n" + structure('A', "MKTAYIAK", 101) +
		atom("HETATM", 99, " O  ", ' ', "HOH", 'A', 201, ' ') +
		"TER     100      LYS A 108\nEND\n"
	renum := renumbering{}
	for i := 0; i < 8; i++ {
		renum[101+i] = 1 + i
	}
	out := mustRewrite(t, in, renum)
	answer := "HEADER    TEST\n" + structure('A', "MKTAYIAK", 1) +
		atom("HETATM", 99, " O  ", ' ', "HOH", 'A', 201, ' ') +
		"TER     100      LYS A 108\nEND\n"
	if out != answer {
		t.Fatalf("Rewritten file is\n%s\nbut should be\n%s", out, answer)
	}
}

func TestRewriteOtherChain(t *testing.T) {
	in := structure('B', "MKT", 1)
	if out := mustRewrite(t, in, renumbering{1: 50}); out != in {
		t.Fatalf("Only chain A should be renumbered, but got\n%s", out)
	}
}

func TestRewriteInsertionCode(t *testing.T) {
	var in strings.Builder
	in.WriteString(atom("ATOM", 1, " CA ", ' ', "THR", 'A', 52, ' '))
	in.WriteString(atom("ATOM", 2, " CA ", ' ', "ALA", 'A', 52, 'A'))
	out := mustRewrite(t, in.String(), renumbering{52: 6})

	var answer strings.Builder
	answer.WriteString(atom("ATOM", 1, " CA ", ' ', "THR", 'A', 6, ' '))
	answer.WriteString(atom("ATOM", 2, " CA ", ' ', "ALA", 'A', 52, 'A'))
	if out != answer.String() {
		t.Fatalf("Rewritten file is\n%s\nbut should be\n%s", out, answer.String())
	}
}

func TestRewriteOverflow(t *testing.T) {
	var buf bytes.Buffer
	in := structure('A', "MK", 1)
	err := Rewrite(&buf, strings.NewReader(in), renumbering{2: 10000})
	if !errors.Is(err, ErrResidueNumberOverflow) {
		t.Fatalf("Expected ErrResidueNumberOverflow but got %v.", err)
	}
	if out := mustRewrite(t, in, renumbering{2: -999}); !strings.Contains(out, "A-999") {
		t.Fatalf("-999 should fit in four columns, but got\n%s", out)
	}
}

// renumbering renumbers residues of chain A without an insertion code.
type renumbering map[int]int

func (r renumbering) Renumber(chain byte, seqNum int, icode byte) (int, bool) {
	if chain != 'A' || icode != ' ' {
		return 0, false
	}
	n, ok := r[seqNum]
	return n, ok
}

func mustRead(t *testing.T, s string) *Entry {
	entry, err := Read(strings.NewReader(s))
	if err != nil {
		t.Fatalf("Could not read PDB data: %s\n%s", err, s)
	}
	return entry
}

func mustRewrite(t *testing.T, in string, renum Renumbering) string {
	var buf bytes.Buffer
	if err := Rewrite(&buf, strings.NewReader(in), renum); err != nil {
		t.Fatalf("Could not rewrite PDB data: %s", err)
	}
	return buf.String()
}

func testEqualResidues(t *testing.T, chain *Chain, answer string) {
	computed := fmt.Sprintf("%s", chain.Sequence().Residues)
	if computed != answer {
		t.Fatalf("\nChain %c has sequence\n\n%s\n\nbut answer is\n\n%s",
			chain.Ident, computed, answer)
	}
}

var oneToThree = map[byte]string{}

func init() {
	for k, v := range AminoThreeToOne {
		oneToThree[byte(v)] = k
	}
}

// structure returns N, CA and C ATOM records for each residue in sequence,
// numbered from first.
func structure(chain byte, sequence string, first int) string {
	var buf strings.Builder
	serial := 1
	for i := 0; i < len(sequence); i++ {
		for _, name := range []string{" N  ", " CA ", " C  "} {
			buf.WriteString(atom("ATOM", serial, name, ' ',
				oneToThree[sequence[i]], chain, first+i, ' '))
			serial++
		}
	}
	return buf.String()
}

func atom(record string, serial int, name string, altLoc byte,
	resName string, chain byte, resSeq int, icode byte) string {

	return fmt.Sprintf("%-6s%5d %-4s%c%3s %c%4d%c   "+
		"%8.3f%8.3f%8.3f  1.00 20.00           %c\n",
		record, serial, name, altLoc, resName, chain, resSeq, icode,
		float64(serial), -float64(serial), 0.5, name[1])
}
