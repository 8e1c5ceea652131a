package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TuftsBCB/pdbrenum/pdb"
	"github.com/TuftsBCB/pdbrenum/renumber"
	"github.com/TuftsBCB/pdbrenum/report"
	"github.com/TuftsBCB/seq"
)

const structure = "" +
	"ATOM      1  CA  MET A  11       1.000   2.000   3.000  1.00 20.00           C\n" +
	"ATOM      2  CA  LYS A  12       1.000   2.000   3.000  1.00 20.00           C\n" +
	"ATOM      3  CA  THR A  13       1.000   2.000   3.000  1.00 20.00           C\n" +
	"ATOM      4  CA  ALA A  14       1.000   2.000   3.000  1.00 20.00           C\n" +
	"ATOM      5  CA  TYR A  15       1.000   2.000   3.000  1.00 20.00           C\n"

func TestWriteOutputs(t *testing.T) {
	dir, in, res := setup(t)
	out := filepath.Join(dir, "out.pdb")
	rpt := filepath.Join(dir, "out_report.md")

	err := writeOutputs(in, out, rpt, res.Mapping, report.New(in, res))
	if err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, out); !strings.Contains(got, "MET A   3") {
		t.Fatalf("Structure was not renumbered:\n%s", got)
	}
	if got := readFile(t, rpt); !strings.Contains(got, "- Residues Mapped: 5\n") {
		t.Fatalf("Unexpected report:\n%s", got)
	}
	testDirFiles(t, dir, "in.pdb", "out.pdb", "out_report.md")
}

func TestWriteOutputsReportFails(t *testing.T) {
	dir, in, res := setup(t)
	out := filepath.Join(dir, "out.pdb")
	rpt := filepath.Join(dir, "missing", "out_report.md")

	if err := writeOutputs(in, out, rpt, res.Mapping, report.New(in, res)); err == nil {
		t.Fatalf("Writing a report into a missing directory should fail.")
	}
	testDirFiles(t, dir, "in.pdb")
}

func TestWriteOutputsStructureFails(t *testing.T) {
	dir, in, res := setup(t)
	out := filepath.Join(dir, "missing", "out.pdb")
	rpt := filepath.Join(dir, "out_report.md")

	if err := writeOutputs(in, out, rpt, res.Mapping, report.New(in, res)); err == nil {
		t.Fatalf("Writing a structure into a missing directory should fail.")
	}
	testDirFiles(t, dir, "in.pdb")
}

// setup writes a five residue structure to a new directory and maps it onto
// a reference offset by two residues.
func setup(t *testing.T) (string, string, *renumber.Result) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdb")
	if err := os.WriteFile(in, []byte(structure), 0644); err != nil {
		t.Fatal(err)
	}
	entry, err := pdb.Read(strings.NewReader(structure))
	if err != nil {
		t.Fatal(err)
	}
	ref := seq.Sequence{Name: "P12345", Residues: []seq.Residue("GGMKTAY")}
	res, err := renumber.Map(entry, ref, renumber.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return dir, in, res
}

func readFile(t *testing.T, fpath string) string {
	bs, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatal(err)
	}
	return string(bs)
}

func testDirFiles(t *testing.T, dir string, names ...string) {
	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]string, len(files))
	for i, f := range files {
		got[i] = f.Name()
	}
	if strings.Join(got, " ") != strings.Join(names, " ") {
		t.Fatalf("Directory contains %v but should contain %v.", got, names)
	}
}
