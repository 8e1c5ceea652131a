package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TuftsBCB/pdbrenum/cmd/util"
	"github.com/TuftsBCB/pdbrenum/pdb"
	"github.com/TuftsBCB/pdbrenum/renumber"
	"github.com/TuftsBCB/pdbrenum/report"
)

var (
	flagPdb     = ""
	flagRefText = ""
	flagRefFile = ""
	flagOutput  = ""
	flagReport  = ""
	flagWorkDir = ""
)

func parseFlags() {
	flag.StringVar(&flagPdb, "pdb", flagPdb,
		"The PDB file to renumber. (Required.)")
	flag.StringVar(&flagRefText, "uniprot-sequence", flagRefText,
		"The reference sequence as text, optionally with a FASTA\n"+
			"description line.")
	flag.StringVar(&flagRefFile, "uniprot-file", flagRefFile,
		"A FASTA file containing the reference sequence.")
	flag.StringVar(&flagOutput, "output", flagOutput,
		"The path of the renumbered PDB file. (Required.)")
	flag.StringVar(&flagReport, "report", flagReport,
		"The path of the Markdown report. By default, it is named after\n"+
			"the output file: {name}_reindex_report.md")
	flag.StringVar(&flagWorkDir, "work-dir", flagWorkDir,
		"When set, the output is written to 'pdb_files' and the report to\n"+
			"'reports' inside this directory. Both are created if needed.")

	util.FlagUse("verbose", "chain", "min-identity", "max-cells", "scoring")
	util.FlagParse("",
		"Renumbers the residues of a PDB file to match a reference sequence.")

	if util.NArg() != 0 || len(flagPdb) == 0 || len(flagOutput) == 0 {
		util.Usage()
	}
}

func main() {
	parseFlags()
	util.Assert(renumber.CheckExists(flagPdb))
	outPath, reportPath := outputPaths()
	ref := util.Reference(flagRefText, flagRefFile)

	fmt.Println("Parsing PDB sequence...")
	entry := util.PDBRead(flagPdb)

	res, err := renumber.Map(entry, ref, util.RenumberConfig())
	util.Assert(err, "Could not map '%s' onto '%s'", flagPdb, ref.Name)

	chainSeq := res.Chain.Sequence().Residues
	fmt.Printf("PDB sequence, chain %c (%d residues): %s\n",
		res.Chain.Ident, len(chainSeq), preview(fmt.Sprintf("%s", chainSeq)))
	fmt.Printf("UniProt sequence (%d residues): %s\n",
		len(ref.Residues), preview(fmt.Sprintf("%s", ref.Residues)))
	util.Verbosef("%s", res.Alignment)

	fmt.Printf("Sequence identity: %.1f%%\n", res.Alignment.Identity)
	fmt.Printf("Alignment starts at UniProt position: %d\n",
		res.Alignment.ReferenceStart+1)
	if res.LowIdentity {
		util.Warnf("WARNING: Low sequence identity (%.1f%%). "+
			"Results may be unreliable.", res.Alignment.Identity)
	}
	fmt.Printf("Mapped %d residues\n", res.Mapping.Len())

	if len(flagWorkDir) > 0 {
		util.MakeDir(filepath.Dir(outPath))
		util.MakeDir(filepath.Dir(reportPath))
	}

	rep := report.New(flagPdb, res)
	n, err := util.SeqresLength(flagPdb, res.Chain.Ident)
	if !util.Warning(err, "Could not read SEQRES records of '%s'", flagPdb) {
		rep.SeqresLength = n
	}

	fmt.Printf("Creating re-indexed PDB file: %s\n", outPath)
	fmt.Printf("Generating report: %s\n", reportPath)
	util.Assert(writeOutputs(flagPdb, outPath, reportPath, res.Mapping, rep))

	fmt.Println("\nRe-indexing completed successfully!")
	fmt.Printf("Re-indexed PDB: %s\n", outPath)
	fmt.Printf("Report: %s\n", reportPath)
}

// writeOutputs writes the renumbered structure and its report. The report is
// staged before the structure is written and moved into place last, so that
// a failure leaves neither file behind.
func writeOutputs(
	inPath, outPath, reportPath string,
	renum pdb.Renumbering,
	rep report.Report,
) error {
	staged, err := renumber.Stage(reportPath, rep.Write)
	if err != nil {
		return fmt.Errorf("Could not write report '%s': %w", reportPath, err)
	}
	if err := renumber.WriteFile(outPath, inPath, renum); err != nil {
		staged.Discard()
		return fmt.Errorf("Could not write '%s': %w", outPath, err)
	}
	if err := staged.Commit(); err != nil {
		os.Remove(outPath)
		return fmt.Errorf("Could not write report '%s': %w", reportPath, err)
	}
	return nil
}

// outputPaths returns the paths of the renumbered structure and the report.
func outputPaths() (string, string) {
	stem := strings.TrimSuffix(filepath.Base(flagOutput),
		filepath.Ext(flagOutput))
	reportName := stem + "_reindex_report.md"

	if len(flagWorkDir) == 0 {
		if len(flagReport) > 0 {
			return flagOutput, flagReport
		}
		return flagOutput, reportName
	}
	if util.Exists(flagWorkDir) && !util.IsDir(flagWorkDir) {
		util.Fatalf("'%s' is not a directory.", flagWorkDir)
	}
	out := filepath.Join(flagWorkDir, "pdb_files", filepath.Base(flagOutput))
	if len(flagReport) > 0 {
		return out, flagReport
	}
	return out, filepath.Join(flagWorkDir, "reports", reportName)
}

func preview(s string) string {
	if len(s) > 50 {
		return s[:50] + "..."
	}
	return s
}
