// Package report writes a human readable Markdown summary of a renumbering
// run: alignment statistics followed by a preview of the residue mapping.
package report

import (
	"bufio"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/TuftsBCB/pdbrenum/align"
	"github.com/TuftsBCB/pdbrenum/mapping"
	"github.com/TuftsBCB/pdbrenum/renumber"
)

// PreviewRows is the maximum number of mappings listed in a report.
const PreviewRows = 20

// Report is everything shown in a renumbering report.
type Report struct {
	Structure string
	Reference string
	Chain     byte
	Alignment align.Alignment
	Mappings  []mapping.Entry

	// SeqresLength is the number of residues in the SEQRES records of the
	// mapped chain. It is zero when unknown.
	SeqresLength int

	LowIdentity bool
}

// New builds a report for the structure file renumbered in res.
func New(structure string, res *renumber.Result) Report {
	return Report{
		Structure:   structure,
		Reference:   res.Reference.Name,
		Chain:       res.Chain.Ident,
		Alignment:   res.Alignment,
		Mappings:    res.Mapping.Entries(),
		LowIdentity: res.LowIdentity,
	}
}

// Write writes the report as Markdown to w.
func (r Report) Write(w io.Writer) error {
	buf := bufio.NewWriter(w)

	fmt.Fprintf(buf, "# PDB to UniProt Re-indexing Report\n\n")
	fmt.Fprintf(buf, "## Alignment Statistics\n")
	if len(r.Structure) > 0 {
		fmt.Fprintf(buf, "- Structure: %s\n", r.Structure)
	}
	if len(r.Reference) > 0 {
		fmt.Fprintf(buf, "- Reference: %s\n", r.Reference)
	}
	if r.Chain != 0 {
		fmt.Fprintf(buf, "- Chain: %c\n", r.Chain)
	}
	fmt.Fprintf(buf, "- Sequence Identity: %.1f%%\n", r.Alignment.Identity)
	fmt.Fprintf(buf, "- Alignment Start (UniProt): %d\n",
		r.Alignment.ReferenceStart+1)
	if r.SeqresLength > 0 {
		fmt.Fprintf(buf, "- SEQRES Length: %d\n", r.SeqresLength)
	}
	fmt.Fprintf(buf, "- Residues Mapped: %d\n", len(r.Mappings))
	if r.LowIdentity {
		fmt.Fprintf(buf, "\n**WARNING**: Low sequence identity. "+
			"Results may be unreliable.\n")
	}

	if r.Alignment.Len() > 0 {
		fmt.Fprintf(buf, "\n## Alignment\n```\n%s\n```\n", r.Alignment)
	}

	fmt.Fprintf(buf, "\n## Residue Mapping\n")
	tabw := tabwriter.NewWriter(buf, 0, 4, 1, ' ', 0)
	fmt.Fprintln(tabw, "| PDB ResNum\t| UniProt ResNum\t| Residue\t| Chain\t|")
	fmt.Fprintln(tabw, "|---\t|---\t|---\t|---\t|")
	for i, m := range r.Mappings {
		if i == PreviewRows {
			fmt.Fprintln(tabw, "| ...\t| ...\t| ...\t| ...\t|")
			break
		}
		fmt.Fprintf(tabw, "| %s\t| %d\t| %c\t| %c\t|\n",
			m.Label(), m.Reference, m.Residue, m.Chain)
	}
	if err := tabw.Flush(); err != nil {
		return err
	}
	if len(r.Mappings) > PreviewRows {
		fmt.Fprintf(buf, "\n(showing first %d of %d mappings)\n",
			PreviewRows, len(r.Mappings))
	}
	return buf.Flush()
}

// WriteFile writes the report to the file at path, replacing it if it
// exists. Nothing is written to path if the report cannot be written whole.
func (r Report) WriteFile(path string) error {
	staged, err := renumber.Stage(path, r.Write)
	if err != nil {
		return err
	}
	return staged.Commit()
}
