/*
pdb-renumber rewrites the residue sequence numbers of a PDB file so that they
follow the numbering of a reference sequence, usually a UniProt entry.

The amino acid sequence of one chain is read from its carbon-alpha ATOM
records and aligned with the reference sequence using a local alignment with
affine gap penalties. Every structure residue that is aligned with an
identical reference residue takes the (1-based) position of that reference
residue as its new sequence number. All other residues, and every other line
of the file, are left unchanged.

A PDB file may either be plain text or compressed using gzip. If the PDB file
is gzipped, it must end with a '.gz' extension. The output is always plain
text.

Usage:
	pdb-renumber -pdb in.pdb -uniprot-file ref.fasta -output out.pdb

A Markdown report with the alignment statistics and the first rows of the
residue mapping is written next to the output. Its location can be set with
-report. When -work-dir is given, the output is written to
'work-dir/pdb_files' and the report to 'work-dir/reports'.

When the sequence identity of the alignment is below -min-identity, a warning
is shown but the renumbered file is still written.
*/
package main
