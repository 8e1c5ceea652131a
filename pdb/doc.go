/*
Package pdb provides minimal support for the fixed-column PDB format as it is
needed to renumber residues: extracting the amino acid sequence of each chain
from its carbon-alpha ATOM records (together with the residue sequence numbers
used in the file), and rewriting the residue sequence number columns of
coordinate records.

Only the 20 standard amino acids are recognized. Everything else in a PDB file
(ligands, waters, modified residues) never contributes to a chain's sequence,
and is copied through untouched when a file is rewritten.

Files ending in ".gz" are transparently decompressed when read.
*/
package pdb
