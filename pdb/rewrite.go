package pdb

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrResidueNumberOverflow is returned when a new residue sequence number
// does not fit in the four columns reserved for it.
var ErrResidueNumberOverflow = errors.New("residue sequence number does " +
	"not fit in four columns")

// Renumbering describes how residue sequence numbers are changed. Renumber
// returns the new sequence number of the residue in the given chain with the
// given sequence number and insertion code, and false if the residue keeps
// its number. A blank insertion code is ' '.
type Renumbering interface {
	Renumber(chain byte, seqNum int, icode byte) (int, bool)
}

// Rewrite copies the PDB file in r to w, replacing the residue sequence
// number (columns 23-26) of every ATOM and HETATM record that renum changes.
// All other lines, including their line endings, are copied byte for byte
// and in the same order. Insertion codes (column 27) are left as they are.
//
// If a new sequence number needs more than four columns, Rewrite stops and
// returns ErrResidueNumberOverflow. Anything written to w up to that point
// should be discarded.
func Rewrite(w io.Writer, r io.Reader, renum Renumbering) error {
	in := bufio.NewReader(r)
	out := bufio.NewWriter(w)
	for lineno := 1; ; lineno++ {
		line, err := in.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if len(line) > 0 {
			renumbered, rerr := renumberLine(line, renum)
			if rerr != nil {
				return fmt.Errorf("line %d: %w", lineno, rerr)
			}
			if _, werr := out.Write(renumbered); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			break
		}
	}
	return out.Flush()
}

// renumberLine returns the line with its residue sequence number replaced,
// or the line itself if it is not a coordinate record or its residue is not
// renumbered.
func renumberLine(line []byte, renum Renumbering) ([]byte, error) {
	content := bytes.TrimRight(line, "\r\n")
	if !isCoordRecord(line) || len(content) < 26 {
		return line, nil
	}
	old, err := parseSequenceNum(line)
	if err != nil {
		return line, nil
	}
	num, ok := renum.Renumber(line[21], old, insertionCode(content))
	if !ok {
		return line, nil
	}
	field, err := formatSequenceNum(num)
	if err != nil {
		return nil, err
	}

	renumbered := make([]byte, 0, len(line))
	renumbered = append(renumbered, line[:22]...)
	renumbered = append(renumbered, field...)
	renumbered = append(renumbered, line[26:]...)
	return renumbered, nil
}

func isCoordRecord(line []byte) bool {
	return bytes.HasPrefix(line, []byte("ATOM")) ||
		bytes.HasPrefix(line, []byte("HETATM"))
}

// formatSequenceNum right justifies num in four columns.
func formatSequenceNum(num int) ([]byte, error) {
	s := strconv.Itoa(num)
	if len(s) > 4 {
		return nil, fmt.Errorf("%w: %d", ErrResidueNumberOverflow, num)
	}
	return []byte(fmt.Sprintf("%4s", s)), nil
}
