// Package align computes local alignments of amino acid sequences under an
// affine gap scoring scheme.
package align

import (
	"errors"
	"fmt"
	"math"

	"github.com/TuftsBCB/seq"
)

// Gap is the residue used in aligned sequences where one sequence has no
// residue in a column.
const Gap seq.Residue = '-'

var (
	// ErrEmptySequence is returned when either sequence has no residues.
	ErrEmptySequence = errors.New("cannot align an empty sequence")

	// ErrTooLarge is returned when the dynamic programming matrix would
	// have more cells than allowed by Config.MaxCells.
	ErrTooLarge = errors.New("sequences are too long to align")
)

// Alignment is a local alignment of a subject sequence against a reference
// sequence. Reference and Subject have the same length; a column where one
// of them has no residue holds Gap.
type Alignment struct {
	Reference, Subject []seq.Residue

	// ReferenceStart and SubjectStart are the 0-based offsets in the
	// ungapped sequences of the first aligned residue.
	ReferenceStart, SubjectStart int

	Score float64

	// Identity is the number of identical columns as a percentage of the
	// length of the whole subject sequence (not of the alignment).
	Identity float64
}

// Len returns the number of columns in the alignment.
func (a Alignment) Len() int {
	return len(a.Reference)
}

func (a Alignment) String() string {
	return fmt.Sprintf("%s\n%s", a.Reference, a.Subject)
}

// A cell's traceback byte records, for each of the three states, which state
// it was reached from: bits 0-1 for the match state, bits 2-3 for the
// reference gap state and bits 4-5 for the subject gap state.
const (
	fromStart byte = iota
	fromMatch
	fromRefGap
	fromSubGap

	fromMask    = 3
	refGapShift = 2
	subGapShift = 4
)

type state int

const (
	stateMatch state = iota
	stateRefGap
	stateSubGap
)

// Local computes the best scoring local alignment of subject against
// reference with affine gap penalties (Smith-Waterman with Gotoh's three
// states).
//
// Of several optimal alignments, the one ending at the smallest reference
// position (and then the smallest subject position) is returned. When tracing
// back, a column is preferred to start the alignment over extending it
// through a prefix that scores zero, and a match/mismatch predecessor is
// preferred over a gap.
//
// If no pair of residues scores above zero, an empty alignment with zero
// identity is returned.
func Local(reference, subject []seq.Residue, conf Config) (Alignment, error) {
	n, m := len(reference), len(subject)
	if n == 0 || m == 0 {
		return Alignment{}, ErrEmptySequence
	}
	if err := conf.Scoring.validate(); err != nil {
		return Alignment{}, err
	}
	if conf.MaxCells > 0 && n > conf.MaxCells/m {
		return Alignment{}, fmt.Errorf("%w: %d x %d exceeds %d cells",
			ErrTooLarge, n, m, conf.MaxCells)
	}
	sc := conf.Scoring
	negInf := math.Inf(-1)

	// Scores are kept for two rows at a time; row i holds reference residue
	// i against every prefix of the subject. Column 0 is never reachable.
	prevM, curM := make([]float64, m+1), make([]float64, m+1)
	prevX, curX := make([]float64, m+1), make([]float64, m+1)
	prevY, curY := make([]float64, m+1), make([]float64, m+1)
	for j := 0; j <= m; j++ {
		prevM[j], prevX[j], prevY[j] = negInf, negInf, negInf
	}
	curM[0], curX[0], curY[0] = negInf, negInf, negInf

	trace := make([]byte, n*m)
	best, bi, bj := 0.0, 0, 0
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			// Reference residue i against a gap.
			x, xfrom := prevM[j]+sc.GapOpen, fromMatch
			if ext := prevX[j] + sc.GapExtend; ext > x {
				x, xfrom = ext, fromRefGap
			}
			if open := prevY[j] + sc.GapOpen; open > x {
				x, xfrom = open, fromSubGap
			}

			// Subject residue j against a gap.
			y, yfrom := curM[j-1]+sc.GapOpen, fromMatch
			if ext := curY[j-1] + sc.GapExtend; ext > y {
				y, yfrom = ext, fromSubGap
			}
			if open := curX[j-1] + sc.GapOpen; open > y {
				y, yfrom = open, fromRefGap
			}

			diag, from := 0.0, fromStart
			if prevM[j-1] > diag {
				diag, from = prevM[j-1], fromMatch
			}
			if prevX[j-1] > diag {
				diag, from = prevX[j-1], fromRefGap
			}
			if prevY[j-1] > diag {
				diag, from = prevY[j-1], fromSubGap
			}
			score := diag + sc.pair(reference[i-1], subject[j-1])

			curM[j], curX[j], curY[j] = score, x, y
			trace[(i-1)*m+(j-1)] = from | xfrom<<refGapShift | yfrom<<subGapShift
			if score > best {
				best, bi, bj = score, i, j
			}
		}
		prevM, curM = curM, prevM
		prevX, curX = curX, prevX
		prevY, curY = curY, prevY
	}
	if bi == 0 {
		return Alignment{}, nil
	}
	return traceback(reference, subject, trace, bi, bj, best), nil
}

// traceback walks the traceback matrix from the best cell (bi, bj), which
// always ends in a match/mismatch column, back to the start of the local
// alignment.
func traceback(
	reference, subject []seq.Residue,
	trace []byte,
	bi, bj int,
	score float64,
) Alignment {
	m := len(subject)
	aligned := newAlignment(bi + bj)
	i, j, st := bi, bj, stateMatch
	for done := false; !done; {
		t := trace[(i-1)*m+(j-1)]
		var from byte
		switch st {
		case stateMatch:
			aligned.Reference = append(aligned.Reference, reference[i-1])
			aligned.Subject = append(aligned.Subject, subject[j-1])
			from = t & fromMask
			i, j = i-1, j-1
		case stateRefGap:
			aligned.Reference = append(aligned.Reference, reference[i-1])
			aligned.Subject = append(aligned.Subject, Gap)
			from = t >> refGapShift & fromMask
			i--
		case stateSubGap:
			aligned.Reference = append(aligned.Reference, Gap)
			aligned.Subject = append(aligned.Subject, subject[j-1])
			from = t >> subGapShift & fromMask
			j--
		}
		switch from {
		case fromStart:
			done = true
		case fromMatch:
			st = stateMatch
		case fromRefGap:
			st = stateRefGap
		case fromSubGap:
			st = stateSubGap
		}
	}

	// Since we built the alignment backwards, we must reverse it.
	ref, sub := aligned.Reference, aligned.Subject
	for x, y := 0, len(ref)-1; x < y; x, y = x+1, y-1 {
		ref[x], ref[y] = ref[y], ref[x]
		sub[x], sub[y] = sub[y], sub[x]
	}
	aligned.ReferenceStart, aligned.SubjectStart = i, j
	aligned.Score = score
	aligned.Identity = identity(ref, sub, len(subject))
	return aligned
}

func newAlignment(length int) Alignment {
	return Alignment{
		Reference: make([]seq.Residue, 0, length),
		Subject:   make([]seq.Residue, 0, length),
	}
}

// identity returns the percentage of identical, non-gap columns relative to
// the subject length.
func identity(ref, sub []seq.Residue, subjectLen int) float64 {
	same := 0
	for k := range ref {
		if ref[k] == sub[k] && ref[k] != Gap {
			same++
		}
	}
	return 100 * float64(same) / float64(subjectLen)
}
