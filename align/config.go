package align

import (
	"errors"

	"github.com/TuftsBCB/seq"
)

// ErrBadScoring is returned for a scoring scheme under which a local
// alignment is meaningless.
var ErrBadScoring = errors.New("match score must be positive and gap " +
	"penalties must not be positive")

// Scoring is an affine gap scoring scheme. A gap of length k costs
// GapOpen + (k-1)*GapExtend.
type Scoring struct {
	Match, Mismatch    float64
	GapOpen, GapExtend float64
}

// DefaultScoring is the scheme used to align structure sequences with their
// reference sequences.
var DefaultScoring = Scoring{
	Match:     2,
	Mismatch:  -1,
	GapOpen:   -2,
	GapExtend: -0.5,
}

// DefaultMaxCells bounds the size of the traceback matrix (one byte per
// cell) at 64MB.
const DefaultMaxCells = 1 << 26

// Config holds the parameters of an alignment.
type Config struct {
	Scoring Scoring

	// MaxCells is the largest number of cells (reference length times
	// subject length) Local will allocate. Zero means no limit.
	MaxCells int
}

// DefaultConfig returns the default scoring with the default size bound.
func DefaultConfig() Config {
	return Config{
		Scoring:  DefaultScoring,
		MaxCells: DefaultMaxCells,
	}
}

func (s Scoring) pair(a, b seq.Residue) float64 {
	if a == b {
		return s.Match
	}
	return s.Mismatch
}

func (s Scoring) validate() error {
	if s.Match <= 0 || s.GapOpen > 0 || s.GapExtend > 0 {
		return ErrBadScoring
	}
	return nil
}
