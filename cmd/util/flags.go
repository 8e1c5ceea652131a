package util

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"strings"

	"github.com/TuftsBCB/pdbrenum/align"
	"github.com/TuftsBCB/pdbrenum/renumber"
)

var (
	FlagVerbose = false

	flagChain = ""
	FlagChain byte

	FlagMinIdentity = renumber.DefaultMinIdentity

	FlagAlign = align.DefaultConfig()
)

func init() {
	log.SetFlags(0)
}

type commonFlag struct {
	set, init func()
	use       bool
}

var commonFlags = map[string]*commonFlag{
	"verbose": {
		set: func() {
			flag.BoolVar(&FlagVerbose, "verbose", FlagVerbose,
				"When set, more output will be shown.")
		},
	},
	"chain": {
		set: func() {
			flag.StringVar(&flagChain, "chain", flagChain,
				"The identifier of the chain to renumber. By default, the\n"+
					"first chain in the structure file is used.")
		},
		init: func() {
			switch len(flagChain) {
			case 0:
			case 1:
				FlagChain = flagChain[0]
			default:
				Fatalf("A chain identifier is a single character, but got "+
					"'%s'.", flagChain)
			}
		},
	},
	"min-identity": {
		set: func() {
			flag.Float64Var(&FlagMinIdentity, "min-identity", FlagMinIdentity,
				"Sequence identity percentages below this value are reported\n"+
					"as unreliable.")
		},
	},
	"max-cells": {
		set: func() {
			flag.IntVar(&FlagAlign.MaxCells, "max-cells", FlagAlign.MaxCells,
				"The largest alignment matrix (reference length times\n"+
					"structure length) that will be allocated.")
		},
	},
	"scoring": {
		set: func() {
			flag.Float64Var(&FlagAlign.Scoring.Match, "match",
				FlagAlign.Scoring.Match,
				"The score of two identical residues.")
			flag.Float64Var(&FlagAlign.Scoring.Mismatch, "mismatch",
				FlagAlign.Scoring.Mismatch,
				"The score of two different residues.")
			flag.Float64Var(&FlagAlign.Scoring.GapOpen, "gap-open",
				FlagAlign.Scoring.GapOpen,
				"The score of the first residue in a gap.")
			flag.Float64Var(&FlagAlign.Scoring.GapExtend, "gap-extend",
				FlagAlign.Scoring.GapExtend,
				"The score of every other residue in a gap.")
		},
	},
}

func FlagUse(names ...string) {
	for _, name := range names {
		commonFlags[name].use = true
	}
}

// RenumberConfig returns the renumbering configuration described by the
// common flags.
func RenumberConfig() renumber.Config {
	return renumber.Config{
		Chain:       FlagChain,
		Align:       FlagAlign,
		MinIdentity: FlagMinIdentity,
	}
}

// Usage just calls `flag.Usage`. It's included here to avoid
// an extra import to `flag` just to call Usage.
func Usage() {
	flag.Usage()
}

// Arg just calls `flag.Arg`. It's included here to avoid
// an extra import to `flag` just to call Arg.
func Arg(i int) string {
	return flag.Arg(i)
}

// NArg just calls `flag.NArg`. It's included here to avoid
// an extra import to `flag` just to call NArg.
func NArg() int {
	return flag.NArg()
}

func FlagParse(positional string, desc string) {
	for _, fl := range commonFlags {
		if fl.use {
			fl.set()
		}
	}

	flag.Usage = func() {
		log.Printf("Usage: %s [flags] %s\n\n",
			path.Base(os.Args[0]), positional)
		if len(desc) > 0 {
			log.Printf("%s\n", desc)
		}
		flag.VisitAll(func(fl *flag.Flag) {
			var def string
			if len(fl.DefValue) > 0 {
				def = fmt.Sprintf(" (default: %s)", fl.DefValue)
			}

			usage := strings.Replace(fl.Usage, "\n", "\n    ", -1)
			log.Printf("-%s%s\n", fl.Name, def)
			log.Printf("    %s\n", usage)
		})
		os.Exit(1)
	}
	flag.Parse()

	for _, fl := range commonFlags {
		if fl.use && fl.init != nil {
			fl.init()
		}
	}
}
