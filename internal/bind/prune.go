package bind

import (
	log "github.com/golang/glog"

	"github.com/kitware/vtkwrap/internal/classdesc"
	"github.com/kitware/vtkwrap/internal/typetag"
)

// vote is the outcome of comparing one argument position between two
// same-named overloads under the precedence table (spec.md §4.4).
type vote int

const (
	voteNeither vote = iota // positions disagree in a way the table doesn't resolve
	voteA                   // this position prefers the first method
	voteB                   // this position prefers the second method
	voteTie                 // positions are equal at this index; no preference
)

// precedenceRow is one row of the §4.4 precedence table. preferred wins
// over over at an argument position when both tags share the same
// Indirection and neither is an exact match to the other.
//
// Rows are tried in the order declared in spec.md §4.4, and that order is
// load-bearing: §9's "Open questions" section says that when an argument
// pair matches more than one row in opposite directions, the first
// decisive row wins and that behavior must be preserved verbatim.
type precedenceRow func(a, b typetag.Tag) vote

var precedenceTable = []precedenceRow{
	// double preferred over float
	func(a, b typetag.Tag) vote {
		switch {
		case a.Base == typetag.Double && b.Base == typetag.Float:
			return voteA
		case b.Base == typetag.Double && a.Base == typetag.Float:
			return voteB
		}
		return voteNeither
	},
	// unsigned char preferred over signed char
	func(a, b typetag.Tag) vote {
		isUnsignedChar := func(t typetag.Tag) bool { return t.Base == typetag.Char && t.Unsigned }
		switch {
		case isUnsignedChar(a) && b.Base == typetag.SignedChar:
			return voteA
		case isUnsignedChar(b) && a.Base == typetag.SignedChar:
			return voteB
		}
		return voteNeither
	},
	// signed variant preferred over unsigned variant (base equal, not char)
	func(a, b typetag.Tag) vote {
		if a.Base != b.Base || a.Base == typetag.Char || !typetag.IsInteger(a) {
			return voteNeither
		}
		switch {
		case !a.Unsigned && b.Unsigned:
			return voteA
		case !b.Unsigned && a.Unsigned:
			return voteB
		}
		return voteNeither
	},
	// int or id_type preferred over short, signed_char, or unsigned char
	func(a, b typetag.Tag) vote {
		narrow := func(t typetag.Tag) bool {
			return t.Base == typetag.Short || t.Base == typetag.SignedChar ||
				(t.Base == typetag.Char && t.Unsigned)
		}
		wide := func(t typetag.Tag) bool {
			return t.Base == typetag.Int || t.Base == typetag.IDType
		}
		switch {
		case wide(a) && narrow(b):
			return voteA
		case wide(b) && narrow(a):
			return voteB
		}
		return voteNeither
	},
	// char* preferred over string value or string&
	func(a, b typetag.Tag) vote {
		isCharPtr := typetag.IsCharPtr
		isStringValueOrRef := func(t typetag.Tag) bool {
			return t.Base == typetag.String && (t.Indirection == typetag.None || t.Indirection == typetag.Reference)
		}
		switch {
		case isCharPtr(a) && isStringValueOrRef(b):
			return voteA
		case isCharPtr(b) && isStringValueOrRef(a):
			return voteB
		}
		return voteNeither
	},
}

// compareArg compares one argument position between two overloads. It
// only ventures an opinion when both tags share indirection (per §4.4,
// "evaluated only when both arguments have identical indirection");
// identical unqualified tags are a tie, and anything the precedence table
// doesn't resolve aborts the whole pairwise comparison (voteNeither at the
// top level signals "both survive").
func compareArg(a, b typetag.Tag) vote {
	if typetag.Unqualified(a) == typetag.Unqualified(b) {
		return voteTie
	}
	if a.Indirection != b.Indirection {
		return voteNeither
	}
	for _, row := range precedenceTable {
		if v := row(a, b); v != voteNeither {
			return v
		}
	}
	return voteNeither
}

// dominates reports whether overload a dominates overload b: same arity,
// same per-argument array counts, and every argument position either ties
// or votes in a's favor, with at least one position actually voting for a
// (spec.md §4.4, including the tie-break: if both receive votes, neither
// wins).
func dominates(a, b *classdesc.Method) bool {
	if len(a.Arguments) != len(b.Arguments) {
		return false
	}
	sawVoteForA := false
	for i := range a.Arguments {
		if a.Arguments[i].ArrayCount != b.Arguments[i].ArrayCount {
			return false
		}
		switch compareArg(a.Arguments[i].Tag, b.Arguments[i].Tag) {
		case voteTie:
			continue
		case voteA:
			sawVoteForA = true
		case voteB, voteNeither:
			return false
		}
	}
	return sawVoteForA
}

// PruneOverloads takes a contiguous block of methods sharing a name and
// tombstones any method dominated by another method in the block, per
// spec.md §4.4. The block is compared pairwise in both directions; ties
// (neither dominates) leave both survivors. Order of methods within the
// block does not affect the resulting survivor set (spec.md §8 property
// 4), since domination is evaluated over every ordered pair.
func PruneOverloads(methods []*classdesc.Method) {
	// Domination is computed over every ordered pair independent of any
	// other pair's outcome, so the resulting tombstone set does not
	// depend on the order methods were visited in (spec.md §8 property
	// 4).
	tombstoned := make([]bool, len(methods))
	for i := range methods {
		for j := range methods {
			if i == j {
				continue
			}
			if dominates(methods[i], methods[j]) {
				tombstoned[j] = true
			}
		}
	}
	for i, m := range methods {
		if tombstoned[i] {
			log.V(1).Infof("pruning %s: dominated by a preferred overload", m.NameOr())
			m.Tombstone()
		}
	}
}
