package domain

import (
	"cmp"
	"strconv"
)

// LineKind tells numbered routes apart from lettered ones.
type LineKind uint8

const (
	// LineNumeric is a route whose public code is all digits (e.g. "4", "31").
	LineNumeric LineKind = iota
	// LineNamed is any other public code (e.g. "FB1", "N12", "L2").
	LineNamed
)

// LineID is a tagged union of a numeric or named line identifier. The zero
// value is Numeric(0).
type LineID struct {
	kind   LineKind
	number int
	name   string
}

// NumericLine builds a numeric line identifier.
func NumericLine(n int) LineID { return LineID{kind: LineNumeric, number: n} }

// NamedLine builds a named line identifier.
func NamedLine(s string) LineID { return LineID{kind: LineNamed, name: s} }

// ParseLineID returns a numeric identifier when code consists only of ASCII
// decimal digits and fits an int, otherwise the code kept as a named one.
// Leading zeros are dropped for numeric codes, so "04" and "4" are the same line.
func ParseLineID(code string) LineID {
	if !isDigits(code) {
		return NamedLine(code)
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return NamedLine(code)
	}
	return NumericLine(n)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsNumeric reports whether the identifier is a numbered route.
func (l LineID) IsNumeric() bool { return l.kind == LineNumeric }

// Number returns the numeric value; only meaningful for numeric lines.
func (l LineID) Number() int { return l.number }

// String renders the identifier as shown on the board.
func (l LineID) String() string {
	if l.kind == LineNumeric {
		return strconv.Itoa(l.number)
	}
	return l.name
}

// Compare orders numeric lines before named ones, numeric lines by value and
// named lines lexically.
func (l LineID) Compare(o LineID) int {
	if c := cmp.Compare(l.kind, o.kind); c != 0 {
		return c
	}
	if l.kind == LineNumeric {
		return cmp.Compare(l.number, o.number)
	}
	return cmp.Compare(l.name, o.name)
}
