// Package dialect infers the lexical conventions of a CSV export from a
// sample of its content.
package dialect

import (
	"encoding/csv"
	"io"
)

// Quoting describes which fields a dialect wraps in quote characters.
type Quoting int

const (
	QuoteMinimal Quoting = iota
	QuoteAll
)

func (q Quoting) String() string {
	if q == QuoteAll {
		return "all"
	}
	return "minimal"
}

// Dialect is the set of conventions governing how raw lines map to fields.
type Dialect struct {
	Delimiter      rune
	Quote          rune
	Quoting        Quoting
	LineTerminator string
}

// Default is the dialect every known DKB export uses.
func Default() Dialect {
	return Dialect{
		Delimiter:      ';',
		Quote:          '"',
		Quoting:        QuoteAll,
		LineTerminator: "\r\n",
	}
}

// Reader returns a csv.Reader configured for d. Rows may carry a varying
// number of fields since exports end some lines with a trailing delimiter.
func (d Dialect) Reader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = d.Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}
