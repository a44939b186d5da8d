// Package homebank writes the Homebank CSV import format.
package homebank

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dkb2homebank/dkb2homebank/internal/model"
)

const (
	numFields   = 8
	colDate     = 0
	colPayMode  = 1
	colInfo     = 2
	colPayee    = 3
	colMemo     = 4
	colAmount   = 5
	colCategory = 6
	colTags     = 7
)

// DefaultDelimiter is the separator Homebank expects.
const DefaultDelimiter = ';'

// Writer serializes HomebankRecords, one row per record, without a header.
type Writer struct {
	cw   *csv.Writer
	rows int
}

// NewWriter returns a Writer using delim between fields and CRLF line endings.
func NewWriter(w io.Writer, delim rune) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = delim
	cw.UseCRLF = true
	return &Writer{cw: cw}
}

// Write appends one record.
func (w *Writer) Write(rec model.HomebankRecord) error {
	w.rows++
	if err := w.cw.Write(MarshalRecord(rec)); err != nil {
		return fmt.Errorf("writing row %d: %w", w.rows, err)
	}
	return nil
}

// Flush writes buffered rows and reports any earlier write error.
func (w *Writer) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}

// Rows returns the number of records written so far.
func (w *Writer) Rows() int { return w.rows }

// MarshalRecord converts a HomebankRecord to a CSV row ([]string).
func MarshalRecord(rec model.HomebankRecord) []string {
	row := make([]string, numFields)
	row[colDate] = rec.Date
	if rec.PayMode != 0 {
		row[colPayMode] = strconv.Itoa(int(rec.PayMode))
	}
	row[colInfo] = rec.Info
	row[colPayee] = rec.Payee
	row[colMemo] = rec.Memo
	row[colAmount] = rec.Amount
	row[colCategory] = rec.Category
	row[colTags] = rec.Tags
	return row
}
