package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dkb2homebank/dkb2homebank/internal/charset"
)

// ErrNoHeaderFound is returned when no line carries both column markers.
var ErrNoHeaderFound = errors.New("can't convert CSV file without header line")

// The column header is the first line naming both the amount and the
// value date. Banner lines may mention one of them, never both.
const (
	amountMarker    = "Betrag"
	valueDateMarker = "Wertstellung"
)

// TransactionLines returns the lines after the column header.
func TransactionLines(lines []string) ([]string, error) {
	for i, line := range lines {
		if isHeader(line) {
			return lines[i+1:], nil
		}
	}
	return nil, ErrNoHeaderFound
}

// FindTransactionLines reads r and returns the lines after the column header.
func (c *Converter) FindTransactionLines(r io.Reader) ([]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	data, err := charset.Decode(raw, c.Charset)
	if err != nil {
		return nil, err
	}
	return TransactionLines(splitLines(string(data)))
}

// FindTransactionLines uses the default Converter.
func FindTransactionLines(r io.Reader) ([]string, error) {
	return defaultConverter.FindTransactionLines(r)
}

func isHeader(line string) bool {
	return strings.Contains(line, amountMarker) && strings.Contains(line, valueDateMarker)
}

// newlines maps CRLF and lone CR line endings to LF.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// splitLines splits on any of \n, \r\n and \r and drops line terminators.
// A trailing line ending does not produce an extra empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = newlines.Replace(text)
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
