package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dkb2homebank/dkb2homebank/internal/charset"
	"github.com/dkb2homebank/dkb2homebank/internal/model"
)

// ErrUnrecognizedFormat is returned when the first line of a file matches
// no known export banner.
var ErrUnrecognizedFormat = errors.New("unrecognized CSV format")

// marker is the literal first cell each export writes, quotes included.
type marker struct {
	prefix string
	format model.Format
}

// Each prefix includes its closing quote, so "Konto" never matches the
// "Kontonummer:" banner.
var markers = []marker{
	{prefix: `"Kontonummer:"`, format: model.FormatCash},
	{prefix: `"Kreditkarte:"`, format: model.FormatOldCard},
	{prefix: `"Karte"`, format: model.FormatNewCard},
	{prefix: `"Konto"`, format: model.FormatCurrentAccount},
}

// Classify maps the first line of an export to its format.
func Classify(firstLine string) (model.Format, error) {
	line := strings.TrimPrefix(firstLine, "\uFEFF")
	for _, m := range markers {
		if strings.HasPrefix(line, m.prefix) {
			return m.format, nil
		}
	}
	return model.FormatUnknown, fmt.Errorf("%w: first line starts with %q", ErrUnrecognizedFormat, preview(line))
}

// DetectFormat classifies the export read from r and rewinds r to the start.
func (c *Converter) DetectFormat(r io.ReadSeeker) (model.Format, error) {
	first, err := bufio.NewReader(r).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return model.FormatUnknown, fmt.Errorf("reading first line: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return model.FormatUnknown, fmt.Errorf("rewinding input: %w", err)
	}

	decoded, err := charset.Decode(first, c.Charset)
	if err != nil {
		return model.FormatUnknown, err
	}
	// A file with bare CR line endings reads as one line.
	line, _, _ := strings.Cut(string(decoded), "\r")
	return Classify(strings.TrimRight(line, "\n"))
}

// DetectFormat classifies r with the default Converter.
func DetectFormat(r io.ReadSeeker) (model.Format, error) {
	return defaultConverter.DetectFormat(r)
}

func preview(s string) string {
	const maxLen = 40
	r := []rune(s)
	if len(r) > maxLen {
		return string(r[:maxLen]) + "..."
	}
	return s
}
