package dialect

import (
	"errors"
	"strings"
)

// ErrAmbiguous is returned when no candidate delimiter stands out.
var ErrAmbiguous = errors.New("dialect: could not determine delimiter")

// DefaultSampleSize is the number of leading bytes inspected by callers.
const DefaultSampleSize = 1024

// candidates in order of preference when scores tie.
var candidates = []rune{';', ',', '\t', '|', ':'}

// minConsistency is the share of sample lines that must agree on a field
// count before the consistency pass accepts a delimiter.
const minConsistency = 0.9

const quote = '"'

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Sniff infers the dialect of sample. It first looks for delimiters that
// sit between quoted fields; failing that it picks the delimiter giving the
// most consistent field count per line.
func Sniff(sample []byte) (Dialect, error) {
	text := string(sample)
	lines := completeLines(text)
	if len(lines) == 0 {
		return Dialect{}, ErrAmbiguous
	}

	term := "\n"
	switch {
	case strings.Contains(text, "\r\n"):
		term = "\r\n"
	case strings.Contains(text, "\r"):
		term = "\r"
	}

	if delim, ok := byQuotedFields(text); ok {
		return Dialect{
			Delimiter:      delim,
			Quote:          quote,
			Quoting:        quotingOf(lines, delim),
			LineTerminator: term,
		}, nil
	}

	if delim, ok := byConsistency(lines); ok {
		return Dialect{
			Delimiter:      delim,
			Quote:          quote,
			Quoting:        quotingOf(lines, delim),
			LineTerminator: term,
		}, nil
	}

	return Dialect{}, ErrAmbiguous
}

// SniffOrDefault is Sniff with a fallback to Default. The error reports why
// the fallback was taken; the returned Dialect is always usable.
func SniffOrDefault(sample []byte) (Dialect, error) {
	d, err := Sniff(sample)
	if err != nil {
		return Default(), err
	}
	return d, nil
}

// completeLines splits text into non-blank lines. The sample is usually a
// truncated prefix, so an unterminated last line is dropped unless it is
// the only one.
func completeLines(text string) []string {
	text = newlines.Replace(text)
	raw := strings.Split(text, "\n")
	if len(raw) > 1 && !strings.HasSuffix(text, "\n") {
		raw = raw[:len(raw)-1]
	}
	var lines []string
	for _, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// byQuotedFields counts `"<d>"` sequences per candidate. A unique maximum wins.
func byQuotedFields(text string) (rune, bool) {
	var best rune
	bestCount, ties := 0, 0
	for _, c := range candidates {
		n := strings.Count(text, string(quote)+string(c)+string(quote))
		switch {
		case n > bestCount:
			best, bestCount, ties = c, n, 0
		case n == bestCount && n > 0:
			ties++
		}
	}
	return best, bestCount > 0 && ties == 0
}

// byConsistency returns the candidate whose modal per-line field count
// covers the largest share of lines.
func byConsistency(lines []string) (rune, bool) {
	var best rune
	bestScore := 0.0
	for _, c := range candidates {
		freq := make(map[int]int)
		for _, l := range lines {
			freq[countOutsideQuotes(l, c)]++
		}
		modeCount, modeFreq := 0, 0
		for count, f := range freq {
			if count == 0 {
				continue
			}
			if f > modeFreq || (f == modeFreq && count > modeCount) {
				modeCount, modeFreq = count, f
			}
		}
		if modeFreq == 0 {
			continue
		}
		score := float64(modeFreq) / float64(len(lines))
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, bestScore >= minConsistency
}

func countOutsideQuotes(line string, delim rune) int {
	n := 0
	inQuotes := false
	for _, r := range line {
		switch {
		case r == quote:
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			n++
		}
	}
	return n
}

// quotingOf reports QuoteAll when every line wraps every field in quotes.
func quotingOf(lines []string, delim rune) Quoting {
	sep := string(quote) + string(delim) + string(quote)
	for _, l := range lines {
		l = strings.TrimSuffix(l, string(delim))
		if len(l) < 2 || l[0] != quote || l[len(l)-1] != quote {
			return QuoteMinimal
		}
		if strings.Count(l, sep) != countOutsideQuotes(l, delim) {
			return QuoteMinimal
		}
	}
	return QuoteAll
}
