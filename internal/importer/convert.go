package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dkb2homebank/dkb2homebank/internal/charset"
	"github.com/dkb2homebank/dkb2homebank/internal/dialect"
	"github.com/dkb2homebank/dkb2homebank/internal/homebank"
	"github.com/dkb2homebank/dkb2homebank/internal/model"
)

// Converter turns DKB exports into Homebank import files.
// The zero value detects the input charset, sniffs the first
// dialect.DefaultSampleSize bytes, writes ';'-separated output and logs nothing.
type Converter struct {
	Log        zerolog.Logger
	Charset    string // see package charset; "" means auto
	SampleSize int
	Delimiter  rune // output field separator
}

var defaultConverter = &Converter{}

// Result summarizes one conversion.
type Result struct {
	Format  model.Format
	Dialect dialect.Dialect
	Output  string
	Rows    int
	// Total is the sum of all amounts that parse as German-locale numbers.
	// Unparsed counts the ones that did not. Neither affects the output.
	Total    decimal.Decimal
	Unparsed int
}

// ConvertCash converts a DKB Cash export.
func (c *Converter) ConvertCash(input io.Reader, outputPath string) (Result, error) {
	return c.Convert(model.FormatCash, input, outputPath)
}

// ConvertOldCard converts a Visa export in the pre-2023 layout.
func (c *Converter) ConvertOldCard(input io.Reader, outputPath string) (Result, error) {
	return c.Convert(model.FormatOldCard, input, outputPath)
}

// ConvertNewCard converts a Visa export in the current layout.
func (c *Converter) ConvertNewCard(input io.Reader, outputPath string) (Result, error) {
	return c.Convert(model.FormatNewCard, input, outputPath)
}

// ConvertCurrentAccount converts a Girokonto export.
func (c *Converter) ConvertCurrentAccount(input io.Reader, outputPath string) (Result, error) {
	return c.Convert(model.FormatCurrentAccount, input, outputPath)
}

// Convert converts input as the given format, skipping detection.
func (c *Converter) Convert(format model.Format, input io.Reader, outputPath string) (Result, error) {
	if _, err := MappingFor(format); err != nil {
		return Result{}, err
	}
	return c.run(format, input, outputPath)
}

// ConvertAuto classifies input by its first line, then converts it.
func (c *Converter) ConvertAuto(input io.Reader, outputPath string) (Result, error) {
	return c.run(model.FormatUnknown, input, outputPath)
}

func (c *Converter) run(format model.Format, input io.Reader, outputPath string) (Result, error) {
	log := c.Log.With().Str("run_id", uuid.NewString()).Str("output", outputPath).Logger()

	raw, err := io.ReadAll(input)
	if err != nil {
		return Result{}, fmt.Errorf("reading input: %w", err)
	}
	data, err := charset.Decode(raw, c.Charset)
	if err != nil {
		return Result{}, err
	}

	d := c.sniff(data, &log)

	lines := splitLines(string(data))
	txLines, err := TransactionLines(lines)
	if err != nil {
		return Result{}, err
	}
	headerLine := len(lines) - len(txLines)

	if format == model.FormatUnknown {
		format, err = Classify(lines[0])
		if err != nil {
			return Result{}, err
		}
		log.Debug().Stringer("format", format).Msg("detected export format")
	}
	m, err := MappingFor(format)
	if err != nil {
		return Result{}, err
	}

	res := Result{Format: format, Dialect: d, Output: outputPath, Total: decimal.Zero}
	err = writeAtomic(outputPath, func(w io.Writer) error {
		return c.mapRows(m, d, txLines, headerLine, w, &res, &log)
	})
	if err != nil {
		log.Error().Err(err).Stringer("format", format).Msg("conversion failed")
		return Result{}, err
	}

	log.Info().
		Stringer("format", format).
		Int("rows", res.Rows).
		Str("total", res.Total.StringFixed(2)).
		Msg("export converted")
	return res, nil
}

// mapRows parses lines under d and writes one Homebank row per transaction.
// offset is the 1-based file line of the column header.
func (c *Converter) mapRows(m Mapping, d dialect.Dialect, lines []string, offset int, w io.Writer, res *Result, log *zerolog.Logger) error {
	cr := d.Reader(strings.NewReader(strings.Join(lines, "\n")))
	hw := homebank.NewWriter(w, c.delimiter())

	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("parsing transactions: %w", err)
		}
		line, _ := cr.FieldPos(0)

		rec, err := m.MapFields(fields)
		if err != nil {
			return fmt.Errorf("line %d: %w", offset+line, err)
		}
		if err := hw.Write(rec); err != nil {
			return err
		}
		res.Rows = hw.Rows()

		amount, err := ParseAmount(rec.Amount)
		if err != nil {
			res.Unparsed++
			log.Debug().Int("line", offset+line).Str("amount", rec.Amount).Msg("amount not counted in total")
			continue
		}
		res.Total = res.Total.Add(amount)
	}
	return hw.Flush()
}

func (c *Converter) sniff(data []byte, log *zerolog.Logger) dialect.Dialect {
	size := c.SampleSize
	if size <= 0 {
		size = dialect.DefaultSampleSize
	}
	sample := data[:min(size, len(data))]

	d, err := dialect.SniffOrDefault(sample)
	if err != nil {
		log.Debug().Err(err).Msg("using default dialect")
		return d
	}
	log.Debug().Str("delimiter", string(d.Delimiter)).Stringer("quoting", d.Quoting).Msg("sniffed dialect")
	return d
}

func (c *Converter) delimiter() rune {
	if c.Delimiter == 0 {
		return homebank.DefaultDelimiter
	}
	return c.Delimiter
}

// ConvertCash converts a DKB Cash export with the default Converter.
func ConvertCash(input io.Reader, outputPath string) (Result, error) {
	return defaultConverter.ConvertCash(input, outputPath)
}

// ConvertOldCard converts a pre-2023 Visa export with the default Converter.
func ConvertOldCard(input io.Reader, outputPath string) (Result, error) {
	return defaultConverter.ConvertOldCard(input, outputPath)
}

// ConvertNewCard converts a current Visa export with the default Converter.
func ConvertNewCard(input io.Reader, outputPath string) (Result, error) {
	return defaultConverter.ConvertNewCard(input, outputPath)
}

// ConvertCurrentAccount converts a Girokonto export with the default Converter.
func ConvertCurrentAccount(input io.Reader, outputPath string) (Result, error) {
	return defaultConverter.ConvertCurrentAccount(input, outputPath)
}

// ConvertAuto detects the format and converts with the default Converter.
func ConvertAuto(input io.Reader, outputPath string) (Result, error) {
	return defaultConverter.ConvertAuto(input, outputPath)
}
