package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkb2homebank/dkb2homebank/internal/dialect"
	"github.com/dkb2homebank/dkb2homebank/internal/model"
)

func testdata(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func openFixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open(testdata(name))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func readExpected(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(testdata(filepath.Join("expected-output", name)))
	require.NoError(t, err)
	return string(data)
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestConvertCash(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cashHomebank.csv")

	res, err := ConvertCash(openFixture(t, "cash.csv"), out)
	require.NoError(t, err)

	assert.Equal(t, readExpected(t, "cashHomebank.csv"), readOutput(t, out))
	assert.Equal(t, model.FormatCash, res.Format)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, "2446.00", res.Total.StringFixed(2))
	assert.Zero(t, res.Unparsed)
	assert.Equal(t, ';', res.Dialect.Delimiter)
}

func TestConvertCash_BareCRLineEndings(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cashHomebank.csv")

	res, err := ConvertCash(openFixture(t, "cash_cr.csv"), out)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, readExpected(t, "cashHomebank.csv"), readOutput(t, out))

	res, err = ConvertAuto(openFixture(t, "cash_cr.csv"), out)
	require.NoError(t, err)
	assert.Equal(t, model.FormatCash, res.Format)
	assert.Equal(t, 2, res.Rows)
}

func TestConvertOldCard(t *testing.T) {
	out := filepath.Join(t.TempDir(), "visaHomebank.csv")

	res, err := ConvertOldCard(openFixture(t, "visa.csv"), out)
	require.NoError(t, err)

	assert.Equal(t, readExpected(t, "visaHomebank.csv"), readOutput(t, out))
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, "-60.00", res.Total.StringFixed(2))
}

func TestConvertOldCard_RangeBanner(t *testing.T) {
	out := filepath.Join(t.TempDir(), "visaHomebank.csv")

	lines, err := FindTransactionLines(openFixture(t, "visaRange.csv"))
	require.NoError(t, err)
	require.Len(t, lines, 3)

	res, err := ConvertAuto(openFixture(t, "visaRange.csv"), out)
	require.NoError(t, err)
	assert.Equal(t, model.FormatOldCard, res.Format)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, readExpected(t, "visaHomebank.csv"), readOutput(t, out))
}

func TestConvertNewCard(t *testing.T) {
	out := filepath.Join(t.TempDir(), "visaHomebank.csv")

	res, err := ConvertNewCard(openFixture(t, "visaNew.csv"), out)
	require.NoError(t, err)

	assert.Equal(t, readExpected(t, "visaNewHomebank.csv"), readOutput(t, out))
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, "-80.00", res.Total.StringFixed(2))
}

func TestConvertCurrentAccount(t *testing.T) {
	out := filepath.Join(t.TempDir(), "giroHomebank.csv")

	res, err := ConvertCurrentAccount(openFixture(t, "giro.csv"), out)
	require.NoError(t, err)

	assert.Equal(t, readExpected(t, "giroHomebank.csv"), readOutput(t, out))
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, "1250.00", res.Total.StringFixed(2))
}

func TestConvertAuto(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		format   model.Format
	}{
		{"cash.csv", "cashHomebank.csv", model.FormatCash},
		{"visa.csv", "visaHomebank.csv", model.FormatOldCard},
		{"visaNew.csv", "visaNewHomebank.csv", model.FormatNewCard},
		{"giro.csv", "giroHomebank.csv", model.FormatCurrentAccount},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.csv")
			res, err := ConvertAuto(openFixture(t, tt.input), out)
			require.NoError(t, err)
			assert.Equal(t, tt.format, res.Format)
			assert.Equal(t, readExpected(t, tt.expected), readOutput(t, out))
		})
	}
}

func TestConvertAuto_Unrecognized(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	_, err := ConvertAuto(openFixture(t, "unknown.csv"), out)
	assert.ErrorIs(t, err, ErrUnrecognizedFormat)
	assert.NoFileExists(t, out)
}

func TestConvert_CashEndToEnd(t *testing.T) {
	// 5 banner lines, 1 header line, 2 transactions.
	in := strings.Join([]string{
		`"Kontonummer:";"DE12345678901234567890 / Internet-Konto";`,
		`"Von:";"01.01.2023";`,
		`"Bis:";"31.01.2023";`,
		`"Kontostand vom 31.01.2023:";"10,00 EUR";`,
		`"Betrag in EUR";`,
		`"Buchungstag";"Wertstellung";"Buchungstext";"Auftraggeber / Begünstigter";"Verwendungszweck";"Kontonummer";"BLZ";"Betrag (EUR)";"Gläubiger-ID";"Mandatsreferenz";"Kundenreferenz";`,
		`"03.02.2023";"04.02.2023";"Lastschrift";"Bäckerei";"Brötchen";"DE1";"X";"-3,20";"";"";"";`,
		`"05.02.2023";"05.02.2023";"Gutschrift";"Erika";"Rückzahlung";"DE2";"Y";"13,20";"";"";"";`,
	}, "\r\n") + "\r\n"
	out := filepath.Join(t.TempDir(), "cashHomebank.csv")

	res, err := ConvertCash(strings.NewReader(in), out)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)

	lines := strings.Split(strings.TrimSuffix(readOutput(t, out), "\r\n"), "\r\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "03-02-2023;8;;Bäckerei;Brötchen;-3,20;;", lines[0])
	assert.Equal(t, "05-02-2023;8;;Erika;Rückzahlung;13,20;;", lines[1])
}

func TestConvert_EmptyFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cashHomebank.csv")

	_, err := ConvertCash(openFixture(t, "cash_empty.csv"), out)
	require.ErrorIs(t, err, ErrNoHeaderFound)
	assert.Contains(t, err.Error(), "without header line")
	assert.NoFileExists(t, out)

	_, err = ConvertAuto(strings.NewReader(""), out)
	require.ErrorIs(t, err, ErrNoHeaderFound)
	assert.NoFileExists(t, out)
}

func TestConvert_InvalidDateLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "cashHomebank.csv")

	_, err := ConvertCash(openFixture(t, "cash_bad_date.csv"), out)
	require.ErrorIs(t, err, ErrInvalidDate)
	assert.Contains(t, err.Error(), "line 8")
	assert.NoFileExists(t, out)

	// No temp file left behind either.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConvert_InvalidDateKeepsPreviousOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cashHomebank.csv")
	require.NoError(t, os.WriteFile(out, []byte("previous run\r\n"), 0o644))

	_, err := ConvertCash(openFixture(t, "cash_bad_date.csv"), out)
	require.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, "previous run\r\n", readOutput(t, out))
}

func TestConvert_Idempotent(t *testing.T) {
	out := filepath.Join(t.TempDir(), "giroHomebank.csv")

	_, err := ConvertCurrentAccount(openFixture(t, "giro.csv"), out)
	require.NoError(t, err)
	first := readOutput(t, out)

	_, err = ConvertCurrentAccount(openFixture(t, "giro.csv"), out)
	require.NoError(t, err)
	assert.Equal(t, first, readOutput(t, out))
}

func TestConvert_UnknownFormat(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	_, err := (&Converter{}).Convert(model.FormatUnknown, strings.NewReader(""), out)
	assert.ErrorIs(t, err, ErrUnrecognizedFormat)
}

func TestConvert_ExplicitFormatBypassesDetection(t *testing.T) {
	// A cash layout under a banner no classifier knows still converts
	// when the format is given.
	in := "\"Tagesgeld\";\"DE12\";\n\"Buchungstag\";\"Wertstellung\";\"Buchungstext\";\"Begünstigter\";\"Verwendungszweck\";\"Kontonummer\";\"BLZ\";\"Betrag (EUR)\"\n" +
		"\"01.03.2023\";\"01.03.2023\";\"Zinsen\";\"DKB\";\"Zinsen Q1\";\"\";\"\";\"0,42\"\n"
	out := filepath.Join(t.TempDir(), "out.csv")

	res, err := ConvertCash(strings.NewReader(in), out)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows)
	assert.Equal(t, "01-03-2023;8;;DKB;Zinsen Q1;0,42;;\r\n", readOutput(t, out))
}

func TestConverter_CommaOutputAndLogging(t *testing.T) {
	var logs bytes.Buffer
	c := &Converter{
		Log:       zerolog.New(&logs),
		Delimiter: ',',
	}
	out := filepath.Join(t.TempDir(), "out.csv")

	res, err := c.ConvertNewCard(openFixture(t, "visaNew.csv"), out)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, "30-01-2023,1,,,NETFLIX.COM,\"-12,99 €\",,\r\n16-01-2023,1,,,REWE Markt,\"-67,01 €\",,\r\n", readOutput(t, out))

	assert.Contains(t, logs.String(), `"run_id"`)
	assert.Contains(t, logs.String(), `"format":"new-visa"`)
	assert.Contains(t, logs.String(), `"rows":2`)
}

func TestConverter_UnparsedAmountsCounted(t *testing.T) {
	in := "\"Karte\";\"Visa\"\n\"Belegdatum\";\"Wertstellung\";\"Status\";\"Beschreibung\";\"Umsatztyp\";\"Betrag (€)\"\n" +
		"\"01.03.2023\";\"02.03.2023\";\"Gebucht\";\"A\";\"x\";\"n/a\"\n" +
		"\"01.03.2023\";\"02.03.2023\";\"Gebucht\";\"B\";\"x\";\"-1,00 €\"\n"
	out := filepath.Join(t.TempDir(), "out.csv")

	res, err := ConvertAuto(strings.NewReader(in), out)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, 1, res.Unparsed)
	assert.Equal(t, "-1.00", res.Total.StringFixed(2))
}

func TestConverter_SniffFallsBackToDefault(t *testing.T) {
	c := &Converter{SampleSize: 4}
	log := zerolog.Nop()
	d := c.sniff([]byte("\"Kon\";\"DE12\""), &log)
	assert.Equal(t, dialect.Default(), d)
}

func TestFindTransactionLines_Fixture(t *testing.T) {
	lines, err := FindTransactionLines(openFixture(t, "visa.csv"))
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], `"Nein";"20.01.2023"`))
	assert.Contains(t, lines[2], "Rücksendung")
}
