package importer

import (
	"fmt"

	"github.com/dkb2homebank/dkb2homebank/internal/model"
)

// Schema maps the column names of one export format to their positions.
type Schema struct {
	index map[string]int
}

// NewSchema builds a Schema. Panics on duplicate names.
func NewSchema(fields ...string) *Schema {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, ok := index[f]; ok {
			panic("duplicate schema field: " + f)
		}
		index[f] = i
	}
	return &Schema{index: index}
}

// RawRecord is one parsed export row, positionally aligned to a Schema.
type RawRecord struct {
	schema *Schema
	fields []string
}

// NewRawRecord aligns fields to schema.
func NewRawRecord(schema *Schema, fields []string) RawRecord {
	return RawRecord{schema: schema, fields: fields}
}

// Get returns the named field, or "" if the row is too short to carry it.
// Fields beyond the schema are ignored.
func (r RawRecord) Get(name string) string {
	i, ok := r.schema.index[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

// Has reports whether the row carries the named field.
func (r RawRecord) Has(name string) bool {
	i, ok := r.schema.index[name]
	return ok && i < len(r.fields)
}

var (
	cashSchema = NewSchema(
		"buchungstag",
		"wertstellung",
		"buchungstext",
		"beguenstigter",
		"verwendungszweck",
		"kontonummer",
		"blz",
		"betrag",
		"glaeubigerID",
		"mandatsreferenz",
		"kundenreferenz",
	)

	oldCardSchema = NewSchema(
		"abgerechnet",
		"wertstellung",
		"belegdatum",
		"umsatzbeschreibung",
		"betrag",
		"urspruenglicherBetrag",
	)

	newCardSchema = NewSchema(
		"belegdatum",
		"wertstellung",
		"status",
		"beschreibung",
		"umsatztyp",
		"betrag",
		"fremdwaehrungsbetrag",
	)

	currentAccountSchema = NewSchema(
		"buchungsdatum",
		"wertstellung",
		"status",
		"zahlungspflichtige",
		"zahlungsempfaenger",
		"verwendungszweck",
		"umsatztyp",
		"iban",
		"betrag",
		"glaeubigerID",
		"mandatsreferenz",
		"kundenreferenz",
	)
)

// Mapping describes how one export format projects onto a Homebank row.
type Mapping struct {
	Format      model.Format
	Schema      *Schema
	DateField   string
	DateLayout  string
	PayMode     model.PayMode
	PayeeField  string // empty: the format has no payee column
	MemoField   string
	AmountField string
	OutputName  string // default output file name
}

var mappings = map[model.Format]Mapping{
	model.FormatCash: {
		Format:      model.FormatCash,
		Schema:      cashSchema,
		DateField:   "buchungstag",
		DateLayout:  LayoutLongYear,
		PayMode:     model.PayModeElectronic,
		PayeeField:  "beguenstigter",
		MemoField:   "verwendungszweck",
		AmountField: "betrag",
		OutputName:  "cashHomebank.csv",
	},
	model.FormatOldCard: {
		Format:      model.FormatOldCard,
		Schema:      oldCardSchema,
		DateField:   "wertstellung",
		DateLayout:  LayoutLongYear,
		PayMode:     model.PayModeCreditCard,
		MemoField:   "umsatzbeschreibung",
		AmountField: "betrag",
		OutputName:  "visaHomebank.csv",
	},
	model.FormatNewCard: {
		Format:      model.FormatNewCard,
		Schema:      newCardSchema,
		DateField:   "wertstellung",
		DateLayout:  LayoutLongYear,
		PayMode:     model.PayModeCreditCard,
		MemoField:   "beschreibung",
		AmountField: "betrag",
		OutputName:  "visaHomebank.csv",
	},
	model.FormatCurrentAccount: {
		Format:      model.FormatCurrentAccount,
		Schema:      currentAccountSchema,
		DateField:   "buchungsdatum",
		DateLayout:  LayoutShortYear,
		PayMode:     model.PayModeElectronic,
		PayeeField:  "zahlungsempfaenger",
		MemoField:   "verwendungszweck",
		AmountField: "betrag",
		OutputName:  "giroHomebank.csv",
	},
}

// MappingFor returns the mapping of a known format.
func MappingFor(f model.Format) (Mapping, error) {
	m, ok := mappings[f]
	if !ok {
		return Mapping{}, fmt.Errorf("%w: no mapping for %s", ErrUnrecognizedFormat, f)
	}
	return m, nil
}

// Map projects raw onto a Homebank row. Only the date is transformed;
// payee, memo and amount are copied as they are.
func (m Mapping) Map(raw RawRecord) (model.HomebankRecord, error) {
	if !raw.Has(m.DateField) {
		return model.HomebankRecord{}, fmt.Errorf("%w: missing %s column", ErrInvalidDate, m.DateField)
	}
	date, err := NormalizeDate(raw.Get(m.DateField), m.DateLayout)
	if err != nil {
		return model.HomebankRecord{}, fmt.Errorf("%s: %w", m.DateField, err)
	}

	rec := model.HomebankRecord{
		Date:    date,
		PayMode: m.PayMode,
		Memo:    raw.Get(m.MemoField),
		Amount:  raw.Get(m.AmountField),
	}
	if m.PayeeField != "" {
		rec.Payee = raw.Get(m.PayeeField)
	}
	return rec, nil
}

// MapFields aligns fields to the mapping's schema and maps them.
func (m Mapping) MapFields(fields []string) (model.HomebankRecord, error) {
	return m.Map(NewRawRecord(m.Schema, fields))
}
