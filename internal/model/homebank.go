package model

// PayMode is the Homebank payment type code.
type PayMode int

const (
	PayModeCreditCard PayMode = 1
	PayModeElectronic PayMode = 8
)

// HomebankRecord is one row of a Homebank CSV import file.
// All eight columns are always written, unset ones as empty strings.
type HomebankRecord struct {
	Date     string // DD-MM-YYYY
	PayMode  PayMode
	Info     string
	Payee    string
	Memo     string
	Amount   string // copied verbatim from the export
	Category string
	Tags     string
}
