package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a German-locale amount such as "-1.234,56" or
// "12,50 €". It is only used for run statistics; output rows carry the
// original text.
func ParseAmount(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimSuffix(v, "€")
	v = strings.TrimSuffix(v, "EUR")
	v = strings.ReplaceAll(v, "\u00a0", "")
	v = strings.ReplaceAll(v, " ", "")
	v = strings.TrimPrefix(v, "+")
	v = strings.ReplaceAll(v, ".", "")
	v = strings.Replace(v, ",", ".", 1)
	return decimal.NewFromString(v)
}
