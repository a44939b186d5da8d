package model

import (
	"fmt"
	"strings"
)

// Format identifies one of the DKB export layouts.
type Format int

const (
	FormatUnknown Format = iota
	// FormatCash is the DKB Cash export with a "Kontonummer:" banner.
	FormatCash
	// FormatOldCard is the Visa export used until 2023, "Kreditkarte:" banner.
	FormatOldCard
	// FormatNewCard is the Visa export used since 2023, "Karte" banner.
	FormatNewCard
	// FormatCurrentAccount is the Girokonto export used since 2023, "Konto" banner.
	FormatCurrentAccount
)

// Formats lists every known format in classification order.
var Formats = []Format{FormatCash, FormatOldCard, FormatNewCard, FormatCurrentAccount}

var formatNames = map[Format]string{
	FormatCash:           "cash",
	FormatOldCard:        "old-visa",
	FormatNewCard:        "new-visa",
	FormatCurrentAccount: "giro",
}

// String returns the CLI name of the format.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat resolves a CLI name ("cash", "old-visa", "new-visa", "giro").
func ParseFormat(name string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for f, n := range formatNames {
		if n == key {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unknown format %q", name)
}
