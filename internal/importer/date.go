package importer

import (
	"errors"
	"fmt"
	"time"
)

// Date layouts found in DKB exports.
const (
	LayoutLongYear  = "02.01.2006"
	LayoutShortYear = "02.01.06"
)

const homebankDateLayout = "02-01-2006"

// ErrInvalidDate is returned when a date field does not match its layout.
var ErrInvalidDate = errors.New("invalid date")

// NormalizeDate reformats value from layout to DD-MM-YYYY. Two-digit years
// use the time package window: 69-99 map to 19xx, 00-68 to 20xx.
func NormalizeDate(value, layout string) (string, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return "", fmt.Errorf("%w: %q does not match %s", ErrInvalidDate, value, layout)
	}
	return t.Format(homebankDateLayout), nil
}
