// Package charset decodes DKB exports into UTF-8. Older exports are
// ISO-8859-1, newer ones are UTF-8 with a byte order mark.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Supported charset names.
const (
	Auto        = "auto"
	UTF8        = "utf-8"
	ISO88591    = "iso-8859-1"
	Windows1252 = "windows-1252"
)

// ErrUnknownCharset is returned for a charset name Decode does not support.
var ErrUnknownCharset = errors.New("unknown charset")

var bom = []byte{0xEF, 0xBB, 0xBF}

// Decode converts data from the named charset to UTF-8. With Auto, a
// leading BOM or valid UTF-8 selects UTF-8, anything else is read as
// ISO-8859-1.
func Decode(data []byte, name string) ([]byte, error) {
	enc, err := lookup(data, name)
	if err != nil {
		return nil, err
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return out, nil
}

// Detect reports which charset Auto would choose for data.
func Detect(data []byte) string {
	if bytes.HasPrefix(data, bom) || utf8.Valid(data) {
		return UTF8
	}
	return ISO88591
}

func lookup(data []byte, name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || key == Auto {
		key = Detect(data)
	}
	switch key {
	case UTF8, "utf8":
		// The UTF8BOM decoder drops a leading BOM and passes the rest through.
		return unicode.UTF8BOM, nil
	case ISO88591, "latin1", "latin-1":
		return charmap.ISO8859_1, nil
	case Windows1252, "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
	}
}
