package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"  nonsense ", zerolog.InfoLevel},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, parseLevel(c.in), "parseLevel(%q)", c.in)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Format: FormatJSON, Writer: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("format", "cash").Int("rows", 2).Msg("export converted")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "export converted", entry["message"])
	assert.Equal(t, "cash", entry["format"])
	assert.EqualValues(t, 2, entry["rows"])
	assert.Contains(t, entry, "time")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: FormatConsole, Writer: &buf})

	log.Debug().Str("file", "cash.csv").Msg("sniffed dialect")

	out := buf.String()
	assert.Contains(t, out, "sniffed dialect")
	assert.Contains(t, out, "file=")
	assert.Contains(t, out, "cash.csv")
	assert.NotContains(t, out, "{")
}

func TestNew_Disabled(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "off", Format: FormatJSON, Writer: &buf})

	log.Error().Msg("nope")
	assert.Empty(t, buf.String())
}
