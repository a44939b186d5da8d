package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dkb2homebank/dkb2homebank/internal/charset"
	"github.com/dkb2homebank/dkb2homebank/internal/dialect"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "dkb2homebank.yaml"

// Config represents the top-level dkb2homebank.yaml configuration.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// InputConfig controls how exports are read.
type InputConfig struct {
	Encoding   string `yaml:"encoding" validate:"charset"` // auto, utf-8, iso-8859-1, windows-1252
	SniffBytes int    `yaml:"sniff_bytes" validate:"gte=0"`
}

// OutputConfig controls where and how Homebank files are written.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	Delimiter string `yaml:"delimiter" validate:"delimiter"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error disabled off none"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// Load reads a config file from disk. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Encoding:   charset.Auto,
			SniffBytes: dialect.DefaultSampleSize,
		},
		Output: OutputConfig{
			Dir:       ".",
			Delimiter: ";",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks values that would otherwise fail deep inside a conversion.
func (c *Config) Validate() error {
	err := validate().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "Config.<section>.<key>" with yaml names.
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %v (%s)", field, fe.Value(), describe(fe)))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// OutputDelimiter returns output.delimiter as a rune.
func (c *Config) OutputDelimiter() (rune, error) {
	r, ok := parseDelimiter(c.Output.Delimiter)
	if !ok {
		return 0, fmt.Errorf("output.delimiter: invalid separator %q", c.Output.Delimiter)
	}
	return r, nil
}

func parseDelimiter(d string) (rune, bool) {
	if d == `\t` || d == "tab" {
		return '\t', true
	}
	r, size := utf8.DecodeRuneInString(d)
	if size == 0 || size != len(d) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, false
	}
	return r, true
}

var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("charset", func(fl validator.FieldLevel) bool {
		_, err := charset.Decode(nil, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("delimiter", func(fl validator.FieldLevel) bool {
		_, ok := parseDelimiter(fl.Field().String())
		return ok
	})
	return v
})

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "charset":
		return "want auto, utf-8, iso-8859-1 or windows-1252"
	case "delimiter":
		return "want a single character other than a quote or newline"
	case "oneof":
		return "want one of " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
