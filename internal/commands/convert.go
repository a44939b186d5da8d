package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dkb2homebank/dkb2homebank/internal/importer"
	"github.com/dkb2homebank/dkb2homebank/internal/model"
)

// errNotCard is returned when --visa is given a file that is not a card export.
var errNotCard = errors.New("not a DKB Visa export")

var formatLabels = map[model.Format]string{
	model.FormatCash:           "DKB Cash",
	model.FormatOldCard:        "DKB Visa",
	model.FormatNewCard:        "DKB Visa",
	model.FormatCurrentAccount: "DKB Giro",
}

func newConvertCommand(opts *rootOptions) *cobra.Command {
	var (
		formatName string
		outputFile string
		cash       bool
		visa       bool
		giro       bool
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a DKB export to a Homebank CSV file",
		Long: `Convert a DKB export to a Homebank CSV file.

The export format is detected from the first line unless --format or one of
the shorthand flags is given. Without --output-file the result is written to
cashHomebank.csv, visaHomebank.csv or giroHomebank.csv in output.dir.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			conv, err := opts.converter()
			if err != nil {
				return err
			}

			sel := formatSelection{name: formatName, visa: visa}
			switch {
			case cash:
				sel.name = model.FormatCash.String()
			case giro:
				sel.name = model.FormatCurrentAccount.String()
			}

			res, err := runConvert(conv, args[0], sel, outputFile, opts.cfg.Output.Dir)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&formatName, "format", "auto", "export format: auto, cash, old-visa, new-visa or giro")
	f.StringVarP(&outputFile, "output-file", "o", "", "output file (default depends on the format)")
	f.BoolVarP(&cash, "cash", "c", false, "convert a DKB Cash export")
	f.BoolVarP(&visa, "visa", "v", false, "convert a DKB Visa export, old or new layout")
	f.BoolVarP(&giro, "giro", "g", false, "convert a DKB Girokonto export")
	cmd.MarkFlagsMutuallyExclusive("format", "cash", "visa", "giro")

	return cmd
}

// formatSelection is the format requested on the command line. visa accepts
// either card layout.
type formatSelection struct {
	name string
	visa bool
}

func runConvert(conv *importer.Converter, path string, sel formatSelection, outputFile, outputDir string) (importer.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return importer.Result{}, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	format, err := resolveFormat(conv, f, sel)
	if err != nil {
		return importer.Result{}, fmt.Errorf("%s: %w", path, err)
	}
	m, err := importer.MappingFor(format)
	if err != nil {
		return importer.Result{}, err
	}

	out := outputFile
	if out == "" {
		out = filepath.Join(outputDir, m.OutputName)
	}
	res, err := conv.Convert(format, f, out)
	if err != nil {
		return importer.Result{}, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func resolveFormat(conv *importer.Converter, f io.ReadSeeker, sel formatSelection) (model.Format, error) {
	if sel.visa {
		format, err := conv.DetectFormat(f)
		if err != nil {
			return model.FormatUnknown, err
		}
		if format != model.FormatOldCard && format != model.FormatNewCard {
			return model.FormatUnknown, fmt.Errorf("%w: detected %s", errNotCard, format)
		}
		return format, nil
	}
	if sel.name == "" || sel.name == "auto" {
		return conv.DetectFormat(f)
	}
	return model.ParseFormat(sel.name)
}

func printResult(w io.Writer, res importer.Result) {
	fmt.Fprintf(w, "%s file converted (%d rows). Output file: '%s'\n", formatLabels[res.Format], res.Rows, res.Output)
}
