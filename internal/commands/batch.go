package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dkb2homebank/dkb2homebank/internal/importer"
)

func newBatchCommand(opts *rootOptions) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "batch [directory]",
		Short: "Convert every DKB export in a directory",
		Long: `Convert every *.csv file in a directory, detecting each file's format.

Each input <name>.csv is written to <name>-homebank.csv, next to the input
unless --output-dir is given. Files that fail are reported and skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if err := opts.load(cmd); err != nil {
				return err
			}
			conv, err := opts.converter()
			if err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = dir
			}
			return runBatch(cmd, opts, conv, dir, outputDir)
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for converted files (default: the input directory)")

	return cmd
}

func runBatch(cmd *cobra.Command, opts *rootOptions, conv *importer.Converter, dir, outputDir string) error {
	files, err := importer.Scan(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No CSV files in %s\n", dir)
		return nil
	}

	var failed int
	for _, fi := range files {
		out := filepath.Join(outputDir, fi.OutputName())
		opts.log.Debug().Str("file", fi.Name).Int64("size", fi.Size).Str("output", out).Msg("converting")
		if err := convertFile(conv, fi.Path, out); err != nil {
			opts.log.Error().Err(err).Str("file", fi.Name).Msg("skipping file")
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", fi.Name, out)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func convertFile(conv *importer.Converter, path, out string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	_, err = conv.ConvertAuto(f, out)
	return err
}
