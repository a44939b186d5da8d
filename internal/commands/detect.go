package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newDetectCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>...",
		Short: "Print the export format of DKB CSV files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			conv, err := opts.converter()
			if err != nil {
				return err
			}

			var failed int
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					opts.log.Error().Err(err).Str("file", path).Msg("opening input")
					failed++
					continue
				}
				format, err := conv.DetectFormat(f)
				f.Close()
				if err != nil {
					opts.log.Error().Err(err).Str("file", path).Msg("detection failed")
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, format)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files not recognized", failed, len(args))
			}
			return nil
		},
	}
}
