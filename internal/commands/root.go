package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dkb2homebank/dkb2homebank/internal/buildinfo"
	"github.com/dkb2homebank/dkb2homebank/internal/config"
	"github.com/dkb2homebank/dkb2homebank/internal/importer"
	"github.com/dkb2homebank/dkb2homebank/internal/logging"
)

// rootOptions holds the persistent flags and the state loaded from them.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log zerolog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "dkb2homebank",
		Short:   "Convert DKB online banking CSV exports to Homebank CSV",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.DefaultFile, "config file")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (overrides log.level)")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format, console or json (overrides log.format)")

	rootCmd.AddCommand(newConvertCommand(opts))
	rootCmd.AddCommand(newDetectCommand(opts))
	rootCmd.AddCommand(newBatchCommand(opts))
	rootCmd.AddCommand(newInitConfigCommand())

	return rootCmd
}

// load reads the config file and builds the logger. An explicit --config
// must exist; the default file is optional.
func (o *rootOptions) load(cmd *cobra.Command) error {
	var err error
	if cmd.Flags().Changed("config") {
		o.cfg, err = config.Load(o.configPath)
	} else {
		o.cfg, err = config.LoadOrDefault(o.configPath)
	}
	if err != nil {
		return err
	}

	if o.logLevel != "" {
		o.cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		o.cfg.Log.Format = o.logFormat
	}
	if err := o.cfg.Validate(); err != nil {
		return err
	}
	o.log = logging.New(logging.Options{
		Level:  o.cfg.Log.Level,
		Format: o.cfg.Log.Format,
		Writer: cmd.ErrOrStderr(),
	})
	return nil
}

func (o *rootOptions) converter() (*importer.Converter, error) {
	delim, err := o.cfg.OutputDelimiter()
	if err != nil {
		return nil, err
	}
	return &importer.Converter{
		Log:        o.log,
		Charset:    o.cfg.Input.Encoding,
		SampleSize: o.cfg.Input.SniffBytes,
		Delimiter:  delim,
	}, nil
}
