package command

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/local/pdftools/internal/command/common"
	"github.com/local/pdftools/internal/config"
	"github.com/local/pdftools/internal/logger"
	"github.com/local/pdftools/internal/metrics"
	"github.com/local/pdftools/internal/pdfedit"
)

// Version is set at build time with -ldflags "-X ...command.Version=...".
var Version = "dev"

func Main(name string, usage string, commands ...*cli.Command) {
	app := NewApp(name, usage, commands...)
	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

// NewApp builds the command tree. Standard streams can be replaced on the
// returned app before running it.
func NewApp(name string, usage string, commands ...*cli.Command) *cli.App {
	app := &cli.App{
		Name:                      name,
		Usage:                     usage,
		Commands:                  commands,
		Version:                   Version,
		Reader:                    os.Stdin,
		Writer:                    os.Stdout,
		ErrWriter:                 os.Stderr,
		Metadata:                  map[string]interface{}{},
		DisableSliceFlagSeparator: true,
		Before: func(ctx *cli.Context) error {
			cfg, err := config.Load(ctx.StringSlice("env-file")...)
			if err != nil {
				return errors.Wrap(err, "could not load configuration")
			}

			if ctx.IsSet("log-level") {
				cfg.Logging.Level = ctx.String("log-level")
			}
			if ctx.Bool("debug") {
				cfg.Logging.Level = "debug"
			}

			opts := logger.OptionsFrom(cfg)
			opts.Console = ctx.App.ErrWriter
			if err := logger.Init(opts); err != nil {
				return errors.Wrap(err, "could not initialize logger")
			}

			ctx.App.Metadata[common.MetaConfig] = cfg
			return nil
		},
		After: func(ctx *cli.Context) error {
			defer logger.Close()

			cfg := common.Config(ctx)
			if cfg.MetricsFile == "" {
				return nil
			}
			if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
				return errors.Wrapf(err, "could not write metrics to '%s'", cfg.MetricsFile)
			}
			return nil
		},
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "env-file",
				EnvVars: []string{"PDFTOOLS_ENV_FILE"},
				Usage:   "dotenv file(s) to load, .env is tried when none is given",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Value:   false,
				EnvVars: []string{"PDFTOOLS_DEBUG"},
				Usage:   "Toggle debug mode",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Set logging level, overrides LOG_LEVEL",
			},
		},
	}

	app.ExitErrHandler = func(ctx *cli.Context, err error) {
		if err == nil {
			return
		}

		msg := err.Error()
		if ctx.Bool("debug") {
			msg = fmt.Sprintf("%+v", err)
		}

		log.Debug().Str("kind", pdfedit.Kind(err)).Msg(msg)
		writeError(ctx.App.ErrWriter, ctx.App.Name, pdfedit.Kind(err), msg)
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))

	return app
}

func writeError(w io.Writer, name, kind, msg string) {
	if kind == "error" {
		fmt.Fprintf(w, "%s: %s\n", name, msg)
		return
	}
	fmt.Fprintf(w, "%s: %s (%s)\n", name, msg, kind)
}
