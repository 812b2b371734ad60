package common

import (
	"github.com/urfave/cli/v2"

	"github.com/local/pdftools/internal/config"
)

// MetaConfig is the app metadata key holding the loaded config.Config.
const MetaConfig = "config"

const (
	paramOutput = "output"
)

func flagOutput() cli.Flag {
	return &cli.StringFlag{
		Name:    paramOutput,
		Aliases: []string{"o"},
		Usage:   "Output file ('-' for stdout, derived from the input name when empty)",
	}
}

func WithCommonFlags(flags ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		flagOutput(),
	}, flags...)
}

// Config returns the configuration loaded by the app's Before hook.
func Config(cCtx *cli.Context) config.Config {
	if cfg, ok := cCtx.App.Metadata[MetaConfig].(config.Config); ok {
		return cfg
	}
	return config.Config{}
}
