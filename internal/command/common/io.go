package common

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/local/pdftools/internal/pdfedit"
	"github.com/local/pdftools/internal/source"
)

// Stdout is the output name that writes to standard output.
const Stdout = "-"

func resolver(cCtx *cli.Context) *source.Resolver {
	opts := source.OptionsFrom(Config(cCtx))
	opts.Stdin = cCtx.App.Reader
	return source.New(opts)
}

// FetchOne resolves the single positional argument of a command.
func FetchOne(cCtx *cli.Context) (*source.Source, error) {
	if n := cCtx.NArg(); n != 1 {
		return nil, errors.Errorf("expected exactly one source, got %d", n)
	}
	src, err := resolver(cCtx).Fetch(cCtx.Context, cCtx.Args().First())
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return src, nil
}

// FetchAll resolves every positional argument, requiring at least min of them.
func FetchAll(cCtx *cli.Context, min int) ([]*source.Source, error) {
	if n := cCtx.NArg(); n < min {
		return nil, errors.Errorf("expected at least %d sources, got %d", min, n)
	}
	srcs, err := resolver(cCtx).FetchAll(cCtx.Context, cCtx.Args().Slice())
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return srcs, nil
}

// Data returns the buffers of srcs, in order.
func Data(srcs []*source.Source) [][]byte {
	data := make([][]byte, len(srcs))
	for i, s := range srcs {
		data[i] = s.Data
	}
	return data
}

// OutputPath returns the --output value, or def when it is empty.
func OutputPath(cCtx *cli.Context, def string) string {
	if out := cCtx.String(paramOutput); out != "" {
		return out
	}
	return def
}

// WriteResult writes the result of op on input to --output, or to a name
// derived from input when no output is given.
func WriteResult(cCtx *cli.Context, op, input string, data []byte) error {
	return Write(cCtx, OutputPath(cCtx, pdfedit.OutputName(op, input)), data)
}

// Write stores data at path, or on the app's writer for Stdout.
func Write(cCtx *cli.Context, path string, data []byte) error {
	if path == Stdout {
		if _, err := cCtx.App.Writer.Write(data); err != nil {
			return errors.Wrap(err, "could not write to stdout")
		}
		return nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "could not write '%s'", path)
	}

	log.Info().Str("path", path).Int("bytes", len(data)).Msg("output written")
	fmt.Fprintf(cCtx.App.ErrWriter, "wrote %s (%s)\n", path, humanize.Bytes(uint64(len(data))))
	return nil
}
