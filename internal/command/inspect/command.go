// Package inspect holds the read-only commands.
package inspect

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/local/pdftools/internal/command/common"
	"github.com/local/pdftools/internal/pdfedit"
	"github.com/local/pdftools/internal/thumbnail"
)

const (
	flagPage    = "page"
	flagDPI     = "dpi"
	flagQuality = "quality"
	flagGray    = "gray"
	flagDataURL = "data-url"
)

func PagesCommand() *cli.Command {
	return &cli.Command{
		Name:      "pages",
		Usage:     "Print the page count and size of PDF files",
		ArgsUsage: "SRC...",
		Action: func(cCtx *cli.Context) error {
			srcs, err := common.FetchAll(cCtx, 1)
			if err != nil {
				return errors.WithStack(err)
			}

			editor := pdfedit.New()
			tw := tabwriter.NewWriter(cCtx.App.Writer, 0, 4, 2, ' ', 0)
			for _, src := range srcs {
				n, err := editor.PageCount(src.Data)
				if err != nil {
					return errors.Wrapf(err, "could not read '%s'", src.Ref)
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\n", src.Name, n, pdfedit.FormatFileSize(int64(len(src.Data))))
			}
			return errors.WithStack(tw.Flush())
		},
	}
}

func ThumbnailCommand() *cli.Command {
	return &cli.Command{
		Name:      "thumbnail",
		Usage:     "Render a page of a PDF file as JPEG",
		ArgsUsage: "SRC",
		Flags: common.WithCommonFlags(
			&cli.IntFlag{
				Name:  flagPage,
				Value: 1,
				Usage: "Page to render",
			},
			&cli.IntFlag{
				Name:  flagDPI,
				Usage: "Resolution, PDFTOOLS_THUMBNAIL_DPI when unset",
			},
			&cli.IntFlag{
				Name:  flagQuality,
				Usage: "JPEG quality 1-100, PDFTOOLS_THUMBNAIL_QUALITY when unset",
			},
			&cli.BoolFlag{
				Name:  flagGray,
				Usage: "Render in grayscale",
			},
			&cli.BoolFlag{
				Name:  flagDataURL,
				Usage: "Print a data: URL instead of writing a file",
			},
		),
		Action: func(cCtx *cli.Context) error {
			src, err := common.FetchOne(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			opts := renderOptions(cCtx)
			page := cCtx.Int(flagPage)
			img, err := thumbnail.Render(src.Data, page-1, opts)
			if err != nil {
				return errors.Wrapf(err, "could not render page %d", page)
			}

			if cCtx.Bool(flagDataURL) {
				_, err := fmt.Fprintln(cCtx.App.Writer, img.DataURL())
				return errors.WithStack(err)
			}

			return common.Write(cCtx, common.OutputPath(cCtx, ThumbnailName(src.Name, page)), img.JPEG)
		},
	}
}

func renderOptions(cCtx *cli.Context) thumbnail.Options {
	cfg := common.Config(cCtx).Thumbnail
	opts := thumbnail.Options{DPI: cfg.DPI, Quality: cfg.Quality, Gray: cfg.Gray}
	if cCtx.IsSet(flagDPI) {
		opts.DPI = cCtx.Int(flagDPI)
	}
	if cCtx.IsSet(flagQuality) {
		opts.Quality = cCtx.Int(flagQuality)
	}
	if cCtx.IsSet(flagGray) {
		opts.Gray = cCtx.Bool(flagGray)
	}
	return opts
}

// ThumbnailName derives the image name for a page of input.
func ThumbnailName(input string, page int) string {
	base := filepath.Base(input)
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".pdf") {
		base = strings.TrimSuffix(base, ext)
	}
	return fmt.Sprintf("%s_page%d.jpg", base, page)
}

// Commands returns every inspection command.
func Commands() []*cli.Command {
	return []*cli.Command{
		PagesCommand(),
		ThumbnailCommand(),
	}
}
