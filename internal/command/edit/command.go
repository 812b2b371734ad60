// Package edit holds the page editing commands.
package edit

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/local/pdftools/internal/command/common"
	"github.com/local/pdftools/internal/pdfedit"
)

const (
	flagPages     = "pages"
	flagOrder     = "order"
	flagMove      = "move"
	flagKeepOrder = "keep-order"
	flagRotate    = "rotate"
)

var editor = pdfedit.New()

func MergeCommand() *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "Merge PDF files into one, in the order given",
		ArgsUsage: "SRC SRC...",
		Flags:     common.WithCommonFlags(),
		Action: func(cCtx *cli.Context) error {
			srcs, err := common.FetchAll(cCtx, 2)
			if err != nil {
				return errors.WithStack(err)
			}

			out, err := editor.Merge(common.Data(srcs))
			if err != nil {
				return errors.Wrap(err, "could not merge")
			}

			return common.WriteResult(cCtx, pdfedit.OpMerge, srcs[0].Name, out)
		},
	}
}

func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete pages from a PDF file",
		ArgsUsage: "SRC",
		Flags: common.WithCommonFlags(
			&cli.StringFlag{
				Name:     flagPages,
				Aliases:  []string{"p"},
				Usage:    "Pages to delete, e.g. '2,4-6'",
				Required: true,
			},
		),
		Action: func(cCtx *cli.Context) error {
			src, count, err := fetchCounted(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			pages, err := pdfedit.ParsePageRanges(cCtx.String(flagPages), count)
			if err != nil {
				return errors.Wrap(err, "invalid --pages")
			}

			out, err := editor.DeletePages(src.Data, pages)
			if err != nil {
				return errors.Wrap(err, "could not delete pages")
			}

			return common.WriteResult(cCtx, pdfedit.OpDelete, src.Name, out)
		},
	}
}

func ReorderCommand() *cli.Command {
	return &cli.Command{
		Name:      "reorder",
		Usage:     "Reorder the pages of a PDF file",
		ArgsUsage: "SRC",
		Flags: common.WithCommonFlags(
			&cli.StringFlag{
				Name:  flagOrder,
				Usage: "New page order listing every page once, e.g. '4,1-3'",
			},
			&cli.StringSliceFlag{
				Name:  flagMove,
				Usage: "Move the page at position FROM to position TO, as FROM:TO (repeatable, applied in order)",
			},
		),
		Action: func(cCtx *cli.Context) error {
			hasOrder, hasMoves := cCtx.IsSet(flagOrder), cCtx.IsSet(flagMove)
			if hasOrder == hasMoves {
				return errors.Errorf("exactly one of --%s or --%s is required", flagOrder, flagMove)
			}

			src, count, err := fetchCounted(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			var order []int
			if hasOrder {
				order, err = pdfedit.ParsePageRanges(cCtx.String(flagOrder), count)
			} else {
				order, err = common.ApplyMoves(cCtx.StringSlice(flagMove), count)
			}
			if err != nil {
				return errors.Wrap(err, "invalid page order")
			}

			out, err := editor.ReorderPages(src.Data, order)
			if err != nil {
				return errors.Wrap(err, "could not reorder pages")
			}

			return common.WriteResult(cCtx, pdfedit.OpReorder, src.Name, out)
		},
	}
}

func ExtractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract pages of a PDF file into a new file",
		ArgsUsage: "SRC",
		Flags: common.WithCommonFlags(
			&cli.StringFlag{
				Name:     flagPages,
				Aliases:  []string{"p"},
				Usage:    "Pages to extract, e.g. '1-3,7'",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  flagKeepOrder,
				Usage: "Keep pages in the order given instead of document order",
			},
		),
		Action: func(cCtx *cli.Context) error {
			src, count, err := fetchCounted(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			pages, err := pdfedit.ParsePageRanges(cCtx.String(flagPages), count)
			if err != nil {
				return errors.Wrap(err, "invalid --pages")
			}

			extract := editor.ExtractPages
			if cCtx.Bool(flagKeepOrder) {
				extract = editor.ExtractPagesInOrder
			}

			out, err := extract(src.Data, pages)
			if err != nil {
				return errors.Wrap(err, "could not extract pages")
			}

			return common.WriteResult(cCtx, pdfedit.OpExtract, src.Name, out)
		},
	}
}

func RotateCommand() *cli.Command {
	return &cli.Command{
		Name:      "rotate",
		Usage:     "Rotate pages of a PDF file",
		ArgsUsage: "SRC",
		Flags: common.WithCommonFlags(
			&cli.StringSliceFlag{
				Name:     flagRotate,
				Aliases:  []string{"r"},
				Usage:    "Rotate PAGES by DEGREES clockwise, as PAGES:DEGREES, e.g. '2:90' or '1-3:-90' (repeatable, accumulated per page)",
				Required: true,
			},
		),
		Action: func(cCtx *cli.Context) error {
			src, count, err := fetchCounted(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			plan, err := common.ParseRotations(cCtx.StringSlice(flagRotate), count)
			if err != nil {
				return errors.WithStack(err)
			}

			out, err := editor.RotatePages(src.Data, plan)
			if err != nil {
				return errors.Wrap(err, "could not rotate pages")
			}

			return common.WriteResult(cCtx, pdfedit.OpRotate, src.Name, out)
		},
	}
}

// Commands returns every editing command.
func Commands() []*cli.Command {
	return []*cli.Command{
		MergeCommand(),
		DeleteCommand(),
		ReorderCommand(),
		ExtractCommand(),
		RotateCommand(),
	}
}
