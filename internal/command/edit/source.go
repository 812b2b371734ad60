package edit

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/local/pdftools/internal/command/common"
	"github.com/local/pdftools/internal/source"
)

// fetchCounted resolves the single source and counts its pages, which
// 1-based page arguments are checked against.
func fetchCounted(cCtx *cli.Context) (*source.Source, int, error) {
	src, err := common.FetchOne(cCtx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	count, err := editor.PageCount(src.Data)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "could not read '%s'", src.Ref)
	}

	return src, count, nil
}
