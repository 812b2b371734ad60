package pdftest

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PageInfo is the observable state of one page of an output document.
type PageInfo struct {
	Width  float64
	Height float64
	Rotate int
}

// Inspect parses data with pdfcpu and reports every page in document order.
func Inspect(data []byte) ([]PageInfo, error) {
	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	pages := make([]PageInfo, 0, ctx.PageCount)
	for nr := 1; nr <= ctx.PageCount; nr++ {
		d, _, _, err := ctx.PageDict(nr, false)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", nr, err)
		}
		var info PageInfo
		if box := lookup(ctx, d, "MediaBox"); box != nil {
			if arr, ok := box.(types.Array); ok && len(arr) == 4 {
				info.Width = number(arr[2]) - number(arr[0])
				info.Height = number(arr[3]) - number(arr[1])
			}
		}
		if rot := lookup(ctx, d, "Rotate"); rot != nil {
			if r, ok := rot.(types.Integer); ok {
				info.Rotate = ((int(r) % 360) + 360) % 360
			}
		}
		pages = append(pages, info)
	}
	return pages, nil
}

// Widths returns the width of every page, the identity marker of fixture pages.
func Widths(data []byte) ([]float64, error) {
	pages, err := Inspect(data)
	if err != nil {
		return nil, err
	}
	widths := make([]float64, len(pages))
	for i, p := range pages {
		widths[i] = p.Width
	}
	return widths, nil
}

// lookup resolves an inheritable page attribute, walking up the page tree.
func lookup(ctx *model.Context, d types.Dict, key string) types.Object {
	for depth := 0; d != nil && depth < 64; depth++ {
		if o, found := d.Find(key); found {
			v, err := ctx.Dereference(o)
			if err != nil {
				return nil
			}
			return v
		}
		parent := d.IndirectRefEntry("Parent")
		if parent == nil {
			return nil
		}
		next, err := ctx.DereferenceDict(*parent)
		if err != nil {
			return nil
		}
		d = next
	}
	return nil
}

func number(o types.Object) float64 {
	switch v := o.(type) {
	case types.Integer:
		return float64(v)
	case types.Float:
		return float64(v)
	}
	return 0
}
