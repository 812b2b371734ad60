// Package thumbnail renders page previews of PDF buffers.
package thumbnail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"

	"github.com/local/pdftools/internal/filetype"
	"github.com/local/pdftools/internal/metrics"
	"github.com/local/pdftools/internal/pdfedit"
)

// Options controls rendering.
type Options struct {
	DPI     int
	Quality int
	Gray    bool
}

// DefaultOptions renders small previews suited to a page grid.
var DefaultOptions = Options{DPI: 72, Quality: 80}

// Image is a rendered page.
type Image struct {
	JPEG   []byte
	Width  int
	Height int
}

// DataURL returns the image as an inline data: URL.
func (i *Image) DataURL() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(i.JPEG)
}

// Render renders the page at zero-based index page of a PDF as JPEG.
// The page's /Rotate is applied, so rotated pages come out rotated.
func Render(data []byte, page int, opts Options) (img *Image, err error) {
	defer func() {
		result := "success"
		if err != nil {
			result = pdfedit.Kind(err)
		}
		metrics.IncThumbnail(opts.Gray, result)
	}()

	if opts.DPI <= 0 {
		opts.DPI = DefaultOptions.DPI
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultOptions.Quality
	}

	if info := filetype.Detect(data); !info.IsPDF {
		return nil, fmt.Errorf("%w: not a PDF: %s", pdfedit.ErrInvalidDocument, info.Description)
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open PDF: %w", pdfedit.ErrInvalidDocument, err)
	}
	defer doc.Close()

	if n := doc.NumPage(); page < 0 || page >= n {
		return nil, &pdfedit.SelectionError{Op: "thumbnail", Index: page, Reason: fmt.Sprintf("outside [0,%d)", n)}
	}

	rendered, err := doc.ImageDPI(page, float64(opts.DPI))
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", page+1, err)
	}

	bounds := rendered.Bounds()
	var final image.Image = rendered
	if opts.Gray {
		gray := image.NewGray(bounds)
		draw.Draw(gray, bounds, rendered, bounds.Min, draw.Src)
		final = gray
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, final, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}

	log.Debug().
		Int("page", page).
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Bool("gray", opts.Gray).
		Int("dpi", opts.DPI).
		Int("jpeg_size", buf.Len()).
		Msg("rendered page thumbnail")

	return &Image{JPEG: buf.Bytes(), Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

// Dimensions decodes the size of JPEG bytes.
func Dimensions(jpegBytes []byte) (width, height int, err error) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(jpegBytes))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode JPEG: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
