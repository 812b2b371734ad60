package thumbnail

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/local/pdftools/internal/metrics"
	"github.com/local/pdftools/internal/pdfedit"
	"github.com/local/pdftools/internal/pdftest"
)

func TestRenderSize(t *testing.T) {
	data := pdftest.Build(2)

	tests := []struct {
		name          string
		page, dpi     int
		width, height int
	}{
		{"first page at 72 dpi", 0, 72, 300, 400},
		{"second page at 72 dpi", 1, 72, 310, 400},
		{"first page at 144 dpi", 0, 144, 600, 800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Render(data, tt.page, Options{DPI: tt.dpi})
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if img.Width != tt.width || img.Height != tt.height {
				t.Errorf("size = %dx%d, want %dx%d", img.Width, img.Height, tt.width, tt.height)
			}
			w, h, err := Dimensions(img.JPEG)
			if err != nil {
				t.Fatalf("Dimensions: %v", err)
			}
			if w != img.Width || h != img.Height {
				t.Errorf("JPEG size = %dx%d, reported %dx%d", w, h, img.Width, img.Height)
			}
		})
	}
}

func TestRenderHonoursRotation(t *testing.T) {
	out, err := pdfedit.New().RotatePages(pdftest.Build(1), map[int]int{0: 90})
	if err != nil {
		t.Fatalf("RotatePages: %v", err)
	}
	img, err := Render(out, 0, DefaultOptions)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Width != 400 || img.Height != 300 {
		t.Errorf("size = %dx%d, want 400x300", img.Width, img.Height)
	}
}

func TestRenderGray(t *testing.T) {
	before := thumbnailCount(t, "true", "success")

	img, err := Render(pdftest.Build(1), 0, Options{Gray: true, Quality: 60})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(img.JPEG))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := decoded.(*image.Gray); !ok {
		t.Errorf("decoded image is %T, want *image.Gray", decoded)
	}
	if got := thumbnailCount(t, "true", "success"); got != before+1 {
		t.Errorf("thumbnail counter = %v, want %v", got, before+1)
	}
}

func TestRenderErrors(t *testing.T) {
	data := pdftest.Build(2)
	if _, err := Render(data, 2, DefaultOptions); !errors.Is(err, pdfedit.ErrInvalidPageSelection) {
		t.Errorf("page 2 err = %v, want ErrInvalidPageSelection", err)
	}
	if _, err := Render(data, -1, DefaultOptions); !errors.Is(err, pdfedit.ErrInvalidPageSelection) {
		t.Errorf("page -1 err = %v, want ErrInvalidPageSelection", err)
	}
	_, err := Render([]byte("hello"), 0, DefaultOptions)
	if !errors.Is(err, pdfedit.ErrInvalidDocument) {
		t.Fatalf("text err = %v, want ErrInvalidDocument", err)
	}
	if msg := err.Error(); strings.Contains(msg, "source") || !strings.HasPrefix(msg, "invalid document: not a PDF") {
		t.Errorf("text err message = %q", msg)
	}
}

func TestDataURL(t *testing.T) {
	img := &Image{JPEG: []byte{0xff, 0xd8, 0xff}}
	if got := img.DataURL(); !strings.HasPrefix(got, "data:image/jpeg;base64,") || !strings.HasSuffix(got, "/9j/") {
		t.Errorf("DataURL = %q", got)
	}
}

func thumbnailCount(t *testing.T, gray, result string) float64 {
	t.Helper()
	families, err := metrics.Registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "pdftools_thumbnails_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["gray"] == gray && labels["result"] == result {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
