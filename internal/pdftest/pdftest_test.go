package pdftest

import (
	"testing"
)

func TestBuildInspectRoundTrip(t *testing.T) {
	doc := Doc{Pages: Pages(3)}
	doc.Pages[1].Rotate = 90

	pages, err := Inspect(doc.Bytes())
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(pages))
	}
	for i, p := range pages {
		if p.Width != WidthOf(i) {
			t.Errorf("page %d width = %v, want %v", i, p.Width, WidthOf(i))
		}
		if p.Height != 400 {
			t.Errorf("page %d height = %v, want 400", i, p.Height)
		}
	}
	if pages[0].Rotate != 0 || pages[1].Rotate != 90 || pages[2].Rotate != 0 {
		t.Errorf("rotations = %d,%d,%d, want 0,90,0", pages[0].Rotate, pages[1].Rotate, pages[2].Rotate)
	}
}

func TestInheritedRotation(t *testing.T) {
	doc := Doc{Pages: Pages(2), RootRotate: 180}
	doc.Pages[0].Rotate = 270

	pages, err := Inspect(doc.Bytes())
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if pages[0].Rotate != 270 {
		t.Errorf("page 0 rotate = %d, want own value 270", pages[0].Rotate)
	}
	if pages[1].Rotate != 180 {
		t.Errorf("page 1 rotate = %d, want inherited 180", pages[1].Rotate)
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	if _, err := Inspect([]byte("definitely not a pdf")); err == nil {
		t.Fatal("expected error")
	}
}

func TestEscape(t *testing.T) {
	if got := escape(`a(b)\c`); got != `a\(b\)\\c` {
		t.Errorf("escape = %q", got)
	}
}
