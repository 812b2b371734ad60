// Package pdftest builds small, valid PDF documents with identifiable pages
// and inspects the documents produced by page operations.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Page describes one fixture page. Width doubles as an identity marker
// because it survives every page copy unchanged.
type Page struct {
	Label  string
	Width  float64
	Height float64
	Rotate int
}

// Doc is a fixture document. RootRotate is set on the page tree root and
// inherited by every page without its own /Rotate.
type Doc struct {
	Pages      []Page
	RootRotate int
}

// Pages returns n pages labelled "Page 1".."Page n" with widths 300, 310, ...
func Pages(n int) []Page {
	pages := make([]Page, n)
	for i := range pages {
		pages[i] = Page{Label: fmt.Sprintf("Page %d", i+1), Width: WidthOf(i), Height: 400}
	}
	return pages
}

// WidthOf is the width Pages assigns to the page at index i.
func WidthOf(i int) float64 { return float64(300 + 10*i) }

// Build returns an n-page PDF made of Pages(n).
func Build(n int) []byte {
	return Doc{Pages: Pages(n)}.Bytes()
}

// Bytes serializes the fixture with a classic cross-reference table.
func (d Doc) Bytes() []byte {
	var buf bytes.Buffer
	n := len(d.Pages)
	size := 4 + 2*n
	offsets := make([]int, size)

	obj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	obj(1, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, n)
	for i := range d.Pages {
		kids[i] = fmt.Sprintf("%d 0 R", pageObj(i))
	}
	root := fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d", strings.Join(kids, " "), n)
	if d.RootRotate != 0 {
		root += fmt.Sprintf(" /Rotate %d", d.RootRotate)
	}
	obj(2, root+" >>")
	obj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, p := range d.Pages {
		w, h := p.Width, p.Height
		if w == 0 {
			w = 595
		}
		if h == 0 {
			h = 842
		}
		page := fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R",
			w, h, pageObj(i)+1)
		if p.Rotate != 0 {
			page += fmt.Sprintf(" /Rotate %d", p.Rotate)
		}
		obj(pageObj(i), page+" >>")

		content := fmt.Sprintf("BT /F1 12 Tf 20 20 Td (%s) Tj ET", escape(p.Label))
		obj(pageObj(i)+1, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", size)
	for num := 1; num < size; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, xref)
	return buf.Bytes()
}

func pageObj(i int) int { return 4 + 2*i }

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
