package pdfedit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
)

// An in-memory document model: a document is a JSON list of pages behind a magic prefix.

const memMagic = "MEMPDF\n"

type memPage struct {
	ID     string `json:"id"`
	Rotate int    `json:"rotate,omitempty"`
}

func memPDF(ids ...string) []byte {
	pages := make([]memPage, len(ids))
	for i, id := range ids {
		pages[i] = memPage{ID: id}
	}
	return memPDFPages(pages...)
}

func memPDFPages(pages ...memPage) []byte {
	b, _ := json.Marshal(pages)
	return append([]byte(memMagic), b...)
}

func decodeMem(t *testing.T, data []byte) []memPage {
	t.Helper()
	if !bytes.HasPrefix(data, []byte(memMagic)) {
		t.Fatalf("output is not a memory document: %q", data)
	}
	var pages []memPage
	if err := json.Unmarshal(data[len(memMagic):], &pages); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return pages
}

func ids(pages []memPage) string {
	var buf bytes.Buffer
	for i, p := range pages {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(p.ID)
	}
	return buf.String()
}

type memBackend struct {
	mu     sync.Mutex
	opened int
	closed int
}

func (b *memBackend) Load(data []byte) (Document, error) {
	if !bytes.HasPrefix(data, []byte(memMagic)) {
		return nil, errors.New("missing header")
	}
	var pages []memPage
	if err := json.Unmarshal(data[len(memMagic):], &pages); err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.opened++
	b.mu.Unlock()
	return &memDoc{backend: b, pages: pages}, nil
}

func (b *memBackend) Create() Destination {
	b.mu.Lock()
	b.opened++
	b.mu.Unlock()
	return &memDest{backend: b}
}

func (b *memBackend) release() {
	b.mu.Lock()
	b.closed++
	b.mu.Unlock()
}

func (b *memBackend) leaked() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opened - b.closed
}

type memDoc struct {
	backend *memBackend
	pages   []memPage
}

func (d *memDoc) PageCount() int { return len(d.pages) }

func (d *memDoc) Rotation(i int) (int, error) {
	if i < 0 || i >= len(d.pages) {
		return 0, fmt.Errorf("page %d out of range", i)
	}
	return d.pages[i].Rotate, nil
}

func (d *memDoc) SetRotation(i, degrees int) error {
	if i < 0 || i >= len(d.pages) {
		return fmt.Errorf("page %d out of range", i)
	}
	d.pages[i].Rotate = NormalizeRotation(degrees)
	return nil
}

func (d *memDoc) Save(w io.Writer) error {
	_, err := w.Write(memPDFPages(d.pages...))
	return err
}

func (d *memDoc) Close() error {
	d.backend.release()
	return nil
}

type memDest struct {
	backend *memBackend
	pages   []memPage
}

func (d *memDest) CopyPages(src Document, indices []int) error {
	doc, ok := src.(*memDoc)
	if !ok {
		return fmt.Errorf("unsupported document %T", src)
	}
	for _, i := range indices {
		if i < 0 || i >= len(doc.pages) {
			return fmt.Errorf("page %d out of range", i)
		}
		d.pages = append(d.pages, doc.pages[i])
	}
	return nil
}

func (d *memDest) PageCount() int { return len(d.pages) }

func (d *memDest) Save(w io.Writer) error {
	if len(d.pages) == 0 {
		return errors.New("no pages")
	}
	_, err := w.Write(memPDFPages(d.pages...))
	return err
}

func (d *memDest) Close() error {
	d.backend.release()
	return nil
}
