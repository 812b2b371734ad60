package pdfedit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/local/pdftools/internal/metrics"
)

// Operation names, used for logging, metrics and output naming.
const (
	OpMerge     = "merge"
	OpDelete    = "delete"
	OpReorder   = "reorder"
	OpExtract   = "extract"
	OpRotate    = "rotate"
	OpPageCount = "page_count"
)

// Editor applies page-level edits to in-memory PDF buffers.
// It holds no per-call state and is safe for concurrent use.
type Editor struct {
	backend Backend
}

// New returns an Editor backed by the default document backend.
func New() *Editor {
	return &Editor{backend: defaultBackend}
}

// NewWithBackend returns an Editor using b as document model.
func NewWithBackend(b Backend) *Editor {
	return &Editor{backend: b}
}

// Merge concatenates the pages of every source, in list order.
func (e *Editor) Merge(sources [][]byte) ([]byte, error) {
	op := e.begin(OpMerge, sources...)
	if len(sources) == 0 {
		return op.finish(nil, 0, fmt.Errorf("no sources: %w", ErrEmptySelection))
	}
	docs := &scope{}
	defer docs.release()

	dest := e.backend.Create()
	docs.add(dest)
	for i, src := range sources {
		doc, err := e.load(docs, i, src)
		if err != nil {
			return op.finish(nil, 0, err)
		}
		if err := dest.CopyPages(doc, IdentityOrder(doc.PageCount())); err != nil {
			return op.finish(nil, 0, fmt.Errorf("copy pages of source %d: %w", i, err))
		}
	}
	out, err := serialize(dest)
	return op.finish(out, dest.PageCount(), err)
}

// DeletePages removes the pages at the given zero-based indices, keeping the
// remaining pages in their original order. Indices outside the document are ignored.
func (e *Editor) DeletePages(source []byte, indices []int) ([]byte, error) {
	op := e.begin(OpDelete, source)
	if len(indices) == 0 {
		return op.finish(nil, 0, fmt.Errorf("nothing to delete: %w", ErrEmptySelection))
	}
	docs := &scope{}
	defer docs.release()

	doc, err := e.load(docs, 0, source)
	if err != nil {
		return op.finish(nil, 0, err)
	}
	keep := keepIndices(doc.PageCount(), indices)
	if len(keep) == 0 {
		return op.finish(nil, 0, fmt.Errorf("delete %d of %d pages: %w", len(indices), doc.PageCount(), ErrNoPagesRemaining))
	}
	return e.copyInto(op, docs, doc, keep)
}

// ReorderPages rebuilds the document with its pages in exactly the given order,
// which must be a permutation of [0, pageCount).
func (e *Editor) ReorderPages(source []byte, order []int) ([]byte, error) {
	op := e.begin(OpReorder, source)
	docs := &scope{}
	defer docs.release()

	doc, err := e.load(docs, 0, source)
	if err != nil {
		return op.finish(nil, 0, err)
	}
	if err := checkPermutation(OpReorder, order, doc.PageCount()); err != nil {
		return op.finish(nil, 0, err)
	}
	return e.copyInto(op, docs, doc, order)
}

// ExtractPages builds a document from the selected pages in ascending index order.
// The selection is a set: duplicates collapse.
func (e *Editor) ExtractPages(source []byte, indices []int) ([]byte, error) {
	op := e.begin(OpExtract, source)
	if len(indices) == 0 {
		return op.finish(nil, 0, ErrEmptySelection)
	}
	docs := &scope{}
	defer docs.release()

	doc, err := e.load(docs, 0, source)
	if err != nil {
		return op.finish(nil, 0, err)
	}
	pages, err := sortedSet(OpExtract, indices, doc.PageCount())
	if err != nil {
		return op.finish(nil, 0, err)
	}
	return e.copyInto(op, docs, doc, pages)
}

// ExtractPagesInOrder builds a document from the selected pages in caller order.
// Every index must be distinct and in range.
func (e *Editor) ExtractPagesInOrder(source []byte, indices []int) ([]byte, error) {
	op := e.begin(OpExtract, source)
	if len(indices) == 0 {
		return op.finish(nil, 0, ErrEmptySelection)
	}
	docs := &scope{}
	defer docs.release()

	doc, err := e.load(docs, 0, source)
	if err != nil {
		return op.finish(nil, 0, err)
	}
	if err := checkDistinct(OpExtract, indices, doc.PageCount()); err != nil {
		return op.finish(nil, 0, err)
	}
	return e.copyInto(op, docs, doc, indices)
}

// RotatePages adds each delta (90, 180 or 270) to the current rotation of its
// page and re-serializes the loaded document. The map is validated as a whole
// before any page changes.
func (e *Editor) RotatePages(source []byte, rotations map[int]int) ([]byte, error) {
	op := e.begin(OpRotate, source)
	if len(rotations) == 0 {
		return op.finish(nil, 0, ErrEmptyRotationSet)
	}
	docs := &scope{}
	defer docs.release()

	doc, err := e.load(docs, 0, source)
	if err != nil {
		return op.finish(nil, 0, err)
	}
	pages, err := checkRotations(rotations, doc.PageCount())
	if err != nil {
		return op.finish(nil, 0, err)
	}
	for _, page := range pages {
		current, err := doc.Rotation(page)
		if err != nil {
			return op.finish(nil, 0, fmt.Errorf("read rotation of page index %d: %w", page, err))
		}
		next := NormalizeRotation(current + rotations[page])
		if err := doc.SetRotation(page, next); err != nil {
			return op.finish(nil, 0, fmt.Errorf("rotate page index %d: %w", page, err))
		}
		log.Debug().Str("op_id", op.id).Int("page", page).Int("from", current).Int("to", next).Msg("page rotated")
	}
	out, err := serialize(doc)
	return op.finish(out, doc.PageCount(), err)
}

// PageCount returns the number of pages of source.
func (e *Editor) PageCount(source []byte) (int, error) {
	op := e.begin(OpPageCount, source)
	docs := &scope{}
	defer docs.release()

	doc, err := e.load(docs, 0, source)
	if err != nil {
		_, err = op.finish(nil, 0, err)
		return 0, err
	}
	n := doc.PageCount()
	_, _ = op.finish(nil, n, nil)
	return n, nil
}

func (e *Editor) copyInto(op *operation, docs *scope, src Document, pages []int) ([]byte, error) {
	dest := e.backend.Create()
	docs.add(dest)
	if err := dest.CopyPages(src, pages); err != nil {
		return op.finish(nil, 0, fmt.Errorf("copy pages: %w", err))
	}
	out, err := serialize(dest)
	return op.finish(out, dest.PageCount(), err)
}

func (e *Editor) load(docs *scope, i int, data []byte) (Document, error) {
	doc, err := e.backend.Load(data)
	if err != nil {
		return nil, &DocumentError{Source: i, Err: err}
	}
	docs.add(doc)
	return doc, nil
}

// serialize writes s into a fresh buffer; nothing is returned on failure.
func serialize(s interface{ Save(io.Writer) error }) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}
	return buf.Bytes(), nil
}

// scope closes every document opened during one call.
type scope struct {
	closers []io.Closer
}

func (s *scope) add(c io.Closer) { s.closers = append(s.closers, c) }

func (s *scope) release() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i].Close()
	}
	s.closers = nil
}

type operation struct {
	name    string
	id      string
	start   time.Time
	inBytes int
}

func (e *Editor) begin(name string, inputs ...[]byte) *operation {
	op := &operation{name: name, id: uuid.NewString(), start: time.Now()}
	for _, in := range inputs {
		op.inBytes += len(in)
	}
	log.Debug().Str("op", name).Str("op_id", op.id).Int("sources", len(inputs)).Int("input_bytes", op.inBytes).Msg("operation started")
	return op
}

func (o *operation) finish(out []byte, pages int, err error) ([]byte, error) {
	dur := time.Since(o.start)
	result := Kind(err)
	metrics.ObserveOperation(o.name, result, dur)
	metrics.AddInputBytes(o.name, o.inBytes)
	if err != nil {
		log.Debug().Err(err).Str("op", o.name).Str("op_id", o.id).Str("result", result).Dur("took", dur).Msg("operation failed")
		return nil, err
	}
	metrics.AddPages(o.name, pages)
	log.Debug().Str("op", o.name).Str("op_id", o.id).Int("pages", pages).Int("output_bytes", len(out)).Dur("took", dur).Msg("operation done")
	return out, nil
}

// Kind names the error category of err, or "success" for nil.
func Kind(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidDocument):
		return "invalid_document"
	case errors.Is(err, ErrInvalidPageSelection):
		return "invalid_page_selection"
	case errors.Is(err, ErrEmptySelection):
		return "empty_selection"
	case errors.Is(err, ErrEmptyRotationSet):
		return "empty_rotation_set"
	case errors.Is(err, ErrInvalidRotationDelta):
		return "invalid_rotation_delta"
	case errors.Is(err, ErrNoPagesRemaining):
		return "no_pages_remaining"
	default:
		return "error"
	}
}
