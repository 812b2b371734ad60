package pdfedit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/local/pdftools/internal/filetype"
)

// maxTreeDepth bounds the walk up the page tree when resolving inherited attributes.
const maxTreeDepth = 64

var errClosed = errors.New("document closed")

// Ensure default backend is set to the pdfcpu-based implementation.
func init() {
	// pdfcpu would otherwise create and read a configuration directory on disk.
	api.DisableConfigDir()
	setDefaultBackend(pdfcpuBackend{})
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// pdfcpuBackend implements Backend using github.com/pdfcpu/pdfcpu.
type pdfcpuBackend struct{}

func (pdfcpuBackend) Load(data []byte) (Document, error) {
	info := filetype.Detect(data)
	if !info.IsPDF {
		return nil, fmt.Errorf("not a PDF: %s", info.Description)
	}
	ctx, err := api.ReadContext(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if err := api.OptimizeContext(ctx); err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	doc := &pdfcpuDocument{raw: bytes.Clone(data), ctx: ctx}
	if err := doc.flattenInherited(); err != nil {
		return nil, fmt.Errorf("page tree: %w", err)
	}
	return doc, nil
}

func (pdfcpuBackend) Create() Destination {
	return &pdfcpuDestination{}
}

// --- Adapters ---

type pdfcpuDocument struct {
	raw   []byte
	ctx   *model.Context
	dirty bool
}

func (d *pdfcpuDocument) PageCount() int {
	if d.ctx == nil {
		return 0
	}
	return d.ctx.PageCount
}

func (d *pdfcpuDocument) pageDict(i int) (types.Dict, error) {
	if d.ctx == nil {
		return nil, errClosed
	}
	if i < 0 || i >= d.ctx.PageCount {
		return nil, &SelectionError{Op: "page", Index: i, Reason: fmt.Sprintf("outside [0,%d)", d.ctx.PageCount)}
	}
	dict, _, _, err := d.ctx.PageDict(i+1, false)
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, fmt.Errorf("page %d: no page dictionary", i+1)
	}
	return dict, nil
}

// inheritedRotation resolves /Rotate from the ancestors of a page node.
func (d *pdfcpuDocument) inheritedRotation(node types.Dict) (int, error) {
	for depth := 0; depth < maxTreeDepth; depth++ {
		ref := node.IndirectRefEntry("Parent")
		if ref == nil {
			return 0, nil
		}
		parent, err := d.ctx.DereferenceDict(*ref)
		if err != nil {
			return 0, err
		}
		if parent == nil {
			return 0, nil
		}
		if r := parent.IntEntry("Rotate"); r != nil {
			return NormalizeRotation(*r), nil
		}
		node = parent
	}
	return 0, nil
}

// inheritable are the page attributes a page may take from its ancestors.
var inheritable = []string{"Rotate", "MediaBox", "CropBox", "Resources"}

// flattenInherited copies inherited attributes onto every page and removes
// them from the intermediate page tree nodes. Pages are then self-contained,
// so concatenating page trees cannot change what a page inherits.
func (d *pdfcpuDocument) flattenInherited() error {
	nodes := map[int]types.Dict{}
	for i := 0; i < d.ctx.PageCount; i++ {
		dict, err := d.pageDict(i)
		if err != nil {
			return err
		}
		node := dict
		for depth := 0; depth < maxTreeDepth; depth++ {
			ref := node.IndirectRefEntry("Parent")
			if ref == nil {
				break
			}
			parent, err := d.ctx.DereferenceDict(*ref)
			if err != nil {
				return err
			}
			if parent == nil {
				break
			}
			nodes[int(ref.ObjectNumber)] = parent
			for _, key := range inheritable {
				if _, found := dict.Find(key); found {
					continue
				}
				if v, found := parent.Find(key); found {
					dict.Insert(key, v)
				}
			}
			node = parent
		}
	}
	for _, node := range nodes {
		for _, key := range inheritable {
			if _, found := node.Find(key); found {
				node.Delete(key)
				d.dirty = true
			}
		}
	}
	return nil
}

func (d *pdfcpuDocument) Rotation(i int) (int, error) {
	dict, err := d.pageDict(i)
	if err != nil {
		return 0, err
	}
	if r := dict.IntEntry("Rotate"); r != nil {
		return NormalizeRotation(*r), nil
	}
	return d.inheritedRotation(dict)
}

func (d *pdfcpuDocument) SetRotation(i, degrees int) error {
	if degrees%90 != 0 {
		return fmt.Errorf("rotation %d: %w", degrees, ErrInvalidRotationDelta)
	}
	dict, err := d.pageDict(i)
	if err != nil {
		return err
	}
	degrees = NormalizeRotation(degrees)
	inherited, err := d.inheritedRotation(dict)
	if err != nil {
		return err
	}
	if degrees == 0 && inherited == 0 {
		dict.Delete("Rotate")
	} else {
		dict.Update("Rotate", types.Integer(degrees))
	}
	d.dirty = true
	return nil
}

func (d *pdfcpuDocument) Save(w io.Writer) error {
	if d.ctx == nil {
		return errClosed
	}
	return api.WriteContext(d.ctx, w)
}

// serialized returns the current serialized form, re-writing the context after mutations.
func (d *pdfcpuDocument) serialized() ([]byte, error) {
	if !d.dirty {
		return d.raw, nil
	}
	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return nil, err
	}
	d.raw, d.dirty = buf.Bytes(), false
	return d.raw, nil
}

func (d *pdfcpuDocument) Close() error {
	d.ctx, d.raw = nil, nil
	return nil
}

// segment is a run of pages taken from one source, in destination order.
type segment struct {
	raw   []byte
	pages []int
	full  bool
}

// pdfcpuDestination records copied pages and assembles them on Save:
// each segment is collected from its source, then segments are merged.
type pdfcpuDestination struct {
	segments []segment
	count    int
}

func (d *pdfcpuDestination) CopyPages(src Document, indices []int) error {
	doc, ok := src.(*pdfcpuDocument)
	if !ok {
		return fmt.Errorf("copy pages: unsupported document type %T", src)
	}
	if doc.ctx == nil {
		return errClosed
	}
	if err := checkInRange(indices, doc.PageCount()); err != nil {
		return err
	}
	if len(indices) == 0 {
		return nil
	}
	raw, err := doc.serialized()
	if err != nil {
		return err
	}
	d.segments = append(d.segments, segment{
		raw:   raw,
		pages: append([]int(nil), indices...),
		full:  isIdentity(indices, doc.PageCount()),
	})
	d.count += len(indices)
	return nil
}

func (d *pdfcpuDestination) PageCount() int { return d.count }

func (d *pdfcpuDestination) Save(w io.Writer) error {
	if d.count == 0 {
		return fmt.Errorf("destination: %w", ErrNoPagesRemaining)
	}
	parts := make([]io.ReadSeeker, 0, len(d.segments))
	for _, s := range d.segments {
		if s.full {
			parts = append(parts, bytes.NewReader(s.raw))
			continue
		}
		var buf bytes.Buffer
		if err := api.Collect(bytes.NewReader(s.raw), &buf, pageSelection(s.pages), newConfiguration()); err != nil {
			return fmt.Errorf("collect pages: %w", err)
		}
		parts = append(parts, bytes.NewReader(buf.Bytes()))
	}
	if len(parts) == 1 {
		_, err := io.Copy(w, parts[0])
		return err
	}
	if err := api.MergeRaw(parts, w, false, newConfiguration()); err != nil {
		return fmt.Errorf("merge segments: %w", err)
	}
	return nil
}

func (d *pdfcpuDestination) Close() error {
	d.segments, d.count = nil, 0
	return nil
}

// checkInRange only enforces the index range; order and uniqueness are checked by the editor.
func checkInRange(indices []int, count int) error {
	for _, i := range indices {
		if i < 0 || i >= count {
			return &SelectionError{Op: "copy", Index: i, Reason: fmt.Sprintf("outside [0,%d)", count)}
		}
	}
	return nil
}

func isIdentity(indices []int, count int) bool {
	if len(indices) != count {
		return false
	}
	for i, v := range indices {
		if i != v {
			return false
		}
	}
	return true
}

// pageSelection renders zero-based indices as pdfcpu's 1-based page selection.
func pageSelection(indices []int) []string {
	sel := make([]string, len(indices))
	for i, idx := range indices {
		sel[i] = strconv.Itoa(idx + 1)
	}
	return sel
}
