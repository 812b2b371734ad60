package pdfedit

import "io"

// Document is a parsed source PDF owned by a single operation.
type Document interface {
	PageCount() int
	// Rotation returns the effective rotation of page i (zero-based), inherited values included.
	Rotation(i int) (int, error)
	// SetRotation stores an absolute rotation for page i; 0 means no rotation entry.
	SetRotation(i, degrees int) error
	Save(w io.Writer) error
	Close() error
}

// Destination is a fresh document that receives copied pages.
type Destination interface {
	// CopyPages copies the given pages of src, in the given order, and appends them.
	CopyPages(src Document, indices []int) error
	PageCount() int
	Save(w io.Writer) error
	Close() error
}

// Backend abstracts the PDF document library.
type Backend interface {
	Load(data []byte) (Document, error)
	Create() Destination
}

// defaultBackend is provided in doc_pdfcpu.go.
var defaultBackend Backend

// setDefaultBackend allows swapping the default backend.
func setDefaultBackend(b Backend) { defaultBackend = b }
