package pdfedit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDocument is returned when source bytes do not parse as a PDF.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrInvalidPageSelection covers missing, duplicated or out of range indices.
	ErrInvalidPageSelection = errors.New("invalid page selection")
	// ErrEmptySelection is returned when an operation is given no pages (or no sources) to work on.
	ErrEmptySelection = errors.New("empty selection")
	// ErrEmptyRotationSet is returned by RotatePages for an empty rotation map.
	ErrEmptyRotationSet = errors.New("empty rotation set")
	// ErrInvalidRotationDelta is returned for deltas outside {90, 180, 270}.
	ErrInvalidRotationDelta = errors.New("invalid rotation delta")
	// ErrNoPagesRemaining is returned when a delete would leave an empty document.
	ErrNoPagesRemaining = errors.New("no pages remaining")
)

// SelectionError describes the index that made a page selection unusable.
type SelectionError struct {
	Op     string
	Index  int
	Reason string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s: page index %d: %s", e.Op, e.Index, e.Reason)
}

func (e *SelectionError) Unwrap() error { return ErrInvalidPageSelection }

// DocumentError wraps a parse failure with the position of the source that caused it.
type DocumentError struct {
	Source int
	Err    error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("source %d: %v: %v", e.Source, ErrInvalidDocument, e.Err)
}

// Is lets errors.Is match both ErrInvalidDocument and the underlying cause.
func (e *DocumentError) Is(target error) bool { return target == ErrInvalidDocument }

func (e *DocumentError) Unwrap() error { return e.Err }
