package propgen

import (
	"errors"
	"fmt"
)

// ErrSourceNotFound indicates an input spreadsheet or template path
// that does not exist.
var ErrSourceNotFound = errors.New("source file not found")

// ErrUnreadableSource indicates an input file that exists but cannot
// be parsed as its expected format.
var ErrUnreadableSource = errors.New("unreadable source file")

// ErrSheetNotFound indicates a requested sheet name absent from the
// workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// WriteError represents a failure writing the output document.
// The previous output file, if any, is left untouched.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %q: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// NewWriteError creates a new WriteError.
func NewWriteError(path string, err error) *WriteError {
	return &WriteError{Path: path, Err: err}
}
