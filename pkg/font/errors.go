package font

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no indexed record shares the requested family.
var ErrNotFound = errors.New("font not found")

// IndexError reports a file that could not be indexed. Rebuild skips it.
type IndexError struct {
	Path string
	Err  error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %s: %v", e.Path, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// ConversionError reports a web font that could not be turned into sfnt.
type ConversionError struct {
	Path   string
	Format string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s (%s): %v", e.Path, e.Format, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
