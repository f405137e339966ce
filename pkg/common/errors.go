package common

import "fmt"

// FormatError reports data that does not match the expected on-disc format.
// It is fatal: the load that produced it exposes no partial result.
type FormatError struct {
	Op  string // what was being decoded
	Msg string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid format in %s: %s", e.Op, e.Msg)
}

// BoundsError reports a declared (offset, size) range that does not fit
// inside the source.
type BoundsError struct {
	What   string
	Offset int64
	Size   int64
	Limit  int64
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: range [0x%X, 0x%X) exceeds source length 0x%X",
		e.What, e.Offset, e.Offset+e.Size, e.Limit)
}

// IOError reports a read, decode or write failure during extraction.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// CheckBounds returns a *BoundsError when [offset, offset+size) is not
// contained in [0, limit).
func CheckBounds(what string, offset, size, limit int64) error {
	if offset < 0 || size < 0 || offset > limit || size > limit-offset {
		return &BoundsError{What: what, Offset: offset, Size: size, Limit: limit}
	}
	return nil
}
