package common

import (
	"bytes"
	"errors"
	"io"
)

// FixedName decodes a fixed-width, NUL-terminated name field. The result
// never extends past the field; a field without a terminator is truncated
// to its full width and reported as a warning.
func FixedName(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		return string(field[:i])
	}
	LogWarn(WarnNameNotTerminated, string(field), len(field))
	return string(field)
}

// ReadAtMost reads up to count bytes at offset. A short read caused by the
// end of the source is not an error: the returned slice is simply shorter.
func ReadAtMost(r io.ReaderAt, offset int64, count int) ([]byte, error) {
	buffer := make([]byte, count)
	n, err := r.ReadAt(buffer, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buffer[:n], nil
}
