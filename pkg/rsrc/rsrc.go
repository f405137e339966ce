// Package rsrc reads the flat packed-resource files found inside Re:COM
// containers: a table of 0x20-byte entries followed by the file data.
package rsrc

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hansbonini/recomtools/pkg/common"
)

// Entry layout
const (
	EntrySize      = 0x20
	NameSize       = 0x16
	sizeOffset     = 0x1C
	offsetFlagged  = 0x0
	nameFlagged    = 0x4
	offsetPlain    = 0x10
	namePlain      = 0x0
	flaggedSizeBit = 0x7FFFFFFF
)

// Source is a random-access packed resource
type Source interface {
	io.ReaderAt
	Size() int64
}

// Entry is one file in a packed resource
type Entry struct {
	Name   string
	Offset int64
	Size   int64
}

// DecodeEntry decodes one EntrySize-byte table row. ok is false for the
// zero-size terminator.
//
// Rows with a negative size store the offset first and the name after it;
// the real size is the value with its sign bit cleared.
func DecodeEntry(b []byte) (entry Entry, ok bool) {
	_ = b[EntrySize-1]
	size := int32(binary.LittleEndian.Uint32(b[sizeOffset:]))
	if size == 0 {
		return Entry{}, false
	}

	if size < 0 {
		entry.Size = int64(uint32(size) & flaggedSizeBit)
		entry.Offset = int64(int32(binary.LittleEndian.Uint32(b[offsetFlagged:])))
		entry.Name = common.FixedName(b[nameFlagged : nameFlagged+NameSize])
	} else {
		entry.Size = int64(size)
		entry.Offset = int64(int32(binary.LittleEndian.Uint32(b[offsetPlain:])))
		entry.Name = common.FixedName(b[namePlain : namePlain+NameSize])
	}
	return entry, true
}

// Parse reads the entry table from the start of src. The table ends at a
// zero-size row or at the first row cut short by the end of src. Any entry
// pointing outside src fails the whole parse.
func Parse(src Source) ([]Entry, error) {
	total := src.Size()
	var entries []Entry

	for offset := int64(0); offset+EntrySize <= total; offset += EntrySize {
		row, err := common.ReadAtMost(src, offset, EntrySize)
		if err != nil {
			return nil, common.WrapError(common.ErrFailedToReadResource, err)
		}
		if len(row) < EntrySize {
			break
		}

		entry, ok := DecodeEntry(row)
		if !ok {
			break
		}
		if entry.Name == "" || !common.IsValidFileName(entry.Name) {
			common.LogWarn(common.WarnSuspiciousName, entry.Name, "packed resource")
		}

		what := fmt.Sprintf("resource entry %d (%s)", len(entries), entry.Name)
		if err := common.CheckBounds(what, entry.Offset, entry.Size, total); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
