package rsrc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/hansbonini/recomtools/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainRow(name string, offset, size int32) []byte {
	b := make([]byte, EntrySize)
	copy(b[0:NameSize], name)
	binary.LittleEndian.PutUint32(b[0x10:], uint32(offset))
	binary.LittleEndian.PutUint32(b[0x1C:], uint32(size))
	return b
}

func flaggedRow(name string, offset, size int32) []byte {
	b := make([]byte, EntrySize)
	binary.LittleEndian.PutUint32(b[0x0:], uint32(offset))
	copy(b[4:4+NameSize], name)
	binary.LittleEndian.PutUint32(b[0x1C:], uint32(size)|0x80000000)
	return b
}

func build(rows ...[]byte) []byte {
	var buf bytes.Buffer
	for _, r := range rows {
		buf.Write(r)
	}
	return buf.Bytes()
}

func TestDecodeEntry(t *testing.T) {
	testCases := []struct {
		name     string
		row      []byte
		expected Entry
		ok       bool
	}{
		{"plain", plainRow("card.bin", 0x100, 0x40), Entry{Name: "card.bin", Offset: 0x100, Size: 0x40}, true},
		{"sign flagged", flaggedRow("bgm.vag", 0x200, 0x30), Entry{Name: "bgm.vag", Offset: 0x200, Size: 0x30}, true},
		{"terminator", make([]byte, EntrySize), Entry{}, false},
		{"name filling the field", flaggedRow("abcdefghijklmnopqrstuv", 0x20, 1), Entry{Name: "abcdefghijklmnopqrstuv", Offset: 0x20, Size: 1}, true},
		{"plain name stops at offset field", plainRow("abcdefghijklmnopqrstuv", 0, 1), Entry{Name: "abcdefghijklmnop", Size: 1}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry, ok := DecodeEntry(tc.row)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, entry)
		})
	}
}

func TestParse(t *testing.T) {
	data := build(
		plainRow("a.bin", 0x60, 4),
		flaggedRow("b.bin", 0x64, 2),
		make([]byte, EntrySize),
		[]byte("AAAABB"),
	)

	entries, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "a.bin", Offset: 0x60, Size: 4},
		{Name: "b.bin", Offset: 0x64, Size: 2},
	}, entries)
}

func TestParse_StopsAtPartialRow(t *testing.T) {
	data := build(plainRow("only", 0, 8), []byte{1, 2, 3})

	entries, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "only", entries[0].Name)
}

func TestParse_OutOfBounds(t *testing.T) {
	testCases := []struct {
		name string
		row  []byte
	}{
		{"past end", plainRow("big", 0x10, 0x1000)},
		{"negative offset", plainRow("neg", -4, 2)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := Parse(bytes.NewReader(build(tc.row, make([]byte, EntrySize))))
			var be *common.BoundsError
			require.True(t, errors.As(err, &be), "want *BoundsError, got %v", err)
			assert.Nil(t, entries)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	entries, err := Parse(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
