// Package lzs implements the block-based LZSS variant used to compress
// members of Re:COM data archives.
package lzs

import (
	"bytes"
	"io"

	"github.com/32bitkid/bitreader"
)

// Cursor is a bit-addressable reader over a byte buffer. Bits are consumed
// most-significant first. Reads past the end of the buffer yield zero bits.
type Cursor struct {
	buf []byte
	pos int  // byte position
	bit uint // bit offset within buf[pos], 0..7
	br  bitreader.BitReader
}

// zeros is an endless source of zero bytes.
type zeros struct{}

func (zeros) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

// NewCursor creates a cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	c := &Cursor{buf: buf}
	c.Seek(0)
	return c
}

// Seek moves the cursor to byte pos and resets the bit offset.
func (c *Cursor) Seek(pos int) {
	if pos < 0 {
		pos = 0
	}
	c.pos = pos
	c.bit = 0

	var rest []byte
	if pos < len(c.buf) {
		rest = c.buf[pos:]
	}
	c.br = bitreader.NewReader(io.MultiReader(bytes.NewReader(rest), zeros{}))
}

// Position returns the current byte position and bit offset.
func (c *Cursor) Position() (int, uint) {
	return c.pos, c.bit
}

func (c *Cursor) advance(n uint) {
	c.bit += n
	c.pos += int(c.bit >> 3)
	c.bit &= 7
}

// ReadBit returns the bit at the current offset.
func (c *Cursor) ReadBit() bool {
	v, err := c.br.Read1()
	c.advance(1)
	return err == nil && v
}

// ReadOctet returns the next 8 bits, which span two source bytes whenever
// the cursor is not byte aligned.
func (c *Cursor) ReadOctet() uint8 {
	v, err := c.br.Read8(8)
	c.advance(8)
	if err != nil {
		return 0
	}
	return v
}

// ReadNibble returns the next 4 bits. With a bit offset of 5 or more the
// nibble straddles into the following byte.
func (c *Cursor) ReadNibble() uint8 {
	v, err := c.br.Read8(4)
	c.advance(4)
	if err != nil {
		return 0
	}
	return v
}
