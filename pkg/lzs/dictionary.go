package lzs

// DictionarySize is the number of slots in the sliding dictionary.
const DictionarySize = 0x100

// Dictionary is the 256-byte circular window copies are sourced from.
// Slots are read and written one byte at a time: a copy may read a slot it
// wrote earlier in the same run.
type Dictionary struct {
	buf [DictionarySize]byte
	w   uint8
}

// NewDictionary returns a zeroed dictionary with its write cursor at slot 1.
func NewDictionary() *Dictionary {
	d := &Dictionary{}
	d.Rewind()
	return d
}

// Rewind moves the write cursor back to slot 1 without clearing any slot.
func (d *Dictionary) Rewind() {
	d.w = 1
}

// Get returns the byte stored at slot i.
func (d *Dictionary) Get(i uint8) byte {
	return d.buf[i]
}

// Put stores b at the write cursor and advances it, wrapping after slot 255.
func (d *Dictionary) Put(b byte) {
	d.buf[d.w] = b
	d.w++
}

// Cursor returns the slot the next Put will write.
func (d *Dictionary) Cursor() uint8 {
	return d.w
}
