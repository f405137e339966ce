package lzs

import (
	"fmt"
	"os"

	"github.com/hansbonini/recomtools/pkg/common"
)

// BlockSize is the size of one independently addressed compressed block.
const BlockSize = 0x1000

// Copy lengths encoded by a 4-bit nibble.
const (
	MinCopyLength = 2
	MaxCopyLength = MinCopyLength + 0xF
)

// Decompress decodes src into at most uncompressedSize bytes.
//
// src is split into BlockSize blocks. Each block starts byte aligned at its
// own offset, while the output and the dictionary contents carry over from
// the previous block. The dictionary write cursor restarts at slot 1 on
// every block. Decoding stops as soon as uncompressedSize bytes have
// been produced. When the blocks run out first the result is shorter than
// requested; that is a property of the format, not an error.
func Decompress(src []byte, uncompressedSize int) []byte {
	if uncompressedSize <= 0 {
		return []byte{}
	}

	out := make([]byte, 0, uncompressedSize)
	dict := NewDictionary()
	cur := NewCursor(src)

	blocks := (len(src) + BlockSize - 1) / BlockSize
	for block := 0; block < blocks && len(out) < uncompressedSize; block++ {
		cur.Seek(block * BlockSize)
		// The write cursor restarts at slot 1 on every block; slot contents persist.
		dict.Rewind()

		common.LogDebug(common.DebugBlockStart, block, block*BlockSize, len(out), uncompressedSize)
		out = decodeBlock(cur, dict, out, uncompressedSize)
	}

	if len(out) < uncompressedSize {
		common.LogDebug(common.DebugShortOutput, len(out), uncompressedSize)
	}
	return out
}

// decodeBlock runs the token loop for one block until the block terminator
// or until out holds limit bytes.
func decodeBlock(cur *Cursor, dict *Dictionary, out []byte, limit int) []byte {
	for len(out) < limit {
		literal := cur.ReadBit()
		value := cur.ReadOctet()

		if literal {
			out = append(out, value)
			dict.Put(value)
			continue
		}

		if value == 0 {
			pos, bit := cur.Position()
			common.LogDebug(common.DebugBlockTerminator, pos/BlockSize, pos, bit)
			return out
		}

		// Byte-at-a-time: the source window may cover slots written by this copy.
		ref := value
		count := MinCopyLength + int(cur.ReadNibble())
		for i := 0; i < count && len(out) < limit; i++ {
			b := dict.Get(ref)
			out = append(out, b)
			dict.Put(b)
			ref++
		}
	}
	return out
}

// UnpackFile decompresses a standalone compressed blob into outputFile.
func UnpackFile(inputFile, outputFile string, uncompressedSize int) error {
	if uncompressedSize < 0 {
		return fmt.Errorf("%s: %d", common.ErrInvalidUncompressedSize, uncompressedSize)
	}

	compressed, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read compressed file: %w", err)
	}

	output := Decompress(compressed, uncompressedSize)

	if err := os.WriteFile(outputFile, output, 0o644); err != nil {
		return fmt.Errorf("failed to write decompressed data: %w", err)
	}

	common.LogInfo("Compressed data unpacked successfully: %s -> %s", inputFile, outputFile)
	common.LogInfo("Compressed size: %d bytes, Decompressed size: %d bytes",
		len(compressed), len(output))
	return nil
}
