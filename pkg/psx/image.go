// Package psx provides PlayStation-specific disc image reading functionality.
package psx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"
	"github.com/hansbonini/recomtools/pkg/common"
)

// DefaultCacheSectors is the number of decoded raw sectors kept in memory
const DefaultCacheSectors = 256

// Image provides random access to the user data of a disc image. Offsets
// passed to ReadAt address user data only, so sector N always starts at
// N*CD_DATA_SIZE regardless of the physical layout.
// An Image is safe for concurrent use by multiple goroutines.
type Image struct {
	r            io.ReaderAt
	closer       io.Closer
	format       SectorFormat
	size         int64 // user data bytes
	totalSectors int64

	mu    sync.Mutex
	cache *tinylfu.T[int64, []byte]
}

// OpenImage opens a .iso or .bin disc image from disk
func OpenImage(filename string) (*Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	fileInfo, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	img, err := NewImage(file, fileInfo.Size())
	if err != nil {
		file.Close()
		return nil, err
	}
	img.closer = file
	return img, nil
}

// NewImage wraps r, detecting whether it holds cooked or raw sectors
func NewImage(r io.ReaderAt, size int64) (*Image, error) {
	if size < 0 {
		return nil, fmt.Errorf("invalid image size %d", size)
	}

	img := &Image{
		r:      r,
		format: detectFormat(r, size),
		cache:  tinylfu.New[int64, []byte](DefaultCacheSectors, DefaultCacheSectors*10, hashLBA),
	}

	switch img.format {
	case FormatRaw:
		img.totalSectors = size / CD_SECTOR_SIZE
		img.size = img.totalSectors * CD_DATA_SIZE
	default:
		img.totalSectors = size / CD_DATA_SIZE
		img.size = size
	}
	return img, nil
}

// detectFormat reports FormatRaw when the volume descriptor sector carries a sync pattern
func detectFormat(r io.ReaderAt, size int64) SectorFormat {
	if size%CD_SECTOR_SIZE != 0 || size < (PVD_SECTOR+1)*CD_SECTOR_SIZE {
		return FormatCooked
	}

	head := make([]byte, CD_SYNC_SIZE)
	if _, err := r.ReadAt(head, PVD_SECTOR*CD_SECTOR_SIZE); err != nil {
		return FormatCooked
	}
	if !bytes.Equal(head, syncPattern[:]) {
		return FormatCooked
	}
	return FormatRaw
}

func hashLBA(lba int64) uint64 {
	var key [8]byte
	binary.LittleEndian.PutUint64(key[:], uint64(lba))
	return xxhash.Sum64(key[:])
}

// Close releases the underlying file when the image was opened from disk
func (img *Image) Close() error {
	if img.closer != nil {
		return img.closer.Close()
	}
	return nil
}

// Size returns the number of addressable user data bytes
func (img *Image) Size() int64 { return img.size }

// TotalSectors returns the number of complete sectors in the image
func (img *Image) TotalSectors() int64 { return img.totalSectors }

// Format returns the detected sector layout
func (img *Image) Format() SectorFormat { return img.format }

// ReadSector returns the user data of one sector. The returned slice may be
// shared with the sector cache and must not be modified.
func (img *Image) ReadSector(lba int64) ([]byte, error) {
	if lba >= img.totalSectors || lba < 0 {
		return nil, fmt.Errorf("LBA %d out of bounds (total: %d)", lba, img.totalSectors)
	}

	if img.format == FormatCooked {
		data := make([]byte, CD_DATA_SIZE)
		if _, err := img.r.ReadAt(data, lba*CD_DATA_SIZE); err != nil {
			return nil, err
		}
		return data, nil
	}

	img.mu.Lock()
	data, ok := img.cache.Get(lba)
	img.mu.Unlock()
	if ok {
		return data, nil
	}

	common.LogDebug(common.DebugSectorCacheMiss, lba)
	sector := make([]byte, CD_SECTOR_SIZE)
	if _, err := img.r.ReadAt(sector, lba*CD_SECTOR_SIZE); err != nil {
		return nil, err
	}
	start := dataOffset(sector[CD_SYNC_SIZE+CD_HEADER_SIZE-1])
	data = sector[start : start+CD_DATA_SIZE]

	img.mu.Lock()
	img.cache.Add(lba, data)
	img.mu.Unlock()
	return data, nil
}

// ReadAt reads user data starting at off
func (img *Image) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	if off >= img.size {
		return 0, io.EOF
	}

	if img.format == FormatCooked {
		if remain := img.size - off; int64(len(p)) > remain {
			n, err := img.r.ReadAt(p[:remain], off)
			if err == nil {
				err = io.EOF
			}
			return n, err
		}
		return img.r.ReadAt(p, off)
	}

	n := 0
	for n < len(p) && off < img.size {
		data, err := img.ReadSector(off / CD_DATA_SIZE)
		if err != nil {
			return n, err
		}
		c := copy(p[n:], data[off%CD_DATA_SIZE:])
		n += c
		off += int64(c)
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// ValidatePVD performs basic checks on the ISO9660 primary volume descriptor
func (img *Image) ValidatePVD() error {
	data, err := common.ReadAtMost(img, PVD_SECTOR*CD_DATA_SIZE, CD_DATA_SIZE)
	if err != nil {
		return common.WrapError(common.ErrFailedToValidatePVD, err)
	}
	if len(data) < PVD_BLOCK_SIZE_OFFSET+2 {
		return &common.FormatError{Op: "primary volume descriptor", Msg: "image too small"}
	}

	if data[0] != PVD_TYPE_PRIMARY {
		return &common.FormatError{
			Op:  "primary volume descriptor",
			Msg: fmt.Sprintf("unexpected type code 0x%02X", data[0]),
		}
	}
	if string(data[1:6]) != PVDStandardIdentifier {
		return &common.FormatError{
			Op:  "primary volume descriptor",
			Msg: fmt.Sprintf("expected standard identifier %s, got %q", PVDStandardIdentifier, data[1:6]),
		}
	}
	if blockSize := binary.LittleEndian.Uint16(data[PVD_BLOCK_SIZE_OFFSET:]); blockSize != CD_DATA_SIZE {
		return &common.FormatError{
			Op:  "primary volume descriptor",
			Msg: fmt.Sprintf("unexpected logical block size %d", blockSize),
		}
	}
	return nil
}
