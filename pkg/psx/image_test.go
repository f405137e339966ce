package psx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hansbonini/recomtools/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cookedImage builds a 2048-byte-per-sector image where every user data
// byte encodes its own sector number in the first position.
func cookedImage(sectors int) []byte {
	data := make([]byte, sectors*CD_DATA_SIZE)
	for lba := 0; lba < sectors; lba++ {
		sector := data[lba*CD_DATA_SIZE : (lba+1)*CD_DATA_SIZE]
		for i := range sector {
			sector[i] = byte(lba + i)
		}
	}
	writePVD(data[PVD_SECTOR*CD_DATA_SIZE:])
	return data
}

func writePVD(sector []byte) {
	sector[0] = PVD_TYPE_PRIMARY
	copy(sector[1:6], PVDStandardIdentifier)
	sector[6] = 0x01
	binary.LittleEndian.PutUint16(sector[PVD_BLOCK_SIZE_OFFSET:], CD_DATA_SIZE)
}

// rawImage wraps cooked user data into Mode 2 Form 1 raw sectors.
func rawImage(cooked []byte) []byte {
	sectors := len(cooked) / CD_DATA_SIZE
	raw := make([]byte, sectors*CD_SECTOR_SIZE)
	for lba := 0; lba < sectors; lba++ {
		sector := raw[lba*CD_SECTOR_SIZE : (lba+1)*CD_SECTOR_SIZE]
		copy(sector, syncPattern[:])
		sector[CD_SYNC_SIZE+3] = 2
		for i := range sector[2072:] {
			sector[2072+i] = 0xEC // EDC/ECC filler
		}
		copy(sector[24:], cooked[lba*CD_DATA_SIZE:(lba+1)*CD_DATA_SIZE])
	}
	return raw
}

func TestNewImage_Cooked(t *testing.T) {
	data := cookedImage(20)
	img, err := NewImage(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	assert.Equal(t, FormatCooked, img.Format())
	assert.Equal(t, "iso", img.Format().String())
	assert.Equal(t, int64(len(data)), img.Size())
	assert.Equal(t, int64(20), img.TotalSectors())
	assert.NoError(t, img.ValidatePVD())

	buf := make([]byte, 16)
	n, err := img.ReadAt(buf, 3*CD_DATA_SIZE-8)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, data[3*CD_DATA_SIZE-8:3*CD_DATA_SIZE+8], buf)
}

func TestNewImage_Raw(t *testing.T) {
	cooked := cookedImage(20)
	raw := rawImage(cooked)
	img, err := NewImage(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)

	assert.Equal(t, FormatRaw, img.Format())
	assert.Equal(t, "bin", img.Format().String())
	assert.Equal(t, int64(len(cooked)), img.Size())
	assert.Equal(t, int64(20), img.TotalSectors())
	assert.NoError(t, img.ValidatePVD())

	// spans three sectors
	buf := make([]byte, CD_DATA_SIZE+100)
	n, err := img.ReadAt(buf, 5*CD_DATA_SIZE-50)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, cooked[5*CD_DATA_SIZE-50:5*CD_DATA_SIZE-50+len(buf)], buf)

	sector, err := img.ReadSector(7)
	require.NoError(t, err)
	assert.Equal(t, cooked[7*CD_DATA_SIZE:8*CD_DATA_SIZE], sector)

	again, err := img.ReadSector(7)
	require.NoError(t, err)
	assert.Equal(t, sector, again)
}

func TestImage_ReadAtEnd(t *testing.T) {
	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"cooked", cookedImage(18)},
		{"raw", rawImage(cookedImage(18))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			img, err := NewImage(bytes.NewReader(tc.data), int64(len(tc.data)))
			require.NoError(t, err)

			buf := make([]byte, 32)
			n, err := img.ReadAt(buf, img.Size()-10)
			assert.Equal(t, 10, n)
			assert.ErrorIs(t, err, io.EOF)

			n, err = img.ReadAt(buf, img.Size())
			assert.Equal(t, 0, n)
			assert.ErrorIs(t, err, io.EOF)

			_, err = img.ReadAt(buf, -1)
			assert.Error(t, err)
		})
	}
}

func TestImage_ReadSectorOutOfBounds(t *testing.T) {
	data := cookedImage(17)
	img, err := NewImage(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	_, err = img.ReadSector(17)
	assert.Error(t, err)
	_, err = img.ReadSector(-1)
	assert.Error(t, err)
}

func TestImage_ValidatePVD_Invalid(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(pvd []byte)
	}{
		{"type code", func(pvd []byte) { pvd[0] = 0xFF }},
		{"identifier", func(pvd []byte) { copy(pvd[1:6], "CD002") }},
		{"block size", func(pvd []byte) { binary.LittleEndian.PutUint16(pvd[PVD_BLOCK_SIZE_OFFSET:], 2352) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := cookedImage(17)
			tc.mutate(data[PVD_SECTOR*CD_DATA_SIZE:])
			img, err := NewImage(bytes.NewReader(data), int64(len(data)))
			require.NoError(t, err)

			err = img.ValidatePVD()
			var fe *common.FormatError
			assert.True(t, errors.As(err, &fe), "want *FormatError, got %v", err)
		})
	}
}

func TestImage_ValidatePVD_TooSmall(t *testing.T) {
	data := make([]byte, 4*CD_DATA_SIZE)
	img, err := NewImage(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Error(t, img.ValidatePVD())
}

func TestOpenImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disc.bin")
	require.NoError(t, os.WriteFile(path, rawImage(cookedImage(17)), 0o644))

	img, err := OpenImage(path)
	require.NoError(t, err)
	defer img.Close()

	assert.Equal(t, FormatRaw, img.Format())
	assert.NoError(t, img.ValidatePVD())

	_, err = OpenImage(filepath.Join(t.TempDir(), "missing.iso"))
	assert.Error(t, err)
}
