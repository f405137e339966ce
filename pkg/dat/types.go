// Package dat reads the .DAT container tables of Re:COM disc images: the
// top-level file table, sub-archive group tables and group member tables.
package dat

import (
	"encoding/binary"
	"io"

	"github.com/hansbonini/recomtools/pkg/common"
)

// DatMagic is ".DAT" read as a little-endian uint32
const DatMagic uint32 = 0x5441442E

// On-disc record widths. Fields are decoded from fixed offsets, never from
// Go struct layout.
const (
	HeaderSize       = 10
	TableEntrySize   = 32
	GroupEntrySize   = 32
	MemberHeaderSize = 48

	TableEntryNameSize   = 0x10
	MemberHeaderNameSize = 0x18
)

// Source is a random-access disc image
type Source interface {
	io.ReaderAt
	Size() int64
}

// Header is the container header found at Layout.HeaderSector
type Header struct {
	Magic      uint32
	Version    uint16
	FileCount  uint16
	SectorSize uint16
}

// TableEntry is one row of the top-level file table. A zero SubTableCount
// marks a direct file; otherwise the entry is a sub-archive with that many
// groups.
type TableEntry struct {
	Name            string
	DataSector      uint32
	DataSectorCount uint32
	SubTableOffset  uint32
	SubTableCount   uint32
}

// IsArchive reports whether the entry points to a sub-archive
func (e TableEntry) IsArchive() bool { return e.SubTableCount != 0 }

// GroupEntry describes one group inside a sub-archive
type GroupEntry struct {
	ID                 uint32
	DataSector         uint32 // relative to the archive base sector
	DataSectorCount    uint32
	MemberTableSectors uint8
	RangeRatio         uint8
	Unknown            uint8
	Reverb             uint8
	Reserved           [4]uint32
}

// MemberHeader describes one file inside a group
type MemberHeader struct {
	Name             string
	UncompressedSize uint32
	ResourceGroup    uint32
	Unknown          uint32
	SectorCount      uint32
	Sector           uint32 // relative to the group data sector
	ResourceID       uint8
	Compressed       bool
	Unknown3         uint16
}

// FileRecord is one extractable file
type FileRecord struct {
	Path             string
	Sector           uint32
	RawSize          int64
	Compressed       bool
	UncompressedSize uint32 // only meaningful when Compressed
}

// Offset returns the absolute byte offset of the record's data
func (r FileRecord) Offset(sectorSize uint32) int64 {
	return common.SectorOffset(r.Sector, sectorSize)
}

// DecodeHeader decodes a HeaderSize-byte header
func DecodeHeader(b []byte) Header {
	_ = b[HeaderSize-1]
	return Header{
		Magic:      binary.LittleEndian.Uint32(b[0:4]),
		Version:    binary.LittleEndian.Uint16(b[4:6]),
		FileCount:  binary.LittleEndian.Uint16(b[6:8]),
		SectorSize: binary.LittleEndian.Uint16(b[8:10]),
	}
}

// DecodeTableEntry decodes a TableEntrySize-byte table entry
func DecodeTableEntry(b []byte) TableEntry {
	_ = b[TableEntrySize-1]
	return TableEntry{
		Name:            common.FixedName(b[0:TableEntryNameSize]),
		DataSector:      binary.LittleEndian.Uint32(b[16:20]),
		DataSectorCount: binary.LittleEndian.Uint32(b[20:24]),
		SubTableOffset:  binary.LittleEndian.Uint32(b[24:28]),
		SubTableCount:   binary.LittleEndian.Uint32(b[28:32]),
	}
}

// DecodeGroupEntry decodes a GroupEntrySize-byte group entry
func DecodeGroupEntry(b []byte) GroupEntry {
	_ = b[GroupEntrySize-1]
	g := GroupEntry{
		ID:                 binary.LittleEndian.Uint32(b[0:4]),
		DataSector:         binary.LittleEndian.Uint32(b[4:8]),
		DataSectorCount:    binary.LittleEndian.Uint32(b[8:12]),
		MemberTableSectors: b[12],
		RangeRatio:         b[13],
		Unknown:            b[14],
		Reverb:             b[15],
	}
	for i := range g.Reserved {
		g.Reserved[i] = binary.LittleEndian.Uint32(b[16+4*i:])
	}
	return g
}

// DecodeMemberHeader decodes a MemberHeaderSize-byte member header
func DecodeMemberHeader(b []byte) MemberHeader {
	_ = b[MemberHeaderSize-1]
	return MemberHeader{
		Name:             common.FixedName(b[0:MemberHeaderNameSize]),
		UncompressedSize: binary.LittleEndian.Uint32(b[24:28]),
		ResourceGroup:    binary.LittleEndian.Uint32(b[28:32]),
		Unknown:          binary.LittleEndian.Uint32(b[32:36]),
		SectorCount:      binary.LittleEndian.Uint32(b[36:40]),
		Sector:           binary.LittleEndian.Uint32(b[40:44]),
		ResourceID:       b[44],
		Compressed:       b[45] != 0,
		Unknown3:         binary.LittleEndian.Uint16(b[46:48]),
	}
}
