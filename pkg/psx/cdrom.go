// Package psx provides PlayStation-specific structures and functionality.
// This file contains CD/DVD-ROM sector constants for PlayStation disc images.
package psx

// Sector size constants for PlayStation disc images
const (
	CD_SECTOR_SIZE    = 2352 // Full raw CD sector size
	CD_DATA_SIZE      = 2048 // User data portion of Mode 1 / Mode 2 Form 1 sectors
	CD_SYNC_SIZE      = 12   // Sync pattern size
	CD_HEADER_SIZE    = 4    // Header size (3 address bytes + 1 mode byte)
	CD_SUBHEADER_SIZE = 8    // XA subheader size (Mode 2 only)
)

// ISO9660 primary volume descriptor layout
const (
	PVD_SECTOR            = 16
	PVD_TYPE_PRIMARY      = 0x01
	PVD_BLOCK_SIZE_OFFSET = 0x80
)

// PVDStandardIdentifier is the ISO9660 standard identifier.
const PVDStandardIdentifier = "CD001"

// syncPattern opens every raw CD sector.
var syncPattern = [CD_SYNC_SIZE]byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

// SectorFormat identifies how user data is laid out in an image file
type SectorFormat int

const (
	// FormatCooked images store 2048 bytes of user data per sector (.iso)
	FormatCooked SectorFormat = iota
	// FormatRaw images store full 2352-byte sectors (.bin)
	FormatRaw
)

func (f SectorFormat) String() string {
	switch f {
	case FormatCooked:
		return "iso"
	case FormatRaw:
		return "bin"
	default:
		return "unknown"
	}
}

// dataOffset returns where user data starts in a raw sector for the given mode byte
func dataOffset(mode byte) int {
	if mode == 1 {
		return CD_SYNC_SIZE + CD_HEADER_SIZE
	}
	// Mode 2 Form 1: sync(12) + header(4) + subheader(8)
	return CD_SYNC_SIZE + CD_HEADER_SIZE + CD_SUBHEADER_SIZE
}
