// Package common provides common utilities for disc image operations.
// This file contains sector arithmetic and file name helpers.
package common

// SectorOffset converts a sector index to an absolute byte offset
func SectorOffset(sector uint32, sectorSize uint32) int64 {
	return int64(sector) * int64(sectorSize)
}

// SectorsToBytes converts a sector count to a byte length
func SectorsToBytes(count uint32, sectorSize uint32) int64 {
	return int64(count) * int64(sectorSize)
}

// IsValidFileName checks if a name decoded from a table is usable as a path component
func IsValidFileName(fileName string) bool {
	if len(fileName) == 0 || len(fileName) > 255 {
		return false
	}
	if fileName == "." || fileName == ".." {
		return false
	}

	for _, b := range []byte(fileName) {
		if b < 0x20 || b >= 0x7F {
			return false
		}
		switch b {
		case '<', '>', ':', '"', '|', '?', '*', '\\', '/':
			return false
		}
	}
	return true
}
