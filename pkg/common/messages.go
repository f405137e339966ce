package common

import (
	"fmt"
	"log"
)

// Global variable to control debug output
var VerboseMode bool = false

// SetVerboseMode enables or disables verbose/debug output
func SetVerboseMode(verbose bool) {
	VerboseMode = verbose
}

// Error messages
const (
	ErrFailedToOpenImage       = "failed to open disc image"
	ErrFailedToValidatePVD     = "failed to validate primary volume descriptor"
	ErrFailedToReadHeader      = "failed to read container header"
	ErrFailedToReadEntryTable  = "failed to read container entry table"
	ErrFailedToReadGroupTable  = "failed to read sub-archive group table"
	ErrFailedToReadMemberTable = "failed to read sub-archive member table"
	ErrFailedToReadFileData    = "failed to read file data"
	ErrFailedToWriteFile       = "failed to write extracted file"
	ErrFailedToCreateDirectory = "failed to create output directory"
	ErrFailedToParseLayouts    = "failed to parse layout definitions"
	ErrFailedToWriteManifest   = "failed to write extraction manifest"
	ErrFailedToReadResource    = "failed to read packed resource"
	ErrInvalidFilterPattern    = "invalid path filter pattern"
	ErrNoFilesToExtract        = "no files to extract"
	ErrUnknownLayout           = "unknown container layout"
	ErrInvalidUncompressedSize = "uncompressed size must not be negative"
)

// Info messages
const (
	InfoReadingImage         = "Reading %s (%s image, %d sectors)"
	InfoContainerFound       = "Found %s container v%d with %d entries"
	InfoRecordsParsed        = "Parsed %d file records"
	InfoExtracting           = "Extracting: %s"
	InfoFinishedExtracting   = "Finished extracting %d files"
	InfoResourceEntriesFound = "Found %d entries in packed resource %s"
	InfoManifestWritten      = "Manifest written to: %s"
)

// Debug messages
const (
	DebugHeader          = "Header: magic=0x%08X version=%d files=%d sector_size=%d"
	DebugTableEntry      = "Entry %d: %q sector=%d sectors=%d groups=%d"
	DebugGroupEntry      = "Archive %s group %d: id=%d sector=%d member_table_sectors=%d"
	DebugMemberHeader    = "Member %s: sector=%d sectors=%d compressed=%t size=%d"
	DebugTableTruncated  = "Table %s truncated after %d records"
	DebugBlockStart      = "Block %d at offset 0x%X (output %d/%d)"
	DebugBlockTerminator = "Block %d terminated at offset %d bit %d"
	DebugShortOutput     = "Compressed data exhausted: %d of %d bytes decoded"
	DebugSectorCacheMiss = "Sector cache miss: LBA %d"
	DebugSkippedByFilter = "Skipping %s (filtered)"
)

// Warning messages
const (
	WarnNameNotTerminated = "Name field %q has no terminator within %d bytes, truncating"
	WarnSkippingEmptyName = "Skipping entry %d with empty name"
	WarnSuspiciousName    = "Suspicious file name %q in %s"
	WarnHeaderSectorSize  = "Header declares sector size %d, layout uses %d"
)

// LogInfo logs an informational message
func LogInfo(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[INFO] "+message, args...)
	} else {
		log.Printf("[INFO] %s", message)
	}
}

// LogWarn logs a warning message
func LogWarn(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[WARN] "+message, args...)
	} else {
		log.Printf("[WARN] %s", message)
	}
}

// LogError logs an error message
func LogError(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[ERROR] "+message, args...)
	} else {
		log.Printf("[ERROR] %s", message)
	}
}

// LogDebug logs a debug message (only if VerboseMode is enabled)
func LogDebug(message string, args ...interface{}) {
	if !VerboseMode {
		return
	}
	if len(args) > 0 {
		log.Printf("[DEBUG] "+message, args...)
	} else {
		log.Printf("[DEBUG] %s", message)
	}
}

// WrapError creates a formatted error with additional context
func WrapError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}

// WrapErrorString creates a formatted error with string details
func WrapErrorString(baseMessage, details string, args ...interface{}) error {
	if len(args) > 0 {
		return fmt.Errorf("%s: "+details, append([]interface{}{baseMessage}, args...)...)
	}
	return fmt.Errorf("%s: %s", baseMessage, details)
}
