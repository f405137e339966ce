// Package common provides tests for message and logging functionality
package common

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
)

// captureLog redirects the standard logger for the duration of fn
func captureLog(fn func()) string {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	fn()
	return buf.String()
}

func TestLogLevels(t *testing.T) {
	defer SetVerboseMode(VerboseMode)
	SetVerboseMode(true)

	testCases := []struct {
		name   string
		logFn  func(string, ...interface{})
		prefix string
	}{
		{"info", LogInfo, "[INFO] "},
		{"warn", LogWarn, "[WARN] "},
		{"error", LogError, "[ERROR] "},
		{"debug", LogDebug, "[DEBUG] "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output := captureLog(func() { tc.logFn(DebugTableEntry, 3, "g000.dat", 0x300, 16, 2) })
			expected := tc.prefix + `Entry 3: "g000.dat" sector=768 sectors=16 groups=2`
			if !strings.Contains(output, expected) {
				t.Errorf("expected %q in output, got %q", expected, output)
			}

			// A message without arguments is printed verbatim, even with % in it
			output = captureLog(func() { tc.logFn("100% done") })
			if !strings.Contains(output, tc.prefix+"100% done") {
				t.Errorf("unformatted message mangled: %q", output)
			}
		})
	}
}

func TestLogDebug_Silent(t *testing.T) {
	defer SetVerboseMode(VerboseMode)
	SetVerboseMode(false)

	if output := captureLog(func() { LogDebug(DebugSectorCacheMiss, 16) }); output != "" {
		t.Errorf("LogDebug should be silent when verbose mode is disabled, got: %q", output)
	}

	SetVerboseMode(true)
	if output := captureLog(func() { LogDebug(DebugSectorCacheMiss, 16) }); !strings.Contains(output, "LBA 16") {
		t.Errorf("LogDebug should print when verbose mode is enabled, got: %q", output)
	}
}

func TestWrapError(t *testing.T) {
	cause := fmt.Errorf("unexpected EOF")

	testCases := []struct {
		name     string
		wrapped  error
		expected string
		wraps    bool
	}{
		{"error details", WrapError(ErrFailedToReadEntryTable, cause), "failed to read container entry table: unexpected EOF", true},
		{"string details", WrapError(ErrUnknownLayout, "pal"), "unknown container layout: pal", false},
		{"formatted details", WrapErrorString(ErrFailedToReadHeader, "sector %d", 0x244), "failed to read container header: sector 580", false},
		{"plain details", WrapErrorString(ErrFailedToParseLayouts, "empty"), "failed to parse layout definitions: empty", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.wrapped.Error() != tc.expected {
				t.Errorf("got %q, want %q", tc.wrapped.Error(), tc.expected)
			}
			if errors.Is(tc.wrapped, cause) != tc.wraps {
				t.Errorf("errors.Is(cause) = %t, want %t", !tc.wraps, tc.wraps)
			}
		})
	}
}

func TestFormatStrings(t *testing.T) {
	// Each format string must accept exactly the arguments its callers pass
	testCases := []struct {
		format   string
		args     []interface{}
		expected string
	}{
		{InfoReadingImage, []interface{}{"recom.iso", "bin", 1000}, "Reading recom.iso (bin image, 1000 sectors)"},
		{InfoContainerFound, []interface{}{"recom-ps2", 1, 14}, "Found recom-ps2 container v1 with 14 entries"},
		{InfoFinishedExtracting, []interface{}{7}, "Finished extracting 7 files"},
		{DebugHeader, []interface{}{uint32(0x5441442E), 1, 2, 2048}, "Header: magic=0x5441442E version=1 files=2 sector_size=2048"},
		{DebugTableTruncated, []interface{}{"g000.dat", 3}, "Table g000.dat truncated after 3 records"},
		{WarnSuspiciousName, []interface{}{"a/b", "g001.dat"}, `Suspicious file name "a/b" in g001.dat`},
		{WarnHeaderSectorSize, []interface{}{0, 2048}, "Header declares sector size 0, layout uses 2048"},
	}

	for _, tc := range testCases {
		if got := fmt.Sprintf(tc.format, tc.args...); got != tc.expected {
			t.Errorf("Sprintf(%q) = %q, want %q", tc.format, got, tc.expected)
		}
	}
}

func TestSetVerboseMode(t *testing.T) {
	original := VerboseMode
	defer SetVerboseMode(original)

	SetVerboseMode(true)
	if !VerboseMode {
		t.Error("SetVerboseMode(true) should enable verbose mode")
	}
	SetVerboseMode(false)
	if VerboseMode {
		t.Error("SetVerboseMode(false) should disable verbose mode")
	}
}
