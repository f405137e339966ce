// Package extract copies files out of a disc image or packed resource and
// hands them to a Sink, decompressing members that need it.
package extract

import (
	"github.com/hansbonini/recomtools/pkg/dat"
	"github.com/hansbonini/recomtools/pkg/rsrc"
)

// Job is one file to extract. Offsets are absolute within the source.
type Job struct {
	Path             string
	Offset           int64
	RawSize          int64
	Compressed       bool
	UncompressedSize int64 // only meaningful when Compressed
}

// FromRecords converts container records into jobs, keeping parse order
func FromRecords(records []dat.FileRecord, sectorSize uint32) []Job {
	jobs := make([]Job, 0, len(records))
	for _, r := range records {
		jobs = append(jobs, Job{
			Path:             r.Path,
			Offset:           r.Offset(sectorSize),
			RawSize:          r.RawSize,
			Compressed:       r.Compressed,
			UncompressedSize: int64(r.UncompressedSize),
		})
	}
	return jobs
}

// FromResource converts packed-resource entries into jobs
func FromResource(entries []rsrc.Entry) []Job {
	jobs := make([]Job, 0, len(entries))
	for _, e := range entries {
		jobs = append(jobs, Job{Path: e.Name, Offset: e.Offset, RawSize: e.Size})
	}
	return jobs
}
