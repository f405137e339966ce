package pkg

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/hansbonini/recomtools/pkg/common"
	"github.com/hansbonini/recomtools/pkg/extract"
	"github.com/hansbonini/recomtools/pkg/rsrc"
)

// DefaultResourceDirSuffix is appended to the resource file name when no
// output directory is given
const DefaultResourceDirSuffix = ".out"

// ResourceProcessor unpacks flat packed-resource files
type ResourceProcessor struct {
	opts DumpOptions
}

// NewResourceProcessor creates a new packed-resource processor
func NewResourceProcessor(opts DumpOptions) *ResourceProcessor {
	return &ResourceProcessor{opts: opts}
}

// DefaultOutputDir returns the directory used when none is given
func DefaultOutputDir(inputFile string) string {
	return filepath.Base(inputFile) + DefaultResourceDirSuffix
}

// Unpack extracts every entry of inputFile below outputDir
func (p *ResourceProcessor) Unpack(ctx context.Context, inputFile, outputDir string) (int, error) {
	// Open input file
	file, err := os.Open(inputFile)
	if err != nil {
		return 0, common.WrapError(common.ErrFailedToReadResource, err)
	}
	defer file.Close()

	// Get file size
	fileInfo, err := file.Stat()
	if err != nil {
		return 0, common.WrapError(common.ErrFailedToReadResource, err)
	}

	src := io.NewSectionReader(file, 0, fileInfo.Size())
	entries, err := rsrc.Parse(src)
	if err != nil {
		return 0, err
	}
	common.LogInfo(common.InfoResourceEntriesFound, len(entries), inputFile)

	return p.opts.run(ctx, src, extract.FromResource(entries), filepath.Base(inputFile), outputDir)
}
