package pkg

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hansbonini/recomtools/pkg/common"
	"github.com/hansbonini/recomtools/pkg/dat"
	"github.com/hansbonini/recomtools/pkg/extract"
	"github.com/hansbonini/recomtools/pkg/psx"
)

// ISOProcessor lists and extracts the .DAT container of a Re:COM disc image
type ISOProcessor struct {
	opts DumpOptions
}

// NewISOProcessor creates a new disc image processor
func NewISOProcessor(opts DumpOptions) *ISOProcessor {
	return &ISOProcessor{opts: opts}
}

// List prints one line per file record to w and returns how many were listed
func (p *ISOProcessor) List(inputFile string, w io.Writer) (int, error) {
	img, layout, records, err := p.load(inputFile)
	if err != nil {
		return 0, err
	}
	defer img.Close()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SECTOR\tOFFSET\tRAW SIZE\tSIZE\tPATH")

	count := 0
	for _, r := range records {
		if p.opts.Match != "" {
			ok, err := doublestar.Match(p.opts.Match, r.Path)
			if err != nil {
				return 0, common.WrapError(common.ErrInvalidFilterPattern, err)
			}
			if !ok {
				continue
			}
		}

		size := "-"
		if r.Compressed {
			size = fmt.Sprint(r.UncompressedSize)
		}
		fmt.Fprintf(tw, "%d\t0x%X\t%d\t%s\t%s\n", r.Sector, r.Offset(layout.SectorSize), r.RawSize, size, r.Path)
		count++
	}
	return count, tw.Flush()
}

// Dump extracts every file record of inputFile below outputDir
func (p *ISOProcessor) Dump(ctx context.Context, inputFile, outputDir string) (int, error) {
	img, layout, records, err := p.load(inputFile)
	if err != nil {
		return 0, err
	}
	defer img.Close()

	jobs := extract.FromRecords(records, layout.SectorSize)
	return p.opts.run(ctx, img, jobs, filepath.Base(inputFile), outputDir)
}

// load opens the image, checks its volume descriptor and parses the
// container tables
func (p *ISOProcessor) load(inputFile string) (*psx.Image, dat.Layout, []dat.FileRecord, error) {
	layout, err := p.resolveLayout()
	if err != nil {
		return nil, dat.Layout{}, nil, err
	}

	// Open input image
	img, err := psx.OpenImage(inputFile)
	if err != nil {
		return nil, dat.Layout{}, nil, common.WrapError(common.ErrFailedToOpenImage, err)
	}
	common.LogInfo(common.InfoReadingImage, inputFile, img.Format(), img.TotalSectors())

	if err := img.ValidatePVD(); err != nil {
		img.Close()
		return nil, dat.Layout{}, nil, common.WrapError(common.ErrFailedToValidatePVD, err)
	}

	// Parse container tables
	records, err := dat.NewParser(img, layout).Load()
	if err != nil {
		img.Close()
		return nil, dat.Layout{}, nil, err
	}
	return img, layout, records, nil
}

func (p *ISOProcessor) resolveLayout() (dat.Layout, error) {
	var extra []dat.Layout
	if p.opts.LayoutFile != "" {
		file, err := os.Open(p.opts.LayoutFile)
		if err != nil {
			return dat.Layout{}, common.WrapError(common.ErrFailedToParseLayouts, err)
		}
		defer file.Close()

		if extra, err = dat.LoadLayouts(file); err != nil {
			return dat.Layout{}, err
		}
	}
	return dat.FindLayout(p.opts.Layout, extra)
}
