package pkg

import (
	"context"
	"fmt"
	"io"

	"github.com/hansbonini/recomtools/pkg/common"
	"github.com/hansbonini/recomtools/pkg/extract"
)

// DumpOptions holds the settings shared by the extraction commands
type DumpOptions struct {
	Layout     string // container layout name, empty for the built-in one
	LayoutFile string // YAML file with extra layouts
	Match      string // doublestar pattern over extracted paths
	Workers    int
	Manifest   string // manifest output path, empty to skip
	DryRun     bool   // decode everything but write nothing
}

// run extracts jobs from src into outputDir according to the options
func (o DumpOptions) run(ctx context.Context, src io.ReaderAt, jobs []extract.Job, sourceName, outputDir string) (int, error) {
	if len(jobs) == 0 {
		return 0, fmt.Errorf("%s", common.ErrNoFilesToExtract)
	}

	var sink extract.Sink = extract.NewDirSink(outputDir)
	if o.DryRun {
		sink = extract.NewMemorySink()
	}

	opts := []extract.Option{extract.WithWorkers(o.Workers)}
	if o.Match != "" {
		opts = append(opts, extract.WithFilter(o.Match))
	}

	var manifest *extract.Manifest
	if o.Manifest != "" {
		manifest = extract.NewManifest(sourceName)
		opts = append(opts, extract.WithManifest(manifest))
	}

	count, err := extract.NewExtractor(src, sink, opts...).Run(ctx, jobs)
	if err != nil {
		return count, err
	}
	if count == 0 {
		return 0, fmt.Errorf("%s", common.ErrNoFilesToExtract)
	}

	if manifest != nil {
		if err := manifest.WriteFile(o.Manifest); err != nil {
			return count, err
		}
	}

	common.LogInfo(common.InfoFinishedExtracting, count)
	return count, nil
}
