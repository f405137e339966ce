package extract

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hansbonini/recomtools/pkg/common"
	"github.com/hansbonini/recomtools/pkg/lzs"
	"golang.org/x/sync/errgroup"
)

// Extractor reads jobs from a source and hands the final bytes to a sink
type Extractor struct {
	src      io.ReaderAt
	sink     Sink
	workers  int
	filter   string
	manifest *Manifest
}

// Option configures an Extractor
type Option func(*Extractor)

// WithWorkers extracts up to n files at once. Values below 2 keep the
// default sequential, in-order behaviour.
func WithWorkers(n int) Option {
	return func(e *Extractor) { e.workers = n }
}

// WithFilter only extracts jobs whose path matches a doublestar pattern
// such as "g000.dat/**/*.bin".
func WithFilter(pattern string) Option {
	return func(e *Extractor) { e.filter = pattern }
}

// WithManifest records every written file in m
func WithManifest(m *Manifest) Option {
	return func(e *Extractor) { e.manifest = m }
}

// NewExtractor creates an extractor reading from src and writing to sink
func NewExtractor(src io.ReaderAt, sink Sink, opts ...Option) *Extractor {
	e := &Extractor{src: src, sink: sink, workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run extracts jobs and returns how many files reached the sink. The first
// failure stops the run; files already written stay in place.
func (e *Extractor) Run(ctx context.Context, jobs []Job) (int, error) {
	selected, err := e.selectJobs(jobs)
	if err != nil {
		return 0, err
	}
	if e.workers < 2 {
		return e.runSequential(ctx, selected)
	}
	return e.runParallel(ctx, selected)
}

func (e *Extractor) selectJobs(jobs []Job) ([]Job, error) {
	if e.filter == "" {
		return jobs, nil
	}
	if !doublestar.ValidatePattern(e.filter) {
		return nil, common.WrapError(common.ErrInvalidFilterPattern, e.filter)
	}

	selected := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		ok, err := doublestar.Match(e.filter, job.Path)
		if err != nil {
			return nil, common.WrapError(common.ErrInvalidFilterPattern, err)
		}
		if !ok {
			common.LogDebug(common.DebugSkippedByFilter, job.Path)
			continue
		}
		selected = append(selected, job)
	}
	return selected, nil
}

func (e *Extractor) runSequential(ctx context.Context, jobs []Job) (int, error) {
	count := 0
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if err := e.extract(i, job); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (e *Extractor) runParallel(ctx context.Context, jobs []Job) (int, error) {
	var count atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := e.extract(i, job); err != nil {
				return err
			}
			count.Add(1)
			return nil
		})
	}

	err := g.Wait()
	return int(count.Load()), err
}

// extract handles one job. The buffers it allocates are not retained.
func (e *Extractor) extract(order int, job Job) error {
	common.LogInfo(common.InfoExtracting, job.Path)

	raw := make([]byte, job.RawSize)
	if _, err := io.ReadFull(io.NewSectionReader(e.src, job.Offset, job.RawSize), raw); err != nil {
		return &common.IOError{Op: common.ErrFailedToReadFileData, Path: job.Path, Err: err}
	}

	data := raw
	if job.Compressed {
		if job.UncompressedSize < 0 {
			return &common.IOError{
				Op:   "failed to decompress",
				Path: job.Path,
				Err:  fmt.Errorf("%s: %d", common.ErrInvalidUncompressedSize, job.UncompressedSize),
			}
		}
		data = lzs.Decompress(raw, int(job.UncompressedSize))
	}

	if err := e.sink.Put(job.Path, data); err != nil {
		return &common.IOError{Op: common.ErrFailedToWriteFile, Path: job.Path, Err: err}
	}

	if e.manifest != nil {
		e.manifest.add(order, job, data)
	}
	return nil
}
