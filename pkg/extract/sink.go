package extract

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/hansbonini/recomtools/pkg/common"
)

// Sink receives extracted files. Paths are slash separated and relative.
type Sink interface {
	Put(path string, data []byte) error
}

// DirSink writes files below Root, creating parent directories as needed.
type DirSink struct {
	Root string
}

// NewDirSink creates a sink writing below root
func NewDirSink(root string) *DirSink {
	return &DirSink{Root: root}
}

// Put writes data to Root/path. Paths that are absolute or climb out of
// Root are rejected.
func (s *DirSink) Put(path string, data []byte) error {
	if !fs.ValidPath(path) || path == "." {
		return fmt.Errorf("%s: invalid output path %q", common.ErrFailedToWriteFile, path)
	}

	target := filepath.Join(s.Root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return common.WrapError(common.ErrFailedToCreateDirectory, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return common.WrapError(common.ErrFailedToWriteFile, err)
	}
	return nil
}

// MemorySink keeps extracted files in memory. It is safe for concurrent use.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemorySink creates an empty in-memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// Put stores a copy of data under path
func (s *MemorySink) Put(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = append([]byte(nil), data...)
	return nil
}

// Get returns the data stored under path
func (s *MemorySink) Get(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	return data, ok
}

// Paths returns the stored paths in sorted order
func (s *MemorySink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
