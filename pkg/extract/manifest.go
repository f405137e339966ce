package extract

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/hansbonini/recomtools/pkg/common"
	"gopkg.in/yaml.v3"
)

// ManifestEntry describes one extracted file
type ManifestEntry struct {
	Path       string `yaml:"path"`
	Offset     int64  `yaml:"offset"`
	RawSize    int64  `yaml:"raw_size"`
	Size       int    `yaml:"size"`
	Compressed bool   `yaml:"compressed,omitempty"`
	XXHash64   string `yaml:"xxhash64"`

	order int
}

// Manifest records every file written during a run. Entries are kept in
// job order regardless of which worker finished first.
type Manifest struct {
	Source string          `yaml:"source"`
	Files  []ManifestEntry `yaml:"files"`

	mu sync.Mutex
}

// NewManifest creates an empty manifest for the named source
func NewManifest(source string) *Manifest {
	return &Manifest{Source: source}
}

func (m *Manifest) add(order int, job Job, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files = append(m.Files, ManifestEntry{
		Path:       job.Path,
		Offset:     job.Offset,
		RawSize:    job.RawSize,
		Size:       len(data),
		Compressed: job.Compressed,
		XXHash64:   Checksum(data),
		order:      order,
	})
}

// Checksum returns the hex xxhash64 of data
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Write encodes the manifest as YAML
func (m *Manifest) Write(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sort.SliceStable(m.Files, func(i, j int) bool { return m.Files[i].order < m.Files[j].order })

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(m); err != nil {
		return common.WrapError(common.ErrFailedToWriteManifest, err)
	}
	return encoder.Close()
}

// WriteFile writes the manifest to filename
func (m *Manifest) WriteFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return common.WrapError(common.ErrFailedToWriteManifest, err)
	}
	defer file.Close()

	if err := m.Write(file); err != nil {
		return err
	}
	common.LogInfo(common.InfoManifestWritten, filename)
	return nil
}
