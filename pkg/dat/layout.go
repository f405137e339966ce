package dat

import (
	"fmt"
	"io"

	"github.com/hansbonini/recomtools/pkg/common"
	"gopkg.in/yaml.v3"
)

// Layout pins where a disc version keeps its container tables. The sector
// numbers are hard-coded in the game executable rather than derived from
// anything on disc.
type Layout struct {
	Name         string `yaml:"name"`
	HeaderSector uint32 `yaml:"header_sector"`
	TableSector  uint32 `yaml:"table_sector"`
	SectorSize   uint32 `yaml:"sector_size"`
}

// RecomPS2 is shared by all known PS2 releases (SLUS_217.99 and later).
var RecomPS2 = Layout{
	Name:         "recom-ps2",
	HeaderSector: 0x244,
	TableSector:  0x245,
	SectorSize:   0x800,
}

// layoutsYAML is the document accepted by LoadLayouts
type layoutsYAML struct {
	Layouts []Layout `yaml:"layouts"`
}

// LoadLayouts reads additional layout definitions from a YAML document:
//
//	layouts:
//	  - name: recom-ps2-jp
//	    header_sector: 0x244
//	    table_sector: 0x245
//	    sector_size: 2048
//
// A missing sector_size defaults to 2048.
func LoadLayouts(r io.Reader) ([]Layout, error) {
	var doc layoutsYAML
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, common.WrapError(common.ErrFailedToParseLayouts, err)
	}

	for i := range doc.Layouts {
		l := &doc.Layouts[i]
		if l.Name == "" {
			return nil, common.WrapErrorString(common.ErrFailedToParseLayouts, "layout %d has no name", i)
		}
		if l.SectorSize == 0 {
			l.SectorSize = RecomPS2.SectorSize
		}
		if err := l.Validate(); err != nil {
			return nil, common.WrapError(common.ErrFailedToParseLayouts, err)
		}
	}
	return doc.Layouts, nil
}

// Validate checks that the layout is usable
func (l Layout) Validate() error {
	if l.SectorSize == 0 || l.SectorSize&(l.SectorSize-1) != 0 {
		return fmt.Errorf("layout %s: sector size %d is not a power of two", l.Name, l.SectorSize)
	}
	if l.TableSector <= l.HeaderSector {
		return fmt.Errorf("layout %s: table sector 0x%X must follow header sector 0x%X",
			l.Name, l.TableSector, l.HeaderSector)
	}
	return nil
}

// FindLayout returns the layout called name, searching the built-in RecomPS2
// layout first and then extra.
func FindLayout(name string, extra []Layout) (Layout, error) {
	if name == "" || name == RecomPS2.Name {
		return RecomPS2, nil
	}
	for _, l := range extra {
		if l.Name == name {
			return l, nil
		}
	}
	return Layout{}, common.WrapError(common.ErrUnknownLayout, name)
}
