package dat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLayouts(t *testing.T) {
	doc := `
layouts:
  - name: recom-ps2-jp
    header_sector: 0x300
    table_sector: 0x301
  - name: tiny
    header_sector: 2
    table_sector: 3
    sector_size: 512
`
	layouts, err := LoadLayouts(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, layouts, 2)

	assert.Equal(t, Layout{Name: "recom-ps2-jp", HeaderSector: 0x300, TableSector: 0x301, SectorSize: 2048}, layouts[0])
	assert.Equal(t, uint32(512), layouts[1].SectorSize)
}

func TestLoadLayouts_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{"not yaml", "layouts: [:"},
		{"unknown field", "layouts:\n  - name: x\n    header: 1\n"},
		{"missing name", "layouts:\n  - header_sector: 1\n    table_sector: 2\n"},
		{"sector size not power of two", "layouts:\n  - name: x\n    header_sector: 1\n    table_sector: 2\n    sector_size: 2000\n"},
		{"table before header", "layouts:\n  - name: x\n    header_sector: 5\n    table_sector: 2\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadLayouts(strings.NewReader(tc.doc))
			assert.Error(t, err)
		})
	}
}

func TestFindLayout(t *testing.T) {
	extra := []Layout{{Name: "custom", HeaderSector: 1, TableSector: 2, SectorSize: 2048}}

	l, err := FindLayout("", extra)
	require.NoError(t, err)
	assert.Equal(t, RecomPS2, l)

	l, err = FindLayout("recom-ps2", nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x244), l.HeaderSector)
	assert.Equal(t, uint32(0x245), l.TableSector)

	l, err = FindLayout("custom", extra)
	require.NoError(t, err)
	assert.Equal(t, "custom", l.Name)

	_, err = FindLayout("missing", extra)
	assert.Error(t, err)
}

func TestRecomPS2_Valid(t *testing.T) {
	assert.NoError(t, RecomPS2.Validate())
}
