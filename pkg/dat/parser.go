package dat

import (
	"fmt"
	"math"

	"github.com/hansbonini/recomtools/pkg/common"
)

// Parser walks the container tables of a disc image. It holds no state
// between calls: every method returns freshly built records.
type Parser struct {
	src    Source
	layout Layout
}

// NewParser creates a parser reading src with the given layout
func NewParser(src Source, layout Layout) *Parser {
	return &Parser{src: src, layout: layout}
}

// Load parses the header and every table entry. On error no records are
// returned.
func (p *Parser) Load() ([]FileRecord, error) {
	header, err := p.ParseHeader()
	if err != nil {
		return nil, err
	}

	records, err := p.ParseEntries(header)
	if err != nil {
		return nil, err
	}

	common.LogInfo(common.InfoRecordsParsed, len(records))
	return records, nil
}

// ParseHeader reads and validates the container header
func (p *Parser) ParseHeader() (Header, error) {
	offset := common.SectorOffset(p.layout.HeaderSector, p.layout.SectorSize)
	data, err := common.ReadAtMost(p.src, offset, HeaderSize)
	if err != nil {
		return Header{}, common.WrapError(common.ErrFailedToReadHeader, err)
	}
	if len(data) < HeaderSize {
		return Header{}, &common.FormatError{
			Op:  "container header",
			Msg: fmt.Sprintf("truncated at offset 0x%X (%d of %d bytes)", offset, len(data), HeaderSize),
		}
	}

	header := DecodeHeader(data)
	common.LogDebug(common.DebugHeader, header.Magic, header.Version, header.FileCount, header.SectorSize)

	if header.Magic != DatMagic {
		return Header{}, &common.FormatError{
			Op:  "container header",
			Msg: fmt.Sprintf("expected \".DAT\" at offset 0x%X, got 0x%08X", offset, header.Magic),
		}
	}

	if header.SectorSize != 0 && uint32(header.SectorSize) != p.layout.SectorSize {
		common.LogWarn(common.WarnHeaderSectorSize, header.SectorSize, p.layout.SectorSize)
	}

	common.LogInfo(common.InfoContainerFound, p.layout.Name, header.Version, header.FileCount)
	return header, nil
}

// ParseEntries reads header.FileCount table entries and resolves each one
// into file records, descending into sub-archives. Entries with an empty
// name are skipped with a warning since they have no usable path.
func (p *Parser) ParseEntries(header Header) ([]FileRecord, error) {
	offset := common.SectorOffset(p.layout.TableSector, p.layout.SectorSize)
	rows, err := p.readTable(offset, int64(header.FileCount), TableEntrySize)
	if err != nil {
		return nil, common.WrapError(common.ErrFailedToReadEntryTable, err)
	}
	if len(rows) < int(header.FileCount) {
		common.LogDebug(common.DebugTableTruncated, "entries", len(rows))
	}

	var records []FileRecord
	for i, row := range rows {
		entry := DecodeTableEntry(row)
		common.LogDebug(common.DebugTableEntry, i, entry.Name, entry.DataSector, entry.DataSectorCount, entry.SubTableCount)

		if entry.Name == "" {
			common.LogWarn(common.WarnSkippingEmptyName, i)
			continue
		}
		if !common.IsValidFileName(entry.Name) {
			common.LogWarn(common.WarnSuspiciousName, entry.Name, "entry table")
		}

		if err := p.checkBounds(entry.Name, entry.DataSector, entry.DataSectorCount); err != nil {
			return nil, err
		}

		if !entry.IsArchive() {
			records = append(records, FileRecord{
				Path:    entry.Name,
				Sector:  entry.DataSector,
				RawSize: common.SectorsToBytes(entry.DataSectorCount, p.layout.SectorSize),
			})
			continue
		}

		members, err := p.ParseSubArchive(entry.Name, entry.DataSector, entry.SubTableCount)
		if err != nil {
			return nil, err
		}
		records = append(records, members...)
	}
	return records, nil
}

// ParseSubArchive reads groupCount group entries at baseSector and returns
// the records of every member of every group.
func (p *Parser) ParseSubArchive(name string, baseSector uint32, groupCount uint32) ([]FileRecord, error) {
	offset := common.SectorOffset(baseSector, p.layout.SectorSize)
	rows, err := p.readTable(offset, int64(groupCount), GroupEntrySize)
	if err != nil {
		return nil, common.WrapError(common.ErrFailedToReadGroupTable, err)
	}
	if len(rows) < int(groupCount) {
		common.LogDebug(common.DebugTableTruncated, name, len(rows))
	}

	var records []FileRecord
	for i, row := range rows {
		group := DecodeGroupEntry(row)
		common.LogDebug(common.DebugGroupEntry, name, i, group.ID, group.DataSector, group.MemberTableSectors)

		if group.MemberTableSectors == 0 {
			continue
		}

		members, err := p.parseGroup(name, baseSector, group)
		if err != nil {
			return nil, err
		}
		records = append(records, members...)
	}
	return records, nil
}

// parseGroup scans a group's member table. The scan ends at the first
// member whose name starts with NUL, when the next header would not fit in
// MemberTableSectors sectors, or when the source runs out.
func (p *Parser) parseGroup(archive string, baseSector uint32, group GroupEntry) ([]FileRecord, error) {
	groupSector, err := p.absoluteSector(fmt.Sprintf("%s group %d", archive, group.ID), baseSector, group.DataSector)
	if err != nil {
		return nil, err
	}
	offset := common.SectorOffset(groupSector, p.layout.SectorSize)
	budget := common.SectorsToBytes(uint32(group.MemberTableSectors), p.layout.SectorSize)

	rows, err := p.readTable(offset, budget/MemberHeaderSize, MemberHeaderSize)
	if err != nil {
		return nil, common.WrapError(common.ErrFailedToReadMemberTable, err)
	}

	var records []FileRecord
	for _, row := range rows {
		if row[0] == 0 {
			break
		}

		member := DecodeMemberHeader(row)
		if !common.IsValidFileName(member.Name) {
			common.LogWarn(common.WarnSuspiciousName, member.Name, archive)
		}
		path := fmt.Sprintf("%s/%d/%s", archive, group.ID, member.Name)
		common.LogDebug(common.DebugMemberHeader, path, member.Sector, member.SectorCount, member.Compressed, member.UncompressedSize)

		sector, err := p.absoluteSector(path, groupSector, member.Sector)
		if err != nil {
			return nil, err
		}
		record := FileRecord{
			Path:    path,
			Sector:  sector,
			RawSize: common.SectorsToBytes(member.SectorCount, p.layout.SectorSize),
		}
		if member.Compressed {
			record.Compressed = true
			record.UncompressedSize = member.UncompressedSize
		}

		if err := p.checkBounds(path, record.Sector, member.SectorCount); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// readTable reads up to count fixed-width records at offset. Records cut
// short by the end of the source are dropped.
func (p *Parser) readTable(offset int64, count int64, width int) ([][]byte, error) {
	if count <= 0 || offset >= p.src.Size() {
		return nil, nil
	}

	want := count * int64(width)
	if avail := p.src.Size() - offset; want > avail {
		want = avail
	}

	data, err := common.ReadAtMost(p.src, offset, int(want))
	if err != nil {
		return nil, err
	}

	rows := make([][]byte, 0, len(data)/width)
	for len(data) >= width {
		rows = append(rows, data[:width])
		data = data[width:]
	}
	return rows, nil
}

// absoluteSector adds relative sector fields without wrapping. A sum that
// leaves the uint32 sector space is reported as a *BoundsError.
func (p *Parser) absoluteSector(what string, parts ...uint32) (uint32, error) {
	var sector int64
	for _, part := range parts {
		sector += int64(part)
	}
	if sector > math.MaxUint32 {
		return 0, &common.BoundsError{
			What:   what,
			Offset: sector * int64(p.layout.SectorSize),
			Limit:  p.src.Size(),
		}
	}
	return uint32(sector), nil
}

func (p *Parser) checkBounds(what string, sector, sectorCount uint32) error {
	return common.CheckBounds(what,
		common.SectorOffset(sector, p.layout.SectorSize),
		common.SectorsToBytes(sectorCount, p.layout.SectorSize),
		p.src.Size())
}
