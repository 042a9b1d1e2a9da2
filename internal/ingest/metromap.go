package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/urbanecon/mexmetro/internal/geo"
	"github.com/urbanecon/mexmetro/internal/model"
)

// MetroMapOptions configures the metro-area mapping workbook reader.
type MetroMapOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	SkipRows   int    // header rows to skip (default 1)
}

// ReadMetroMapping reads the municipality -> metropolitan area mapping
// workbook. Expected columns: geocode, codeZM, ZM name, entity name.
// Geocodes are normalized to the canonical 5 characters; rows without a
// geocode or metro code are dropped.
func ReadMetroMapping(path string, opts MetroMapOptions) ([]model.MetroMapping, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "metromap: open file")
	}

	sheet, err := mappingSheet(f, opts)
	if err != nil {
		return nil, err
	}

	skip := opts.SkipRows
	if skip == 0 {
		skip = 1
	}

	var out []model.MetroMapping
	for i, row := range sheet.Rows {
		if i < skip || len(row.Cells) < 3 {
			continue
		}
		geocode := strings.TrimSpace(row.Cells[0].String())
		codeZM := ParseInt(row.Cells[1].String())
		if geocode == "" || codeZM == 0 {
			continue
		}
		m := model.MetroMapping{
			Geocode: geo.NormalizeGeocode(geocode),
			CodeZM:  codeZM,
			ZM:      strings.TrimSpace(row.Cells[2].String()),
		}
		if len(row.Cells) > 3 {
			m.Entidad = strings.TrimSpace(row.Cells[3].String())
		}
		out = append(out, m)
	}

	zap.L().Info("metromap: read mapping", zap.String("path", path), zap.Int("rows", len(out)))
	return out, nil
}

func mappingSheet(f *xlsx.File, opts MetroMapOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("metromap: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("metromap: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}
