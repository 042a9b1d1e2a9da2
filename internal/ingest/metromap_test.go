package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeMappingWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("zonas")
	require.NoError(t, err)

	for _, cells := range rows {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().Value = v
		}
	}

	path := filepath.Join(t.TempDir(), "mapping.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadMetroMapping(t *testing.T) {
	path := writeMappingWorkbook(t, [][]string{
		{"CVEGEO", "CVE_ZM", "NOM_ZM", "NOM_ENT"},
		{"19039", "31", "Monterrey", "Nuevo León"},
		{"5030", "5", "Saltillo-Ramos Arizpe", "Coahuila"},
		{"", "", ""},
	})

	rows, err := ReadMetroMapping(path, MetroMapOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "19039", rows[0].Geocode)
	assert.Equal(t, 31, rows[0].CodeZM)
	assert.Equal(t, "Monterrey", rows[0].ZM)
	assert.Equal(t, "Nuevo León", rows[0].Entidad)

	// Short geocodes come back zero-padded to 5 characters.
	assert.Equal(t, "05030", rows[1].Geocode)
	assert.Equal(t, 5, rows[1].CodeZM)
}

func TestReadMetroMappingSheetByName(t *testing.T) {
	path := writeMappingWorkbook(t, [][]string{
		{"CVEGEO", "CVE_ZM", "NOM_ZM"},
		{"09002", "13", "Valle de México"},
	})

	rows, err := ReadMetroMapping(path, MetroMapOptions{SheetName: "zonas"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Valle de México", rows[0].ZM)

	_, err = ReadMetroMapping(path, MetroMapOptions{SheetName: "missing"})
	assert.Error(t, err)
}
