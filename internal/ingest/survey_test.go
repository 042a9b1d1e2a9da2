package ingest

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadPersons(t *testing.T) {
	path := writeTemp(t, "persons.csv",
		"ENT,MUN,FACTOR,INGTRMEN,COBERTURA,EDAD,ENT_PAIS_RES_5A,MUN_RES_5A\n"+
			"19,039,120.5,8500,1,34,019,0039\n"+
			"09,002,90,999999,4,17,009,0002\n")

	rows, err := ReadPersons(path, SurveyOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "19", rows[0].Entidad)
	assert.Equal(t, "039", rows[0].Municipio)
	assert.InDelta(t, 120.5, rows[0].Weight, 1e-9)
	assert.InDelta(t, 8500, rows[0].Income, 1e-9)
	assert.Equal(t, 1, rows[0].Coverage)
	assert.Equal(t, 34, rows[0].Age)
	assert.Equal(t, "019", rows[0].ResEnt5A)
	assert.Equal(t, "0039", rows[0].ResMun5A)

	assert.Equal(t, 4, rows[1].Coverage)
	assert.InDelta(t, 999999, rows[1].Income, 1e-9)
}

func TestReadPersonsColumnOverride(t *testing.T) {
	path := writeTemp(t, "persons.csv", "STATE,MUN,FACTOR,INGTRMEN,COBERTURA,EDAD,ENT_PAIS_RES_5A,MUN_RES_5A\n05,030,1,100,1,40,05,030\n")

	rows, err := ReadPersons(path, SurveyOptions{Columns: map[string]string{"entidad": "STATE"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "05", rows[0].Entidad)
}

func TestReadHousingRecords(t *testing.T) {
	path := writeTemp(t, "housing.csv",
		"ENT,MUN,RECAMARAS,RENTA,PAGO_ESTIM,FACTOR\n"+
			"19,039,2,6500,,80\n"+
			"19,026,2,,5200,75\n"+
			"09,002,3,9000,8000,60\n")

	rows, err := ReadHousingRecords(path, SurveyOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].Bedrooms)
	assert.InDelta(t, 6500, rows[0].Rent, 1e-9)
	assert.True(t, math.IsNaN(rows[0].EstPayment))

	assert.True(t, math.IsNaN(rows[1].Rent))
	assert.InDelta(t, 5200, rows[1].EstPayment, 1e-9)
}

func TestReadEstablishments(t *testing.T) {
	path := writeTemp(t, "estab.csv",
		"ENTIDAD,MUNICIPIO,CODIGO,A111A,A131A,H001A,J000A\n"+
			"19,039,11-99,1500.5,620.2,85000,310.9\n"+
			"19,000,11-99,9999,9999,999999,9999\n")

	rows, err := ReadEstablishments(path, SurveyOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "11-99", rows[0].Activity)
	assert.InDelta(t, 1500.5, rows[0].GrossProduction, 1e-9)
	assert.InDelta(t, 620.2, rows[0].ValueAdded, 1e-9)
	assert.InDelta(t, 85000, rows[0].Employment, 1e-9)
	assert.InDelta(t, 310.9, rows[0].Payroll, 1e-9)
	assert.Equal(t, "000", rows[1].Municipio)
}

func TestReadPersonsMissingFile(t *testing.T) {
	_, err := ReadPersons(filepath.Join(t.TempDir(), "absent.csv"), SurveyOptions{})
	assert.Error(t, err)
}
