package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shfCSV = `Global;Año;Trimestre;Indice
Nacional;2019;3;110,2
ZM Monterrey;2019;3;121,5
ZM Monterrey;2019;4;123,0
ZM Valle México;2019;3;140,7
ZM PueblaTlax;2019;3;98,4
Guanajuato;2019;3;95,0
`

func TestParseHousingIndex(t *testing.T) {
	out, err := ParseHousingIndex(strings.NewReader(shfCSV))
	require.NoError(t, err)

	// Non-metro rows dropped, rewrites applied.
	require.Len(t, out, 3)

	mty := out["Monterrey"]
	require.NotNil(t, mty)
	assert.InDelta(t, 121.5, mty["2019Q3"], 1e-9)
	assert.InDelta(t, 123.0, mty["2019Q4"], 1e-9)

	assert.InDelta(t, 140.7, out["Ciudad de México"]["2019Q3"], 1e-9)
	assert.InDelta(t, 98.4, out["Ciudad de Puebla"]["2019Q3"], 1e-9)

	_, ok := out["Nacional"]
	assert.False(t, ok)
}

func TestParseHousingIndexMissingColumn(t *testing.T) {
	_, err := ParseHousingIndex(strings.NewReader("Global;Año;Indice\nZM X;2019;1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Trimestre")
}
