package ingest

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seriesHTML mimics the statistics office export: six filler rows, a year
// header, a quarter header with footnote text, then city rows.
const seriesHTML = `<html><body><table>
<tr><td>Indicador</td></tr>
<tr><td></td></tr>
<tr><td></td></tr>
<tr><td></td></tr>
<tr><td></td></tr>
<tr><td></td></tr>
<tr><td></td><td>2019</td><td>2019</td><td>2020</td></tr>
<tr><td></td><td>3</td><td>4</td><td>1 p/</td></tr>
<tr><td>&Aacute;reas metropolitanas</td><td>1</td><td>2</td><td>3</td></tr>
<tr><td>Ciudad de Monterrey</td><td>58,3</td><td>59,1</td><td>No aplica</td></tr>
<tr><td>Ciudad de M&eacute;xico</td><td>55,0</td><td>54,2</td><td>53,9</td></tr>
<tr><td></td><td>1</td><td>2</td><td>3</td></tr>
</table></body></html>`

func TestParseSeriesTable(t *testing.T) {
	table, err := ParseSeriesTable(strings.NewReader(seriesHTML), HTMLTableOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"2019Q3", "2019Q4", "2020Q1"}, table.TimePoints)
	require.Len(t, table.Cities, 2)

	mty := table.Series("Ciudad de Monterrey")
	require.NotNil(t, mty)
	assert.InDelta(t, 58.3, mty["2019Q3"], 1e-9)
	assert.InDelta(t, 59.1, mty["2019Q4"], 1e-9)
	assert.True(t, math.IsNaN(mty["2020Q1"]))

	cdmx := table.Series("Ciudad de México")
	require.NotNil(t, cdmx)
	assert.InDelta(t, 53.9, cdmx["2020Q1"], 1e-9)
}

func TestParseSeriesTableSkipsAggregateRow(t *testing.T) {
	table, err := ParseSeriesTable(strings.NewReader(seriesHTML), HTMLTableOptions{})
	require.NoError(t, err)
	assert.Nil(t, table.Series("Áreas metropolitanas"))
}

func TestParseSeriesTableTooShort(t *testing.T) {
	_, err := ParseSeriesTable(strings.NewReader("<table><tr><td>x</td></tr></table>"), HTMLTableOptions{})
	assert.Error(t, err)
}

func TestSeriesTableValue(t *testing.T) {
	table, err := ParseSeriesTable(strings.NewReader(seriesHTML), HTMLTableOptions{})
	require.NoError(t, err)

	assert.InDelta(t, 55.0, table.Value("Ciudad de México", "2019Q3"), 1e-9)
	assert.True(t, math.IsNaN(table.Value("Ciudad de México", "2030Q1")))
	assert.True(t, math.IsNaN(table.Value("No such city", "2019Q3")))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"58,3", 58.3},
		{"1.234,56", 1234.56},
		{"42", 42},
		{" 7.5 ", 7.5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ParseNumber(tt.in), 1e-9, tt.in)
	}

	for _, in := range []string{"", "No aplica", "ND", "abc"} {
		assert.True(t, math.IsNaN(ParseNumber(in)), in)
	}
}
